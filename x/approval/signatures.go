package approval

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Signature records that an owner approved a transaction.
type Signature struct {
	Index uint64           `json:"index"`
	Owner treasury.Address `json:"owner"`
}

var _ orm.Model = (*Signature)(nil)

// Validate ensures the owner is set.
func (s *Signature) Validate() error {
	if err := s.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

// signatureSet is the set of (index, owner) pairs that were signed. Members
// are never removed.
type signatureSet struct {
	bucket orm.Bucket
}

func newSignatureSet() signatureSet {
	return signatureSet{bucket: orm.NewBucket("sig")}
}

func signatureID(index uint64, owner treasury.Address) []byte {
	return append(orm.EncodeSequence(index), owner...)
}

func (s signatureSet) Has(db treasury.ReadOnlyKVStore, index uint64, owner treasury.Address) (bool, error) {
	return s.bucket.Has(db, signatureID(index, owner))
}

func (s signatureSet) Add(db treasury.KVStore, index uint64, owner treasury.Address) error {
	sig := Signature{Index: index, Owner: owner}
	return s.bucket.Save(db, signatureID(index, owner), &sig)
}
