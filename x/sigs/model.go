package sigs

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest sequence a client can represent without
// precision loss: Number.MAX_SAFE_INTEGER = 2^53 - 1
const maxSequenceValue = (1 << 53) - 1

// Signature authenticates a transaction.
type Signature struct {
	PubKey    crypto.PublicKey `json:"pub_key"`
	Signature []byte           `json:"signature"`
	Sequence  int64            `json:"sequence"`
}

// Validate ensures the Signature meets basic standards
func (s *Signature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(errors.ErrInvalidSequence, "negative")
	}
	if len(s.PubKey) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing public key")
	}
	if err := s.PubKey.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, err.Error())
	}
	if len(s.Signature) == 0 {
		return errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return nil
}

// UserData is the authentication state of a single signer.
type UserData struct {
	PubKey   crypto.PublicKey `json:"pub_key"`
	Sequence int64            `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

// Validate ensures the sequence is in range and bound to a key.
func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(errors.ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && len(u.PubKey) == 0 {
		return errors.Wrap(errors.ErrInvalidSequence, "needs public key")
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(errors.ErrInvalidSequence, "mismatch expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// Bucket stores UserData by signer address.
type Bucket struct {
	orm.Bucket
}

// NewBucket returns the signer bucket.
func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName)}
}

// GetOrCreate returns the state of the signer of pub. A signer seen for the
// first time starts at sequence 0.
func (b Bucket) GetOrCreate(db treasury.ReadOnlyKVStore, pub crypto.PublicKey) (*UserData, error) {
	var u UserData
	found, err := b.Get(db, pub.Address(), &u)
	if err != nil {
		return nil, err
	}
	if !found {
		return &UserData{PubKey: pub}, nil
	}
	return &u, nil
}

// Save writes the state of the signer owning u.PubKey.
func (b Bucket) Save(db treasury.KVStore, u *UserData) error {
	return b.Bucket.Save(db, u.PubKey.Address(), u)
}
