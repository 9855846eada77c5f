package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
)

// SignCodeV1 prefixes every signed payload. A new layout gets a new code.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// SignedTx represents a transaction that contains a signature, which can be
// verified by VerifyTx.
type SignedTx interface {
	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetSignature returns the signature of the signer of the Msg.
	GetSignature() *Signature
}

// VerifyTx checks the signature of the transaction and increments the
// sequence of its signer in db. It returns the address of the signer.
func VerifyTx(db treasury.KVStore, tx SignedTx, chainID string) (treasury.Address, error) {
	sig := tx.GetSignature()
	if sig == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return VerifySignature(db, sig, bz, chainID)
}

// VerifySignature checks sig over signBytes bound to chainID. On success the
// signer's sequence is advanced and saved.
func VerifySignature(db treasury.KVStore, sig *Signature, signBytes []byte, chainID string) (treasury.Address, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	bucket := NewBucket()
	user, err := bucket.GetOrCreate(db, sig.PubKey)
	if err != nil {
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.PubKey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, user); err != nil {
		return nil, err
	}
	return user.PubKey.Address(), nil
}

// BuildSignBytes returns the sha512 digest that is signed for a transaction.
// The digest covers, in order:
//
//	SignCodeV1 (4 bytes)
//	chain id length (1 byte) and chain id
//	sequence (8 bytes, big endian)
//	the transaction sign bytes
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	switch {
	case seq < 0:
		return nil, errors.Wrap(errors.ErrInvalidSequence, "negative")
	case !treasury.IsValidChainID(chainID):
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}

	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], uint64(seq))

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{byte(len(chainID))})
	h.Write([]byte(chainID))
	h.Write(seqBytes[:])
	h.Write(signBytes)
	return h.Sum(nil), nil
}

// SignTx signs tx with key for the given chain and sequence.
func SignTx(key crypto.PrivateKey, tx SignedTx, chainID string, seq int64) (*Signature, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	toSign, err := BuildSignBytes(signBytes, chainID, seq)
	if err != nil {
		return nil, err
	}
	return &Signature{
		PubKey:    key.PublicKey(),
		Signature: key.Sign(toSign),
		Sequence:  seq,
	}, nil
}

// NextSequence returns the sequence the next transaction of addr must use.
func NextSequence(db treasury.ReadOnlyKVStore, addr treasury.Address) (int64, error) {
	var u UserData
	if _, err := NewBucket().Get(db, addr, &u); err != nil {
		return 0, err
	}
	return u.Sequence, nil
}
