package app

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/approval"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/sigs"
	amino "github.com/tendermint/go-amino"
)

var cdc = amino.NewCodec()

func init() {
	cdc.RegisterInterface((*treasury.Msg)(nil), nil)
	cdc.RegisterConcrete(&approval.DepositMsg{}, "treasury/DepositMsg", nil)
	cdc.RegisterConcrete(&approval.RequestTransactionMsg{}, "treasury/RequestTransactionMsg", nil)
	cdc.RegisterConcrete(&approval.ApproveTransactionMsg{}, "treasury/ApproveTransactionMsg", nil)
	cdc.RegisterConcrete(&cash.SendMsg{}, "cash/SendMsg", nil)
}

// Tx is the transaction format of the wallet: a single message signed by
// its sender.
type Tx struct {
	Msg       treasury.Msg    `json:"msg"`
	Signature *sigs.Signature `json:"signature"`
}

var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg returns the message of the transaction.
func (tx *Tx) GetMsg() (treasury.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "missing message")
	}
	return tx.Msg, nil
}

// GetSignBytes returns the amino encoding of the message.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	bz, err := cdc.MarshalBinaryBare(msg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return bz, nil
}

// GetSignature returns the signature of the sender.
func (tx *Tx) GetSignature() *sigs.Signature {
	return tx.Signature
}

// Sign sets the signature of tx, created by key for given chain and
// sequence.
func (tx *Tx) Sign(key crypto.PrivateKey, chainID string, seq int64) error {
	sig, err := sigs.SignTx(key, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signature = sig
	return nil
}

// Marshal returns the binary form of tx.
func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return bz, nil
}

// DecodeTx reads the binary form of a transaction.
func DecodeTx(bz []byte) (*Tx, error) {
	var tx Tx
	if err := cdc.UnmarshalBinaryBare(bz, &tx); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "decode tx: %s", err)
	}
	return &tx, nil
}

// authenticatedTx is a Tx whose signature was verified.
type authenticatedTx struct {
	*Tx
	signer treasury.Address
}

var _ treasury.Tx = authenticatedTx{}

func (tx authenticatedTx) Signer() treasury.Address {
	return tx.signer
}
