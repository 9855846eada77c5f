package ledger

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Transaction is one requested transfer.
type Transaction struct {
	Index      uint64           `json:"index"`
	Recipient  treasury.Address `json:"recipient"`
	Requester  treasury.Address `json:"requester"`
	Value      coin.Amount      `json:"value"`
	Signatures uint32           `json:"signatures"`
	Executed   bool             `json:"executed"`
}

var _ orm.Model = (*Transaction)(nil)

// Validate checks the addresses of the transaction.
func (t *Transaction) Validate() error {
	if err := t.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := t.Requester.Validate(); err != nil {
		return errors.Wrap(err, "requester")
	}
	return nil
}

// Copy returns a deep copy of the transaction.
func (t *Transaction) Copy() *Transaction {
	c := *t
	c.Recipient = t.Recipient.Clone()
	c.Requester = t.Requester.Clone()
	return &c
}

// canBecome returns an error if next is not a legal successor state of t.
func (t *Transaction) canBecome(next *Transaction) error {
	switch {
	case next.Index != t.Index:
		return errors.Wrap(errors.ErrImmutable, "index")
	case next.Value != t.Value:
		return errors.Wrap(errors.ErrImmutable, "value")
	case !next.Recipient.Equals(t.Recipient):
		return errors.Wrap(errors.ErrImmutable, "recipient")
	case !next.Requester.Equals(t.Requester):
		return errors.Wrap(errors.ErrImmutable, "requester")
	case t.Executed && !next.Executed:
		return errors.Wrap(errors.ErrImmutable, "executed transaction cannot be reverted")
	case next.Signatures < t.Signatures:
		return errors.Wrap(errors.ErrImmutable, "signatures cannot be withdrawn")
	}
	return nil
}
