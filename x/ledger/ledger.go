package ledger

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Authorizer is the capability check guarding Append. It is implemented by
// owners.Registry.
type Authorizer interface {
	RequireOwner(treasury.Address) error
}

// Funds reports the funds currently available. It is implemented by
// balance.Account.
type Funds interface {
	Balance(db treasury.ReadOnlyKVStore) (coin.Amount, error)
}

// Ledger stores transactions by index.
type Ledger struct {
	funds   Funds
	entries orm.Bucket
	length  orm.Sequence
}

// NewLedger returns a ledger checking requests against given funds.
func NewLedger(funds Funds) Ledger {
	return Ledger{
		funds:   funds,
		entries: orm.NewBucket("tx"),
		length:  orm.NewSequence("tx", "length"),
	}
}

// Append records a new transfer request from requester. The requester must
// pass the auth check and value must not exceed the funds available right
// now. Funds are not reserved: they are checked again on approval.
func (l Ledger) Append(db treasury.KVStore, auth Authorizer, requester, recipient treasury.Address, value coin.Amount) (*Transaction, error) {
	if err := auth.RequireOwner(requester); err != nil {
		return nil, err
	}
	if err := recipient.Validate(); err != nil {
		return nil, errors.Wrap(err, "recipient")
	}
	available, err := l.funds.Balance(db)
	if err != nil {
		return nil, err
	}
	if value > available {
		return nil, errors.Wrapf(errors.ErrInsufficientFunds,
			"requested %s, available %s", value, available)
	}

	index, err := l.length.Next(db)
	if err != nil {
		return nil, err
	}
	tx := &Transaction{
		Index:     index,
		Recipient: recipient.Clone(),
		Requester: requester.Clone(),
		Value:     value,
	}
	if err := l.entries.Save(db, orm.EncodeSequence(index), tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// Len returns the number of transactions in the ledger.
func (l Ledger) Len(db treasury.ReadOnlyKVStore) (uint64, error) {
	return l.length.Current(db)
}

// Get returns the transaction at index. It fails with ErrNotFound if the
// index is out of range.
func (l Ledger) Get(db treasury.ReadOnlyKVStore, index uint64) (*Transaction, error) {
	var tx Transaction
	found, err := l.entries.Get(db, orm.EncodeSequence(index), &tx)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.Wrapf(errors.ErrNotFound, "transaction %d", index)
	}
	return &tx, nil
}

// All returns every transaction, ordered by index. The returned slice is a
// snapshot: later changes to the ledger are not reflected in it.
func (l Ledger) All(db treasury.ReadOnlyKVStore) ([]Transaction, error) {
	n, err := l.Len(db)
	if err != nil {
		return nil, err
	}
	res := make([]Transaction, 0, n)
	for i := uint64(0); i < n; i++ {
		tx, err := l.Get(db, i)
		if err != nil {
			return nil, errors.Wrap(err, "ledger is corrupted")
		}
		res = append(res, *tx)
	}
	return res, nil
}

// Update stores a new state of an existing transaction. Only the signature
// count may grow and executed may go from false to true; any other change
// fails with ErrImmutable.
func (l Ledger) Update(db treasury.KVStore, tx *Transaction) error {
	current, err := l.Get(db, tx.Index)
	if err != nil {
		return err
	}
	if err := current.canBecome(tx); err != nil {
		return errors.Wrapf(err, "transaction %d", tx.Index)
	}
	return l.entries.Save(db, orm.EncodeSequence(tx.Index), tx)
}
