package cash

import (
	"context"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Controller gives access to the cash accounts. It is the source of wallet
// deposits and the destination of executed wallet transactions.
type Controller struct {
	bucket orm.Bucket
}

// NewController returns a controller over the "cash" bucket.
func NewController() Controller {
	return Controller{bucket: orm.NewBucket("cash")}
}

// Balance returns the funds of addr. An unknown address holds 0.
func (c Controller) Balance(db treasury.ReadOnlyKVStore, addr treasury.Address) (coin.Amount, error) {
	acc, err := c.load(db, addr)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}

// Credit adds amount to the account of addr. It fails with ErrOverflow
// without modifying the account.
func (c Controller) Credit(db treasury.KVStore, addr treasury.Address, amount coin.Amount) error {
	acc, err := c.load(db, addr)
	if err != nil {
		return err
	}
	if acc.Amount, err = acc.Amount.Add(amount); err != nil {
		return errors.Wrapf(err, "credit %s", addr)
	}
	return c.bucket.Save(db, addr, acc)
}

// Withdraw takes amount from the account of addr. It fails with
// ErrInsufficientFunds if the account holds less.
func (c Controller) Withdraw(db treasury.KVStore, addr treasury.Address, amount coin.Amount) error {
	acc, err := c.load(db, addr)
	if err != nil {
		return err
	}
	if acc.Amount, err = acc.Amount.Subtract(amount); err != nil {
		return errors.Wrapf(err, "withdraw from %s", addr)
	}
	return c.bucket.Save(db, addr, acc)
}

// Send moves amount between two accounts.
func (c Controller) Send(db treasury.KVStore, src, dest treasury.Address, amount coin.Amount) error {
	if err := c.Withdraw(db, src, amount); err != nil {
		return err
	}
	return c.Credit(db, dest, amount)
}

// Transfer pays out an executed wallet transaction to the cash account of
// to. An overflowing recipient account fails the transfer.
func (c Controller) Transfer(ctx context.Context, db treasury.CacheableKVStore, to treasury.Address, amount coin.Amount) error {
	if err := c.Credit(db, to, amount); err != nil {
		return err
	}
	treasury.GetLogger(ctx).Debug("cash transfer", "recipient", to, "value", amount)
	return nil
}

func (c Controller) load(db treasury.ReadOnlyKVStore, addr treasury.Address) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account")
	}
	acc := Account{Address: addr}
	if _, err := c.bucket.Get(db, addr, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}
