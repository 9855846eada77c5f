/*
Package balance keeps the single wallet-wide balance of funds available to
requests and approvals.

The balance only changes through Credit, on deposit, and Debit, on execution
of a transaction. Both use checked arithmetic and leave the store untouched
when they fail.
*/
package balance

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// State is the persisted balance.
type State struct {
	Amount coin.Amount `json:"amount"`
}

var _ orm.Model = (*State)(nil)

// Validate always succeeds; any amount is a valid balance.
func (s *State) Validate() error {
	return nil
}

// Account gives access to the wallet balance stored in a KVStore.
type Account struct {
	state orm.Singleton
}

// NewAccount returns the wallet balance account.
func NewAccount() Account {
	return Account{state: orm.NewSingleton("balance")}
}

// Balance returns the current value. A wallet that never received funds
// holds 0.
func (a Account) Balance(db treasury.ReadOnlyKVStore) (coin.Amount, error) {
	var s State
	err := a.state.Load(db, &s)
	switch {
	case errors.ErrNotFound.Is(err):
		return 0, nil
	case err != nil:
		return 0, err
	}
	return s.Amount, nil
}

// Credit adds amount to the balance and returns the new value. It fails with
// ErrOverflow rather than wrapping around.
func (a Account) Credit(db treasury.KVStore, amount coin.Amount) (coin.Amount, error) {
	current, err := a.Balance(db)
	if err != nil {
		return 0, err
	}
	next, err := current.Add(amount)
	if err != nil {
		return 0, errors.Wrap(err, "credit")
	}
	if err := a.state.Save(db, &State{Amount: next}); err != nil {
		return 0, err
	}
	return next, nil
}

// Debit subtracts amount from the balance and returns the new value. It fails
// with ErrInsufficientFunds if amount exceeds the balance.
func (a Account) Debit(db treasury.KVStore, amount coin.Amount) (coin.Amount, error) {
	current, err := a.Balance(db)
	if err != nil {
		return 0, err
	}
	next, err := current.Subtract(amount)
	if err != nil {
		return 0, errors.Wrap(err, "debit")
	}
	if err := a.state.Save(db, &State{Amount: next}); err != nil {
		return 0, err
	}
	return next, nil
}
