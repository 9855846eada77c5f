package cash

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/orm"
)

// Account holds the funds of a single address.
type Account struct {
	Address treasury.Address `json:"address"`
	Amount  coin.Amount      `json:"amount"`
}

var _ orm.Model = (*Account)(nil)

// Validate ensures the account owner is a valid address.
func (a *Account) Validate() error {
	return a.Address.Validate()
}
