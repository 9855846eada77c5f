package cash

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
type GenesisAccount struct {
	Address treasury.Address `json:"address"`
	Amount  coin.Amount      `json:"amount"`
}

// Initializer fulfils the Initializer interface to load data from the
// genesis file.
type Initializer struct{}

var _ treasury.Initializer = Initializer{}

// FromGenesis credits every account listed under the "cash" key. The section
// is optional.
func (Initializer) FromGenesis(opts treasury.Options, db treasury.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}
	ctrl := NewController()
	for i, acct := range accts {
		if err := ctrl.Credit(db, acct.Address, acct.Amount); err != nil {
			return errors.Wrapf(err, "genesis account %d", i)
		}
	}
	return nil
}
