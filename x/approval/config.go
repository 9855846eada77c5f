package approval

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/balance"
	"github.com/iov-one/treasury/x/owners"
)

// Configuration holds the wallet settings that are not part of the owner
// registry.
type Configuration struct {
	Rule Rule `json:"execution_rule"`
}

var _ orm.Model = (*Configuration)(nil)

// Validate ensures the rule is known.
func (c *Configuration) Validate() error {
	return c.Rule.Validate()
}

var configuration = orm.NewSingleton("approval")

// loadRule returns the configured rule. A store without configuration uses
// RuleExceed.
func loadRule(db treasury.ReadOnlyKVStore) (Rule, error) {
	var c Configuration
	err := configuration.Load(db, &c)
	switch {
	case errors.ErrNotFound.Is(err):
		return RuleExceed, nil
	case err != nil:
		return "", err
	}
	return c.Rule, nil
}

// Genesis is the "wallet" section of the genesis file.
type Genesis struct {
	Owners         []treasury.Address `json:"owners"`
	Threshold      uint32             `json:"threshold"`
	ExecutionRule  string             `json:"execution_rule"`
	InitialBalance coin.Amount        `json:"initial_balance"`
}

// Configure sets up a new wallet in db. It fails with
// ErrInvalidConfiguration if the owner set or the rule is invalid and with
// ErrImmutable if db already holds a wallet.
func Configure(db treasury.KVStore, g Genesis) error {
	rule, err := ParseRule(g.ExecutionRule)
	if err != nil {
		return err
	}
	reg, err := owners.NewRegistry(g.Owners, g.Threshold)
	if err != nil {
		return err
	}
	if err := owners.Save(db, reg); err != nil {
		return err
	}
	if err := configuration.Save(db, &Configuration{Rule: rule}); err != nil {
		return err
	}
	if g.InitialBalance > 0 {
		if _, err := balance.NewAccount().Credit(db, g.InitialBalance); err != nil {
			return errors.Wrap(err, "initial balance")
		}
	}
	return nil
}

// Initializer fulfils the Initializer interface to load the wallet from
// the genesis file.
type Initializer struct{}

var _ treasury.Initializer = Initializer{}

// FromGenesis configures the wallet described under the "wallet" key.
// The wallet section is required.
func (Initializer) FromGenesis(opts treasury.Options, db treasury.KVStore) error {
	var g Genesis
	if err := opts.ReadOptions("wallet", &g); err != nil {
		return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}
	return Configure(db, g)
}
