package app

import "github.com/iov-one/treasury"

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...treasury.Initializer) treasury.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []treasury.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts treasury.Options, db treasury.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
