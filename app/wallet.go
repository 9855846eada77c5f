package app

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/x/approval"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/sigs"
)

// Name is returned by abci.Info.
const Name = "treasury"

// Routes returns the handler of every message the wallet accepts.
func Routes(engine *approval.Engine, ctrl cash.Controller) *Router {
	r := NewRouter()
	approval.RegisterRoutes(r, engine)
	cash.RegisterRoutes(r, ctrl)
	return r
}

// Queries returns the handlers of every query the wallet answers.
func Queries(engine *approval.Engine, ctrl cash.Controller) *QueryRouter {
	qr := NewQueryRouter()
	approval.RegisterQuery(qr, engine)
	cash.RegisterQuery(qr, ctrl)
	sigs.RegisterQuery(qr)
	return qr
}

// Initializers returns the genesis initializers of the wallet.
func Initializers() treasury.Initializer {
	return ChainInitializers(approval.Initializer{}, cash.Initializer{})
}

// NewWallet builds the wallet application on top of db. Deposits are taken
// from cash accounts and executed transactions are paid into them.
func NewWallet(db treasury.CommitKVStore, debug bool) (*Application, error) {
	ctrl := cash.NewController()
	engine := approval.NewEngine(ctrl, ctrl)
	return NewApplication(Name, db,
		Routes(engine, ctrl),
		Queries(engine, ctrl),
		Initializers(),
		debug)
}
