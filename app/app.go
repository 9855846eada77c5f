package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Application is the ABCI application of the wallet.
//
// Errors on ABCI steps that do not take user input (InitChain, Commit) are
// handled as panics, as tendermint offers no way to handle them gracefully.
type Application struct {
	// mu serializes all ABCI calls. Tendermint already calls the
	// application sequentially.
	mu sync.Mutex

	logger log.Logger

	// name is what is returned from abci.Info
	name string

	store       *CommitStore
	handler     treasury.Handler
	queryRouter treasury.QueryRouter
	initializer treasury.Initializer

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string
	height  int64
	debug   bool
}

var _ abci.Application = (*Application)(nil)

// NewApplication loads the application state from db.
func NewApplication(
	name string,
	db treasury.CommitKVStore,
	handler treasury.Handler,
	queryRouter treasury.QueryRouter,
	initializer treasury.Initializer,
	debug bool,
) (*Application, error) {
	cs, err := NewCommitStore(db)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(cs.DeliverStore())
	if err != nil {
		return nil, err
	}
	info, err := cs.CommitInfo()
	if err != nil {
		return nil, err
	}
	return &Application{
		logger:      log.NewNopLogger(),
		name:        name,
		store:       cs,
		handler:     handler,
		queryRouter: queryRouter,
		initializer: initializer,
		chainID:     chainID,
		height:      info.Version,
		debug:       debug,
	}, nil
}

// WithLogger sets the logger on the Application and returns it,
// to make it easy to chain in initialization
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	return a
}

// ChainID returns the chain id set at genesis, or an empty string before
// InitChain.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// Info implements abci.Application. It returns the height and hash,
// as well as the abci name and version.
func (a *Application) Info(req abci.RequestInfo) abci.ResponseInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	info, err := a.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	a.logger.Info("Info synced",
		"height", info.Version,
		"hash", fmt.Sprintf("%X", info.Hash))

	return abci.ResponseInfo{
		Data:             a.name,
		Version:          treasury.Version(),
		LastBlockHeight:  info.Version,
		LastBlockAppHash: info.Hash,
	}
}

// SetOption is not supported.
func (a *Application) SetOption(req abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain stores the chain id and loads the genesis app_state.
func (a *Application) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.initChain(req.ChainId, req.AppStateBytes); err != nil {
		panic(err)
	}
	a.logger.Info("Genesis loaded", "chain_id", a.chainID)
	return abci.ResponseInitChain{}
}

func (a *Application) initChain(chainID string, appState []byte) error {
	if a.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "app state previously loaded for chain %s", a.chainID)
	}
	if len(appState) == 0 {
		return errors.Wrap(errors.ErrInvalidConfiguration, "app_state not set in genesis.json")
	}
	var opts treasury.Options
	if err := json.Unmarshal(appState, &opts); err != nil {
		return errors.Wrapf(errors.ErrInvalidConfiguration, "app_state: %s", err)
	}

	db := a.store.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	if err := a.initializer.FromGenesis(opts, db); err != nil {
		return err
	}
	a.chainID = chainID
	return nil
}

// BeginBlock records the height of the block being processed.
func (a *Application) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.height = req.Header.GetHeight()
	return abci.ResponseBeginBlock{}
}

// EndBlock does nothing; the validator set is not managed by the wallet.
func (a *Application) EndBlock(req abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// CheckTx validates the transaction against the check state. Sequences
// are incremented in the check state, so several transactions of one signer
// may wait in the mempool.
func (a *Application) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.run(a.store.CheckStore(), txBytes, "check_tx",
		func(ctx context.Context, db treasury.CacheableKVStore, tx treasury.Tx) error {
			return a.handler.Check(ctx, db, tx)
		})
	code, info := errors.ABCIInfo(err, a.debug)
	return abci.ResponseCheckTx{Code: code, Log: info}
}

// DeliverTx processes the transaction. Changes are kept only if it succeeds.
func (a *Application) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	a.mu.Lock()
	defer a.mu.Unlock()

	var res *treasury.DeliverResult
	err := a.run(a.store.DeliverStore(), txBytes, "deliver_tx",
		func(ctx context.Context, db treasury.CacheableKVStore, tx treasury.Tx) error {
			var err error
			res, err = a.handler.Deliver(ctx, db, tx)
			return err
		})
	if err != nil {
		code, info := errors.ABCIInfo(err, a.debug)
		return abci.ResponseDeliverTx{Code: code, Log: info}
	}
	return abci.ResponseDeliverTx{
		Data: res.Data,
		Log:  res.Log,
		Tags: res.Tags,
	}
}

// run decodes and authenticates the transaction and calls fn within a cache
// wrap of db. The cache is written only if fn succeeds. Panics are
// recovered and returned as ErrPanic.
func (a *Application) run(
	db treasury.CacheableKVStore,
	txBytes []byte,
	call string,
	fn func(context.Context, treasury.CacheableKVStore, treasury.Tx) error,
) (err error) {
	defer errors.Recover(&err)

	tx, err := DecodeTx(txBytes)
	if err != nil {
		return err
	}

	cache := db.CacheWrap()
	defer func() {
		if err != nil {
			cache.Discard()
		}
	}()

	signer, err := sigs.VerifyTx(cache, tx, a.chainID)
	if err != nil {
		return err
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return err
	}

	ctx := treasury.WithLogger(context.Background(), a.logger)
	ctx = treasury.WithChainID(ctx, a.chainID)
	ctx = treasury.WithHeight(ctx, a.height)
	ctx = treasury.WithLogInfo(ctx, "call", call, "path", msg.Path(), "signer", signer)

	if err := fn(ctx, cache, authenticatedTx{Tx: tx, signer: signer}); err != nil {
		treasury.GetLogger(ctx).Debug("transaction rejected", "err", err)
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

/*
Query gets data from the app store.

Path selects a registered query handler, Data is passed to it as is. A
"?" suffix of the path is ignored. The response value is produced by the
handler, and Height is the last committed block.
*/
func (a *Application) Query(req abci.RequestQuery) abci.ResponseQuery {
	a.mu.Lock()
	defer a.mu.Unlock()

	path := req.Path
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	qh := a.queryRouter.Handler(path)
	if qh == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path), a.debug)
	}

	info, err := a.store.CommitInfo()
	if err != nil {
		return queryError(err, a.debug)
	}
	value, err := qh.Query(a.store.QueryStore(), req.Data)
	if err != nil {
		return queryError(err, a.debug)
	}
	return abci.ResponseQuery{
		Key:    req.Data,
		Value:  value,
		Height: info.Version,
	}
}

func queryError(err error, debug bool) abci.ResponseQuery {
	code, info := errors.ABCIInfo(err, debug)
	return abci.ResponseQuery{Code: code, Log: info}
}

// Commit writes the block state and returns the app hash.
func (a *Application) Commit() abci.ResponseCommit {
	a.mu.Lock()
	defer a.mu.Unlock()

	commitID, err := a.store.Commit()
	if err != nil {
		panic(err)
	}
	a.logger.Debug("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)
	return abci.ResponseCommit{Data: commitID.Hash}
}
