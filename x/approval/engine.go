package approval

import (
	"context"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/balance"
	"github.com/iov-one/treasury/x/events"
	"github.com/iov-one/treasury/x/ledger"
	"github.com/iov-one/treasury/x/owners"
)

// Transferer moves executed funds out of the wallet.
//
// db is the cache wrap holding the approval that triggered the transfer.
// The transaction is already marked executed and the balance debited in it,
// so an implementation calling back into the engine sees the final state.
// Returning an error discards the whole approval.
type Transferer interface {
	Transfer(ctx context.Context, db treasury.CacheableKVStore, to treasury.Address, amount coin.Amount) error
}

// Source provides the funds of a deposit.
type Source interface {
	Withdraw(db treasury.KVStore, from treasury.Address, amount coin.Amount) error
}

// Approval describes the outcome of a successful ApproveTransaction call.
type Approval struct {
	Transaction ledger.Transaction
	// Executed is true if this approval executed the transaction.
	Executed bool
	Events   []events.Event
}

// Engine orchestrates the wallet components. It keeps no state of its own:
// everything is read from and written to the store passed to each call.
type Engine struct {
	balance    balance.Account
	ledger     ledger.Ledger
	signatures signatureSet
	log        events.Log
	source     Source
	transfer   Transferer
}

// NewEngine returns an engine paying executed transfers through transfer.
// source may be nil, in which case deposits are credited without being
// withdrawn from anywhere.
func NewEngine(source Source, transfer Transferer) *Engine {
	acc := balance.NewAccount()
	return &Engine{
		balance:    acc,
		ledger:     ledger.NewLedger(acc),
		signatures: newSignatureSet(),
		log:        events.NewLog(),
		source:     source,
		transfer:   transfer,
	}
}

// Deposit moves amount from the account of from into the wallet. Anyone
// may deposit. Nothing is written to db unless the deposit succeeds.
func (e *Engine) Deposit(ctx context.Context, db treasury.CacheableKVStore, from treasury.Address, amount coin.Amount) (events.Event, error) {
	if err := from.Validate(); err != nil {
		return events.Event{}, errors.Wrap(err, "depositor")
	}

	cache := db.CacheWrap()
	evt, total, err := e.deposit(cache, from, amount)
	if err != nil {
		cache.Discard()
		return events.Event{}, err
	}
	if err := cache.Write(); err != nil {
		return events.Event{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	treasury.GetLogger(ctx).Debug("deposit",
		"account", from, "value", amount, "balance", total)
	return evt, nil
}

func (e *Engine) deposit(db treasury.KVStore, from treasury.Address, amount coin.Amount) (events.Event, coin.Amount, error) {
	if e.source != nil {
		if err := e.source.Withdraw(db, from, amount); err != nil {
			return events.Event{}, 0, err
		}
	}
	total, err := e.balance.Credit(db, amount)
	if err != nil {
		return events.Event{}, 0, err
	}
	evt, err := e.log.Emit(db, events.Deposited(from, amount))
	if err != nil {
		return events.Event{}, 0, err
	}
	return evt, total, nil
}

// RequestTransaction appends a new transfer request to the ledger. Only an
// owner may request, and value must not exceed the current balance.
func (e *Engine) RequestTransaction(ctx context.Context, db treasury.KVStore, requester, recipient treasury.Address, value coin.Amount) (*ledger.Transaction, error) {
	reg, err := owners.Load(db)
	if err != nil {
		return nil, err
	}
	tx, err := e.ledger.Append(db, reg, requester, recipient, value)
	if err != nil {
		return nil, err
	}
	treasury.GetLogger(ctx).Debug("transaction requested",
		"index", tx.Index, "requester", requester, "recipient", recipient, "value", value)
	return tx, nil
}

// CheckApproval runs every precondition of ApproveTransaction without
// modifying the store. Failures are reported in this order: ErrUnauthorized,
// ErrNotFound, ErrAlreadyExecuted, ErrAlreadySigned, ErrInsufficientFunds.
func (e *Engine) CheckApproval(db treasury.ReadOnlyKVStore, signer treasury.Address, index uint64) error {
	_, _, err := e.checkApproval(db, signer, index)
	return err
}

func (e *Engine) checkApproval(db treasury.ReadOnlyKVStore, signer treasury.Address, index uint64) (*owners.Registry, *ledger.Transaction, error) {
	reg, err := owners.Load(db)
	if err != nil {
		return nil, nil, err
	}
	if err := reg.RequireOwner(signer); err != nil {
		return nil, nil, err
	}
	tx, err := e.ledger.Get(db, index)
	if err != nil {
		return nil, nil, err
	}
	if tx.Executed {
		return nil, nil, errors.Wrapf(errors.ErrAlreadyExecuted, "transaction %d", index)
	}
	signed, err := e.signatures.Has(db, index, signer)
	if err != nil {
		return nil, nil, err
	}
	if signed {
		return nil, nil, errors.Wrapf(errors.ErrAlreadySigned, "%s on transaction %d", signer, index)
	}
	available, err := e.balance.Balance(db)
	if err != nil {
		return nil, nil, err
	}
	if tx.Value > available {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientFunds,
			"transaction %d requires %s, available %s", index, tx.Value, available)
	}
	return reg, tx, nil
}

// ApproveTransaction records the signature of signer on the transaction at
// index and executes the transaction once the execution rule is satisfied.
//
// All changes are made in a cache wrap of db. Execution marks the
// transaction and debits the balance before the Transferer is called. If
// the transfer fails, the cache wrap is discarded and ErrTransferFailed is
// returned: db is left exactly as it was before the call.
func (e *Engine) ApproveTransaction(ctx context.Context, db treasury.CacheableKVStore, signer treasury.Address, index uint64) (*Approval, error) {
	reg, tx, err := e.checkApproval(db, signer, index)
	if err != nil {
		return nil, err
	}
	rule, err := loadRule(db)
	if err != nil {
		return nil, err
	}

	cache := db.CacheWrap()
	res, err := e.approve(ctx, cache, reg, rule, tx, signer)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return res, nil
}

func (e *Engine) approve(
	ctx context.Context,
	db treasury.CacheableKVStore,
	reg *owners.Registry,
	rule Rule,
	tx *ledger.Transaction,
	signer treasury.Address,
) (*Approval, error) {
	log := treasury.GetLogger(ctx).With("index", tx.Index)

	if err := e.signatures.Add(db, tx.Index, signer); err != nil {
		return nil, err
	}
	tx.Signatures++
	if err := e.ledger.Update(db, tx); err != nil {
		return nil, err
	}
	signed, err := e.log.Emit(db, events.Signed(signer, tx.Index))
	if err != nil {
		return nil, err
	}
	res := &Approval{Events: []events.Event{signed}}
	log.Debug("transaction signed", "owner", signer, "signatures", tx.Signatures)

	if !rule.Triggers(tx.Signatures, reg.Threshold()) {
		res.Transaction = *tx
		return res, nil
	}

	// Effects first: a transfer calling back into the engine must find
	// the transaction executed and the funds gone.
	tx.Executed = true
	if err := e.ledger.Update(db, tx); err != nil {
		return nil, err
	}
	if _, err := e.balance.Debit(db, tx.Value); err != nil {
		return nil, err
	}
	if err := e.transfer.Transfer(ctx, db, tx.Recipient, tx.Value); err != nil {
		log.Error("transfer failed", "recipient", tx.Recipient, "value", tx.Value, "err", err)
		return nil, errors.Wrapf(errors.ErrTransferFailed, "transaction %d: %s", tx.Index, err)
	}
	executed, err := e.log.Emit(db, events.Executed(signer, tx.Index))
	if err != nil {
		return nil, err
	}
	log.Info("transaction executed", "recipient", tx.Recipient, "value", tx.Value)

	res.Transaction = *tx
	res.Executed = true
	res.Events = append(res.Events, executed)
	return res, nil
}

// Transactions returns the whole ledger in index order.
func (e *Engine) Transactions(db treasury.ReadOnlyKVStore) ([]ledger.Transaction, error) {
	return e.ledger.All(db)
}

// Transaction returns a single ledger entry.
func (e *Engine) Transaction(db treasury.ReadOnlyKVStore, index uint64) (*ledger.Transaction, error) {
	return e.ledger.Get(db, index)
}

// Signed returns true if owner signed the transaction at index.
func (e *Engine) Signed(db treasury.ReadOnlyKVStore, index uint64, owner treasury.Address) (bool, error) {
	return e.signatures.Has(db, index, owner)
}

// Balance returns the funds held by the wallet.
func (e *Engine) Balance(db treasury.ReadOnlyKVStore) (coin.Amount, error) {
	return e.balance.Balance(db)
}

// Owners returns the owner registry of the wallet.
func (e *Engine) Owners(db treasury.ReadOnlyKVStore) (*owners.Registry, error) {
	return owners.Load(db)
}

// Rule returns the execution rule of the wallet.
func (e *Engine) Rule(db treasury.ReadOnlyKVStore) (Rule, error) {
	return loadRule(db)
}

// Events returns the event log starting with the event numbered from.
func (e *Engine) Events(db treasury.ReadOnlyKVStore, from uint64) ([]events.Event, error) {
	return e.log.Since(db, from)
}
