package approval

import (
	"context"
	"fmt"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/events"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r treasury.Registry, e *Engine) {
	r.Handle(pathDepositMsg, DepositHandler{engine: e})
	r.Handle(pathRequestTransactionMsg, RequestTransactionHandler{engine: e})
	r.Handle(pathApproveTransactionMsg, ApproveTransactionHandler{engine: e})
}

// DepositHandler processes DepositMsg.
type DepositHandler struct {
	engine *Engine
}

var _ treasury.Handler = DepositHandler{}

// Check validates the message.
func (h DepositHandler) Check(ctx context.Context, db treasury.KVStore, tx treasury.Tx) error {
	_, err := h.validate(tx)
	return err
}

// Deliver credits the wallet.
func (h DepositHandler) Deliver(ctx context.Context, db treasury.CacheableKVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	msg, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	evt, err := h.engine.Deposit(ctx, db, tx.Signer(), msg.Amount)
	if err != nil {
		return nil, err
	}
	return &treasury.DeliverResult{
		Tags: withAction(pathDepositMsg, evt),
	}, nil
}

func (h DepositHandler) validate(tx treasury.Tx) (*DepositMsg, error) {
	var msg *DepositMsg
	if err := loadMsg(tx, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// RequestTransactionHandler processes RequestTransactionMsg.
type RequestTransactionHandler struct {
	engine *Engine
}

var _ treasury.Handler = RequestTransactionHandler{}

// Check validates the message and ensures the signer is an owner.
func (h RequestTransactionHandler) Check(ctx context.Context, db treasury.KVStore, tx treasury.Tx) error {
	if _, err := h.validate(tx); err != nil {
		return err
	}
	reg, err := h.engine.Owners(db)
	if err != nil {
		return err
	}
	return reg.RequireOwner(tx.Signer())
}

// Deliver appends the request to the ledger. The index of the new
// transaction is returned as data, encoded as 8 big endian bytes.
func (h RequestTransactionHandler) Deliver(ctx context.Context, db treasury.CacheableKVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	msg, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	created, err := h.engine.RequestTransaction(ctx, db, tx.Signer(), msg.Recipient, msg.Value)
	if err != nil {
		return nil, err
	}
	return &treasury.DeliverResult{
		Data: orm.EncodeSequence(created.Index),
		Log:  fmt.Sprintf("transaction %d requested", created.Index),
		Tags: withAction(pathRequestTransactionMsg),
	}, nil
}

func (h RequestTransactionHandler) validate(tx treasury.Tx) (*RequestTransactionMsg, error) {
	var msg *RequestTransactionMsg
	if err := loadMsg(tx, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ApproveTransactionHandler processes ApproveTransactionMsg.
type ApproveTransactionHandler struct {
	engine *Engine
}

var _ treasury.Handler = ApproveTransactionHandler{}

// Check runs all approval preconditions against the current state.
func (h ApproveTransactionHandler) Check(ctx context.Context, db treasury.KVStore, tx treasury.Tx) error {
	msg, err := h.validate(tx)
	if err != nil {
		return err
	}
	return h.engine.CheckApproval(db, tx.Signer(), msg.Index)
}

// Deliver signs the transaction and executes it if the execution rule is
// satisfied.
func (h ApproveTransactionHandler) Deliver(ctx context.Context, db treasury.CacheableKVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	msg, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	res, err := h.engine.ApproveTransaction(ctx, db, tx.Signer(), msg.Index)
	if err != nil {
		return nil, err
	}
	log := fmt.Sprintf("transaction %d signed", msg.Index)
	if res.Executed {
		log = fmt.Sprintf("transaction %d executed", msg.Index)
	}
	return &treasury.DeliverResult{
		Data: orm.EncodeSequence(msg.Index),
		Log:  log,
		Tags: withAction(pathApproveTransactionMsg, res.Events...),
	}, nil
}

func (h ApproveTransactionHandler) validate(tx treasury.Tx) (*ApproveTransactionMsg, error) {
	var msg *ApproveTransactionMsg
	if err := loadMsg(tx, &msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// loadMsg extracts the message of tx into dst, a pointer to a message
// pointer, and validates it.
func loadMsg(tx treasury.Tx, dst interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "load msg")
	}
	var ok bool
	switch dst := dst.(type) {
	case **DepositMsg:
		*dst, ok = msg.(*DepositMsg)
	case **RequestTransactionMsg:
		*dst, ok = msg.(*RequestTransactionMsg)
	case **ApproveTransactionMsg:
		*dst, ok = msg.(*ApproveTransactionMsg)
	}
	if !ok {
		return errors.Wrapf(errors.ErrUnknownMsg, "unexpected message %T", msg)
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid msg")
	}
	return nil
}

const tagAction = "action"

func withAction(path string, evts ...events.Event) []common.KVPair {
	tags := []common.KVPair{{Key: []byte(tagAction), Value: []byte(path)}}
	return append(tags, events.Tags(evts)...)
}
