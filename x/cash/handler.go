package cash

import (
	"context"
	"encoding/json"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/tendermint/tendermint/libs/common"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r treasury.Registry, ctrl Controller) {
	r.Handle(pathSendMsg, SendHandler{ctrl: ctrl})
}

// RegisterQuery registers the /accounts query. Data is the raw address of
// the account, the response is the JSON encoded Account.
func RegisterQuery(qr treasury.QueryRouter, ctrl Controller) {
	qr.Register("/accounts", accountQuery{ctrl: ctrl})
}

// SendHandler processes SendMsg.
type SendHandler struct {
	ctrl Controller
}

var _ treasury.Handler = SendHandler{}

// Check ensures the sender holds enough funds.
func (h SendHandler) Check(ctx context.Context, db treasury.KVStore, tx treasury.Tx) error {
	msg, err := h.validate(tx)
	if err != nil {
		return err
	}
	have, err := h.ctrl.Balance(db, tx.Signer())
	if err != nil {
		return err
	}
	if !have.IsGTE(msg.Amount) {
		return errors.Wrapf(errors.ErrInsufficientFunds, "have %s, need %s", have, msg.Amount)
	}
	return nil
}

// Deliver moves the funds.
func (h SendHandler) Deliver(ctx context.Context, db treasury.CacheableKVStore, tx treasury.Tx) (*treasury.DeliverResult, error) {
	msg, err := h.validate(tx)
	if err != nil {
		return nil, err
	}
	if err := h.ctrl.Send(db, tx.Signer(), msg.Destination, msg.Amount); err != nil {
		return nil, err
	}
	return &treasury.DeliverResult{
		Tags: []common.KVPair{
			{Key: []byte("action"), Value: []byte(pathSendMsg)},
			{Key: []byte("destination"), Value: []byte(msg.Destination.String())},
		},
	}, nil
}

func (h SendHandler) validate(tx treasury.Tx) (*SendMsg, error) {
	raw, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	msg, ok := raw.(*SendMsg)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownMsg, "unexpected message %T", raw)
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid msg")
	}
	return msg, nil
}

type accountQuery struct {
	ctrl Controller
}

func (q accountQuery) Query(db treasury.ReadOnlyKVStore, data []byte) ([]byte, error) {
	addr := treasury.Address(data)
	amount, err := q.ctrl.Balance(db, addr)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(Account{Address: addr, Amount: amount})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return raw, nil
}
