package client

import (
	"context"
	"encoding/json"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/app"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/crypto"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/approval"
	"github.com/iov-one/treasury/x/cash"
	"github.com/iov-one/treasury/x/events"
	"github.com/iov-one/treasury/x/ledger"
	"github.com/iov-one/treasury/x/sigs"
)

// queryJSON runs an abci query and decodes its JSON response into dest.
func (c *Client) queryJSON(path string, data []byte, dest interface{}) error {
	res := c.Query(RequestQuery{Path: path, Data: data})
	if res.Code != 0 {
		return errors.ABCIError(res.Code, res.Log)
	}
	if err := json.Unmarshal(res.Value, dest); err != nil {
		return errors.Wrapf(errors.ErrInvalidModel, "decode %s: %s", path, err)
	}
	return nil
}

// Balance returns the funds held by the wallet.
func (c *Client) Balance(ctx context.Context) (coin.Amount, error) {
	var res approval.BalanceResponse
	if err := c.queryJSON("/balance", nil, &res); err != nil {
		return 0, err
	}
	return res.Balance, nil
}

// Owners returns the owner set, threshold and execution rule.
func (c *Client) Owners(ctx context.Context) (*approval.OwnersResponse, error) {
	var res approval.OwnersResponse
	if err := c.queryJSON("/owners", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Transactions returns every ledger entry, ordered by index.
func (c *Client) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	var res []ledger.Transaction
	if err := c.queryJSON("/transactions", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Transaction returns the ledger entry at index.
func (c *Client) Transaction(ctx context.Context, index uint64) (*ledger.Transaction, error) {
	var res ledger.Transaction
	if err := c.queryJSON("/transactions", orm.EncodeSequence(index), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Signed tells whether owner approved the transaction at index.
func (c *Client) Signed(ctx context.Context, index uint64, owner treasury.Address) (bool, error) {
	data := append(orm.EncodeSequence(index), owner...)
	var res approval.SignatureResponse
	if err := c.queryJSON("/signatures", data, &res); err != nil {
		return false, err
	}
	return res.Signed, nil
}

// Events returns the event log starting at sequence from.
func (c *Client) Events(ctx context.Context, from uint64) ([]events.Event, error) {
	var res []events.Event
	if err := c.queryJSON("/events", orm.EncodeSequence(from), &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Account returns the cash balance of addr.
func (c *Client) Account(ctx context.Context, addr treasury.Address) (coin.Amount, error) {
	var res cash.Account
	if err := c.queryJSON("/accounts", addr, &res); err != nil {
		return 0, err
	}
	return res.Amount, nil
}

// NextSequence returns the sequence the next transaction of addr must be
// signed with.
func (c *Client) NextSequence(ctx context.Context, addr treasury.Address) (int64, error) {
	var res sigs.SequenceResponse
	if err := c.queryJSON("/sequence", addr, &res); err != nil {
		return 0, err
	}
	return res.Sequence, nil
}

// SignAndCommit wraps msg in a transaction signed by key with its next
// sequence, then waits until the transaction is in a block. A rejected
// transaction is reported through the returned error.
func (c *Client) SignAndCommit(ctx context.Context, key crypto.PrivateKey, msg treasury.Msg) (*treasury.DeliverResult, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := c.NextSequence(ctx, key.Address())
	if err != nil {
		return nil, err
	}
	tx := &app.Tx{Msg: msg}
	if err := tx.Sign(key, status.ChainID, seq); err != nil {
		return nil, err
	}
	res, err := c.CommitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Result, nil
}
