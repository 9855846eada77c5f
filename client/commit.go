package client

import (
	"context"
	"time"

	"github.com/iov-one/treasury/errors"
)

// indexDelay is how long the node needs after a block event until the
// transactions of that block can be searched and queried.
const indexDelay = 100 * time.Millisecond

// SubscribeTxByID blocks until the transaction with id is delivered in a
// block. Cancel ctx to stop waiting.
func (c *Client) SubscribeTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	txs := make(chan CommitResult, 1)
	if err := c.SubscribeTx(ctx, QueryTxByID(id), txs); err != nil {
		return nil, err
	}
	res, ok := <-txs
	if !ok {
		return nil, errors.Wrapf(errors.ErrTimeout, "tx %X not delivered", id)
	}
	return &res, nil
}

// WatchTx waits for the transaction with id to be in a block. A transaction
// committed before the call is found through the index, so the subscription
// started first cannot miss it.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sub := make(chan resultOrError, 1)
	go func() {
		res, err := c.SubscribeTxByID(subctx, id)
		sub <- resultOrError{result: res, err: err}
	}()

	// Not indexed yet is reported as an error, the subscription covers it.
	if found, err := c.GetTxByID(ctx, id); err == nil {
		return found, nil
	}

	select {
	case r := <-sub:
		return r.result, r.err
	case <-ctx.Done():
		return nil, errors.Wrapf(errors.ErrTimeout, "watch tx %X", id)
	}
}

// CommitTx submits tx and waits until it is delivered in a block. A
// rejection by CheckTx is returned as error, a failure in DeliverTx is
// reported in CommitResult.Err.
func (c *Client) CommitTx(ctx context.Context, tx Tx) (*CommitResult, error) {
	id, err := c.SubmitTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.WatchTx(ctx, id)
	if err != nil {
		return nil, err
	}
	time.Sleep(indexDelay)
	return res, nil
}

// WatchTxs waits for all transactions in parallel. Results keep the order
// of ids, a nil id gets a nil result.
func (c *Client) WatchTxs(ctx context.Context, ids []TransactionID) ([]*CommitResult, error) {
	type indexed struct {
		pos int
		resultOrError
	}
	done := make(chan indexed, len(ids))
	pending := 0
	for i, id := range ids {
		if id == nil {
			continue
		}
		pending++
		go func(pos int, id TransactionID) {
			res, err := c.WatchTx(ctx, id)
			done <- indexed{pos: pos, resultOrError: resultOrError{result: res, err: err}}
		}(i, id)
	}

	results := make([]*CommitResult, len(ids))
	var firstErr error
	for ; pending > 0; pending-- {
		r := <-done
		results[r.pos] = r.result
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// CommitTxs submits all transactions in order, then waits until every one of
// them is in a block. The first submission failure aborts the call.
func (c *Client) CommitTxs(ctx context.Context, txs []Tx) ([]*CommitResult, error) {
	ids := make([]TransactionID, len(txs))
	for i, tx := range txs {
		id, err := c.SubmitTx(ctx, tx)
		if err != nil {
			return nil, errors.Wrapf(err, "tx %d", i)
		}
		ids[i] = id
	}
	return c.WatchTxs(ctx, ids)
}

// WaitForNextBlock returns the header of the next block.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	return c.waitForHeader(ctx, func(*Header) bool { return true })
}

// WaitForHeight returns the first new header at or above height. A height
// in the past still waits for the next block.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	return c.waitForHeader(ctx, func(h *Header) bool { return h.Height >= height })
}

func (c *Client) waitForHeader(ctx context.Context, match func(*Header) bool) (*Header, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(subctx, headers); err != nil {
		return nil, err
	}
	for h := range headers {
		if match(&h) {
			time.Sleep(indexDelay)
			return &h, nil
		}
	}
	return nil, errors.Wrap(errors.ErrTimeout, "header subscription closed")
}
