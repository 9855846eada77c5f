package client

import (
	"context"
	"fmt"

	"github.com/iov-one/treasury/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	nm "github.com/tendermint/tendermint/node"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// searchPageSize is the number of transactions requested per TxSearch page.
const searchPageSize = 50

// Client gives access to a treasury node through the tendermint RPC.
type Client struct {
	conn rpcclient.Client
}

// NewClient wraps an existing tendermint connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// NewLocalClient talks to a node running in the same process.
func NewLocalClient(node *nm.Node) *Client {
	return NewClient(rpcclient.NewLocal(node))
}

// NewHTTPClient talks to a remote node, for example "http://localhost:26657".
// Subscriptions use its websocket endpoint.
func NewHTTPClient(remote string) *Client {
	return NewClient(rpcclient.NewHTTP(remote, "/websocket"))
}

// Status returns the chain id and latest height known to the node.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		ChainID:    status.NodeInfo.Network,
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// Header returns the block header at height. It fails with ErrNotFound for
// a height the node does not have yet.
func (c *Client) Header(ctx context.Context, height int64) (*Header, error) {
	info, err := c.conn.BlockchainInfo(height, height)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "blockchain info: %s", err)
	}
	if len(info.BlockMetas) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no header at height %d", height)
	}
	return &info.BlockMetas[0].Header, nil
}

// SubmitTx puts tx in the mempool of the node. An error returned by the
// CheckTx of the application is decoded into its registered error. Use
// WatchTx with the returned id to learn the outcome of DeliverTx.
func (c *Client) SubmitTx(ctx context.Context, tx Tx) (TransactionID, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal tx")
	}
	res, err := c.conn.BroadcastTxSync(raw)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "broadcast: %s", err)
	}
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		return nil, err
	}
	return res.Hash, nil
}

// Query forwards an abci query to the application. Transport failures are
// returned as an ErrNetwork code so callers only inspect the response.
func (c *Client) Query(query RequestQuery) ResponseQuery {
	opts := rpcclient.ABCIQueryOptions{Height: query.Height, Prove: query.Prove}
	res, err := c.conn.ABCIQueryWithOptions(query.Path, query.Data, opts)
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return ResponseQuery{Code: code, Log: log}
	}
	return res.Response
}

// GetTxByID returns a transaction that is already in a block.
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	tx, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "get tx: %s", err)
	}
	res := commitResult(tx.Hash, tx.Height, tx.TxResult)
	return &res, nil
}

// SearchTx returns every committed transaction matching query, reading all
// result pages.
func (c *Client) SearchTx(ctx context.Context, query TxQuery) ([]*CommitResult, error) {
	var results []*CommitResult
	for page := 1; ; page++ {
		search, err := c.conn.TxSearch(query, false, page, searchPageSize)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrNetwork, "search tx: %s", err)
		}
		for _, tx := range search.Txs {
			res := commitResult(tx.Hash, tx.Height, tx.TxResult)
			results = append(results, &res)
		}
		if len(search.Txs) == 0 || len(results) >= search.TotalCount {
			return results, nil
		}
	}
}

// SubscribeHeaders sends every new block header to results until ctx is
// cancelled. results is closed when the subscription ends.
func (c *Client) SubscribeHeaders(ctx context.Context, results chan<- Header, options ...Option) error {
	events, err := c.subscribe(ctx, QueryForHeader(), options...)
	if err != nil {
		return err
	}
	go pump(ctx, events, func(data interface{}) bool {
		h, ok := data.(tmtypes.EventDataNewBlockHeader)
		if !ok {
			return true
		}
		select {
		case results <- h.Header:
			return true
		case <-ctx.Done():
			return false
		}
	}, func() { close(results) })
	return nil
}

// SubscribeTx sends every delivered transaction matching query to results
// until ctx is cancelled. results is closed when the subscription ends.
func (c *Client) SubscribeTx(ctx context.Context, query TxQuery, results chan<- CommitResult, options ...Option) error {
	q := fmt.Sprintf("%s AND %s", queryForEvent(tmtypes.EventTx), query)
	events, err := c.subscribe(ctx, q, options...)
	if err != nil {
		return err
	}
	go pump(ctx, events, func(data interface{}) bool {
		tx, ok := data.(tmtypes.EventDataTx)
		if !ok {
			return true
		}
		select {
		case results <- commitResult(tx.Tx.Hash(), tx.Height, tx.Result):
			return true
		case <-ctx.Done():
			return false
		}
	}, func() { close(results) })
	return nil
}

// pump feeds the data of each event to handle until ctx is done, the
// subscription closes or handle returns false. Then it calls done.
func pump(ctx context.Context, events <-chan ctypes.ResultEvent, handle func(interface{}) bool, done func()) {
	defer done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok || !handle(ev.Data) {
				return
			}
		}
	}
}

// subscribe registers query with the node and unsubscribes when ctx is
// done.
func (c *Client) subscribe(ctx context.Context, query string, options ...Option) (<-chan ctypes.ResultEvent, error) {
	var capacity []int
	for _, opt := range options {
		if o, ok := opt.(OptionCapacity); ok {
			capacity = []int{o.Capacity}
		}
	}
	q, err := tmquery.New(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "query %q: %s", query, err)
	}

	subscriber := cmn.RandStr(16)
	out, err := c.conn.Subscribe(ctx, subscriber, q.String(), capacity...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "subscribe %q: %s", query, err)
	}
	go func() {
		<-ctx.Done()
		_ = c.conn.Unsubscribe(context.Background(), subscriber, q.String())
	}()
	return out, nil
}
