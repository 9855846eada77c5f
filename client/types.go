package client

import (
	"fmt"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

type (
	// TransactionID is the tendermint hash of a transaction.
	TransactionID = cmn.HexBytes
	// RequestQuery mirrors the abci query.
	RequestQuery = abci.RequestQuery
	// ResponseQuery mirrors the abci query response.
	ResponseQuery = abci.ResponseQuery
	// TxQuery selects transactions by their tags.
	TxQuery = string
	// Header is a tendermint block header.
	Header = tmtypes.Header
)

// Tx is anything that can be broadcast to the node.
type Tx interface {
	Marshal() ([]byte, error)
}

// CommitResult is the outcome of a transaction delivered in a block. Result
// is set on success, Err on failure.
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *treasury.DeliverResult
	Err    error
}

// Status is the view of the chain of the node we are connected to.
type Status struct {
	ChainID    string
	Height     int64
	CatchingUp bool
}

type resultOrError struct {
	result *CommitResult
	err    error
}

// Option tunes a subscription.
type Option interface {
	isOption()
}

// OptionCapacity sets the buffer size of the channel a subscription is
// delivered on.
type OptionCapacity struct {
	Capacity int
}

func (OptionCapacity) isOption() {}

// QueryTxByID matches the transaction with the given hash.
func QueryTxByID(id TransactionID) TxQuery {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

// QueryTxByTag matches transactions that emitted the given tag, for
// example QueryTxByTag("event", "executed").
func QueryTxByTag(key, value string) TxQuery {
	return fmt.Sprintf("%s='%s'", key, value)
}

// QueryForHeader matches every new block header.
func QueryForHeader() string {
	return queryForEvent(tmtypes.EventNewBlockHeader)
}

func queryForEvent(eventType string) string {
	return fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, eventType)
}

// commitResult turns the DeliverTx response found in a block back into the
// result or error returned by the application.
func commitResult(id TransactionID, height int64, res abci.ResponseDeliverTx) CommitResult {
	cr := CommitResult{ID: id, Height: height}
	if err := errors.ABCIError(res.Code, res.Log); err != nil {
		cr.Err = err
		return cr
	}
	cr.Result = &treasury.DeliverResult{
		Data: res.Data,
		Log:  res.Log,
		Tags: res.Tags,
	}
	return cr
}
