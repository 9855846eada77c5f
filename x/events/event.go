package events

import (
	"strconv"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/tendermint/tendermint/libs/common"
)

// Kind tells what an event is about.
type Kind string

const (
	KindDeposited Kind = "deposited"
	KindSigned    Kind = "signed"
	KindExecuted  Kind = "executed"
)

// Event is a single observation. Value is set for deposits, Index for
// signatures and executions.
type Event struct {
	Seq     uint64           `json:"seq"`
	Kind    Kind             `json:"kind"`
	Account treasury.Address `json:"account"`
	Index   uint64           `json:"index,omitempty"`
	Value   coin.Amount      `json:"value,omitempty"`
}

var _ orm.Model = (*Event)(nil)

// Validate checks the kind and the account of the event.
func (e *Event) Validate() error {
	switch e.Kind {
	case KindDeposited, KindSigned, KindExecuted:
	default:
		return errors.Wrapf(errors.ErrInvalidModel, "unknown event kind %q", e.Kind)
	}
	if err := e.Account.Validate(); err != nil {
		return errors.Wrap(err, "account")
	}
	return nil
}

// Deposited is emitted when account adds value to the wallet.
func Deposited(account treasury.Address, value coin.Amount) Event {
	return Event{Kind: KindDeposited, Account: account, Value: value}
}

// Signed is emitted when owner signs the transaction at index.
func Signed(owner treasury.Address, index uint64) Event {
	return Event{Kind: KindSigned, Account: owner, Index: index}
}

// Executed is emitted when the transaction at index is executed. account is
// the owner whose signature triggered the execution.
func Executed(account treasury.Address, index uint64) Event {
	return Event{Kind: KindExecuted, Account: account, Index: index}
}

// Tags returns the ABCI tags describing this event.
func (e Event) Tags() []common.KVPair {
	tags := []common.KVPair{
		{Key: []byte("event"), Value: []byte(e.Kind)},
		{Key: []byte("account"), Value: []byte(e.Account.String())},
	}
	switch e.Kind {
	case KindDeposited:
		tags = append(tags, common.KVPair{Key: []byte("value"), Value: []byte(e.Value.String())})
	default:
		tags = append(tags, common.KVPair{Key: []byte("index"), Value: []byte(strconv.FormatUint(e.Index, 10))})
	}
	return tags
}
