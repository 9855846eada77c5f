package approval

import (
	"encoding/json"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/coin"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/events"
)

// RegisterQuery registers the read only views of the wallet:
//
//   /balance       funds held by the wallet
//   /owners        owners, threshold and execution rule
//   /transactions  the whole ledger, or a single entry if data holds an index
//   /signatures    whether the owner in data signed the transaction in data
//   /events        the event log, starting at the sequence in data if given
//
// Indexes and sequences are encoded as 8 big endian bytes. All responses are
// JSON.
func RegisterQuery(qr treasury.QueryRouter, e *Engine) {
	qr.Register("/balance", queryFunc(e.queryBalance))
	qr.Register("/owners", queryFunc(e.queryOwners))
	qr.Register("/transactions", queryFunc(e.queryTransactions))
	qr.Register("/signatures", queryFunc(e.querySignatures))
	qr.Register("/events", queryFunc(e.queryEvents))
}

type queryFunc func(db treasury.ReadOnlyKVStore, data []byte) ([]byte, error)

func (fn queryFunc) Query(db treasury.ReadOnlyKVStore, data []byte) ([]byte, error) {
	return fn(db, data)
}

// BalanceResponse is returned by the /balance query.
type BalanceResponse struct {
	Balance coin.Amount `json:"balance"`
}

func (e *Engine) queryBalance(db treasury.ReadOnlyKVStore, _ []byte) ([]byte, error) {
	b, err := e.Balance(db)
	if err != nil {
		return nil, err
	}
	return marshal(BalanceResponse{Balance: b})
}

// OwnersResponse is returned by the /owners query.
type OwnersResponse struct {
	Owners        []treasury.Address `json:"owners"`
	Threshold     uint32             `json:"threshold"`
	ExecutionRule Rule               `json:"execution_rule"`
}

func (e *Engine) queryOwners(db treasury.ReadOnlyKVStore, _ []byte) ([]byte, error) {
	reg, err := e.Owners(db)
	if err != nil {
		return nil, err
	}
	rule, err := e.Rule(db)
	if err != nil {
		return nil, err
	}
	return marshal(OwnersResponse{
		Owners:        reg.Owners(),
		Threshold:     reg.Threshold(),
		ExecutionRule: rule,
	})
}

func (e *Engine) queryTransactions(db treasury.ReadOnlyKVStore, data []byte) ([]byte, error) {
	if len(data) == 0 {
		all, err := e.Transactions(db)
		if err != nil {
			return nil, err
		}
		return marshal(all)
	}
	index, err := decodeIndex(data)
	if err != nil {
		return nil, err
	}
	tx, err := e.Transaction(db, index)
	if err != nil {
		return nil, err
	}
	return marshal(tx)
}

// SignatureResponse is returned by the /signatures query.
type SignatureResponse struct {
	Index  uint64           `json:"index"`
	Owner  treasury.Address `json:"owner"`
	Signed bool             `json:"signed"`
}

func (e *Engine) querySignatures(db treasury.ReadOnlyKVStore, data []byte) ([]byte, error) {
	if len(data) != 8+treasury.AddressLength {
		return nil, errors.Wrap(errors.ErrInvalidInput, "expected index followed by owner address")
	}
	index, err := decodeIndex(data[:8])
	if err != nil {
		return nil, err
	}
	owner := treasury.Address(data[8:])
	signed, err := e.Signed(db, index, owner)
	if err != nil {
		return nil, err
	}
	return marshal(SignatureResponse{Index: index, Owner: owner, Signed: signed})
}

func (e *Engine) queryEvents(db treasury.ReadOnlyKVStore, data []byte) ([]byte, error) {
	var from uint64
	if len(data) > 0 {
		var err error
		if from, err = decodeIndex(data); err != nil {
			return nil, err
		}
	}
	evts, err := e.Events(db, from)
	if err != nil {
		return nil, err
	}
	if evts == nil {
		evts = []events.Event{}
	}
	return marshal(evts)
}

func decodeIndex(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, errors.Wrapf(errors.ErrInvalidInput, "index must be 8 bytes, got %d", len(data))
	}
	return orm.DecodeSequence(data)
}

func marshal(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return raw, nil
}
