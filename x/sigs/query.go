package sigs

import (
	"encoding/json"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// SequenceResponse is returned by the /sequence query.
type SequenceResponse struct {
	Address  treasury.Address `json:"address"`
	Sequence int64            `json:"sequence"`
}

// RegisterQuery registers the /sequence query. Data is the raw address of a
// signer, the response holds the sequence its next transaction must use.
func RegisterQuery(qr treasury.QueryRouter) {
	qr.Register("/sequence", sequenceQuery{})
}

type sequenceQuery struct{}

func (sequenceQuery) Query(db treasury.ReadOnlyKVStore, data []byte) ([]byte, error) {
	addr := treasury.Address(data)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	seq, err := NextSequence(db, addr)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(SequenceResponse{Address: addr, Sequence: seq})
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidModel, err.Error())
	}
	return raw, nil
}
