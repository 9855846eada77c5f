package events

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/tendermint/tendermint/libs/common"
)

// Log stores events by sequence number.
type Log struct {
	entries orm.Bucket
	seq     orm.Sequence
}

// NewLog returns the wallet event log.
func NewLog() Log {
	return Log{
		entries: orm.NewBucket("evt"),
		seq:     orm.NewSequence("evt", "seq"),
	}
}

// Emit appends e to the log and returns it with its sequence number set.
func (l Log) Emit(db treasury.KVStore, e Event) (Event, error) {
	seq, err := l.seq.Next(db)
	if err != nil {
		return e, err
	}
	e.Seq = seq
	if err := l.entries.Save(db, orm.EncodeSequence(seq), &e); err != nil {
		return e, errors.Wrap(err, "emit event")
	}
	return e, nil
}

// Len returns how many events were emitted.
func (l Log) Len(db treasury.ReadOnlyKVStore) (uint64, error) {
	return l.seq.Current(db)
}

// All returns every event in emission order.
func (l Log) All(db treasury.ReadOnlyKVStore) ([]Event, error) {
	return l.Since(db, 0)
}

// Since returns the events with a sequence number of at least from.
func (l Log) Since(db treasury.ReadOnlyKVStore, from uint64) ([]Event, error) {
	n, err := l.Len(db)
	if err != nil {
		return nil, err
	}
	if from >= n {
		return nil, nil
	}
	res := make([]Event, 0, n-from)
	for i := from; i < n; i++ {
		var e Event
		ok, err := l.entries.Get(db, orm.EncodeSequence(i), &e)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(errors.ErrNotFound, "event %d", i)
		}
		res = append(res, e)
	}
	return res, nil
}

// Tags flattens the tags of all given events.
func Tags(evts []Event) []common.KVPair {
	var tags []common.KVPair
	for _, e := range evts {
		tags = append(tags, e.Tags()...)
	}
	return tags
}
