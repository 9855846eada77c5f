package orm

import (
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Sequence maintains a counter, and generates a
// series of values. Each value is greater than the last,
// both as an integer and with bytes.Compare() on its encoding.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//    _s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// Next returns the current value and increments the sequence. The first
// value ever returned is 0.
func (s Sequence) Next(db treasury.KVStore) (uint64, error) {
	val, err := s.Current(db)
	if err != nil {
		return 0, err
	}
	if val == ^uint64(0) {
		return 0, errors.Wrapf(errors.ErrOverflow, "sequence %s", s.id)
	}
	if err := db.Set(s.id, EncodeSequence(val+1)); err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return val, nil
}

// Current returns how many values were handed out so far. This method does
// not modify the sequence state.
func (s Sequence) Current(db treasury.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return DecodeSequence(raw)
}

// DecodeSequence reads the big endian form of a value. A missing value is 0.
func DecodeSequence(bz []byte) (uint64, error) {
	if bz == nil {
		return 0, nil
	}
	if len(bz) != 8 {
		return 0, errors.ErrInvalidModel.Newf("sequence of %d bytes", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}

// EncodeSequence writes a value as 8 big endian bytes, so the encoding of
// greater values sorts after lower ones.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}
