package orm

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Bucket stores models of a single kind under a common prefix.
type Bucket struct {
	name   string
	prefix []byte
}

// NewBucket returns a bucket storing its models under "<name>:".
func NewBucket(name string) Bucket {
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
	}
}

// Name returns the name of this bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key used to store a model with given id.
func (b Bucket) DBKey(id []byte) []byte {
	key := make([]byte, 0, len(b.prefix)+len(id))
	key = append(key, b.prefix...)
	return append(key, id...)
}

// Get loads the model stored under id into dst. It returns false if
// nothing is stored under that id.
func (b Bucket) Get(db treasury.ReadOnlyKVStore, id []byte, dst Model) (bool, error) {
	raw, err := db.Get(b.DBKey(id))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return false, nil
	}
	if err := Unmarshal(raw, dst); err != nil {
		return false, errors.Wrapf(err, "bucket %s", b.name)
	}
	return true, nil
}

// Has returns true if a model is stored under id.
func (b Bucket) Has(db treasury.ReadOnlyKVStore, id []byte) (bool, error) {
	ok, err := db.Has(b.DBKey(id))
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Save validates the model and writes it under id.
func (b Bucket) Save(db treasury.KVStore, id []byte, m Model) error {
	if err := m.Validate(); err != nil {
		return errors.Wrapf(err, "bucket %s", b.name)
	}
	raw, err := Marshal(m)
	if err != nil {
		return err
	}
	if err := db.Set(b.DBKey(id), raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
