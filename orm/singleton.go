package orm

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Singleton holds exactly one model under a fixed key.
type Singleton struct {
	key []byte
}

// NewSingleton returns a singleton stored under "_c:<name>".
func NewSingleton(name string) Singleton {
	return Singleton{key: []byte("_c:" + name)}
}

// Load reads the model into dst. It fails with ErrNotFound if it was never
// saved.
func (s Singleton) Load(db treasury.ReadOnlyKVStore, dst Model) error {
	raw, err := db.Get(s.key)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", s.key)
	}
	if err := Unmarshal(raw, dst); err != nil {
		return errors.Wrapf(err, "key %q", s.key)
	}
	return nil
}

// Exists returns true once the model was saved.
func (s Singleton) Exists(db treasury.ReadOnlyKVStore) (bool, error) {
	ok, err := db.Has(s.key)
	if err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return ok, nil
}

// Save will Validate the object, before writing it.
func (s Singleton) Save(db treasury.KVStore, src Model) error {
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", s.key)
	}
	raw, err := Marshal(src)
	if err != nil {
		return errors.Wrapf(err, "key %q", s.key)
	}
	if err := db.Set(s.key, raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}
