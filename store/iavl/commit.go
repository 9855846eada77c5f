/*
Package iavl provides a persistent, versioned commit store for the treasury
application. State is kept in a tendermint iavl tree on top of a goleveldb
database, so every committed block produces a merkle root used as app hash.
*/
package iavl

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ treasury.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing
func NewCommitStore(path, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, path)
	if err != nil {
		return CommitStore{}, errors.Wrapf(errors.ErrDatabase, "open %s/%s: %s", path, name, err)
	}
	return NewCommitStoreFromDB(db), nil
}

// MockCommitStore creates a new in memory store for testing.
func MockCommitStore() CommitStore {
	return NewCommitStoreFromDB(dbm.NewMemDB())
}

// NewCommitStoreFromDB wraps any tendermint database.
func NewCommitStoreFromDB(db dbm.DB) CommitStore {
	return CommitStore{iavl.NewMutableTree(db, DefaultCacheSize)}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.Get(key)
	return val, nil
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() (treasury.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return treasury.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return treasury.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (treasury.CommitID, error) {
	return treasury.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// CacheWrap wraps the working tree in a btree cache. Data is written to the
// tree on Write, and persisted on the next Commit.
func (s CommitStore) CacheWrap() treasury.KVCacheWrap {
	return adapter{s.tree}.CacheWrap()
}

// adapter exposes the working tree as a KVStore. All writes go through
// a cache wrap, so it is never used directly by the application.
type adapter struct {
	tree *iavl.MutableTree
}

var _ treasury.CacheableKVStore = adapter{}

func (a adapter) Get(key []byte) ([]byte, error) {
	_, val := a.tree.Get(key)
	return val, nil
}

func (a adapter) Has(key []byte) (bool, error) {
	return a.tree.Has(key), nil
}

func (a adapter) Set(key, value []byte) error {
	a.tree.Set(key, value)
	return nil
}

func (a adapter) Delete(key []byte) error {
	a.tree.Remove(key)
	return nil
}

func (a adapter) NewBatch() treasury.Batch {
	return store.NewNonAtomicBatch(a)
}

func (a adapter) CacheWrap() treasury.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}
