package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/weavetest/assert"
)

// makeBase exposes the committed tree through a cache wrap, so the generic
// store suite can run against it.
func makeBase() (store.CacheableKVStore, func()) {
	commit := MockCommitStore()
	return adapter{commit.tree}, func() {}
}

func TestIavlCacheGetSet(t *testing.T) {
	store.NewTestSuite(makeBase).GetSet(t)
}

func TestIavlCacheDiscard(t *testing.T) {
	store.NewTestSuite(makeBase).Discard(t)
}

func TestIavlCacheNested(t *testing.T) {
	store.NewTestSuite(makeBase).Nested(t)
}

func TestCommitPersists(t *testing.T) {
	dir, err := ioutil.TempDir("", "iavl-commit-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	s, err := NewCommitStore(dir, "state")
	assert.Nil(t, err)
	assert.Nil(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	assert.Nil(t, cache.Set([]byte("balance"), []byte{42}))
	assert.Nil(t, cache.Write())

	id, err := s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("missing app hash")
	}

	latest, err := s.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id, latest)

	got, err := s.Get([]byte("balance"))
	assert.Nil(t, err)
	assert.Equal(t, []byte{42}, got)
}

func TestDiscardedCacheNeverCommitted(t *testing.T) {
	s := MockCommitStore()
	cache := s.CacheWrap()
	assert.Nil(t, cache.Set([]byte("ledger"), []byte{1}))
	cache.Discard()
	assert.Nil(t, cache.Write())

	_, err := s.Commit()
	assert.Nil(t, err)

	got, err := s.Get([]byte("ledger"))
	assert.Nil(t, err)
	assert.Nil(t, got)
}
