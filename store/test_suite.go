package store

import (
	"testing"

	"github.com/iov-one/treasury/weavetest/assert"
)

// TestSuite runs the cache wrap behaviour checks against any CacheableKVStore
// implementation. The same checks are used for the in memory btree and for
// the iavl backed store.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh store and a function releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{
		makeBase: constructor,
	}
}

// AssertGetHas checks both Get and Has return values for a single key.
func AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, has, exists)
}

// GetSet ensures writes on a cache wrap are visible only after Write.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("owner"), []byte("alice")
	k2, v2 := []byte("balance"), []byte("100")

	assert.Nil(t, base.Set(k, v))
	AssertGetHas(t, base, k, v, true)

	cache := base.CacheWrap()
	AssertGetHas(t, cache, k, v, true)
	assert.Nil(t, cache.Set(k2, v2))
	assert.Nil(t, cache.Delete(k))
	AssertGetHas(t, cache, k2, v2, true)
	AssertGetHas(t, cache, k, nil, false)

	// parent does not see uncommitted changes
	AssertGetHas(t, base, k, v, true)
	AssertGetHas(t, base, k2, nil, false)

	assert.Nil(t, cache.Write())
	AssertGetHas(t, base, k, nil, false)
	AssertGetHas(t, base, k2, v2, true)
}

// Discard ensures a discarded cache wrap leaves no trace in its parent, even
// if Write is called by mistake afterwards.
func (s *TestSuite) Discard(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("ledger"), []byte("entry")

	cache := base.CacheWrap()
	assert.Nil(t, cache.Set(k, v))
	AssertGetHas(t, cache, k, v, true)
	cache.Discard()

	AssertGetHas(t, base, k, nil, false)
	assert.Nil(t, cache.Write())
	AssertGetHas(t, base, k, nil, false)
}

// Nested ensures cache wraps can be stacked and flushed layer by layer.
func (s *TestSuite) Nested(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	k, v := []byte("sig"), []byte{1}
	k2, v2 := []byte("sig2"), []byte{2}

	outer := base.CacheWrap()
	inner := outer.CacheWrap()
	assert.Nil(t, inner.Set(k, v))
	AssertGetHas(t, outer, k, nil, false)
	assert.Nil(t, inner.Write())
	AssertGetHas(t, outer, k, v, true)
	AssertGetHas(t, base, k, nil, false)

	dropped := outer.CacheWrap()
	assert.Nil(t, dropped.Set(k2, v2))
	dropped.Discard()
	AssertGetHas(t, outer, k2, nil, false)

	assert.Nil(t, outer.Write())
	AssertGetHas(t, base, k, v, true)
	AssertGetHas(t, base, k2, nil, false)
}
