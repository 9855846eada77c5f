package store

import (
	"testing"

	"github.com/iov-one/treasury/weavetest/assert"
)

func makeBase() (CacheableKVStore, func()) {
	return MemStore(), func() {}
}

func TestBTreeCacheGetSet(t *testing.T) {
	NewTestSuite(makeBase).GetSet(t)
}

func TestBTreeCacheDiscard(t *testing.T) {
	NewTestSuite(makeBase).Discard(t)
}

func TestBTreeCacheNested(t *testing.T) {
	NewTestSuite(makeBase).Nested(t)
}

func TestBatchWritesInOrder(t *testing.T) {
	base := MemStore()
	b := NewNonAtomicBatch(base)

	assert.Nil(t, b.Set([]byte("a"), []byte("1")))
	assert.Nil(t, b.Set([]byte("a"), []byte("2")))
	assert.Nil(t, b.Delete([]byte("b")))
	assert.Equal(t, 3, len(b.ShowOps()))

	AssertGetHas(t, base, []byte("a"), nil, false)
	assert.Nil(t, b.Write())
	AssertGetHas(t, base, []byte("a"), []byte("2"), true)
	assert.Equal(t, 0, len(b.ShowOps()))
}
