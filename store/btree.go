package store

import (
	"bytes"

	"github.com/google/btree"
)

// freeListSize is the number of btree nodes kept for reuse.
const freeListSize = btree.DefaultFreeListSize

// MemStore returns a store that only lives in memory. Writes on it are
// final, nothing backs it.
func MemStore() CacheableKVStore {
	empty := EmptyKVStore{}
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap places a btree cache over a KVStore.
//
// Every write lands in the btree, so it is visible to reads through this
// wrap, and is queued in a batch for the parent. Write flushes the batch,
// Discard drops both, leaving the parent untouched.
type BTreeCacheWrap struct {
	tree    *btree.BTree
	free    *btree.FreeList
	parent  ReadOnlyKVStore
	pending Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches parent. All writes must go through pending,
// which is flushed on Write.
//
// free may be nil. Pass the list of another wrap to share its nodes.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, pending Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(freeListSize)
	}
	return BTreeCacheWrap{
		tree:    btree.NewWithFreeList(2, free),
		free:    free,
		parent:  parent,
		pending: pending,
	}
}

// CacheWrap nests a new wrap that writes into this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch that writes into this wrap.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all changes into the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.pending.Write()
	b.reset()
	return err
}

// Discard drops all changes. Nothing is written to the parent.
func (b BTreeCacheWrap) Discard() {
	if r, ok := b.pending.(interface{ Reset() }); ok {
		r.Reset()
	}
	b.reset()
}

// reset returns every node to the free list.
func (b BTreeCacheWrap) reset() {
	for b.tree.DeleteMin() != nil {
	}
}

// Set caches the value and queues it for the parent.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.tree.ReplaceOrInsert(entry{key: key, value: value})
	return b.pending.Set(key, value)
}

// Delete caches a tombstone and queues the deletion for the parent.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.tree.ReplaceOrInsert(entry{key: key, deleted: true})
	return b.pending.Delete(key)
}

// Get reads the cache first and falls back to the parent.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if e, ok := b.lookup(key); ok {
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.parent.Get(key)
}

// Has reads the cache first and falls back to the parent.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if e, ok := b.lookup(key); ok {
		return !e.deleted, nil
	}
	return b.parent.Has(key)
}

func (b BTreeCacheWrap) lookup(key []byte) (entry, bool) {
	item := b.tree.Get(entry{key: key})
	if item == nil {
		return entry{}, false
	}
	return item.(entry), true
}

// entry is a cached write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = entry{}

// Less orders entries by key.
func (e entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(entry).key) < 0
}
