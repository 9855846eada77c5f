package treasury

// ReadOnlyKVStore gives read access to a key value store. Passing a nil key
// panics.
type ReadOnlyKVStore interface {
	// Get returns nil when the key is not set.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
}

// SetDeleter is the write half shared by KVStore and Batch. Keys and values
// must not be modified after they are passed in.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the store every handler and model bucket works on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes and applies them at once on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// CacheableKVStore is a KVStore that can be wrapped in a cache.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap buffers writes over a parent store. Reads see the buffered
// state. Write flushes the buffer into the parent and Discard drops it.
//
// Every transaction runs in its own cache wrap, so a failed transaction
// leaves the parent untouched.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent root store of the application.
type CommitKVStore interface {
	// Get reads from the last committed version.
	Get(key []byte) ([]byte, error)

	// CacheWrap returns a wrap over the working version. All changes go
	// through it.
	CacheWrap() KVCacheWrap

	// Commit persists the working version and returns its id.
	Commit() (CommitID, error)

	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID identifies a committed version by height and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
