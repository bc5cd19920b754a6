package flow

// ReadOnlyKVStore is the read side of a key value store. Keys are compared
// bytewise and must not be nil.
type ReadOnlyKVStore interface {
	// Get returns nil for a missing key.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)

	// Iterator walks [start, end) in ascending key order. A nil bound is
	// open. The range must not be written while the iterator is in use.
	Iterator(start, end []byte) (Iterator, error)
	// ReverseIterator walks the same range as Iterator, last key first.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write side shared by stores and batches. Callers must
// not modify the slices they pass in afterwards.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore reads and writes directly.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter
	NewBatch() Batch
}

// Batch collects writes that land together on Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator yields key value pairs until Next returns ErrIteratorDone. Any
// other error aborts the walk. Always Release it.
//
//	itr, err := db.Iterator(start, end)
//	...
//	defer itr.Release()
//	for {
//		key, value, err := itr.Next()
//		if errors.ErrIteratorDone.Is(err) {
//			break
//		}
//		...
//	}
type Iterator interface {
	Next() (key, value []byte, err error)
	Release()
}

// CacheableKVStore can open a write layer on top of itself.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap buffers writes over a parent store. Reads see the buffered
// writes first. Write flushes them to the parent, Discard drops them. A
// wrap can be wrapped again, which is how a failing message is rolled back
// without touching the rest of the block.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the persistent root of the state.
type CommitKVStore interface {
	// Get reads the last committed state.
	Get(key []byte) ([]byte, error)
	CacheWrap() KVCacheWrap

	// Commit persists everything flushed into it as a new version.
	Commit() (CommitID, error)
	// LoadLatestVersion opens the most recent complete version, skipping a
	// commit interrupted by a crash.
	LoadLatestVersion() error
	LatestVersion() (CommitID, error)
}

// CommitID names a persisted version by number and merkle root.
type CommitID struct {
	Version int64
	Hash    []byte
}
