package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/flow/errors"
)

// btreeDegree is the branching factor of cache trees. Caches live for a
// single transaction or block and stay small.
const btreeDegree = 2

// MemStore returns an in-memory store without persistence, used by tests
// and by genesis validation.
func MemStore() CacheableKVStore {
	empty := EmptyKVStore{}
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap records writes in a btree on top of a read-only parent.
// Reads see the cached writes first. Write flushes them into batch, which
// targets the parent.
type BTreeCacheWrap struct {
	tree   *btree.BTree
	free   *btree.FreeList
	parent ReadOnlyKVStore
	batch  Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap wraps parent. Nested caches share free so that node
// allocations are reused, a nil free allocates a new list.
func NewBTreeCacheWrap(parent ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:   btree.NewWithFreeList(btreeDegree, free),
		free:   free,
		parent: parent,
		batch:  batch,
	}
}

// CacheWrap stacks another cache over this one.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch applying its operations to this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all cached operations to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all cached operations.
func (b BTreeCacheWrap) Discard() {
	b.tree.Clear(true)
	if nb, ok := b.batch.(*NonAtomicBatch); ok {
		nb.Reset()
	}
}

func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.tree.ReplaceOrInsert(&entry{key: key, value: value})
	return b.batch.Set(key, value)
}

func (b BTreeCacheWrap) Delete(key []byte) error {
	b.tree.ReplaceOrInsert(&entry{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	e, ok := b.lookup(key)
	if !ok {
		return b.parent.Get(key)
	}
	if e.deleted {
		return nil, nil
	}
	return e.value, nil
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	e, ok := b.lookup(key)
	if !ok {
		return b.parent.Has(key)
	}
	return !e.deleted, nil
}

func (b BTreeCacheWrap) lookup(key []byte) (*entry, bool) {
	found := b.tree.Get(&entry{key: key})
	if found == nil {
		return nil, false
	}
	return found.(*entry), true
}

// Iterator walks [start, end) in ascending key order over the cache merged
// with the parent.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.parent.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	return newMergedIterator(collectRange(b.tree, start, end, true), parent, true), nil
}

// ReverseIterator walks [start, end) in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.parent.ReverseIterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "parent iterator")
	}
	return newMergedIterator(collectRange(b.tree, start, end, false), parent, false), nil
}

// entry is a cached write. A deleted entry hides the parent value.
type entry struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = (*entry)(nil)

func (e *entry) Less(other btree.Item) bool {
	return bytes.Compare(e.key, other.(*entry).key) < 0
}
