// Package iavl provides a persistent, merkleized CommitKVStore backed by
// an iavl tree on top of a tendermint database.
package iavl

import (
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore persists every committed block as a new tree version.
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens (or creates) the leveldb database name in dir.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return nil, dbErr(err)
	}
	return NewCommitStoreFromDB(db), nil
}

// NewCommitStoreFromDB builds the tree over db. Tests pass dbm.NewMemDB().
func NewCommitStoreFromDB(db dbm.DB) *CommitStore {
	return &CommitStore{tree: iavl.NewMutableTree(db, DefaultCacheSize)}
}

func dbErr(err error) error {
	return errors.Wrap(errors.ErrDatabase, err.Error())
}

// Get reads from the last committed version, ignoring pending writes.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	_, val := s.tree.GetVersioned(key, s.tree.Version())
	return val, nil
}

func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, dbErr(err)
	}
	return store.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion restores the newest complete version. A commit that
// crashed half way is ignored.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return dbErr(err)
	}
	return nil
}

func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{Version: s.tree.Version(), Hash: s.tree.Hash()}, nil
}

// CacheWrap buffers writes in memory. Writing the cache moves them to the
// working tree, where the next Commit picks them up.
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return s.Adapter().CacheWrap()
}

// Adapter gives direct access to the working tree.
func (s *CommitStore) Adapter() store.CacheableKVStore {
	return adapter{tree: s.tree}
}

type adapter struct {
	tree *iavl.MutableTree
}

var _ store.CacheableKVStore = adapter{}

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

// NewBatch applies ops one by one. The tree only becomes durable on
// Commit, so this is enough.
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(a)
}

func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

func (a adapter) Iterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, true), nil
}

func (a adapter) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return a.collect(start, end, false), nil
}

// collect loads the whole range [start, end) up front.
func (a adapter) collect(start, end []byte, ascending bool) store.Iterator {
	var found []store.Model
	a.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		found = append(found, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(found)
}
