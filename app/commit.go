package app

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// CommitStore keeps two write layers over the committed state. Deliver
// collects the block being executed. Check validates mempool transactions
// and is thrown away on every commit.
type CommitStore struct {
	committed flow.CommitKVStore
	deliver   flow.KVCacheWrap
	check     flow.KVCacheWrap
}

// NewCommitStore opens the latest version of store. It panics when the
// version cannot be loaded since the node cannot start without it.
func NewCommitStore(store flow.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	cs := &CommitStore{committed: store}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo reports the last persisted version.
func (cs *CommitStore) CommitInfo() (flow.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit persists the deliver layer as a new version and starts fresh
// layers on top of it.
func (cs *CommitStore) Commit() (flow.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return flow.CommitID{}, errors.Wrap(err, "flush deliver")
	}
	cs.check.Discard()
	id, err := cs.committed.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

func (cs *CommitStore) CheckStore() flow.CacheableKVStore {
	return cs.check
}

func (cs *CommitStore) DeliverStore() flow.CacheableKVStore {
	return cs.deliver
}

// chainIDKey lives in the internal "_fl:" namespace.
var chainIDKey = []byte("_fl:chainID")

// mustLoadChainID returns the stored chain id, or "" before genesis.
func mustLoadChainID(db flow.ReadOnlyKVStore) string {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

// saveChainID records the chain id once. It cannot be changed later.
func saveChainID(db flow.KVStore, chainID string) error {
	if !flow.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch set, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case set:
		return errors.Wrap(errors.ErrUnauthorized, "chain id is set at genesis only")
	}
	return errors.Wrap(db.Set(chainIDKey, []byte(chainID)), "save chain id")
}
