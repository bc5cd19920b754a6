package store

import "github.com/iov-one/flow"

// Aliases of the storage types of the root package, so that store
// implementations do not need to import it.

type ReadOnlyKVStore = flow.ReadOnlyKVStore
type SetDeleter = flow.SetDeleter
type KVStore = flow.KVStore
type Batch = flow.Batch
type Iterator = flow.Iterator
type CacheableKVStore = flow.CacheableKVStore
type KVCacheWrap = flow.KVCacheWrap
type CommitKVStore = flow.CommitKVStore
type CommitID = flow.CommitID
type Model = flow.Model

var Pair = flow.Pair
