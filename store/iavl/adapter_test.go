package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/flow/flowtest/assert"
	"github.com/iov-one/flow/store"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func TestAdapterConformance(t *testing.T) {
	store.RunConformance(t, func() (store.CacheableKVStore, func()) {
		return NewCommitStoreFromDB(dbm.NewMemDB()).Adapter(), func() {}
	})
}

func TestCommitAndReload(t *testing.T) {
	dir, err := ioutil.TempDir("", "iavl-commit-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)

	s, err := NewCommitStore(dir, "flow")
	assert.Nil(t, err)
	assert.Nil(t, s.LoadLatestVersion())

	k, v := []byte("stream:0"), []byte("payload")
	cache := s.CacheWrap()
	assert.Nil(t, cache.Set(k, v))
	assert.Nil(t, cache.Write())

	// not visible in committed state before Commit
	got, err := s.Get(k)
	assert.Nil(t, err)
	assert.Nil(t, got)

	id, err := s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, int64(1), id.Version)
	if len(id.Hash) == 0 {
		t.Fatal("commit must produce a root hash")
	}

	got, err = s.Get(k)
	assert.Nil(t, err)
	assert.Equal(t, v, got)

	latest, err := s.LatestVersion()
	assert.Nil(t, err)
	assert.Equal(t, id, latest)

	// a discarded cache never reaches the tree
	discarded := s.CacheWrap()
	assert.Nil(t, discarded.Set([]byte("stream:1"), []byte("lost")))
	discarded.Discard()
	id2, err := s.Commit()
	assert.Nil(t, err)
	assert.Equal(t, id.Hash, id2.Hash)
}
