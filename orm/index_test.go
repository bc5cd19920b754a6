package orm

import (
	"testing"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/flowtest/assert"
	"github.com/iov-one/flow/store"
)

func TestIndexFollowsUpdates(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, new(counter))).
		WithIndex("owner", ownerIndexer, false)

	assert.Nil(t, b.Save(db, newCounter("1", "alice", 1)))
	assert.Nil(t, b.Save(db, newCounter("2", "alice", 2)))
	assert.Nil(t, b.Save(db, newCounter("3", "alicex", 3)))
	assert.Nil(t, b.Save(db, newCounter("4", "", 4)))

	objs, err := b.GetIndexed(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(objs))
	assert.Equal(t, []byte("1"), objs[0].Key())
	assert.Equal(t, []byte("2"), objs[1].Key())

	// moving an object between index values
	assert.Nil(t, b.Save(db, newCounter("2", "bob", 2)))
	objs, err = b.GetIndexed(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(objs))
	objs, err = b.GetIndexed(db, "owner", []byte("bob"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(objs))

	assert.Nil(t, b.Delete(db, []byte("1")))
	objs, err = b.GetIndexed(db, "owner", []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(objs))

	_, err = b.GetIndexed(db, "unknown", []byte("alice"))
	assert.IsErr(t, ErrInvalidIndex, err)
}

func TestUniqueIndex(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, new(counter))).
		WithIndex("owner", ownerIndexer, true)

	assert.Nil(t, b.Save(db, newCounter("1", "alice", 1)))
	assert.IsErr(t, errors.ErrDuplicate, b.Save(db, newCounter("2", "alice", 2)))
	// saving the same object again is fine
	assert.Nil(t, b.Save(db, newCounter("1", "alice", 7)))
}

func TestIndexQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, new(counter))).
		WithIndex("owner", ownerIndexer, false)
	assert.Nil(t, b.Save(db, newCounter("1", "alice", 1)))
	assert.Nil(t, b.Save(db, newCounter("2", "alice", 2)))

	r := flow.NewQueryRouter()
	b.Register("", r)
	res, err := r.Handler("/cnts/owner").Query(db, flow.KeyQueryMod, []byte("alice"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))
	assert.Equal(t, b.DBKey([]byte("1")), res[0].Key)

	_, err = r.Handler("/cnts/owner").Query(db, flow.PrefixQueryMod, []byte("al"))
	assert.IsErr(t, errors.ErrInput, err)
}
