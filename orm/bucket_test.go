package orm

import (
	"testing"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/flowtest/assert"
	"github.com/iov-one/flow/store"
)

func TestBucketSaveGetDelete(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, new(counter)))

	obj, err := b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, obj)

	assert.Nil(t, b.Save(db, newCounter("a", "alice", 5)))
	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, int64(5), obj.Value().(*counter).Count)
	assert.Equal(t, []byte("a"), obj.Key())

	has, err := b.Has(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)

	assert.IsErr(t, errors.ErrModel, b.Save(db, newCounter("b", "", -1)))
	assert.IsErr(t, errors.ErrEmpty, b.Save(db, newCounter("", "", 1)))

	assert.Nil(t, b.Delete(db, []byte("a")))
	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Nil(t, obj)
}

func TestBucketPrefixesDoNotCollide(t *testing.T) {
	db := store.MemStore()
	short := NewBucket("cnts", NewSimpleObj(nil, new(counter)))
	long := NewBucket("cntsx", NewSimpleObj(nil, new(counter)))

	assert.Nil(t, short.Save(db, newCounter("ABC", "", 1)))
	assert.Nil(t, short.Save(db, newCounter("LED", "", 2)))
	assert.Nil(t, long.Save(db, newCounter("ABC", "", 3)))

	a, err := short.Get(db, []byte("ABC"))
	assert.Nil(t, err)
	assert.Equal(t, int64(1), a.Value().(*counter).Count)
	l, err := short.Get(db, []byte("LED"))
	assert.Nil(t, err)
	assert.Equal(t, int64(2), l.Value().(*counter).Count)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, new(counter)))
	for _, k := range []string{"aa", "ab", "b"} {
		assert.Nil(t, b.Save(db, newCounter(k, "", 1)))
	}

	res, err := b.Query(db, flow.KeyQueryMod, []byte("ab"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, b.DBKey([]byte("ab")), res[0].Key)

	res, err = b.Query(db, flow.KeyQueryMod, []byte("zz"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = b.Query(db, flow.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	res, err = b.Query(db, flow.PrefixQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))

	_, err = b.Query(db, "range", nil)
	assert.IsErr(t, errors.ErrInput, err)
}

func TestBucketRegister(t *testing.T) {
	b := NewBucket("cnts", NewSimpleObj(nil, new(counter))).
		WithIndex("owner", ownerIndexer, false)
	r := flow.NewQueryRouter()
	b.Register("counters", r)

	if r.Handler("/counters") == nil {
		t.Fatal("bucket not registered")
	}
	if r.Handler("/counters/owner") == nil {
		t.Fatal("index not registered")
	}
}

func TestIllegalBucketName(t *testing.T) {
	assert.Panics(t, func() { NewBucket("X", NewSimpleObj(nil, new(counter))) })
}

func TestRawQuery(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("cnts", NewSimpleObj(nil, new(counter)))
	assert.Nil(t, b.Save(db, newCounter("a", "", 1)))

	r := flow.NewQueryRouter()
	RegisterQuery(r)
	h := r.Handler("/")

	res, err := h.Query(db, flow.KeyQueryMod, b.DBKey([]byte("a")))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))

	res, err = h.Query(db, flow.KeyQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	res, err = h.Query(db, flow.PrefixQueryMod, []byte("cnts:"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
}
