package store

import (
	"bytes"
	"crypto/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iov-one/flow/errors"
)

// StoreBuilder returns an empty store and a function releasing it.
type StoreBuilder func() (base CacheableKVStore, release func())

// RunConformance checks that a store and the cache layered over it behave
// like any other CacheableKVStore. Backend packages call it from their own
// tests with a builder for their implementation.
func RunConformance(t *testing.T, build StoreBuilder) {
	t.Run("cache layering", func(t *testing.T) { checkLayering(t, build) })
	t.Run("shadowed writes", func(t *testing.T) { checkShadowing(t, build) })
	t.Run("random ranges", func(t *testing.T) { checkRandomRanges(t, build) })
	t.Run("merged iteration", func(t *testing.T) { checkMergedIteration(t, build) })
}

// RequireValue fails unless key holds want. A nil want means the key must
// be absent.
func RequireValue(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	if !bytes.Equal(want, got) {
		t.Fatalf("key %X: want %X, got %X", key, want, got)
	}
	has, err := kv.Has(key)
	require.NoError(t, err)
	require.Equal(t, want != nil, has, "has %X", key)
}

func checkLayering(t *testing.T, build StoreBuilder) {
	base, release := build()
	defer release()

	payer, terms := []byte("stream:payer"), []byte("terms")
	payee, ledger := []byte("stream:payee"), []byte("ledger")

	RequireValue(t, base, payer, nil)
	require.NoError(t, base.Set(payer, terms))

	cache := base.CacheWrap()
	RequireValue(t, cache, payer, terms)
	require.NoError(t, cache.Set(payee, ledger))
	RequireValue(t, cache, payee, ledger)
	RequireValue(t, base, payee, nil)
	require.NoError(t, cache.Write())
	RequireValue(t, base, payee, ledger)

	dropped := base.CacheWrap()
	require.NoError(t, dropped.Set([]byte("stream:lost"), terms))
	require.NoError(t, dropped.Delete(payer))
	dropped.Discard()
	RequireValue(t, base, []byte("stream:lost"), nil)
	RequireValue(t, base, payer, terms)

	removal := base.CacheWrap()
	require.NoError(t, removal.Delete(payer))
	require.NoError(t, removal.Write())
	RequireValue(t, base, payer, nil)
	RequireValue(t, base, payee, ledger)
}

func checkShadowing(t *testing.T, build StoreBuilder) {
	k := randomBlobs(4, 12)
	v := randomBlobs(6, 30)

	cases := map[string]struct {
		parent     []Op
		child      []Op
		wantParent []Model
		wantChild  []Model
	}{
		"overwrite, delete and insert": {
			parent:     []Op{SetOp(k[0], v[0]), SetOp(k[1], v[1])},
			child:      []Op{SetOp(k[0], v[2]), DelOp(k[1]), SetOp(k[2], v[3])},
			wantParent: []Model{Pair(k[0], v[0]), Pair(k[1], v[1]), Pair(k[2], nil)},
			wantChild:  []Model{Pair(k[0], v[2]), Pair(k[1], nil), Pair(k[2], v[3])},
		},
		"delete then recreate": {
			parent:     []Op{SetOp(k[3], v[4])},
			child:      []Op{DelOp(k[3]), SetOp(k[3], v[5])},
			wantParent: []Model{Pair(k[3], v[4])},
			wantChild:  []Model{Pair(k[3], v[5])},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			parent, release := build()
			defer release()
			applyAll(t, parent, tc.parent)

			child := parent.CacheWrap()
			applyAll(t, child, tc.child)
			for _, m := range tc.wantParent {
				RequireValue(t, parent, m.Key, m.Value)
			}
			for _, m := range tc.wantChild {
				RequireValue(t, child, m.Key, m.Value)
			}

			require.NoError(t, child.Write())
			for _, m := range tc.wantChild {
				RequireValue(t, parent, m.Key, m.Value)
			}
		})
	}
}

func checkRandomRanges(t *testing.T, build StoreBuilder) {
	const n = 40

	inChild := randomModels(n, 8, 32)
	inParent := randomModels(n, 8, 32)
	childOps := append(setOps(inChild...), delOps(randomModels(10, 8, 32)...)...)
	parentOps := append(setOps(inParent...), delOps(randomModels(10, 8, 32)...)...)

	only := sorted(inChild)
	merged := sorted(append(inChild, inParent...))

	cases := map[string]struct {
		parent []Op
		want   []Model
	}{
		"empty parent":  {want: only},
		"filled parent": {parent: parentOps, want: merged},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, release := build()
			defer release()
			applyAll(t, base, tc.parent)
			child := base.CacheWrap()
			applyAll(t, child, childOps)

			w := tc.want
			requireRange(t, child, nil, nil, w)
			requireRange(t, child, w[7].Key, nil, w[7:])
			requireRange(t, child, nil, w[n-5].Key, w[:n-5])
			requireRange(t, child, w[12].Key, w[25].Key, w[12:25])
		})
	}
}

func checkMergedIteration(t *testing.T, build StoreBuilder) {
	ms := randomModels(6, 16, 64)
	a, b, c, d := ms[0], ms[1], ms[2], ms[3]
	// same keys as a and b, new values
	a2 := Model{Key: a.Key, Value: ms[4].Value}
	b2 := Model{Key: b.Key, Value: ms[5].Value}

	abc := sorted([]Model{a, b, c})
	replaced := sorted([]Model{a2, b2, c, d})

	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []Model
	}{
		"child only": {
			child: setOps(a, b, c),
			want:  abc,
		},
		"parent only": {
			parent: setOps(a, b, c),
			want:   abc,
		},
		"split between layers": {
			parent: setOps(a, c),
			child:  setOps(b),
			want:   abc,
		},
		"child values win": {
			parent: setOps(a, b, c),
			child:  setOps(a2, b2, d),
			want:   replaced,
		},
		"child deletes hide parent": {
			parent: setOps(a, c, d),
			child:  delOps(a, b, d),
			want:   []Model{c},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, release := build()
			defer release()
			applyAll(t, base, tc.parent)
			child := base.CacheWrap()
			applyAll(t, child, tc.child)

			requireRange(t, child, nil, nil, tc.want)
			if len(tc.want) > 2 {
				requireRange(t, child, tc.want[1].Key, tc.want[2].Key, tc.want[1:2])
			}
		})
	}
}

// requireRange checks both iteration directions over [start, end).
func requireRange(t testing.TB, kv ReadOnlyKVStore, start, end []byte, want []Model) {
	t.Helper()

	it, err := kv.Iterator(start, end)
	require.NoError(t, err)
	requireSequence(t, it, want)

	backwards := make([]Model, len(want))
	for i, m := range want {
		backwards[len(want)-1-i] = m
	}
	it, err = kv.ReverseIterator(start, end)
	require.NoError(t, err)
	requireSequence(t, it, backwards)
}

func requireSequence(t testing.TB, it Iterator, want []Model) {
	t.Helper()
	defer it.Release()

	for i, m := range want {
		key, value, err := it.Next()
		require.NoError(t, err)
		if !bytes.Equal(m.Key, key) || !bytes.Equal(m.Value, value) {
			t.Fatalf("position %d: want %X=%X, got %X=%X", i, m.Key, m.Value, key, value)
		}
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want end of iteration, got %+v", err)
	}
}

func applyAll(t testing.TB, out SetDeleter, ops []Op) {
	t.Helper()
	for _, op := range ops {
		require.NoError(t, op.Apply(out))
	}
}

func randomBlobs(count, size int) [][]byte {
	res := make([][]byte, count)
	for i := range res {
		res[i] = make([]byte, size)
		_, _ = rand.Read(res[i])
	}
	return res
}

func randomModels(count, keySize, valueSize int) []Model {
	keys := randomBlobs(count, keySize)
	values := randomBlobs(count, valueSize)
	res := make([]Model, count)
	for i := range res {
		res[i] = Model{Key: keys[i], Value: values[i]}
	}
	return res
}

func sorted(models []Model) []Model {
	res := append([]Model(nil), models...)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func setOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func delOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
