package stream

import (
	"testing"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/flowtest"
	"github.com/iov-one/flow/flowtest/assert"
	"github.com/iov-one/flow/store"
)

func newTestStream(from, to flow.Address, amount int64) *Stream {
	return &Stream{
		Metadata:    &flow.Metadata{Schema: 1},
		From:        from,
		To:          to,
		Amount:      amount,
		StartTime:   1000,
		EndTime:     1100,
		TickTime:    10,
		Asset:       "IOV",
		Cancellable: true,
	}
}

func TestRegistryCreateAndGet(t *testing.T) {
	alice := flowtest.NewCondition().Address()
	bobby := flowtest.NewCondition().Address()
	reg := NewRegistry()
	db := store.MemStore()

	next, err := reg.NextID(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), next)

	for want := uint64(0); want < 3; want++ {
		id, err := reg.Create(db, newTestStream(alice, bobby, 10))
		assert.Nil(t, err)
		assert.Equal(t, want, id)
	}

	next, err = reg.NextID(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(3), next)

	s, d, err := reg.Get(db, 1)
	assert.Nil(t, err)
	assert.Equal(t, newTestStream(alice, bobby, 10), s)
	assert.Equal(t, int64(0), d.Withdrawn)
	assert.Equal(t, false, d.Cancelled)

	_, _, err = reg.Get(db, 3)
	assert.IsErr(t, ErrStreamNotExist, err)
}

func TestRegistryRejectsInvalidStream(t *testing.T) {
	reg := NewRegistry()
	db := store.MemStore()

	s := newTestStream(flowtest.NewCondition().Address(), flowtest.NewCondition().Address(), 10)
	s.EndTime = s.StartTime
	_, err := reg.Create(db, s)
	if !ErrSchedule.Is(err) {
		t.Fatalf("want schedule error, got %+v", err)
	}
}

func TestRegistryUpdateWithdrawn(t *testing.T) {
	reg := NewRegistry()
	db := store.MemStore()
	id, err := reg.Create(db, newTestStream(flowtest.NewCondition().Address(), flowtest.NewCondition().Address(), 10))
	assert.Nil(t, err)

	assert.Nil(t, reg.UpdateWithdrawn(db, id, 4))
	assert.Nil(t, reg.UpdateWithdrawn(db, id, 4))
	assert.IsErr(t, errors.ErrAmount, reg.UpdateWithdrawn(db, id, 3))
	assert.IsErr(t, errors.ErrAmount, reg.UpdateWithdrawn(db, id, 11))
	assert.Nil(t, reg.UpdateWithdrawn(db, id, 10))

	_, d, err := reg.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, int64(10), d.Withdrawn)

	assert.IsErr(t, ErrStreamNotExist, reg.UpdateWithdrawn(db, id+1, 1))
}

func TestRegistryMarkCancelled(t *testing.T) {
	reg := NewRegistry()
	db := store.MemStore()
	id, err := reg.Create(db, newTestStream(flowtest.NewCondition().Address(), flowtest.NewCondition().Address(), 10))
	assert.Nil(t, err)
	assert.Nil(t, reg.UpdateWithdrawn(db, id, 3))

	assert.IsErr(t, errors.ErrAmount, reg.MarkCancelled(db, id, 10, 1050))
	assert.Nil(t, reg.MarkCancelled(db, id, 7, 1050))

	_, d, err := reg.Get(db, id)
	assert.Nil(t, err)
	assert.Equal(t, &StreamData{
		Metadata:    &flow.Metadata{Schema: 1},
		Withdrawn:   3,
		Cancelled:   true,
		Refunded:    7,
		CancelledAt: 1050,
	}, d)

	assert.IsErr(t, ErrStreamCancelled, reg.MarkCancelled(db, id, 7, 1060))
}

func TestRegistryIndexes(t *testing.T) {
	alice := flowtest.NewCondition().Address()
	bobby := flowtest.NewCondition().Address()
	carol := flowtest.NewCondition().Address()
	reg := NewRegistry()
	db := store.MemStore()

	for _, s := range []*Stream{
		newTestStream(alice, bobby, 1),
		newTestStream(alice, carol, 2),
		newTestStream(bobby, carol, 3),
	} {
		_, err := reg.Create(db, s)
		assert.Nil(t, err)
	}

	ids, err := reg.ByPayer(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, []uint64{0, 1}, ids)

	ids, err = reg.ByPayee(db, carol)
	assert.Nil(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)

	ids, err = reg.ByPayer(db, carol)
	assert.Nil(t, err)
	assert.Equal(t, []uint64{}, ids)
}

func TestEscrowAddressIsPerStream(t *testing.T) {
	if Escrow(1).Equals(Escrow(2)) {
		t.Fatal("escrow addresses must differ between streams")
	}
	assert.Nil(t, Escrow(7).Validate())
}

func TestDecodeID(t *testing.T) {
	cases := map[string]struct {
		raw     []byte
		wantID  uint64
		wantErr *errors.Error
	}{
		"first stream": {raw: idKey(0), wantID: 0},
		"later stream": {raw: idKey(513), wantID: 513},
		"empty":        {raw: nil, wantErr: errors.ErrEmpty},
		"too short":    {raw: []byte{0, 1}, wantErr: errors.ErrInput},
		"too long":     {raw: make([]byte, 9), wantErr: errors.ErrInput},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			id, err := DecodeID(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
			assert.Equal(t, tc.wantID, id)
		})
	}
}
