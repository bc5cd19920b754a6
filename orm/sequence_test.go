package orm

import (
	"bytes"
	"testing"

	"github.com/iov-one/flow/flowtest/assert"
	"github.com/iov-one/flow/store"
)

func TestSequenceStartsAtZero(t *testing.T) {
	db := store.MemStore()
	s := NewSequence("stream", "id")

	cur, err := s.Current(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), cur)

	first, err := s.NextVal(db)
	assert.Nil(t, err)
	assert.Equal(t, EncodeSequence(0), first)

	second, err := s.NextVal(db)
	assert.Nil(t, err)
	if bytes.Compare(first, second) >= 0 {
		t.Fatalf("sequence must grow: %X then %X", first, second)
	}

	n, err := s.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), n)

	// sequences with different names are independent
	other := NewSequence("stream", "other")
	n, err = other.NextInt(db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), n)
}

func TestValidateSequence(t *testing.T) {
	assert.Nil(t, ValidateSequence(EncodeSequence(17)))
	if ValidateSequence(nil) == nil {
		t.Fatal("empty sequence must be invalid")
	}
	if ValidateSequence([]byte{1, 2}) == nil {
		t.Fatal("short sequence must be invalid")
	}
	assert.Equal(t, int64(17), DecodeSequence(EncodeSequence(17)))
}
