package orm

import (
	"encoding/binary"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// Sequence hands out increasing ids starting at zero. The 8 byte big
// endian encoding of the ids sorts the same way as the numbers, so they can
// be used directly as primary keys.
type Sequence struct {
	id []byte
}

// NewSequence stores its counter under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	return Sequence{id: []byte("_s." + bucket + ":" + name)}
}

// NextVal is NextInt encoded with EncodeSequence.
func (s *Sequence) NextVal(db flow.KVStore) ([]byte, error) {
	n, err := s.NextInt(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(n), nil
}

// NextInt returns the next id and advances the counter.
func (s *Sequence) NextInt(db flow.KVStore) (int64, error) {
	n, err := s.Current(db)
	if err != nil {
		return 0, err
	}
	return n, db.Set(s.id, EncodeSequence(n+1))
}

// Current is the id the next NextInt call returns.
func (s *Sequence) Current(db flow.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw), nil
}

func EncodeSequence(n int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(n))
	return raw
}

// DecodeSequence reads an id written by EncodeSequence. A missing value is
// zero.
func DecodeSequence(raw []byte) int64 {
	if len(raw) == 0 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(raw))
}

// ValidateSequence checks that id is an encoded sequence value.
func ValidateSequence(id []byte) error {
	switch len(id) {
	case 0:
		return errors.Wrap(errors.ErrEmpty, "sequence")
	case 8:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "sequence of %d bytes", len(id))
}
