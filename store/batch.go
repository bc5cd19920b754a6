package store

import (
	"github.com/iov-one/flow/errors"
)

// Op is a pending write.
type Op struct {
	key    []byte
	value  []byte
	remove bool
}

// SetOp writes value under key.
func SetOp(key, value []byte) Op {
	return Op{key: key, value: value}
}

// DelOp removes key.
func DelOp(key []byte) Op {
	return Op{key: key, remove: true}
}

// Apply runs the write against out.
func (o Op) Apply(out SetDeleter) error {
	if o.remove {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch queues writes and replays them one by one on Write. A
// failure half way leaves the earlier writes applied, so only in-memory
// stores should rely on it.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

func (b *NonAtomicBatch) Write() error {
	pending := b.ops
	b.ops = nil
	for i, op := range pending {
		if err := op.Apply(b.out); err != nil {
			return errors.Wrapf(err, "op %d", i)
		}
	}
	return nil
}

// Reset forgets the queued writes.
func (b *NonAtomicBatch) Reset() {
	b.ops = nil
}

// ShowOps lists the queued writes, oldest first.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}

// SliceIterator walks a slice of models that is already ordered.
type SliceIterator struct {
	data []Model
}

var _ Iterator = (*SliceIterator)(nil)

func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

func (s *SliceIterator) Next() (key, value []byte, err error) {
	if len(s.data) == 0 {
		return nil, nil, errors.ErrIteratorDone
	}
	m := s.data[0]
	s.data = s.data[1:]
	return m.Key, m.Value, nil
}

func (s *SliceIterator) Release() {
	s.data = nil
}

// EmptyKVStore holds nothing and drops every write. It is the base layer of
// a standalone MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error)   { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)     { return false, nil }
func (EmptyKVStore) Set(_, _ []byte) error        { return nil }
func (EmptyKVStore) Delete([]byte) error          { return nil }
func (e EmptyKVStore) NewBatch() Batch            { return NewNonAtomicBatch(e) }

func (EmptyKVStore) Iterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

func (EmptyKVStore) ReverseIterator(_, _ []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}
