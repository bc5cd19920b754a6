package orm

import (
	"bytes"
	"encoding/binary"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// Index maps a value derived from each object of a bucket back to the
// object's primary key.
type Index interface {
	flow.QueryHandler

	// Update moves the index entry of an object from prev to save. A nil
	// prev is an insert and a nil save is a removal. Both must share the
	// same primary key.
	Update(db flow.KVStore, prev Object, save Object) error

	// GetAt lists the primary keys stored under value.
	GetAt(db flow.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

// Indexer derives the index value of an object. Objects for which it
// returns nil are not indexed.
type Indexer func(Object) ([]byte, error)

const indexPrefix = "_i."

// rowIndex keeps one row per indexed object:
//
//	_i.<name>:<uint16 len(value)><value><primary key> -> <primary key>
//
// The length prefix keeps a value from matching rows of a longer value
// that starts with it.
type rowIndex struct {
	name   string
	prefix []byte
	unique bool
	derive Indexer
	dbKey  func([]byte) []byte
}

var _ Index = rowIndex{}

// NewIndex returns an index called name. dbKey maps a primary key to the
// key of the object in the store and is used to answer queries. A unique
// index refuses a second object under the same value.
func NewIndex(name string, indexer Indexer, unique bool, dbKey func([]byte) []byte) Index {
	return rowIndex{
		name:   name,
		prefix: []byte(indexPrefix + name + ":"),
		unique: unique,
		derive: indexer,
		dbKey:  dbKey,
	}
}

func (x rowIndex) valuePrefix(value []byte) []byte {
	n := len(x.prefix)
	out := make([]byte, n+2, n+2+len(value))
	copy(out, x.prefix)
	binary.BigEndian.PutUint16(out[n:], uint16(len(value)))
	return append(out, value...)
}

func (x rowIndex) rowKey(value, pk []byte) []byte {
	return append(x.valuePrefix(value), pk...)
}

// valueOf is nil for a nil object.
func (x rowIndex) valueOf(obj Object) ([]byte, error) {
	if obj == nil {
		return nil, nil
	}
	return x.derive(obj)
}

func (x rowIndex) Update(db flow.KVStore, prev Object, save Object) error {
	if prev == nil && save == nil {
		return errors.Wrapf(errors.ErrHuman, "index %s: nothing to update", x.name)
	}
	if prev != nil && save != nil && !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrapf(errors.ErrImmutable, "index %s: primary key changed", x.name)
	}
	before, err := x.valueOf(prev)
	if err != nil {
		return err
	}
	after, err := x.valueOf(save)
	if err != nil {
		return err
	}
	if prev != nil && save != nil && bytes.Equal(before, after) && (before == nil) == (after == nil) {
		return nil
	}
	if before != nil {
		if err := x.remove(db, before, prev.Key()); err != nil {
			return err
		}
	}
	if after != nil {
		return x.insert(db, after, save.Key())
	}
	return nil
}

func (x rowIndex) insert(db flow.KVStore, value, pk []byte) error {
	if x.unique {
		taken, err := x.GetAt(db, value)
		if err != nil {
			return err
		}
		if len(taken) != 0 {
			return errors.Wrapf(errors.ErrDuplicate, "index %s", x.name)
		}
	}
	return db.Set(x.rowKey(value, pk), pk)
}

func (x rowIndex) remove(db flow.KVStore, value, pk []byte) error {
	key := x.rowKey(value, pk)
	switch has, err := db.Has(key); {
	case err != nil:
		return err
	case !has:
		return errors.Wrapf(errors.ErrNotFound, "index %s has no row for %X", x.name, pk)
	}
	return db.Delete(key)
}

// GetAt returns the primary keys in ascending order, or nil.
func (x rowIndex) GetAt(db flow.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	rows, err := queryPrefix(db, x.valuePrefix(value))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	pks := make([][]byte, 0, len(rows))
	for _, r := range rows {
		pks = append(pks, r.Value)
	}
	return pks, nil
}

// Query answers key queries with the objects stored under the value.
func (x rowIndex) Query(db flow.ReadOnlyKVStore, mod string, data []byte) ([]flow.Model, error) {
	if mod != flow.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "index %s does not support %q queries", x.name, mod)
	}
	pks, err := x.GetAt(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]flow.Model, 0, len(pks))
	for _, pk := range pks {
		key := x.dbKey(pk)
		raw, err := db.Get(key)
		switch {
		case err != nil:
			return nil, err
		case raw == nil:
			return nil, errors.Wrapf(errors.ErrNotFound, "index %s points to missing %X", x.name, pk)
		}
		res = append(res, flow.Pair(key, raw))
	}
	return res, nil
}
