package orm

import (
	"reflect"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// Model is a value a bucket can store.
type Model interface {
	flow.Persistent
	Validate() error
}

// Object is a model together with its primary key. A bucket prefixes the
// key with its name before writing.
type Object interface {
	Keyed
	Cloneable
	Validate() error
	Value() flow.Persistent
}

type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable gives a bucket an empty object to load stored data into.
type Cloneable interface {
	Clone() Object
}

// SimpleObj is the Object used by all buckets of this module.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte            { return o.key }
func (o *SimpleObj) SetKey(key []byte)     { o.key = key }
func (o SimpleObj) Value() flow.Persistent { return o.value }

// Validate requires a key and a valid value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Wrap(errors.ErrEmpty, "object key")
	case o.value == nil:
		return errors.Wrap(errors.ErrEmpty, "object value")
	}
	return o.value.Validate()
}

// Clone returns an object with a copy of the key and a zero value of the
// same type.
func (o *SimpleObj) Clone() Object {
	blank := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	var key []byte
	if len(o.key) != 0 {
		key = append(key, o.key...)
	}
	return &SimpleObj{key: key, value: blank}
}
