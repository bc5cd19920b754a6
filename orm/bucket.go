package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// SeqID names the default id sequence of a bucket.
const SeqID = "id"

var validBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket stores objects of a single type under the "<name>:" prefix and
// keeps its secondary indexes up to date. Extensions embed it in a typed
// wrapper.
type Bucket struct {
	name    string
	prefix  []byte
	proto   Cloneable
	indexes map[string]Index
}

var _ flow.QueryHandler = Bucket{}

// NewBucket panics on an invalid name, buckets are declared at start up.
// proto is cloned to decode every stored value.
func NewBucket(name string, proto Cloneable) Bucket {
	if !validBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	return Bucket{
		name:   name,
		prefix: []byte(name + ":"),
		proto:  proto,
	}
}

// WithIndex returns a copy of b maintaining one more index. The index is
// stored as "<bucket>_<name>".
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %q declared twice on bucket %q", name, b.name))
	}
	indexes := map[string]Index{
		name: NewIndex(b.name+"_"+name, indexer, unique, b.DBKey),
	}
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	b.indexes = indexes
	return b
}

// Sequence returns the named counter of this bucket.
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// Register exposes the bucket under "/<name>" and each index under
// "/<name>/<index>". An empty name uses the bucket name.
func (b Bucket) Register(name string, r flow.QueryRouter) {
	if name == "" {
		name = b.name
	}
	path := "/" + name
	r.Register(path, b)
	for iname, idx := range b.indexes {
		r.Register(path+"/"+iname, idx)
	}
}

// Query looks up data as a key, or as a key prefix with the prefix mod.
// Returned keys include the bucket prefix.
func (b Bucket) Query(db flow.ReadOnlyKVStore, mod string, data []byte) ([]flow.Model, error) {
	switch mod {
	case flow.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil || value == nil {
			return nil, err
		}
		return []flow.Model{flow.Pair(key, value)}, nil
	case flow.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query mod %q", mod)
	}
}

// DBKey returns a newly allocated prefixed key.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, 0, len(b.prefix)+len(key))
	out = append(out, b.prefix...)
	return append(out, key...)
}

// Get returns nil without error when nothing is stored under key.
func (b Bucket) Get(db flow.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

func (b Bucket) Has(db flow.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse decodes a stored value into a new object with the given key.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "decode %s", b.name)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates obj, updates the indexes and writes it.
func (b Bucket) Save(db flow.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return errors.Wrapf(err, "encode %s", b.name)
	}
	if err := b.reindex(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete removes the object stored under key together with its index
// entries.
func (b Bucket) Delete(db flow.KVStore, key []byte) error {
	if err := b.reindex(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// reindex moves the index entries of key from the stored object to next.
// A nil next removes them.
func (b Bucket) reindex(db flow.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	if prev == nil && next == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// GetIndexed returns the objects the named index lists under key.
func (b Bucket) GetIndexed(db flow.ReadOnlyKVStore, index string, key []byte) ([]Object, error) {
	idx, ok := b.indexes[index]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "%s on %s", index, b.name)
	}
	refs, err := idx.GetAt(db, key)
	if err != nil || len(refs) == 0 {
		return nil, err
	}
	objs := make([]Object, 0, len(refs))
	for _, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
