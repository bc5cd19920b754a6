package orm

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// consumeIterator will read all remaining data into an
// array and release the iterator
func consumeIterator(itr flow.Iterator) ([]flow.Model, error) {
	defer itr.Release()

	var res []flow.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, flow.Pair(key, value))
	}
}

// queryPrefix returns all models whose keys start with prefix.
func queryPrefix(db flow.ReadOnlyKVStore, prefix []byte) ([]flow.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return consumeIterator(itr)
}

// prefixRange turns a prefix into (start, end) for an iterator. The end is
// nil if the prefix is all 0xFF bytes.
func prefixRange(prefix []byte) ([]byte, []byte) {
	if len(prefix) == 0 {
		return nil, nil
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return prefix, end[:i+1]
		}
	}
	return prefix, nil
}

// RegisterQuery exposes the whole store under "/", for clients that know
// the full keys they are looking for.
func RegisterQuery(qr flow.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db flow.ReadOnlyKVStore, mod string, data []byte) ([]flow.Model, error) {
	switch mod {
	case flow.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []flow.Model{flow.Pair(data, value)}, nil
	case flow.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
