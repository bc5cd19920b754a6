package app

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/codec"
	"github.com/iov-one/flow/errors"
)

// ResultSet is one column of a query response. The keys and the values of
// the matched entries travel as two result sets of equal length.
//
// The encoding drops empty entries, which is safe since the store never
// holds empty values.
type ResultSet struct {
	Results [][]byte
}

func (r *ResultSet) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	for _, b := range r.Results {
		e.Bytes(1, b)
	}
	return e.Result()
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	*r = ResultSet{}
	return codec.Decode(raw, func(f codec.Field) error {
		if f.Num != 1 {
			return nil
		}
		b, err := f.Bytes()
		r.Results = append(r.Results, b)
		return err
	})
}

func column(models []flow.Model, pick func(flow.Model) []byte) *ResultSet {
	out := make([][]byte, 0, len(models))
	for _, m := range models {
		out = append(out, pick(m))
	}
	return &ResultSet{Results: out}
}

func ResultsFromKeys(models []flow.Model) *ResultSet {
	return column(models, func(m flow.Model) []byte { return m.Key })
}

func ResultsFromValues(models []flow.Model) *ResultSet {
	return column(models, func(m flow.Model) []byte { return m.Value })
}

// JoinResults pairs the key and value columns of a query response back
// into models.
func JoinResults(keys, values *ResultSet) ([]flow.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys for %d values", len(keys.Results), len(values.Results))
	}
	out := make([]flow.Model, len(keys.Results))
	for i, k := range keys.Results {
		out[i] = flow.Pair(k, values.Results[i])
	}
	return out, nil
}

// UnmarshalOneResult decodes the single entry of an encoded ResultSet into
// dst. An empty set leaves dst untouched.
func UnmarshalOneResult(raw []byte, dst flow.Persistent) error {
	var set ResultSet
	if err := set.Unmarshal(raw); err != nil {
		return errors.Wrap(err, "result set")
	}
	switch n := len(set.Results); n {
	case 0:
		return nil
	case 1:
		return dst.Unmarshal(set.Results[0])
	default:
		return errors.Wrapf(errors.ErrState, "expected one result, got %d", n)
	}
}
