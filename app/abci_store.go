package app

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/store"
)

// ABCIStore reads the state of a running application through abci Query
// on the raw store path "/", registered by orm.RegisterQuery. Buckets can
// load objects from it like from any other store.
type ABCIStore struct {
	app abci.Application
}

var _ flow.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	found, err := a.query("/", key)
	switch {
	case err != nil:
		return nil, err
	case len(found) == 0:
		return nil, nil
	case len(found) > 1:
		return nil, errors.Wrapf(errors.ErrState, "key %X matched %d entries", key, len(found))
	}
	return found[0].Value, nil
}

func (a *ABCIStore) Has(key []byte) (bool, error) {
	value, err := a.Get(key)
	return value != nil, err
}

// Iterator can only walk the whole store, which is a prefix query for the
// empty prefix.
func (a *ABCIStore) Iterator(start, end []byte) (flow.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrInput, "only the full range can be iterated")
	}
	all, err := a.query("/?"+flow.PrefixQueryMod, nil)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(all), nil
}

func (a *ABCIStore) ReverseIterator(start, end []byte) (flow.Iterator, error) {
	return nil, errors.Wrap(errors.ErrHuman, "reverse iteration is not supported")
}

func (a *ABCIStore) query(path string, data []byte) ([]flow.Model, error) {
	res := a.app.Query(abci.RequestQuery{Path: path, Data: data})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	var keys, values ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "values")
	}
	return JoinResults(&keys, &values)
}
