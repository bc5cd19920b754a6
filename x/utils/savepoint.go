package utils

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// Savepoint runs the rest of the chain on a cache wrap of the store. The
// writes reach the store only when the chain returns no error. A stream
// operation that fails half way thus leaves no partial state behind.
//
// A zero Savepoint is inactive. Enable it per mode with OnCheck and
// OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ flow.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Checker) (*flow.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, db, tx)
	}
	var res *flow.CheckResult
	err := atomically(db, func(cache flow.KVStore) (err error) {
		res, err = next.Check(ctx, cache, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s Savepoint) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Deliverer) (*flow.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, db, tx)
	}
	var res *flow.DeliverResult
	err := atomically(db, func(cache flow.KVStore) (err error) {
		res, err = next.Deliver(ctx, cache, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// atomically runs fn over a cache wrap of db. Stores that cannot be cache
// wrapped are passed through unchanged.
func atomically(db flow.KVStore, fn func(flow.KVStore) error) error {
	cstore, ok := db.(flow.CacheableKVStore)
	if !ok {
		return fn(db)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	return errors.Wrap(cache.Write(), "flush savepoint")
}
