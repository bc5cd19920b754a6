package utils

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// Recovery returns ErrPanic instead of letting a panic below it crash the
// node. Put it above any decorator that can panic.
type Recovery struct{}

var _ flow.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Checker) (res *flow.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Deliverer) (res *flow.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}
