package utils

import (
	"time"

	"github.com/iov-one/flow"
)

// Logging writes one entry per transaction with the message path and the
// time it took. Failures are logged as errors, delivered transactions at
// info and checked ones at debug level.
type Logging struct{}

var _ flow.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Checker) (*flow.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	entry := txEntry{ctx: ctx, tx: tx, start: start, err: err}
	if err == nil {
		entry.msg = res.Log
	}
	entry.write(false)
	return res, err
}

func (Logging) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Deliverer) (*flow.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	entry := txEntry{ctx: ctx, tx: tx, start: start, err: err}
	if err == nil {
		entry.msg = res.Log
	}
	entry.write(true)
	return res, err
}

type txEntry struct {
	ctx   flow.Context
	tx    flow.Tx
	start time.Time
	msg   string
	err   error
}

func (e txEntry) write(delivered bool) {
	logger := flow.GetLogger(e.ctx).With(
		"path", flow.GetPath(e.tx),
		"duration", time.Since(e.start)/time.Microsecond,
	)
	switch {
	case e.err != nil:
		logger.Error(e.msg, "err", e.err)
	case delivered:
		logger.Info(e.msg)
	default:
		logger.Debug(e.msg)
	}
}
