package flowtest

import "github.com/iov-one/flow"

// Decorator passes calls through to the next handler unless CheckErr or
// DeliverErr is set, in which case it fails without calling it. Calls are
// counted either way.
type Decorator struct {
	calls
	CheckErr   error
	DeliverErr error
}

var _ flow.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Checker) (*flow.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Deliverer) (*flow.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate puts d in front of h.
func Decorate(h flow.Handler, d flow.Decorator) flow.Handler {
	return decorated{next: h, dec: d}
}

type decorated struct {
	next flow.Handler
	dec  flow.Decorator
}

func (d decorated) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}
