package app

import (
	"reflect"

	"github.com/iov-one/flow"
)

// Decorators is a chain waiting for its final handler. The first decorator
// sees a transaction first.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
type Decorators struct {
	chain []flow.Decorator
}

// ChainDecorators starts a chain. Nil decorators, including typed nil
// pointers, are left out so that optional parts can be passed as is.
func ChainDecorators(chain ...flow.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new chain with more decorators appended.
func (d Decorators) Chain(more ...flow.Decorator) Decorators {
	chain := append([]flow.Decorator(nil), d.chain...)
	for _, dec := range more {
		if dec == nil {
			continue
		}
		if v := reflect.ValueOf(dec); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		chain = append(chain, dec)
	}
	return Decorators{chain: chain}
}

// WithHandler closes the chain with h.
func (d Decorators) WithHandler(h flow.Handler) flow.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = link{dec: d.chain[i], next: h}
	}
	return h
}

type link struct {
	dec  flow.Decorator
	next flow.Handler
}

func (l link) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
