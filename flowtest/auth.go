package flowtest

import (
	"context"
	"fmt"

	"github.com/iov-one/flow"
)

// Auth authenticates a fixed set of conditions: Signer, if set, and all of
// Signers.
type Auth struct {
	Signer  flow.Condition
	Signers []flow.Condition
}

func (a *Auth) GetConditions(flow.Context) []flow.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	all := make([]flow.Condition, 0, len(a.Signers)+1)
	all = append(all, a.Signers...)
	return append(all, a.Signer)
}

func (a *Auth) HasAddress(ctx flow.Context, addr flow.Address) bool {
	return anyHas(a.GetConditions(ctx), addr)
}

// CtxAuth authenticates the conditions stored in the context under Key.
// Two CtxAuth with different keys do not see each other.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx flow.Context, conds ...flow.Condition) flow.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx flow.Context) []flow.Condition {
	switch v := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []flow.Condition:
		return v
	default:
		panic(fmt.Sprintf("ctx auth %q holds %T", a.Key, v))
	}
}

func (a *CtxAuth) HasAddress(ctx flow.Context, addr flow.Address) bool {
	return anyHas(a.GetConditions(ctx), addr)
}

func anyHas(conds []flow.Condition, addr flow.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
