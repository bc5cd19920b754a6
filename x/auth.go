package x

import (
	"github.com/iov-one/flow"
)

// Authenticator extracts authentication info from the context. Handlers
// receive it in their constructor so that the source of identities, usually
// the transaction signatures verified by x/sigs, can be replaced.
type Authenticator interface {
	// GetConditions returns all conditions fulfilled by the transaction.
	GetConditions(flow.Context) []flow.Condition
	// HasAddress checks if any fulfilled condition matches the address.
	HasAddress(flow.Context, flow.Address) bool
}

// MultiAuth combines many Authenticators into one.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth groups together a series of Authenticator. The conditions of
// the first one are listed first.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions returns the conditions of all Authenticators.
func (m MultiAuth) GetConditions(ctx flow.Context) []flow.Condition {
	var res []flow.Condition
	for _, impl := range m {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true if any Authenticator knows the address.
func (m MultiAuth) HasAddress(ctx flow.Context, addr flow.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}
