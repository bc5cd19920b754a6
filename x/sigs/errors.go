package sigs

import "github.com/iov-one/flow/errors"

// x/sigs reserves 120 ~ 129.
var (
	// ErrIncorrectNonceForInvoker is returned when a self-authorized
	// instruction carries a nonce other than zero.
	ErrIncorrectNonceForInvoker = errors.Register(120, "invoker nonce must be zero")

	// ErrIncorrectNonce is returned when a delegated instruction carries a
	// nonce that is not the next expected one for its identity.
	ErrIncorrectNonce = errors.Register(121, "incorrect nonce")

	// ErrInvalidSequence is returned when a transaction signature sequence
	// does not match the signer account.
	ErrInvalidSequence = errors.Register(122, "invalid sequence number")
)
