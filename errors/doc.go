/*
Package errors implements the error types used across flow.

Every error returned to a client should wrap one of the root errors
registered with Register. The registered code is what travels over ABCI,
so a client can tell a stale nonce from a cancelled stream without parsing
messages.

Extensions declare their own root errors with Register(code, description)
in their errors.go file. Reuse the common roots from this package whenever
the meaning fits.

Wrap attaches a stack trace at the lowest frame only, so
	%s prints the message chain
	%+v prints the message chain and the stack trace
*/
package errors
