package sigs

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/x"
)

// Verifier decides whether a credential authorizes the given instruction.
// Message is the output of BuildInstructionSignBytes for delegated
// credentials and nil for invokers.
//
// Implementations must not modify any state.
type Verifier interface {
	Verify(ctx flow.Context, cred *Credential, message []byte) error
}

// NewVerifier returns the production verifier. Invoker credentials are
// checked against the authenticated transaction signers, delegated
// credentials by their ed25519 signature.
func NewVerifier(auth x.Authenticator) Verifier {
	return signatureVerifier{auth: auth}
}

type signatureVerifier struct {
	auth x.Authenticator
}

func (v signatureVerifier) Verify(ctx flow.Context, cred *Credential, message []byte) error {
	if cred.IsInvoker() {
		if !v.auth.HasAddress(ctx, cred.Invoker) {
			return errors.Wrapf(errors.ErrUnauthorized, "invoker %s did not sign", cred.Invoker)
		}
		return nil
	}
	d := cred.Delegated
	if !d.Pubkey.Verify(message, d.Signature) {
		return errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	return nil
}
