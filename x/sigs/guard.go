package sigs

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// Guard authorizes instructions carrying a Credential. It combines a
// Verifier with the per identity nonce counters.
type Guard struct {
	verifier Verifier
	nonces   NonceBucket
}

// NewGuard returns a guard using the given verifier.
func NewGuard(v Verifier) Guard {
	return Guard{
		verifier: v,
		nonces:   NewNonceBucket(),
	}
}

// Authorize verifies the credential for the instruction identified by tag
// and payload and consumes the nonce. On success the identity the
// instruction runs as is returned.
//
// An invoker must always present nonce zero and its counter never advances.
// A delegated credential must present the stored nonce, which is then
// incremented. Nothing is written when an error is returned.
func (g Guard) Authorize(ctx flow.Context, db flow.KVStore, cred *Credential, tag string, nonce int64, payload []byte) (flow.Address, error) {
	id, err := g.verify(ctx, cred, tag, nonce, payload)
	if err != nil {
		return nil, err
	}

	if cred.IsInvoker() {
		if nonce != 0 {
			return nil, errors.Wrapf(ErrIncorrectNonceForInvoker, "got %d", nonce)
		}
		return id, nil
	}
	if err := g.nonces.CheckAndIncrement(db, id, nonce); err != nil {
		return nil, err
	}
	return id, nil
}

// Verify checks the credential for an instruction that needs no replay
// protection, because it can succeed only once. No nonce is consumed and
// delegated signatures are created for nonce zero.
func (g Guard) Verify(ctx flow.Context, cred *Credential, tag string, payload []byte) (flow.Address, error) {
	return g.verify(ctx, cred, tag, 0, payload)
}

func (g Guard) verify(ctx flow.Context, cred *Credential, tag string, nonce int64, payload []byte) (flow.Address, error) {
	if err := cred.Validate(); err != nil {
		return nil, errors.Wrap(err, "credential")
	}
	var msg []byte
	if !cred.IsInvoker() {
		if nonce < 0 {
			return nil, errors.Wrap(ErrIncorrectNonce, "negative")
		}
		bz, err := BuildInstructionSignBytes(tag, flow.GetChainID(ctx), nonce, payload)
		if err != nil {
			return nil, err
		}
		msg = bz
	}
	if err := g.verifier.Verify(ctx, cred, msg); err != nil {
		return nil, err
	}
	return cred.Identity(), nil
}
