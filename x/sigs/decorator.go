/*
Package sigs provides the authentication layer of flow.

At the transaction level, the Decorator verifies the signatures on the
transaction and maintains a sequence per signer for replay protection.
Verified signers are exposed to handlers through Authenticate.

At the instruction level, the Guard authorizes a Credential carried inside a
message. An Invoker credential relies on the transaction signers and must
always use nonce zero. A Delegated credential carries its own signature,
bound to a per identity nonce that advances by one on every accepted
instruction.
*/
package sigs

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// signatureVerifyCost is charged in check per valid signature.
const signatureVerifyCost = 500

// RegisterQuery serves the signing accounts under "/auth" and the
// instruction nonces under "/nonces".
func RegisterQuery(qr flow.QueryRouter) {
	NewBucket().Register("auth", qr)
	NewNonceBucket().Register("nonces", qr)
}

// Decorator verifies transaction signatures and bumps the sequence of each
// signer before the rest of the stack runs. The signers are then visible
// through Authenticate.
type Decorator struct {
	unsigned bool
}

var _ flow.Decorator = Decorator{}

// NewDecorator rejects signed transactions that carry no signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets transactions without signatures through. Their
// messages must then be authorized by a Delegated credential.
func (d Decorator) AllowMissingSigs() Decorator {
	d.unsigned = true
	return d
}

func (d Decorator) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Checker) (*flow.CheckResult, error) {
	ctx, signers, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasPayment += int64(len(signers)) * signatureVerifyCost
	return res, nil
}

func (d Decorator) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Deliverer) (*flow.DeliverResult, error) {
	ctx, _, err := d.verify(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// verify leaves ctx untouched for transactions that are not SignedTx.
func (d Decorator) verify(ctx flow.Context, db flow.KVStore, tx flow.Tx) (flow.Context, []flow.Condition, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return ctx, nil, nil
	}
	signers, err := VerifyTxSignatures(db, stx, flow.GetChainID(ctx))
	switch {
	case err != nil:
		return nil, nil, errors.Wrap(err, "signatures")
	case len(signers) == 0 && !d.unsigned:
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no signature")
	}
	return withSigners(ctx, signers), signers, nil
}
