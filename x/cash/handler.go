package cash

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/x"
)

// RegisterRoutes routes SendMsg to a handler moving coins with control.
func RegisterRoutes(r flow.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// RegisterQuery serves the wallets under "/wallets".
func RegisterQuery(qr flow.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// SendHandler transfers coins on behalf of the signer of the source
// account.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ flow.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

// Check does not look at the balance. A transfer that cannot be covered
// fails in deliver.
func (h SendHandler) Check(ctx flow.Context, _ flow.KVStore, tx flow.Tx) (*flow.CheckResult, error) {
	if _, err := h.authorized(ctx, tx); err != nil {
		return nil, err
	}
	return &flow.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.DeliverResult, error) {
	msg, err := h.authorized(ctx, tx)
	if err != nil {
		return nil, err
	}
	err = h.control.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount)
	if err != nil {
		return nil, err
	}
	return &flow.DeliverResult{}, nil
}

// authorized loads the message and requires a signature of its source.
func (h SendHandler) authorized(ctx flow.Context, tx flow.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := flow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "send")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "no signature of %s", msg.Source)
	}
	return &msg, nil
}
