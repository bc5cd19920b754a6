package stream

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/coin"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/x/sigs"
)

const (
	createStreamCost   int64 = 300
	withdrawStreamCost int64 = 100
	cancelStreamCost   int64 = 100

	// Tags separate the signature domains of the instructions.
	createTag   = "c_stream"
	withdrawTag = "w_stream"
	cancelTag   = "s_stream"
)

// RegisterQuery registers the stream buckets under "/streams" and
// "/streamdata".
func RegisterQuery(qr flow.QueryRouter) {
	NewRegistry().Register(qr)
}

// RegisterRoutes registers handlers for all stream messages. Credentials are
// checked with the given verifier and funds are moved by the bank.
func RegisterRoutes(r flow.Registry, v sigs.Verifier, bank Bank) {
	guard := sigs.NewGuard(v)
	ctrl := NewController(bank)
	r.Handle(&CreateMsg{}, &createStreamHandler{guard: guard, ctrl: ctrl})
	r.Handle(&WithdrawMsg{}, &withdrawStreamHandler{guard: guard, ctrl: ctrl})
	r.Handle(&CancelMsg{}, &cancelStreamHandler{guard: guard, ctrl: ctrl})
}

type createStreamHandler struct {
	guard sigs.Guard
	ctrl  Controller
}

var _ flow.Handler = (*createStreamHandler)(nil)

func (h *createStreamHandler) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &flow.CheckResult{GasAllocated: createStreamCost}, nil
}

func (h *createStreamHandler) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	s := *msg.Stream
	s.Metadata = &flow.Metadata{Schema: currentSchema}

	id, err := h.ctrl.registry.NextID(db)
	if err != nil {
		return nil, errors.Wrap(err, "next id")
	}
	if err := h.ctrl.Deposit(db, id, &s); err != nil {
		return nil, errors.Wrap(err, "deposit")
	}
	created, err := h.ctrl.registry.Create(db, &s)
	if err != nil {
		return nil, err
	}
	if created != id {
		return nil, errors.Wrapf(errors.ErrState, "stream id %d, escrow funded for %d", created, id)
	}

	flow.GetLogger(ctx).Info("stream created",
		"id", id, "from", s.From, "to", s.To, "amount", s.Coin())
	return &flow.DeliverResult{Data: idKey(id)}, nil
}

// validate authorizes the payer and consumes its nonce.
func (h *createStreamHandler) validate(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := flow.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !msg.Credential.Identity().Equals(msg.Stream.From) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the payer can create a stream")
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if ticks := TotalTicks(msg.Stream); ticks > conf.MaxTicks {
		return nil, errors.Wrapf(ErrSchedule, "%d ticks, at most %d allowed", ticks, conf.MaxTicks)
	}
	payload, err := msg.Stream.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "stream payload")
	}
	if _, err := h.guard.Authorize(ctx, db, msg.Credential, createTag, msg.Nonce, payload); err != nil {
		return nil, err
	}
	return &msg, nil
}

type withdrawStreamHandler struct {
	guard sigs.Guard
	ctrl  Controller
}

var _ flow.Handler = (*withdrawStreamHandler)(nil)

func (h *withdrawStreamHandler) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &flow.CheckResult{GasAllocated: withdrawStreamCost}, nil
}

func (h *withdrawStreamHandler) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.DeliverResult, error) {
	msg, s, d, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}

	paid := coin.NewCoin(Available(s, d, now), s.Asset)
	if paid.IsPositive() {
		if err := h.ctrl.Release(db, msg.StreamID, s.To, paid); err != nil {
			return nil, errors.Wrap(err, "pay out")
		}
		if err := h.ctrl.registry.UpdateWithdrawn(db, msg.StreamID, d.Withdrawn+paid.Amount); err != nil {
			return nil, err
		}
	}

	flow.GetLogger(ctx).Info("stream withdrawn",
		"id", msg.StreamID, "to", s.To, "paid", paid, "withdrawn", d.Withdrawn+paid.Amount)
	return &flow.DeliverResult{Log: paid.String()}, nil
}

// validate checks the payee and the stream state before the credential is
// authorized and the nonce consumed.
func (h *withdrawStreamHandler) validate(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*WithdrawMsg, *Stream, *StreamData, error) {
	var msg WithdrawMsg
	if err := flow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	s, d, err := h.ctrl.GetStream(db, msg.StreamID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !msg.Credential.Identity().Equals(s.To) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the payee can withdraw")
	}
	if d.Cancelled {
		return nil, nil, nil, errors.Wrapf(ErrStreamCancelled, "id %d", msg.StreamID)
	}
	if d.Done(s) {
		return nil, nil, nil, errors.Wrapf(ErrStreamDone, "id %d", msg.StreamID)
	}
	if _, err := h.guard.Authorize(ctx, db, msg.Credential, withdrawTag, msg.Nonce, idKey(msg.StreamID)); err != nil {
		return nil, nil, nil, err
	}
	return &msg, s, d, nil
}

type cancelStreamHandler struct {
	guard sigs.Guard
	ctrl  Controller
}

var _ flow.Handler = (*cancelStreamHandler)(nil)

func (h *cancelStreamHandler) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &flow.CheckResult{GasAllocated: cancelStreamCost}, nil
}

func (h *cancelStreamHandler) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*flow.DeliverResult, error) {
	msg, s, d, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	now, err := blockNow(ctx)
	if err != nil {
		return nil, err
	}

	// Vested funds that were not withdrawn yet are refunded as well.
	refund := coin.NewCoin(s.Amount-d.Withdrawn, s.Asset)
	if err := h.ctrl.Release(db, msg.StreamID, s.From, refund); err != nil {
		return nil, errors.Wrap(err, "refund")
	}
	if err := h.ctrl.registry.MarkCancelled(db, msg.StreamID, refund.Amount, now); err != nil {
		return nil, err
	}

	flow.GetLogger(ctx).Info("stream cancelled",
		"id", msg.StreamID, "from", s.From, "refunded", refund, "withdrawn", d.Withdrawn)
	return &flow.DeliverResult{Log: refund.String()}, nil
}

// validate checks the payer and the stream state. Cancellation succeeds at
// most once, so no nonce is consumed.
func (h *cancelStreamHandler) validate(ctx flow.Context, db flow.KVStore, tx flow.Tx) (*CancelMsg, *Stream, *StreamData, error) {
	var msg CancelMsg
	if err := flow.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	s, d, err := h.ctrl.GetStream(db, msg.StreamID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !msg.Credential.Identity().Equals(s.From) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "only the payer can cancel")
	}
	if !s.Cancellable {
		return nil, nil, nil, errors.Wrapf(ErrStreamNotCancellable, "id %d", msg.StreamID)
	}
	if d.Cancelled {
		return nil, nil, nil, errors.Wrapf(ErrStreamCancelled, "id %d", msg.StreamID)
	}
	if d.Done(s) {
		return nil, nil, nil, errors.Wrapf(ErrStreamDone, "id %d", msg.StreamID)
	}
	if _, err := h.guard.Verify(ctx, msg.Credential, cancelTag, idKey(msg.StreamID)); err != nil {
		return nil, nil, nil, err
	}
	return &msg, s, d, nil
}

func blockNow(ctx flow.Context) (flow.UnixTime, error) {
	now, err := flow.BlockTime(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "block time")
	}
	return flow.AsUnixTime(now), nil
}
