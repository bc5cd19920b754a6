package sigs

import (
	"github.com/iov-one/flow"
	"github.com/iov-one/flow/flowtest"
)

// StdTx is a signed transaction used by the tests.
type StdTx struct {
	flowtest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ flow.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &flowtest.Msg{RoutePath: "test/sigs", Serialized: payload}
	return &StdTx{Tx: flowtest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// signerRecorder remembers the signers it was called with.
type signerRecorder struct {
	seen []flow.Condition
}

var _ flow.Handler = (*signerRecorder)(nil)

func (r *signerRecorder) Check(ctx flow.Context, _ flow.KVStore, _ flow.Tx) (*flow.CheckResult, error) {
	r.seen = Authenticate{}.GetConditions(ctx)
	return &flow.CheckResult{}, nil
}

func (r *signerRecorder) Deliver(ctx flow.Context, _ flow.KVStore, _ flow.Tx) (*flow.DeliverResult, error) {
	r.seen = Authenticate{}.GetConditions(ctx)
	return &flow.DeliverResult{}, nil
}
