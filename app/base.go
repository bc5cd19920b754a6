package app

import (
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
)

// BaseApp runs transactions on top of the state held by StoreApp. Check
// and deliver each use their own write layer. Tendermint never calls them
// concurrently.
type BaseApp struct {
	*StoreApp
	decoder flow.TxDecoder
	handler flow.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp serves transactions decoded by decoder with handler. In debug
// mode error responses carry the full error with its stack.
func NewBaseApp(store *StoreApp, decoder flow.TxDecoder, handler flow.Handler, debug bool) BaseApp {
	return BaseApp{StoreApp: store, decoder: decoder, handler: handler, debug: debug}
}

func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return flow.DeliverTxError(err, b.debug)
	}
	ctx := b.txContext("deliver_tx", tx)
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return flow.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return flow.CheckTxError(err, b.debug)
	}
	ctx := b.txContext("check_tx", tx)
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return flow.CheckOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx flow.Tx) flow.Context {
	return flow.WithLogInfo(b.BlockContext(), "call", call, "path", flow.GetPath(tx))
}

// decode turns a decoder panic on malformed input into an error.
func (b BaseApp) decode(raw []byte) (tx flow.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
