package flow

import (
	"github.com/iov-one/flow/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are always reported as errors, never as a result.
type DeliverResult struct {
	// Data is a machine readable return value, for example the id of a
	// created stream.
	Data []byte
	// Log is a human readable summary, for example the settled amount.
	Log string
	// Tags are indexed by tendermint and make the transaction searchable.
	Tags []common.KVPair
	// GasUsed is reported to tendermint as is.
	GasUsed int64
}

// ToABCI converts the result into a tendermint response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckResult is the outcome of a successfully checked transaction.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the maximum units of work the transaction may use
	// once delivered.
	GasAllocated int64
	// GasPayment is what the transaction pays for, for example the
	// verification of its signatures.
	GasPayment int64
}

// ToABCI converts the result into a tendermint response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverOrError returns the tendermint response for a delivered
// transaction, built from err when it is not nil.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the tendermint response for a checked transaction,
// built from err when it is not nil.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError converts an error into a failed DeliverTx response. The
// code of a registered error is preserved. Details of internal errors are
// exposed in debug mode only.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := txError("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts an error into a failed CheckTx response, the same
// way DeliverTxError does.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := txError("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func txError(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, "cannot " + phase + " tx: " + log
}
