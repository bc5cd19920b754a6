package flowtest

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/app"
	"github.com/iov-one/flow/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Tester is implemented by both *testing.T and *testing.B. Use it instead of
// the pointer type to allow notation to accept both objects.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Fatalf(string, ...interface{})
	Logf(string, ...interface{})
}

// Runner provides a translation layer between an ABCI interface and a flow
// application. It takes care of serializing transactions and creating
// blocks. Every block is one second after the previous one unless a block
// time is given explicitly.
type Runner struct {
	*app.ABCIStore

	chainID string
	height  int64
	now     time.Time
	t       Tester
	app     abci.Application
}

// NewRunner returns a runner driving the given application. The first block
// is created at the given time.
func NewRunner(t Tester, a abci.Application, chainID string, start time.Time) *Runner {
	return &Runner{
		ABCIStore: app.NewABCIStore(a),
		chainID:   chainID,
		now:       start,
		t:         t,
		app:       a,
	}
}

// BlockApp is what transactions executed within a block can use.
type BlockApp interface {
	DeliverTx(flow.Tx) ([]byte, error)
	CheckTx(flow.Tx) error
	flow.ReadOnlyKVStore
}

var _ BlockApp = (*Runner)(nil)

// InitChain serializes given genesis to JSON and loads it. Loading a genesis
// creates a block.
func (r *Runner) InitChain(genesis interface{}) {
	r.t.Helper()

	raw, err := json.MarshalIndent(genesis, "", "  ")
	if err != nil {
		r.t.Fatalf("cannot JSON serialize genesis: %s", err)
	}
	changed := r.InBlock(func(BlockApp) error {
		r.app.InitChain(abci.RequestInitChain{
			Time:          r.now,
			ChainId:       r.chainID,
			AppStateBytes: raw,
		})
		return nil
	})
	if !changed {
		r.t.Fatalf("genesis did not change the state")
	}
}

// CheckTx serializes given transaction and executes it in check mode.
func (r *Runner) CheckTx(tx flow.Tx) error {
	raw, err := tx.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal transaction")
	}
	if resp := r.app.CheckTx(raw); resp.Code != 0 {
		return errors.ABCIError(resp.Code, resp.Log)
	}
	return nil
}

// DeliverTx serializes given transaction and executes it in deliver mode.
// The data of the result is returned.
func (r *Runner) DeliverTx(tx flow.Tx) ([]byte, error) {
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal transaction")
	}
	resp := r.app.DeliverTx(raw)
	if resp.Code != 0 {
		return nil, errors.ABCIError(resp.Code, resp.Log)
	}
	return resp.Data, nil
}

// Now returns the time of the most recent block.
func (r *Runner) Now() time.Time {
	return r.now
}

// InBlock creates a block one second after the previous one and runs the
// given function in it.
func (r *Runner) InBlock(executeTx func(BlockApp) error) bool {
	r.t.Helper()
	return r.InBlockAt(r.now.Add(time.Second), executeTx)
}

// InBlockAt begins a block with the given time and runs given function. All
// transactions executed within given function are part of that block. Upon
// success the block is finished and changes committed.
// InBlockAt returns true if the application state was modified.
//
// Any failure is ending the test instantly.
func (r *Runner) InBlockAt(now time.Time, executeTx func(BlockApp) error) bool {
	r.t.Helper()

	if now.Before(r.now) {
		r.t.Fatalf("block time %s before the previous block %s", now, r.now)
	}
	r.now = now
	r.height++

	initialHash := r.app.Info(abci.RequestInfo{}).LastBlockAppHash

	// BeginBlock will panic on error.
	r.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{
			ChainID: r.chainID,
			Height:  r.height,
			Time:    r.now,
		},
	})

	if err := executeTx(r); err != nil {
		r.t.Fatalf("operation failed with %+v", err)
	}

	r.app.EndBlock(abci.RequestEndBlock{Height: r.height})

	// Commit data contains the new app hash. It differs from the initial
	// hash only if the state was modified.
	finalHash := r.app.Commit().Data
	return !bytes.Equal(initialHash, finalHash)
}
