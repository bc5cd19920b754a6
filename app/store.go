package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// StoreApp implements the parts of abci.Application that deal with state:
// the chain handshake, genesis, queries and commits. Transaction processing
// is added by BaseApp, which embeds it.
//
// None of Info, InitChain, BeginBlock, EndBlock or Commit carry user input.
// A failure there means the node cannot continue, so they panic.
type StoreApp struct {
	name   string
	logger log.Logger
	store  *CommitStore

	initializer flow.Initializer
	queryRouter flow.QueryRouter

	// chainID is empty until InitChain stores it, or loaded on restart.
	chainID string

	// baseContext lives as long as the app, blockContext is rebuilt on
	// every BeginBlock.
	baseContext  flow.Context
	blockContext flow.Context
}

// NewStoreApp loads the chain id and the last committed height from the
// store. It panics when the store cannot be read.
func NewStoreApp(name string, kv flow.CommitKVStore, qr flow.QueryRouter, ctx flow.Context) *StoreApp {
	s := &StoreApp{
		name:        name,
		store:       NewCommitStore(kv),
		queryRouter: qr,
		baseContext: ctx,
	}
	s = s.WithLogger(log.NewNopLogger())

	if id := mustLoadChainID(s.DeliverStore()); id != "" {
		s.chainID = id
		s.baseContext = flow.WithChainID(s.baseContext, id)
	}
	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.blockContext = flow.WithHeight(s.baseContext, last.Version)
	return s
}

func (s *StoreApp) GetChainID() string {
	return s.chainID
}

// WithInit sets what loads the genesis app_state.
func (s *StoreApp) WithInit(init flow.Initializer) *StoreApp {
	s.initializer = init
	return s
}

// WithLogger replaces the logger of the app and of every context derived
// from it afterwards.
func (s *StoreApp) WithLogger(logger log.Logger) *StoreApp {
	s.logger = logger
	s.baseContext = flow.WithLogger(s.baseContext, logger)
	return s
}

func (s *StoreApp) Logger() log.Logger {
	return s.logger
}

// BlockContext is the context of the block being processed.
func (s *StoreApp) BlockContext() flow.Context {
	return s.blockContext
}

// DeliverStore is the working state of the current block.
func (s *StoreApp) DeliverStore() flow.CacheableKVStore {
	return s.store.DeliverStore()
}

// CheckStore is the state used to check mempool transactions.
func (s *StoreApp) CheckStore() flow.CacheableKVStore {
	return s.store.CheckStore()
}

// loadGenesis runs once per chain. A restarted node already knows its
// chain id and never gets here.
func (s *StoreApp) loadGenesis(raw []byte, chainID string) error {
	if s.chainID != "" {
		return errors.Wrapf(errors.ErrState, "genesis already loaded for chain %q", s.chainID)
	}
	if len(raw) == 0 {
		return errors.Wrap(errors.ErrState, "empty app_state, initialize the genesis file first")
	}
	var opts flow.Options
	if err := json.Unmarshal(raw, &opts); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	db := s.DeliverStore()
	if err := saveChainID(db, chainID); err != nil {
		return err
	}
	s.chainID = chainID
	s.baseContext = flow.WithChainID(s.baseContext, chainID)

	if s.initializer == nil {
		return nil
	}
	return s.initializer.FromGenesis(opts, db)
}

// Info reports the last committed height and app hash, which tendermint
// uses to replay missing blocks on start.
func (s *StoreApp) Info(abci.RequestInfo) abci.ResponseInfo {
	last, err := s.store.CommitInfo()
	if err != nil {
		panic(err)
	}
	s.logger.Info("handshake", "height", last.Version, "hash", fmt.Sprintf("%X", last.Hash))
	return abci.ResponseInfo{
		Data:             s.name,
		LastBlockHeight:  last.Version,
		LastBlockAppHash: last.Hash,
	}
}

func (s *StoreApp) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "not supported"}
}

// Query reads the last committed state. The path selects a registered
// handler and may end in "?<mod>", for example "/streams/payer?prefix".
// The requested height is ignored.
//
// Key and Value of the response are both marshalled ResultSets of equal
// length, so a query may return any number of entries.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	handler := s.queryRouter.Handler(path)
	if handler == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "no query handler for %q", req.Path))
	}

	last, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	db := s.store.committed.CacheWrap()
	defer db.Discard()

	models, err := handler.Query(db, mod, req.Data)
	if err != nil {
		return queryError(err)
	}
	keys, err := ResultsFromKeys(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	values, err := ResultsFromValues(models).Marshal()
	if err != nil {
		return queryError(err)
	}
	return abci.ResponseQuery{Height: last.Version, Key: keys, Value: values}
}

// splitPath separates the query modifier following "?" from the path.
func splitPath(full string) (path, mod string) {
	if i := strings.Index(full, "?"); i >= 0 {
		return full[:i], full[i+1:]
	}
	return full, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

// Commit persists the block state and returns the new app hash.
func (s *StoreApp) Commit() abci.ResponseCommit {
	id, err := s.store.Commit()
	if err != nil {
		panic(err)
	}
	s.logger.Debug("committed", "height", id.Version, "hash", fmt.Sprintf("%X", id.Hash))
	return abci.ResponseCommit{Data: id.Hash}
}

func (s *StoreApp) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if err := s.loadGenesis(req.AppStateBytes, req.ChainId); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock stores the header so that handlers can read the block time
// and height.
func (s *StoreApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	ctx := flow.WithHeader(s.baseContext, req.Header)
	s.blockContext = flow.WithHeight(ctx, req.Header.GetHeight())
	return abci.ResponseBeginBlock{}
}

func (s *StoreApp) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}
