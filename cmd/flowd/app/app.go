/*
Package app assembles the flowd application: the decorator chain, the cash
and stream handlers, the query paths and the iavl backed state.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/app"
	"github.com/iov-one/flow/errors"
	"github.com/iov-one/flow/orm"
	"github.com/iov-one/flow/store/iavl"
	"github.com/iov-one/flow/x"
	"github.com/iov-one/flow/x/cash"
	"github.com/iov-one/flow/x/sigs"
	"github.com/iov-one/flow/x/stream"
	"github.com/iov-one/flow/x/utils"
)

// Name is reported through abci Info.
const Name = "flowd"

// decorators run in order around every transaction. The first savepoint
// drops all writes of a failing check. The second one keeps the signer
// sequence bump of a failing deliver while rolling back the message.
// Transactions without signatures are let through since a delegated
// credential authorizes its message on its own. A nil metrics is skipped.
func decorators(metrics *utils.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewActionTagger(),
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator().AllowMissingSigs(),
		utils.NewSavepoint().OnDeliver(),
	)
}

func router() *app.Router {
	auth := x.ChainAuth(sigs.Authenticate{})
	bank := cash.NewController(cash.NewBucket())

	r := app.NewRouter()
	cash.RegisterRoutes(r, auth, bank)
	stream.RegisterRoutes(r, sigs.NewVerifier(auth), bank)
	return r
}

// queries serves "/wallets", "/auth", "/nonces", "/streams", "/streamdata"
// and the raw store under "/".
func queries() flow.QueryRouter {
	qr := flow.NewQueryRouter()
	qr.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		stream.RegisterQuery,
		orm.RegisterQuery,
	)
	return qr
}

// Initializers loads the genesis state of every extension.
func Initializers() flow.Initializer {
	return flow.ChainInitializers{
		cash.Initializer{},
		stream.Initializer{},
	}
}

// openStore opens the iavl database at dbPath. The path may carry a ".db"
// suffix, which is dropped. An empty path keeps the state in memory.
func openStore(dbPath string) (flow.CommitKVStore, error) {
	if dbPath == "" {
		return iavl.NewCommitStoreFromDB(dbm.NewMemDB()), nil
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "database path %q", dbPath)
	}
	abs = strings.TrimSuffix(abs, filepath.Ext(abs))
	return iavl.NewCommitStore(filepath.Dir(abs), filepath.Base(abs))
}

// GenerateApp builds the application stored under home, or in memory when
// home is empty. Metrics are registered with reg unless it is nil.
func GenerateApp(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error) {
	var metrics *utils.Metrics
	if reg != nil {
		m, err := utils.NewMetrics(reg)
		if err != nil {
			return nil, errors.Wrap(err, "metrics")
		}
		metrics = m
	}

	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "flow.db")
	}
	kv, err := openStore(dbPath)
	if err != nil {
		return nil, err
	}

	state := app.NewStoreApp(Name, kv, queries(), context.Background())
	handler := decorators(metrics).WithHandler(router())
	base := app.NewBaseApp(state, TxDecoder, handler, debug)
	base.WithInit(Initializers())
	base.WithLogger(logger)
	return base, nil
}
