package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/flow"
	"github.com/iov-one/flow/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// their processing time. Transactions are labeled with the phase (check or
// deliver), the message path and the ABCI code of the result.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ flow.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator with collectors registered in the
// given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "flow",
				Subsystem: "tx",
				Name:      "processed_total",
				Help:      "Total processed transactions.",
			},
			[]string{"phase", "path", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "flow",
				Subsystem: "tx",
				Name:      "duration_seconds",
				Help:      "Transaction processing time in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"phase", "path"},
		),
	}
	for _, c := range []prometheus.Collector{m.txs, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(errors.ErrInput, err.Error())
		}
	}
	return m, nil
}

// Check records the result of a CheckTx
func (m *Metrics) Check(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Checker) (*flow.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records the result of a DeliverTx
func (m *Metrics) Deliver(ctx flow.Context, db flow.KVStore, tx flow.Tx, next flow.Deliverer) (*flow.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m *Metrics) observe(phase string, tx flow.Tx, start time.Time, err error) {
	path := flow.GetPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}
