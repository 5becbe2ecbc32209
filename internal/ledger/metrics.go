package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Check-out outcomes recorded on desk_ledger_checkouts_total.
const (
	OutcomeClosed = "closed"
	OutcomeNoop   = "noop"
)

// Metrics holds the ledger's Prometheus collectors.
type Metrics struct {
	CheckIns          prometheus.Counter
	CheckOuts         *prometheus.CounterVec
	PersonUpserts     *prometheus.CounterVec
	IntegrityFailures *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
}

// NewMetrics creates the ledger collectors and registers them with reg.
// A nil reg leaves them unregistered, which keeps tests isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CheckIns: factory.NewCounter(prometheus.CounterOpts{
			Name: "desk_ledger_checkins_total",
			Help: "Total number of transactions opened",
		}),
		CheckOuts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_ledger_checkouts_total",
			Help: "Check-out attempts by outcome",
		}, []string{"outcome"}),
		PersonUpserts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_directory_person_upserts_total",
			Help: "Person upserts by whether they were applied",
		}, []string{"applied"}),
		IntegrityFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "desk_ledger_integrity_failures_total",
			Help: "Ledger invariant violations observed, by code",
		}, []string{"code"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "desk_ledger_operation_duration_seconds",
			Help:    "Duration of ledger operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}, []string{"op"}),
	}
}

func (m *Metrics) timer(op string) *prometheus.Timer {
	return prometheus.NewTimer(m.OperationDuration.WithLabelValues(op))
}
