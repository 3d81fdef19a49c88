package bootstrap

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for bootstrap runs.
// A nil *Metrics records nothing.
type Metrics struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engine_bootstrap_runs_total",
			Help: "Completed bootstrap sequences by outcome and error kind",
		}, []string{"outcome", "kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "engine_bootstrap_duration_seconds",
			Help:    "Time spent gating, loading and initializing the engine",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
	for _, c := range []prometheus.Collector{m.runs, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(outcome Outcome, err error, d time.Duration) {
	if m == nil {
		return
	}
	kind := ""
	if err != nil {
		kind = string(kindOr(err, "unknown"))
	}
	m.runs.WithLabelValues(outcome.String(), kind).Inc()
	m.duration.Observe(d.Seconds())
}
