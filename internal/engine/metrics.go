package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors of an Engine. A nil *Metrics records
// nothing.
type Metrics struct {
	// solves counts finished solves.
	// Labels: method, outcome (converged, exhausted or an error code)
	solves *prometheus.CounterVec

	// iterations is the distribution of iterations of successful solves.
	// Labels: method
	iterations *prometheus.HistogramVec

	// duration measures wall time per solve, including compilation.
	// Labels: method
	duration *prometheus.HistogramVec
}

// NewMetrics creates the engine collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		solves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rootfind",
			Name:      "solves_total",
			Help:      "Total solves by method and outcome",
		}, []string{"method", "outcome"}),
		iterations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rootfind",
			Name:      "iterations",
			Help:      "Iterations used by successful solves",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		}, []string{"method"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rootfind",
			Name:      "solve_duration_seconds",
			Help:      "Solve latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}, []string{"method"}),
	}
}

func (m *Metrics) observe(method, outcome string, iterations int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(method, outcome).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
	if iterations > 0 {
		m.iterations.WithLabelValues(method).Observe(float64(iterations))
	}
}
