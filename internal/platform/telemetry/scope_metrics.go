package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure kinds reported on reqscope_failures_total.
const (
	FailureActivation  = "activation"
	FailureTermination = "termination"
)

// ScopeMetrics records request scope lifecycle events as Prometheus metrics.
// It satisfies the guard's Observer interface.
type ScopeMetrics struct {
	activations  *prometheus.CounterVec
	terminations *prometheus.CounterVec
	failures     *prometheus.CounterVec
	active       prometheus.Gauge
	lifetime     *prometheus.HistogramVec
}

// NewScopeMetrics creates the collectors and registers them with reg.
func NewScopeMetrics(reg prometheus.Registerer) (*ScopeMetrics, error) {
	m := &ScopeMetrics{
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reqscope_activations_total",
			Help: "Request scopes activated by the guard.",
		}, []string{"shape"}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reqscope_terminations_total",
			Help: "Request scopes terminated by the guard.",
		}, []string{"shape"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reqscope_failures_total",
			Help: "Request scope activation and termination failures.",
		}, []string{"shape", "kind"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "reqscope_active_scopes",
			Help: "Request scopes currently owned by a guarded invocation.",
		}),
		lifetime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "reqscope_lifetime_seconds",
			Help:    "Time from activation to termination of an owned request scope.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"shape"}),
	}

	for _, c := range []prometheus.Collector{m.activations, m.terminations, m.failures, m.active, m.lifetime} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ScopeActivated counts an activation and raises the active gauge.
func (m *ScopeMetrics) ScopeActivated(shape string) {
	m.activations.WithLabelValues(shape).Inc()
	m.active.Inc()
}

// ScopeTerminated counts a termination attempt. A failed Terminate still ends
// the guard's ownership, so the gauge drops either way.
func (m *ScopeMetrics) ScopeTerminated(shape string, lifetime time.Duration, err error) {
	m.active.Dec()
	m.terminations.WithLabelValues(shape).Inc()
	m.lifetime.WithLabelValues(shape).Observe(lifetime.Seconds())

	if err != nil {
		m.failures.WithLabelValues(shape, FailureTermination).Inc()
	}
}

// ActivationFailed counts a failed activation.
func (m *ScopeMetrics) ActivationFailed(shape string, _ error) {
	m.failures.WithLabelValues(shape, FailureActivation).Inc()
}
