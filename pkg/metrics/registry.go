package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Error kinds recorded by RegistryMetrics.
const (
	KindInvalidState   = "invalid_state"
	KindDuplicateAlias = "duplicate_alias"
	KindTypeMismatch   = "type_mismatch"
	KindFactory        = "factory"
)

// RegistryMetrics tracks the store registry lifecycle.
type RegistryMetrics struct {
	state         prometheus.Gauge
	stores        prometheus.Gauge
	errors        *prometheus.CounterVec
	startDuration prometheus.Histogram
}

// NewRegistryMetrics creates and registers registry metrics.
// Returns nil if reg is nil.
func NewRegistryMetrics(reg prometheus.Registerer) *RegistryMetrics {
	if reg == nil {
		return nil
	}

	m := &RegistryMetrics{
		state: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "state",
			Help:      "Registry lifecycle state (0 uninitialized, 1 started, 2 stopped)",
		}),
		stores: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "stores",
			Help:      "Number of registered stores",
		}),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "registry",
				Name:      "errors_total",
				Help:      "Total number of failed registry operations by kind",
			},
			[]string{LabelKind},
		),
		startDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "start_duration_seconds",
			Help:      "Time taken to materialize the configured stores",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
	reg.MustRegister(m.state, m.stores, m.errors, m.startDuration)
	return m
}

// SetState records the lifecycle state ordinal.
func (m *RegistryMetrics) SetState(state int) {
	if m == nil {
		return
	}
	m.state.Set(float64(state))
}

// SetStores records the number of registered stores.
func (m *RegistryMetrics) SetStores(n int) {
	if m == nil {
		return
	}
	m.stores.Set(float64(n))
}

// RecordError counts a failed operation of the given kind.
func (m *RegistryMetrics) RecordError(kind string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(kind).Inc()
}

// ObserveStart records how long Start took.
func (m *RegistryMetrics) ObserveStart(d time.Duration) {
	if m == nil {
		return
	}
	m.startDuration.Observe(d.Seconds())
}
