package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Label and operation constants for storage metrics.
const (
	LabelAlias = "alias"
	LabelOp    = "op"
	LabelKind  = "kind"

	OpAdded   = "added"
	OpRemoved = "removed"
)

// SizeSource reports the entry count of every live store by alias.
type SizeSource interface {
	StoreSizes() map[string]int64
}

// StorageMetrics records store mutations and exposes store sizes.
type StorageMetrics struct {
	mutations *prometheus.CounterVec
	entries   *prometheus.Desc

	mu     sync.RWMutex
	source SizeSource
}

// NewStorageMetrics creates and registers storage metrics.
// Returns nil if reg is nil.
func NewStorageMetrics(reg prometheus.Registerer) *StorageMetrics {
	if reg == nil {
		return nil
	}

	m := &StorageMetrics{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "storage",
				Name:      "mutations_total",
				Help:      "Total number of store mutations observed by listeners",
			},
			[]string{LabelAlias, LabelOp},
		),
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "storage", "entries"),
			"Number of entries per store",
			[]string{LabelAlias}, nil,
		),
	}
	reg.MustRegister(m.mutations, m)
	return m
}

// RecordMutation counts one mutation of op on the store named alias.
func (m *StorageMetrics) RecordMutation(alias, op string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(alias, op).Inc()
}

// Watch sets the source of the entries gauge. Sizes are read on scrape.
func (m *StorageMetrics) Watch(src SizeSource) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.source = src
}

// Forget drops the series of a destroyed store.
func (m *StorageMetrics) Forget(alias string) {
	if m == nil {
		return
	}
	m.mutations.DeletePartialMatch(prometheus.Labels{LabelAlias: alias})
}

// Describe implements prometheus.Collector for the entries gauge.
func (m *StorageMetrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.entries
}

// Collect implements prometheus.Collector for the entries gauge.
func (m *StorageMetrics) Collect(ch chan<- prometheus.Metric) {
	m.mu.RLock()
	src := m.source
	m.mu.RUnlock()

	if src == nil {
		return
	}
	for alias, n := range src.StoreSizes() {
		ch <- prometheus.MustNewConstMetric(m.entries, prometheus.GaugeValue, float64(n), alias)
	}
}
