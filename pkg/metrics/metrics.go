// Package metrics provides the Prometheus collectors exported by dittokv.
//
// Every constructor accepts a prometheus.Registerer. Passing nil yields a nil
// collector whose methods are no-ops, so components can record unconditionally
// and pay nothing when metrics are disabled:
//
//	// With metrics enabled
//	reg := metrics.InitRegistry()
//	storeMetrics := metrics.NewStorageMetrics(reg)
//
//	// Without metrics (zero overhead)
//	storeMetrics := metrics.NewStorageMetrics(nil)
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "dittokv"

var (
	registryMu sync.RWMutex
	registry   *prometheus.Registry
)

// InitRegistry creates the process-wide registry with the Go runtime and
// process collectors, enabling metrics. Calling it again returns the existing
// registry.
func InitRegistry() *prometheus.Registry {
	registryMu.Lock()
	defer registryMu.Unlock()

	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry != nil
}

// GetRegistry returns the process-wide registry, or nil when metrics are
// disabled.
func GetRegistry() *prometheus.Registry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry
}

// Registerer returns the process-wide registry as a Registerer, or nil when
// metrics are disabled. The nil is untyped so constructors see it as nil.
func Registerer() prometheus.Registerer {
	if reg := GetRegistry(); reg != nil {
		return reg
	}
	return nil
}
