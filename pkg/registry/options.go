package registry

import (
	"github.com/marmos91/dittokv/pkg/metrics"
)

// DefaultStartConcurrency bounds how many stores Start builds in parallel.
const DefaultStartConcurrency = 4

// Option configures a Registry.
type Option func(*Registry)

// WithMetrics records lifecycle metrics. A nil m disables them.
func WithMetrics(m *metrics.RegistryMetrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithStartConcurrency bounds the number of stores built in parallel by
// Start. Values below 1 select DefaultStartConcurrency.
func WithStartConcurrency(n int) Option {
	return func(r *Registry) {
		if n < 1 {
			n = DefaultStartConcurrency
		}
		r.startConcurrency = n
	}
}

// WithProperties seeds the registry properties.
func WithProperties(props map[string]string) Option {
	return func(r *Registry) {
		for k, v := range props {
			r.props[k] = v
		}
	}
}
