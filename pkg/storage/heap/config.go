package heap

import (
	"github.com/marmos91/dittokv/pkg/storage"
	"github.com/marmos91/dittokv/pkg/storage/stripe"
)

// Config describes a heap store holding K keys and V values.
// It implements storage.StoreConfig and is understood by Factory.
type Config[K comparable, V any] struct {
	concurrency     int
	listeners       []storage.MutationListener[K, V]
	hasher          func(K) uint32
	keySerializer   storage.Serializer[K]
	valueSerializer storage.Serializer[V]
}

// NewConfig builds a Config from options.
// It panics if a typed option does not match K and V.
func NewConfig[K comparable, V any](opts ...Option) *Config[K, V] {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	cfg := &Config[K, V]{concurrency: s.concurrency}
	for _, l := range s.listeners {
		cfg.listeners = append(cfg.listeners, mustAs[storage.MutationListener[K, V]](l, "listener"))
	}
	if s.hasher != nil {
		cfg.hasher = mustAs[func(K) uint32](s.hasher, "hasher")
	}
	if s.keySerializer != nil {
		cfg.keySerializer = mustAs[storage.Serializer[K]](s.keySerializer, "key serializer")
	}
	if s.valueSerializer != nil {
		cfg.valueSerializer = mustAs[storage.Serializer[V]](s.valueSerializer, "value serializer")
	}
	return cfg
}

// KeyType returns the tag of K.
func (c *Config[K, V]) KeyType() storage.TypeTag {
	return storage.TypeOf[K]()
}

// ValueType returns the tag of V.
func (c *Config[K, V]) ValueType() storage.TypeTag {
	return storage.TypeOf[V]()
}

// AddListener appends a listener and returns the config for chaining.
func (c *Config[K, V]) AddListener(l storage.MutationListener[K, V]) *Config[K, V] {
	c.listeners = append(c.listeners, l)
	return c
}

// Listeners returns a copy of the listeners in notification order.
func (c *Config[K, V]) Listeners() []storage.MutationListener[K, V] {
	return append([]storage.MutationListener[K, V](nil), c.listeners...)
}

// Concurrency returns the requested stripe count, defaulting to
// stripe.DefaultConcurrency.
func (c *Config[K, V]) Concurrency() int {
	if c.concurrency <= 0 {
		return stripe.DefaultConcurrency
	}
	return c.concurrency
}

// KeySerializer returns the registered key serializer, if any.
func (c *Config[K, V]) KeySerializer() storage.Serializer[K] {
	return c.keySerializer
}

// ValueSerializer returns the registered value serializer, if any.
func (c *Config[K, V]) ValueSerializer() storage.Serializer[V] {
	return c.valueSerializer
}

// newStore lets Factory build a typed store from the erased config.
func (c *Config[K, V]) newStore() any {
	return NewFromConfig(c)
}
