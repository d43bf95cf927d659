package heap

import (
	"fmt"

	"github.com/marmos91/dittokv/pkg/storage"
)

// Option configures a Config or a Storage.
//
// Options carrying typed values (listeners, hashers, serializers) must match
// the key and value types of the store they are applied to; a mismatch is a
// programming error and panics.
type Option func(*settings)

type settings struct {
	concurrency     int
	listeners       []any
	hasher          any
	keySerializer   any
	valueSerializer any
}

// WithConcurrency sets the number of lock stripes requested. The stripe count
// is rounded up to a power of two.
func WithConcurrency(n int) Option {
	return func(s *settings) {
		s.concurrency = n
	}
}

// WithListeners appends listeners in notification order.
func WithListeners[K comparable, V any](listeners ...storage.MutationListener[K, V]) Option {
	return func(s *settings) {
		for _, l := range listeners {
			s.listeners = append(s.listeners, l)
		}
	}
}

// WithHasher replaces the per-store seeded hash used to pick a key's stripe.
// The hasher must be deterministic for the lifetime of the store.
func WithHasher[K comparable](fn func(K) uint32) Option {
	return func(s *settings) {
		s.hasher = fn
	}
}

// WithKeySerializer registers a key serializer. The heap tier stores it but
// never invokes it.
func WithKeySerializer[K comparable](ser storage.Serializer[K]) Option {
	return func(s *settings) {
		s.keySerializer = ser
	}
}

// WithValueSerializer registers a value serializer. The heap tier stores it
// but never invokes it.
func WithValueSerializer[V any](ser storage.Serializer[V]) Option {
	return func(s *settings) {
		s.valueSerializer = ser
	}
}

func mustAs[T any](v any, what string) T {
	t, ok := v.(T)
	if !ok {
		var want T
		panic(fmt.Sprintf("heap: %s of type %T does not match %T", what, v, &want))
	}
	return t
}
