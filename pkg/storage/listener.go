package storage

// Retriever gives a listener access to the key or value involved in a
// mutation event without exposing the container.
type Retriever[T any] interface {
	Retrieve() T
}

// MutationListener observes mutations of a KeyValueStorage.
//
// Listeners run synchronously on the mutating goroutine while the key's
// stripe lock is held, in registration order. They must not block
// indefinitely and must not write to the same store: stripe locks are not
// reentrant, so a write to a key on the same stripe deadlocks.
//
// A returned error stops notification of later listeners and is surfaced to
// the caller of the mutation, which has already taken effect.
type MutationListener[K comparable, V any] interface {
	Added(key Retriever[K], value Retriever[V], metadata byte) error
	Removed(key Retriever[K], value Retriever[V]) error
}
