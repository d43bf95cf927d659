package storage

// ValueRetriever is a Retriever holding a single captured value.
type ValueRetriever[T any] struct {
	value T
}

// RetrieverFor captures v for delivery to a listener.
func RetrieverFor[T any](v T) ValueRetriever[T] {
	return ValueRetriever[T]{value: v}
}

// Retrieve returns the captured value.
func (r ValueRetriever[T]) Retrieve() T {
	return r.value
}
