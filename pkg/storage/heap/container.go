package heap

import "sync"

// container is a typed view over sync.Map.
type container[K comparable, V any] struct {
	m sync.Map
}

func (c *container[K, V]) load(key K) (V, bool) {
	v, ok := c.m.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (c *container[K, V]) store(key K, value V) {
	c.m.Store(key, value)
}

func (c *container[K, V]) loadAndDelete(key K) (V, bool) {
	v, ok := c.m.LoadAndDelete(key)
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

func (c *container[K, V]) rangeEntries(fn func(key K, value V) bool) {
	c.m.Range(func(k, v any) bool {
		return fn(k.(K), v.(V))
	})
}

func (c *container[K, V]) clear() {
	c.m.Clear()
}
