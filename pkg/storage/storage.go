package storage

// KeyValueStorage is a concurrent mapping from keys to values that notifies
// its listeners of every mutation that takes effect.
type KeyValueStorage[K comparable, V any] interface {
	// Put stores value under key, replacing any previous value, and notifies
	// listeners. A non-nil error means a listener failed; the mapping has
	// already been updated.
	Put(key K, value V) error

	// Get returns the value for key and whether it was present.
	Get(key K) (V, bool)

	// Remove deletes key and reports whether it was present. Listeners are
	// only notified when something was removed.
	Remove(key K) (bool, error)

	// RemoveAll removes every key in turn. The batch is not atomic.
	RemoveAll(keys []K) error

	// ContainsKey reports whether key is present.
	ContainsKey(key K) bool

	// Clear drops every entry without notifying listeners.
	Clear()

	// Keys returns the keys present while iterating. Weakly consistent.
	Keys() []K

	// Values returns the values present while iterating. Weakly consistent.
	Values() []V

	// Size returns the number of entries. Weakly consistent.
	Size() int64
}

// Sizer is the type-erased part of KeyValueStorage used for reporting.
type Sizer interface {
	Size() int64
}

// StoreConfig is the type-erased view of a store configuration.
type StoreConfig interface {
	KeyType() TypeTag
	ValueType() TypeTag
}

// Factory creates stores for one storage tier.
type Factory interface {
	// Create builds a store from cfg. A nil cfg yields a store with default
	// settings. The returned value is a KeyValueStorage[K, V] matching the
	// config's key and value types.
	Create(cfg StoreConfig) (any, error)

	// Tier names the storage tier, e.g. "heap".
	Tier() string
}
