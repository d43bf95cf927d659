package heap

import (
	"fmt"
	"hash/maphash"
	"iter"
	"reflect"
	"sync"

	"github.com/marmos91/dittokv/pkg/storage"
	storeerrs "github.com/marmos91/dittokv/pkg/storage/errors"
	"github.com/marmos91/dittokv/pkg/storage/stripe"
)

// Storage is the heap implementation of storage.KeyValueStorage.
type Storage[K comparable, V any] struct {
	entries   container[K, V]
	locks     *stripe.Table
	hash      func(K) uint32
	listeners []storage.MutationListener[K, V]
}

var _ storage.KeyValueStorage[string, string] = (*Storage[string, string])(nil)

// New creates an empty store from options.
// It panics if a typed option does not match K and V.
func New[K comparable, V any](opts ...Option) *Storage[K, V] {
	return NewFromConfig(NewConfig[K, V](opts...))
}

// NewFromConfig creates an empty store from cfg. A nil cfg yields the
// defaults: DefaultConcurrency stripes and no listeners.
func NewFromConfig[K comparable, V any](cfg *Config[K, V]) *Storage[K, V] {
	if cfg == nil {
		cfg = &Config[K, V]{}
	}

	s := &Storage[K, V]{
		locks:     stripe.New(cfg.Concurrency()),
		hash:      cfg.hasher,
		listeners: cfg.Listeners(),
	}
	if s.hash == nil {
		seed := maphash.MakeSeed()
		s.hash = func(key K) uint32 {
			return stripe.Fold(maphash.Comparable(seed, key))
		}
	}
	return s
}

func (s *Storage[K, V]) lockFor(key K) *sync.RWMutex {
	return s.locks.For(s.hash(key))
}

// Put stores value under key with metadata 0.
func (s *Storage[K, V]) Put(key K, value V) error {
	return s.PutWithMetadata(key, value, 0)
}

// PutWithMetadata stores value under key and notifies every listener's Added
// with metadata while the key's stripe is write-locked.
//
// A key that is not equal to itself, such as a NaN float64 or an any holding
// one, could never be found again and is rejected with an InvalidArgument
// error.
func (s *Storage[K, V]) PutWithMetadata(key K, value V, metadata byte) error {
	if key != key {
		return storeerrs.NewInvalidArgumentError(fmt.Sprintf("key %v is not equal to itself", key))
	}

	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	s.entries.store(key, value)

	k, v := storage.RetrieverFor(key), storage.RetrieverFor(value)
	for i, l := range s.listeners {
		if err := l.Added(k, v, metadata); err != nil {
			return storeerrs.NewListenerError("added", i, err)
		}
	}
	return nil
}

// Get returns the value for key and whether it was present.
func (s *Storage[K, V]) Get(key K) (V, bool) {
	lock := s.lockFor(key)
	lock.RLock()
	defer lock.RUnlock()

	return s.entries.load(key)
}

// Remove deletes key. Listeners are notified with the removed value only when
// the key was present.
func (s *Storage[K, V]) Remove(key K) (bool, error) {
	lock := s.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	prev, ok := s.entries.loadAndDelete(key)
	if !ok {
		return false, nil
	}

	k, v := storage.RetrieverFor(key), storage.RetrieverFor(prev)
	for i, l := range s.listeners {
		if err := l.Removed(k, v); err != nil {
			return true, storeerrs.NewListenerError("removed", i, err)
		}
	}
	return true, nil
}

// RemoveAll removes keys one at a time, each under its own stripe lock.
// It stops at the first listener failure; keys removed before it stay removed.
func (s *Storage[K, V]) RemoveAll(keys []K) error {
	for _, key := range keys {
		if _, err := s.Remove(key); err != nil {
			return err
		}
	}
	return nil
}

// ContainsKey reports whether key is present.
func (s *Storage[K, V]) ContainsKey(key K) bool {
	lock := s.lockFor(key)
	lock.RLock()
	defer lock.RUnlock()

	_, ok := s.entries.load(key)
	return ok
}

// Clear drops every entry. It takes no stripe locks and notifies no listener.
func (s *Storage[K, V]) Clear() {
	s.entries.clear()
}

// Keys returns a snapshot of the keys. Weakly consistent.
func (s *Storage[K, V]) Keys() []K {
	var keys []K
	s.entries.rangeEntries(func(k K, _ V) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Values returns a snapshot of the values. Weakly consistent.
func (s *Storage[K, V]) Values() []V {
	var values []V
	s.entries.rangeEntries(func(_ K, v V) bool {
		values = append(values, v)
		return true
	})
	return values
}

// Size counts the entries. Weakly consistent.
func (s *Storage[K, V]) Size() int64 {
	var n int64
	s.entries.rangeEntries(func(K, V) bool {
		n++
		return true
	})
	return n
}

// All iterates the live entries. Weakly consistent.
func (s *Storage[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		s.entries.rangeEntries(yield)
	}
}

// Stripes returns the number of lock stripes.
func (s *Storage[K, V]) Stripes() int {
	return s.locks.Size()
}

// Equal reports whether both stores have the same stripe shape, the same
// listeners in the same order and the same entries. Listeners of comparable
// types compare by ==; any other listener is only equal to itself by type and
// never to another instance.
func (s *Storage[K, V]) Equal(other *Storage[K, V]) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	if !s.locks.SameShape(other.locks) {
		return false
	}
	if len(s.listeners) != len(other.listeners) {
		return false
	}
	for i := range s.listeners {
		if !sameListener(s.listeners[i], other.listeners[i]) {
			return false
		}
	}

	if s.Size() != other.Size() {
		return false
	}
	equal := true
	s.entries.rangeEntries(func(k K, v V) bool {
		ov, ok := other.entries.load(k)
		equal = ok && reflect.DeepEqual(v, ov)
		return equal
	})
	return equal
}

func sameListener(a, b any) bool {
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta == nil || !ta.Comparable() {
		return ta == nil
	}
	return a == b
}
