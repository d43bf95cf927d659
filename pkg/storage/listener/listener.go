// Package listener provides ready-made storage.MutationListener
// implementations.
//
// All of them are safe for concurrent use: a store notifies listeners from
// every goroutine that mutates it.
package listener

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/marmos91/dittokv/internal/logger"
	"github.com/marmos91/dittokv/pkg/metrics"
	"github.com/marmos91/dittokv/pkg/storage"
)

// Func adapts plain functions to a listener. A nil function ignores the event.
type Func[K comparable, V any] struct {
	OnAdded   func(key K, value V, metadata byte) error
	OnRemoved func(key K, value V) error
}

// Added calls OnAdded.
func (f *Func[K, V]) Added(key storage.Retriever[K], value storage.Retriever[V], metadata byte) error {
	if f.OnAdded == nil {
		return nil
	}
	return f.OnAdded(key.Retrieve(), value.Retrieve(), metadata)
}

// Removed calls OnRemoved.
func (f *Func[K, V]) Removed(key storage.Retriever[K], value storage.Retriever[V]) error {
	if f.OnRemoved == nil {
		return nil
	}
	return f.OnRemoved(key.Retrieve(), value.Retrieve())
}

// Counting counts notifications.
type Counting[K comparable, V any] struct {
	added   atomic.Int64
	removed atomic.Int64
}

// Added increments the added counter.
func (c *Counting[K, V]) Added(storage.Retriever[K], storage.Retriever[V], byte) error {
	c.added.Add(1)
	return nil
}

// Removed increments the removed counter.
func (c *Counting[K, V]) Removed(storage.Retriever[K], storage.Retriever[V]) error {
	c.removed.Add(1)
	return nil
}

// AddedCount returns the number of added notifications.
func (c *Counting[K, V]) AddedCount() int64 {
	return c.added.Load()
}

// RemovedCount returns the number of removed notifications.
func (c *Counting[K, V]) RemovedCount() int64 {
	return c.removed.Load()
}

// Logging writes one debug line per notification. Keys are logged, values are
// not. Nothing is formatted unless debug logging is enabled.
type Logging[K comparable, V any] struct {
	alias string
}

// NewLogging returns a logging listener for the store named alias.
func NewLogging[K comparable, V any](alias string) *Logging[K, V] {
	return &Logging[K, V]{alias: alias}
}

// Added logs the added key.
func (l *Logging[K, V]) Added(key storage.Retriever[K], _ storage.Retriever[V], metadata byte) error {
	if !logger.Enabled(slog.LevelDebug) {
		return nil
	}
	logger.Debug("entry added",
		logger.KeyAlias, l.alias,
		logger.KeyKey, fmt.Sprint(key.Retrieve()),
		logger.KeyMetadata, metadata)
	return nil
}

// Removed logs the removed key.
func (l *Logging[K, V]) Removed(key storage.Retriever[K], _ storage.Retriever[V]) error {
	if !logger.Enabled(slog.LevelDebug) {
		return nil
	}
	logger.Debug("entry removed",
		logger.KeyAlias, l.alias,
		logger.KeyKey, fmt.Sprint(key.Retrieve()))
	return nil
}

// Metrics records notifications as Prometheus mutation counters.
type Metrics[K comparable, V any] struct {
	alias string
	m     *metrics.StorageMetrics
}

// NewMetrics returns a metrics listener for the store named alias.
// A nil m makes the listener a no-op.
func NewMetrics[K comparable, V any](alias string, m *metrics.StorageMetrics) *Metrics[K, V] {
	return &Metrics[K, V]{alias: alias, m: m}
}

// Added counts an added mutation.
func (l *Metrics[K, V]) Added(storage.Retriever[K], storage.Retriever[V], byte) error {
	l.m.RecordMutation(l.alias, metrics.OpAdded)
	return nil
}

// Removed counts a removed mutation.
func (l *Metrics[K, V]) Removed(storage.Retriever[K], storage.Retriever[V]) error {
	l.m.RecordMutation(l.alias, metrics.OpRemoved)
	return nil
}
