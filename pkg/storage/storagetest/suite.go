package storagetest

import (
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/marmos91/dittokv/pkg/storage"
)

// StoreFactory creates a fresh, empty store for each test, registering the
// given listeners in order.
type StoreFactory func(t *testing.T, listeners ...storage.MutationListener[string, string]) storage.KeyValueStorage[string, string]

// RunConformanceSuite runs the full conformance suite against the provided
// store factory. Each test gets a fresh store instance.
//
// The suite covers three categories:
//   - Basic: put, get, remove, bulk views and clear
//   - Listeners: notification counts, payloads, ordering and failures
//   - Concurrency: parallel writers on distinct and shared keys
func RunConformanceSuite(t *testing.T, factory StoreFactory) {
	t.Helper()

	t.Run("Basic", func(t *testing.T) {
		runBasicTests(t, factory)
	})

	t.Run("Listeners", func(t *testing.T) {
		runListenerTests(t, factory)
	})

	t.Run("Concurrency", func(t *testing.T) {
		runConcurrencyTests(t, factory)
	})
}

// event is one notification seen by a Recorder.
type event struct {
	added    bool
	key      string
	value    string
	metadata byte
}

// Recorder is a listener that records every notification.
type Recorder struct {
	mu     sync.Mutex
	events []event

	// Fail, when set, is returned from every notification.
	Fail error
}

func (r *Recorder) Added(key storage.Retriever[string], value storage.Retriever[string], metadata byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{added: true, key: key.Retrieve(), value: value.Retrieve(), metadata: metadata})
	return r.Fail
}

func (r *Recorder) Removed(key storage.Retriever[string], value storage.Retriever[string]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{key: key.Retrieve(), value: value.Retrieve()})
	return r.Fail
}

// Counts returns the number of added and removed notifications.
func (r *Recorder) Counts() (added, removed int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.added {
			added++
		} else {
			removed++
		}
	}
	return added, removed
}

func (r *Recorder) snapshot() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

func key(i int) string {
	return fmt.Sprintf("key-%d", i)
}

func value(i int) string {
	return fmt.Sprintf("value-%d", i)
}

func mustPut(t *testing.T, store storage.KeyValueStorage[string, string], k, v string) {
	t.Helper()
	if err := store.Put(k, v); err != nil {
		t.Fatalf("Put(%q) failed: %v", k, err)
	}
}
