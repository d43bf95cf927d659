package storagetest

import (
	"fmt"
	"sync"
	"testing"
)

// runConcurrencyTests runs the parallel mutation conformance tests.
func runConcurrencyTests(t *testing.T, factory StoreFactory) {
	t.Run("DistinctKeys", func(t *testing.T) { testConcurrentDistinctKeys(t, factory) })
	t.Run("SameKeyNotificationOrder", func(t *testing.T) { testSameKeyNotificationOrder(t, factory) })
	t.Run("ReadersDuringWrites", func(t *testing.T) { testReadersDuringWrites(t, factory) })
}

// testConcurrentDistinctKeys verifies every key written by parallel writers
// is present afterwards with exactly one notification each.
func testConcurrentDistinctKeys(t *testing.T, factory StoreFactory) {
	const writers, perWriter = 8, 250

	rec := &Recorder{}
	store := factory(t, rec)

	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWriter {
				k := fmt.Sprintf("w%d-%d", w, i)
				if err := store.Put(k, k); err != nil {
					t.Errorf("Put(%q) failed: %v", k, err)
				}
			}
		}()
	}
	wg.Wait()

	if size := store.Size(); size != writers*perWriter {
		t.Errorf("Size() = %d, want %d", size, writers*perWriter)
	}
	if added, _ := rec.Counts(); added != writers*perWriter {
		t.Errorf("added notifications = %d, want %d", added, writers*perWriter)
	}
}

// testSameKeyNotificationOrder verifies notifications for one key arrive in
// the order the writes took effect: the last notified value is the stored one.
func testSameKeyNotificationOrder(t *testing.T, factory StoreFactory) {
	rec := &Recorder{}
	store := factory(t, rec)

	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				if err := store.Put("shared", fmt.Sprintf("%d-%d", w, i)); err != nil {
					t.Errorf("Put() failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	events := rec.snapshot()
	if len(events) != 800 {
		t.Fatalf("got %d events, want 800", len(events))
	}
	stored, _ := store.Get("shared")
	if last := events[len(events)-1].value; last != stored {
		t.Errorf("last notified value %q differs from stored value %q", last, stored)
	}
}

// testReadersDuringWrites verifies reads and bulk views stay usable while
// writers mutate the store.
func testReadersDuringWrites(t *testing.T, factory StoreFactory) {
	store := factory(t)
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := range 2000 {
			mustPutAsync(t, store.Put(key(i%100), value(i)))
			if i%3 == 0 {
				_, _ = store.Remove(key(i % 100))
			}
		}
	}()

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				store.Get(key(1))
				store.ContainsKey(key(2))
				_ = store.Keys()
				_ = store.Size()
			}
		}()
	}
	wg.Wait()

	if size := store.Size(); size < 0 || size > 100 {
		t.Errorf("Size() = %d, want within [0, 100]", size)
	}
}

func mustPutAsync(t *testing.T, err error) {
	if err != nil {
		t.Errorf("Put() failed: %v", err)
	}
}
