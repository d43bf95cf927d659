package storagetest

import (
	"errors"
	"testing"

	"github.com/marmos91/dittokv/pkg/storage"
)

// runListenerTests runs the mutation notification conformance tests.
func runListenerTests(t *testing.T, factory StoreFactory) {
	t.Run("Counts", func(t *testing.T) { testListenerCounts(t, factory) })
	t.Run("Payload", func(t *testing.T) { testListenerPayload(t, factory) })
	t.Run("RemoveMissingNotNotified", func(t *testing.T) { testRemoveMissingNotNotified(t, factory) })
	t.Run("ClearNotNotified", func(t *testing.T) { testClearNotNotified(t, factory) })
	t.Run("RegistrationOrder", func(t *testing.T) { testRegistrationOrder(t, factory) })
	t.Run("FailureCommitsMutation", func(t *testing.T) { testFailureCommitsMutation(t, factory) })
	t.Run("FailureStopsLaterListeners", func(t *testing.T) { testFailureStopsLaterListeners(t, factory) })
	t.Run("RemoveAllStopsAtFailure", func(t *testing.T) { testRemoveAllStopsAtFailure(t, factory) })
}

// testListenerCounts verifies 1000 puts then 500 removes yield 1000 added and
// 500 removed notifications.
func testListenerCounts(t *testing.T, factory StoreFactory) {
	rec := &Recorder{}
	store := factory(t, rec)

	for i := range 1000 {
		mustPut(t, store, key(i), value(i))
	}
	for i := range 500 {
		if _, err := store.Remove(key(i)); err != nil {
			t.Fatalf("Remove(%q) failed: %v", key(i), err)
		}
	}

	added, removed := rec.Counts()
	if added != 1000 {
		t.Errorf("added notifications = %d, want 1000", added)
	}
	if removed != 500 {
		t.Errorf("removed notifications = %d, want 500", removed)
	}
}

// testListenerPayload verifies the retrievers carry the event's key and value,
// and that Put uses metadata 0.
func testListenerPayload(t *testing.T, factory StoreFactory) {
	rec := &Recorder{}
	store := factory(t, rec)

	mustPut(t, store, "k", "v1")
	mustPut(t, store, "k", "v2")
	if _, err := store.Remove("k"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}

	want := []event{
		{added: true, key: "k", value: "v1"},
		{added: true, key: "k", value: "v2"},
		{key: "k", value: "v2"},
	}
	got := rec.snapshot()
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// testRemoveMissingNotNotified verifies removals of absent keys are silent.
func testRemoveMissingNotNotified(t *testing.T, factory StoreFactory) {
	rec := &Recorder{}
	store := factory(t, rec)

	if _, err := store.Remove("missing"); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if err := store.RemoveAll([]string{"a", "b"}); err != nil {
		t.Fatalf("RemoveAll() failed: %v", err)
	}

	if _, removed := rec.Counts(); removed != 0 {
		t.Errorf("removed notifications = %d, want 0", removed)
	}
}

// testClearNotNotified verifies Clear notifies no listener.
func testClearNotNotified(t *testing.T, factory StoreFactory) {
	rec := &Recorder{}
	store := factory(t, rec)
	for i := range 10 {
		mustPut(t, store, key(i), value(i))
	}

	store.Clear()

	added, removed := rec.Counts()
	if added != 10 || removed != 0 {
		t.Errorf("counts after Clear() = (%d, %d), want (10, 0)", added, removed)
	}
}

// orderListener appends its name to a shared log.
type orderListener struct {
	name string
	log  *[]string
}

func (o orderListener) Added(storage.Retriever[string], storage.Retriever[string], byte) error {
	*o.log = append(*o.log, o.name)
	return nil
}

func (o orderListener) Removed(storage.Retriever[string], storage.Retriever[string]) error {
	*o.log = append(*o.log, o.name)
	return nil
}

// testRegistrationOrder verifies listeners run in registration order.
func testRegistrationOrder(t *testing.T, factory StoreFactory) {
	var log []string
	store := factory(t,
		orderListener{name: "first", log: &log},
		orderListener{name: "second", log: &log},
		orderListener{name: "third", log: &log},
	)

	mustPut(t, store, "k", "v")

	want := []string{"first", "second", "third"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log = %v, want %v", log, want)
			break
		}
	}
}

// testFailureCommitsMutation verifies a listener error is surfaced while the
// mutation stays applied.
func testFailureCommitsMutation(t *testing.T, factory StoreFactory) {
	boom := errors.New("boom")
	store := factory(t, &Recorder{Fail: boom})

	err := store.Put("k", "v")
	if !errors.Is(err, boom) {
		t.Fatalf("Put() error = %v, want wrapping %v", err, boom)
	}
	if got, ok := store.Get("k"); !ok || got != "v" {
		t.Errorf("Get() after failed notification = %q, %v, want v, true", got, ok)
	}

	removed, err := store.Remove("k")
	if !errors.Is(err, boom) {
		t.Fatalf("Remove() error = %v, want wrapping %v", err, boom)
	}
	if !removed || store.ContainsKey("k") {
		t.Error("Remove() with failing listener did not remove the key")
	}
}

// testFailureStopsLaterListeners verifies later listeners are skipped after a
// failure.
func testFailureStopsLaterListeners(t *testing.T, factory StoreFactory) {
	before := &Recorder{}
	failing := &Recorder{Fail: errors.New("boom")}
	after := &Recorder{}
	store := factory(t, before, failing, after)

	if err := store.Put("k", "v"); err == nil {
		t.Fatal("Put() with failing listener returned nil")
	}

	if added, _ := before.Counts(); added != 1 {
		t.Errorf("listener before failure saw %d events, want 1", added)
	}
	if added, _ := after.Counts(); added != 0 {
		t.Errorf("listener after failure saw %d events, want 0", added)
	}
}

// testRemoveAllStopsAtFailure verifies the batch stops at the first failing
// removal and earlier removals stay applied.
func testRemoveAllStopsAtFailure(t *testing.T, factory StoreFactory) {
	rec := &Recorder{}
	store := factory(t, rec)
	for i := range 3 {
		mustPut(t, store, key(i), value(i))
	}
	rec.Fail = errors.New("boom")

	if err := store.RemoveAll([]string{key(0), key(1), key(2)}); err == nil {
		t.Fatal("RemoveAll() with failing listener returned nil")
	}

	if store.ContainsKey(key(0)) {
		t.Error("first key should be removed")
	}
	if !store.ContainsKey(key(1)) || !store.ContainsKey(key(2)) {
		t.Error("keys after the failure should be untouched")
	}
}
