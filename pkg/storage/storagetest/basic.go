package storagetest

import (
	"slices"
	"testing"
)

// runBasicTests runs the map semantics conformance tests.
func runBasicTests(t *testing.T, factory StoreFactory) {
	t.Run("PutGet", func(t *testing.T) { testPutGet(t, factory) })
	t.Run("PutOverwrites", func(t *testing.T) { testPutOverwrites(t, factory) })
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, factory) })
	t.Run("Remove", func(t *testing.T) { testRemove(t, factory) })
	t.Run("RemoveAll", func(t *testing.T) { testRemoveAll(t, factory) })
	t.Run("ContainsKey", func(t *testing.T) { testContainsKey(t, factory) })
	t.Run("Clear", func(t *testing.T) { testClear(t, factory) })
	t.Run("BulkViews", func(t *testing.T) { testBulkViews(t, factory) })
}

// testPutGet verifies that 1000 distinct puts are all retrievable.
func testPutGet(t *testing.T, factory StoreFactory) {
	store := factory(t)

	for i := range 1000 {
		mustPut(t, store, key(i), value(i))
	}

	for i := range 1000 {
		got, ok := store.Get(key(i))
		if !ok {
			t.Fatalf("Get(%q) reported absent", key(i))
		}
		if got != value(i) {
			t.Errorf("Get(%q) = %q, want %q", key(i), got, value(i))
		}
	}
	if size := store.Size(); size != 1000 {
		t.Errorf("Size() = %d, want 1000", size)
	}
}

// testPutOverwrites verifies last-writer-wins on a single key.
func testPutOverwrites(t *testing.T, factory StoreFactory) {
	store := factory(t)

	mustPut(t, store, "k", "v1")
	mustPut(t, store, "k", "v2")

	if got, _ := store.Get("k"); got != "v2" {
		t.Errorf("Get() = %q, want v2", got)
	}
	if size := store.Size(); size != 1 {
		t.Errorf("Size() = %d, want 1", size)
	}
}

// testGetMissing verifies the absent sentinel.
func testGetMissing(t *testing.T, factory StoreFactory) {
	store := factory(t)

	got, ok := store.Get("missing")
	if ok {
		t.Error("Get() on empty store reported present")
	}
	if got != "" {
		t.Errorf("Get() = %q, want zero value", got)
	}
}

// testRemove verifies that Remove reports whether something was removed.
func testRemove(t *testing.T, factory StoreFactory) {
	store := factory(t)
	mustPut(t, store, "k", "v")

	removed, err := store.Remove("k")
	if err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if !removed {
		t.Error("Remove() of present key reported false")
	}

	removed, err = store.Remove("k")
	if err != nil {
		t.Fatalf("second Remove() failed: %v", err)
	}
	if removed {
		t.Error("Remove() of absent key reported true")
	}
	if store.ContainsKey("k") {
		t.Error("key still present after Remove()")
	}
}

// testRemoveAll verifies that present keys are removed and absent ones ignored.
func testRemoveAll(t *testing.T, factory StoreFactory) {
	store := factory(t)
	for i := range 10 {
		mustPut(t, store, key(i), value(i))
	}

	if err := store.RemoveAll([]string{key(0), key(1), "missing", key(9)}); err != nil {
		t.Fatalf("RemoveAll() failed: %v", err)
	}

	if size := store.Size(); size != 7 {
		t.Errorf("Size() = %d, want 7", size)
	}
	for _, k := range []string{key(0), key(1), key(9)} {
		if store.ContainsKey(k) {
			t.Errorf("%q still present after RemoveAll()", k)
		}
	}
}

// testContainsKey verifies membership before and after mutation.
func testContainsKey(t *testing.T, factory StoreFactory) {
	store := factory(t)

	if store.ContainsKey("k") {
		t.Error("ContainsKey() on empty store reported true")
	}
	mustPut(t, store, "k", "")
	if !store.ContainsKey("k") {
		t.Error("ContainsKey() reported false for a key holding the zero value")
	}
}

// testClear verifies that Clear empties the store and the store stays usable.
func testClear(t *testing.T, factory StoreFactory) {
	store := factory(t)
	for i := range 100 {
		mustPut(t, store, key(i), value(i))
	}

	store.Clear()

	if size := store.Size(); size != 0 {
		t.Errorf("Size() after Clear() = %d, want 0", size)
	}
	if len(store.Keys()) != 0 || len(store.Values()) != 0 {
		t.Error("bulk views not empty after Clear()")
	}

	mustPut(t, store, "k", "v")
	if got, ok := store.Get("k"); !ok || got != "v" {
		t.Errorf("Get() after Clear()+Put() = %q, %v", got, ok)
	}
}

// testBulkViews verifies Keys and Values on a quiescent store.
func testBulkViews(t *testing.T, factory StoreFactory) {
	store := factory(t)
	var wantKeys, wantValues []string
	for i := range 50 {
		mustPut(t, store, key(i), value(i))
		wantKeys = append(wantKeys, key(i))
		wantValues = append(wantValues, value(i))
	}

	keys := store.Keys()
	values := store.Values()
	slices.Sort(keys)
	slices.Sort(values)
	slices.Sort(wantKeys)
	slices.Sort(wantValues)

	if !slices.Equal(keys, wantKeys) {
		t.Errorf("Keys() = %v, want %v", keys, wantKeys)
	}
	if !slices.Equal(values, wantValues) {
		t.Errorf("Values() = %v, want %v", values, wantValues)
	}
}
