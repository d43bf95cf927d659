// Package storagetest provides a conformance test suite for
// storage.KeyValueStorage implementations.
//
// Every storage tier should run the suite from its own tests:
//
//	func TestConformance(t *testing.T) {
//	    storagetest.RunConformanceSuite(t, func(t *testing.T, ls ...storage.MutationListener[string, string]) storage.KeyValueStorage[string, string] {
//	        return heap.New[string, string](heap.WithListeners(ls...))
//	    })
//	}
package storagetest
