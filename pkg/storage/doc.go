// Package storage defines the pluggable key-value storage contract.
//
// A storage tier (the heap tier lives in pkg/storage/heap) provides
// KeyValueStorage implementations through a Factory. Every implementation
// notifies its MutationListeners synchronously on the mutating goroutine, and
// every configuration records the key and value types it was built for as
// TypeTags so that type-erased lookups can be checked at runtime.
//
// Serializers can be attached to a configuration but are never invoked by
// in-memory tiers; they are reserved for persistent tiers.
package storage
