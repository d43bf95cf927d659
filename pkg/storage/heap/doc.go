// Package heap implements the in-memory storage tier.
//
// A Storage keeps its entries in a concurrent map and serializes every
// operation on a key through one stripe of a stripe.Table, so mutations of a
// key and the listener notifications they trigger are observed in the same
// order by every listener. Operations on keys in different stripes proceed in
// parallel.
//
// Bulk views (Keys, Values, Size, All) and Clear take no stripe locks. They
// are weakly consistent: they never fail under concurrent mutation but may or
// may not reflect it.
package heap
