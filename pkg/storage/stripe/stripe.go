// Package stripe provides a fixed-size table of independent read/write locks.
//
// A Table maps a key hash to one of its stripes. Unrelated keys usually land
// on different stripes and can be mutated concurrently, while every operation
// on a single key always serializes on the same lock.
package stripe

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const (
	// DefaultConcurrency is the default number of stripes requested by stores.
	DefaultConcurrency = 512

	// MaxStripes caps the number of stripes in a table.
	MaxStripes = 1 << 16
)

// Table is a fixed array of read/write lock stripes.
// The shape of a table never changes after New.
type Table struct {
	locks []sync.RWMutex
	shift uint32
	mask  uint32
}

// New creates a table with the next power of two >= concurrency stripes.
// A concurrency below 1 yields a single stripe, one above MaxStripes yields
// MaxStripes.
func New(concurrency int) *Table {
	concurrency = min(concurrency, MaxStripes)

	var sshift uint32
	size := 1
	for size < concurrency {
		sshift++
		size <<= 1
	}

	return &Table{
		locks: make([]sync.RWMutex, size),
		shift: 32 - sshift,
		mask:  uint32(size - 1),
	}
}

// For returns the stripe guarding keys with the given hash.
// The top bits of the spread hash select the stripe.
func (t *Table) For(hash uint32) *sync.RWMutex {
	return &t.locks[t.index(hash)]
}

func (t *Table) index(hash uint32) uint32 {
	// a shift of 32 (single stripe) yields 0 in Go, and the mask is 0 anyway
	return (Spread(hash) >> t.shift) & t.mask
}

// Size returns the number of stripes.
func (t *Table) Size() int {
	return len(t.locks)
}

// Shift returns the right shift applied to spread hashes.
func (t *Table) Shift() uint32 {
	return t.shift
}

// Mask returns the stripe index mask.
func (t *Table) Mask() uint32 {
	return t.mask
}

// SameShape reports whether both tables select stripes identically.
func (t *Table) SameShape(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.shift == other.shift && t.mask == other.mask
}

// Spread is an avalanche mix of a 32-bit hash.
// Low-entropy hashes (differing only in low bits) end up spread across all
// bits, so selecting the top bits does not cluster.
func Spread(hash uint32) uint32 {
	h := hash
	h += (h << 15) ^ 0xffffcd7d
	h ^= h >> 10
	h += h << 3
	h ^= h >> 6
	h += (h << 2) + (h << 14)
	return h ^ (h >> 16)
}

// Fold reduces a 64-bit hash to 32 bits, keeping entropy from both halves.
func Fold(h uint64) uint32 {
	return uint32(h ^ (h >> 32))
}

// HashString hashes a string key with xxhash.
// It is stable across processes, unlike maphash.
func HashString(s string) uint32 {
	return Fold(xxhash.Sum64String(s))
}
