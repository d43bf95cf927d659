package stripe

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RoundsUpToPowerOfTwo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		concurrency int
		size        int
		shift       uint32
		mask        uint32
	}{
		{concurrency: -1, size: 1, shift: 32, mask: 0},
		{concurrency: 0, size: 1, shift: 32, mask: 0},
		{concurrency: 1, size: 1, shift: 32, mask: 0},
		{concurrency: 2, size: 2, shift: 31, mask: 1},
		{concurrency: 3, size: 4, shift: 30, mask: 3},
		{concurrency: 500, size: 512, shift: 23, mask: 511},
		{concurrency: DefaultConcurrency, size: 512, shift: 23, mask: 511},
		{concurrency: MaxStripes, size: MaxStripes, shift: 16, mask: 0xffff},
		{concurrency: MaxStripes + 1, size: MaxStripes, shift: 16, mask: 0xffff},
		{concurrency: 1 << 30, size: MaxStripes, shift: 16, mask: 0xffff},
		{concurrency: math.MaxInt, size: MaxStripes, shift: 16, mask: 0xffff},
	}

	for _, tt := range tests {
		table := New(tt.concurrency)
		assert.Equal(t, tt.size, table.Size(), "concurrency %d", tt.concurrency)
		assert.Equal(t, tt.shift, table.Shift(), "concurrency %d", tt.concurrency)
		assert.Equal(t, tt.mask, table.Mask(), "concurrency %d", tt.concurrency)
	}
}

func TestFor_IsDeterministic(t *testing.T) {
	t.Parallel()

	table := New(64)
	for h := uint32(0); h < 1000; h++ {
		assert.Same(t, table.For(h), table.For(h))
	}
}

func TestFor_SingleStripeAlwaysSameLock(t *testing.T) {
	t.Parallel()

	table := New(1)
	first := table.For(0)
	for h := uint32(1); h < 100; h++ {
		require.Same(t, first, table.For(h*7919))
	}
}

func TestFor_SequentialHashesCoverAllStripes(t *testing.T) {
	t.Parallel()

	// Sequential hashes only differ in their low bits; the spread must still
	// reach every stripe through the top bits.
	table := New(16)
	seen := make(map[*sync.RWMutex]struct{})
	for h := uint32(0); h < 4096; h++ {
		seen[table.For(h)] = struct{}{}
	}
	assert.Len(t, seen, 16)
}

func TestSpread_IsPure(t *testing.T) {
	t.Parallel()

	for h := uint32(0); h < 100; h++ {
		assert.Equal(t, Spread(h), Spread(h))
	}
	assert.NotEqual(t, Spread(1), Spread(2))
}

func TestSameShape(t *testing.T) {
	t.Parallel()

	assert.True(t, New(500).SameShape(New(512)))
	assert.False(t, New(16).SameShape(New(32)))
	assert.False(t, New(16).SameShape(nil))
}

func TestHashString_Stable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HashString("alpha"), HashString("alpha"))
	assert.NotEqual(t, HashString("alpha"), HashString("beta"))
}
