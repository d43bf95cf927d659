package heap

import (
	"runtime/debug"
	"testing"

	"github.com/marmos91/dittokv/internal/bytesize"
	storeerrs "github.com/marmos91/dittokv/pkg/storage/errors"
	"github.com/marmos91/dittokv/pkg/storage/monitoring"
	"github.com/stretchr/testify/assert"
)

func TestResource_Snapshot(t *testing.T) {
	r := NewResource()

	snap := r.Snapshot()
	assert.Equal(t, monitoring.ResourceHeap, snap.Type)
	assert.Positive(t, uint64(snap.Used))
	assert.GreaterOrEqual(t, snap.Reserved, snap.Used)
	assert.Positive(t, uint64(snap.Total))

	assert.Positive(t, uint64(r.Used()))
	assert.Positive(t, uint64(r.Reserved()))
	assert.Positive(t, uint64(r.Total()))
}

func TestResource_TotalHonorsMemoryLimit(t *testing.T) {
	// not parallel: the memory limit is process-wide
	prev := debug.SetMemoryLimit(4 << 30)
	defer debug.SetMemoryLimit(prev)

	assert.Equal(t, 4*bytesize.GiB, NewResource().Total())
}

func TestResource_TotalFallsBackToSys(t *testing.T) {
	r := &Resource{physical: func() uint64 { return 0 }}

	prev := debug.SetMemoryLimit(-1)
	if prev < 1<<62 {
		t.Skip("memory limit configured for the test process")
	}
	assert.Positive(t, uint64(r.Total()))
}

func TestResource_ThresholdsNotSupported(t *testing.T) {
	t.Parallel()

	r := NewResource()
	noop := func(monitoring.Resource, bytesize.ByteSize) {}

	assert.True(t, storeerrs.IsNotSupportedError(r.AddUsedThreshold(bytesize.MiB, noop)))
	assert.True(t, storeerrs.IsNotSupportedError(r.AddReservedThreshold(bytesize.MiB, noop)))
	assert.True(t, storeerrs.IsNotSupportedError(r.RemoveThreshold(bytesize.MiB)))
}
