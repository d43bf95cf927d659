package heap

import (
	"math"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/marmos91/dittokv/internal/bytesize"
	storeerrs "github.com/marmos91/dittokv/pkg/storage/errors"
	"github.com/marmos91/dittokv/pkg/storage/monitoring"
	"github.com/shirou/gopsutil/v4/mem"
)

// Resource reports usage of the Go heap.
//
// Used is the live heap (HeapAlloc) and Reserved the heap obtained from the
// OS (HeapSys). Total is the soft memory limit when one is set, otherwise
// the physical memory of the host.
//
// Thresholds are not supported.
type Resource struct {
	physical func() uint64
}

var _ monitoring.Resource = (*Resource)(nil)

// NewResource returns a heap resource monitor.
func NewResource() *Resource {
	return &Resource{physical: sync.OnceValue(physicalMemory)}
}

func physicalMemory() uint64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.Total
}

// Type returns monitoring.ResourceHeap.
func (r *Resource) Type() monitoring.ResourceType {
	return monitoring.ResourceHeap
}

// Used returns the bytes of allocated heap objects.
func (r *Resource) Used() bytesize.ByteSize {
	return r.Snapshot().Used
}

// Reserved returns the bytes of heap memory obtained from the OS.
func (r *Resource) Reserved() bytesize.ByteSize {
	return r.Snapshot().Reserved
}

// Total returns the upper bound the heap may grow to.
func (r *Resource) Total() bytesize.ByteSize {
	return r.Snapshot().Total
}

// Snapshot reads the memory statistics once.
func (r *Resource) Snapshot() monitoring.Snapshot {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return monitoring.Snapshot{
		Type:     monitoring.ResourceHeap,
		Used:     bytesize.ByteSize(ms.HeapAlloc),
		Reserved: bytesize.ByteSize(ms.HeapSys),
		Total:    r.total(&ms),
	}
}

func (r *Resource) total(ms *runtime.MemStats) bytesize.ByteSize {
	// a negative input only reads the current limit
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
		return bytesize.ByteSize(limit)
	}
	if r.physical != nil {
		if total := r.physical(); total > 0 {
			return bytesize.ByteSize(total)
		}
	}
	return bytesize.ByteSize(ms.Sys)
}

// AddUsedThreshold is not supported by the heap tier.
func (r *Resource) AddUsedThreshold(bytesize.ByteSize, monitoring.ThresholdFunc) error {
	return storeerrs.NewNotSupportedError("used threshold registration")
}

// AddReservedThreshold is not supported by the heap tier.
func (r *Resource) AddReservedThreshold(bytesize.ByteSize, monitoring.ThresholdFunc) error {
	return storeerrs.NewNotSupportedError("reserved threshold registration")
}

// RemoveThreshold is not supported by the heap tier.
func (r *Resource) RemoveThreshold(bytesize.ByteSize) error {
	return storeerrs.NewNotSupportedError("threshold removal")
}
