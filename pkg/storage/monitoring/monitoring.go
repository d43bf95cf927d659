// Package monitoring describes read-only usage views of the resources a
// storage tier consumes.
package monitoring

import (
	"github.com/marmos91/dittokv/internal/bytesize"
)

// ResourceType identifies the kind of resource being monitored.
type ResourceType int

const (
	// ResourceHeap is the process heap used by in-memory tiers.
	ResourceHeap ResourceType = iota + 1

	// ResourceOffHeap is memory managed outside the Go heap.
	ResourceOffHeap

	// ResourceDisk is local disk used by persistent tiers.
	ResourceDisk
)

// String returns the resource type name.
func (t ResourceType) String() string {
	switch t {
	case ResourceHeap:
		return "heap"
	case ResourceOffHeap:
		return "offheap"
	case ResourceDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ResourceType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ThresholdFunc is invoked when a threshold registered on a Resource is
// crossed.
type ThresholdFunc func(r Resource, value bytesize.ByteSize)

// Resource reports usage of one resource.
//
// Threshold registration is optional. Tiers that cannot observe their
// resource continuously return a NotSupported storage error.
type Resource interface {
	Type() ResourceType

	// Used is the amount currently in use.
	Used() bytesize.ByteSize

	// Reserved is the amount obtained from the system, in use or not.
	Reserved() bytesize.ByteSize

	// Total is the upper bound the resource may grow to.
	Total() bytesize.ByteSize

	// Snapshot reads all values at once.
	Snapshot() Snapshot

	AddUsedThreshold(limit bytesize.ByteSize, fn ThresholdFunc) error
	AddReservedThreshold(limit bytesize.ByteSize, fn ThresholdFunc) error
	RemoveThreshold(limit bytesize.ByteSize) error
}

// Snapshot is a point-in-time reading of a Resource.
type Snapshot struct {
	Type     ResourceType      `json:"type" yaml:"type"`
	Used     bytesize.ByteSize `json:"used" yaml:"used"`
	Reserved bytesize.ByteSize `json:"reserved" yaml:"reserved"`
	Total    bytesize.ByteSize `json:"total" yaml:"total"`
}

// Utilization returns Used as a fraction of Total, or 0 when Total is unknown.
func (s Snapshot) Utilization() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Used) / float64(s.Total)
}
