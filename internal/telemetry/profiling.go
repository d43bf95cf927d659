package telemetry

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/grafana/pyroscope-go"
)

// ProfilingConfig configures Pyroscope continuous profiling.
type ProfilingConfig struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string

	// Endpoint is the Pyroscope server URL.
	Endpoint string

	// ProfileTypes names the collected profiles, see ValidProfileType.
	ProfileTypes []string
}

// DefaultProfilingConfig returns a disabled profiling configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		ServiceName:    "dittokv",
		ServiceVersion: "dev",
		Endpoint:       "http://localhost:4040",
		ProfileTypes:   []string{"cpu", "alloc_objects", "inuse_space", "goroutines"},
	}
}

// samplingRate is applied to the runtime mutex and block profilers.
const samplingRate = 5

// profileKind is a collectable profile and the runtime sampling it needs.
type profileKind struct {
	typ    pyroscope.ProfileType
	sample func()
}

func sampleMutexes()  { runtime.SetMutexProfileFraction(samplingRate) }
func sampleBlocking() { runtime.SetBlockProfileRate(samplingRate) }

var profileKinds = map[string]profileKind{
	"cpu":            {typ: pyroscope.ProfileCPU},
	"alloc_objects":  {typ: pyroscope.ProfileAllocObjects},
	"alloc_space":    {typ: pyroscope.ProfileAllocSpace},
	"inuse_objects":  {typ: pyroscope.ProfileInuseObjects},
	"inuse_space":    {typ: pyroscope.ProfileInuseSpace},
	"goroutines":     {typ: pyroscope.ProfileGoroutines},
	"mutex_count":    {typ: pyroscope.ProfileMutexCount, sample: sampleMutexes},
	"mutex_duration": {typ: pyroscope.ProfileMutexDuration, sample: sampleMutexes},
	"block_count":    {typ: pyroscope.ProfileBlockCount, sample: sampleBlocking},
	"block_duration": {typ: pyroscope.ProfileBlockDuration, sample: sampleBlocking},
}

// ValidProfileType reports whether name is a known profile type.
func ValidProfileType(name string) bool {
	_, ok := profileKinds[name]
	return ok
}

var profiling atomic.Bool

// IsProfilingEnabled reports whether a profiler is running.
func IsProfilingEnabled() bool {
	return profiling.Load()
}

// InitProfiling starts the Pyroscope profiler described by cfg and returns the
// function stopping it. A disabled cfg starts nothing.
func InitProfiling(cfg ProfilingConfig) (stop func() error, err error) {
	profiling.Store(false)
	if !cfg.Enabled {
		return func() error { return nil }, nil
	}

	types, err := enableProfiles(cfg.ProfileTypes)
	if err != nil {
		return nil, err
	}

	p, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.Endpoint,
		Tags:            map[string]string{"version": cfg.ServiceVersion},
		ProfileTypes:    types,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope profiler: %w", err)
	}

	profiling.Store(true)
	return func() error {
		profiling.Store(false)
		return p.Stop()
	}, nil
}

// enableProfiles resolves names to profile types and turns on the runtime
// sampling they depend on. Nothing is enabled if a name is unknown.
func enableProfiles(names []string) ([]pyroscope.ProfileType, error) {
	kinds := make([]profileKind, 0, len(names))
	for _, name := range names {
		k, ok := profileKinds[name]
		if !ok {
			return nil, fmt.Errorf("invalid profile type %q", name)
		}
		kinds = append(kinds, k)
	}

	types := make([]pyroscope.ProfileType, 0, len(kinds))
	for _, k := range kinds {
		if k.sample != nil {
			k.sample()
		}
		types = append(types, k.typ)
	}
	return types, nil
}
