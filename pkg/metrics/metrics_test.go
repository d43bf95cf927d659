package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSizes map[string]int64

func (s staticSizes) StoreSizes() map[string]int64 { return s }

func TestNilMetricsAreNoOps(t *testing.T) {
	t.Parallel()

	var sm *StorageMetrics
	sm.RecordMutation("a", OpAdded)
	sm.Watch(staticSizes{})
	sm.Forget("a")

	var rm *RegistryMetrics
	rm.SetState(1)
	rm.SetStores(3)
	rm.RecordError(KindFactory)
	rm.ObserveStart(time.Second)

	assert.Nil(t, NewStorageMetrics(nil))
	assert.Nil(t, NewRegistryMetrics(nil))
}

func TestStorageMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewStorageMetrics(reg)
	require.NotNil(t, m)

	m.RecordMutation("sessions", OpAdded)
	m.RecordMutation("sessions", OpAdded)
	m.RecordMutation("sessions", OpRemoved)
	m.Watch(staticSizes{"sessions": 1, "users": 4})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("sessions", OpAdded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("sessions", OpRemoved)))

	expected := `
# HELP dittokv_storage_entries Number of entries per store
# TYPE dittokv_storage_entries gauge
dittokv_storage_entries{alias="sessions"} 1
dittokv_storage_entries{alias="users"} 4
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "dittokv_storage_entries"))

	m.Forget("sessions")
	assert.Equal(t, 0, testutil.CollectAndCount(m.mutations))
}

func TestRegistryMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewRegistryMetrics(reg)
	require.NotNil(t, m)

	m.SetState(1)
	m.SetStores(2)
	m.RecordError(KindDuplicateAlias)
	m.ObserveStart(20 * time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.state))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.stores))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(KindDuplicateAlias)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.startDuration))
}

func TestInitRegistry(t *testing.T) {
	reg := InitRegistry()
	require.NotNil(t, reg)
	assert.Same(t, reg, InitRegistry())
	assert.True(t, IsEnabled())
	assert.Same(t, reg, GetRegistry())
	assert.NotNil(t, Registerer())
}
