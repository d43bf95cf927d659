package listener

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/marmos91/dittokv/internal/logger"
	"github.com/marmos91/dittokv/pkg/metrics"
	"github.com/marmos91/dittokv/pkg/storage"
	"github.com/marmos91/dittokv/pkg/storage/heap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ storage.MutationListener[string, int] = (*Func[string, int])(nil)
	_ storage.MutationListener[string, int] = (*Counting[string, int])(nil)
	_ storage.MutationListener[string, int] = (*Logging[string, int])(nil)
	_ storage.MutationListener[string, int] = (*Metrics[string, int])(nil)
)

func TestFunc(t *testing.T) {
	t.Parallel()

	var gotKey string
	var gotValue int
	var gotMeta byte
	f := &Func[string, int]{
		OnAdded: func(k string, v int, m byte) error {
			gotKey, gotValue, gotMeta = k, v, m
			return nil
		},
		OnRemoved: func(string, int) error { return errors.New("veto") },
	}

	s := heap.New[string, int](heap.WithListeners[string, int](f))
	require.NoError(t, s.PutWithMetadata("a", 1, 3))
	assert.Equal(t, "a", gotKey)
	assert.Equal(t, 1, gotValue)
	assert.EqualValues(t, 3, gotMeta)

	_, err := s.Remove("a")
	assert.Error(t, err)
}

func TestFunc_NilCallbacks(t *testing.T) {
	t.Parallel()

	f := &Func[string, int]{}
	assert.NoError(t, f.Added(storage.RetrieverFor("a"), storage.RetrieverFor(1), 0))
	assert.NoError(t, f.Removed(storage.RetrieverFor("a"), storage.RetrieverFor(1)))
}

func TestCounting(t *testing.T) {
	t.Parallel()

	c := &Counting[int, string]{}
	s := heap.New[int, string](heap.WithListeners[int, string](c))

	for i := range 10 {
		require.NoError(t, s.Put(i, "v"))
	}
	require.NoError(t, s.RemoveAll([]int{0, 1, 2, 42}))
	s.Clear()

	assert.EqualValues(t, 10, c.AddedCount())
	assert.EqualValues(t, 3, c.RemovedCount())
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "DEBUG", "text", false)
	defer logger.InitWithWriter(&bytes.Buffer{}, "INFO", "text", false)

	s := heap.New[string, string](heap.WithListeners[string, string](NewLogging[string, string]("sessions")))
	require.NoError(t, s.Put("user-1", "secret"))
	_, err := s.Remove("user-1")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "entry added alias=sessions key=user-1 metadata=0")
	assert.Contains(t, out, "entry removed alias=sessions key=user-1")
	assert.NotContains(t, out, "secret")
}

// countingRetriever counts how often the key is read.
type countingRetriever struct {
	key   string
	calls int
}

func (r *countingRetriever) Retrieve() string {
	r.calls++
	return r.key
}

func TestLogging_SkipsKeyBelowDebug(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "INFO", "text", false)
	defer logger.InitWithWriter(&bytes.Buffer{}, "INFO", "text", false)

	l := NewLogging[string, string]("sessions")
	key := &countingRetriever{key: "user-1"}
	require.NoError(t, l.Added(key, storage.RetrieverFor("secret"), 0))
	require.NoError(t, l.Removed(key, storage.RetrieverFor("secret")))

	assert.Zero(t, key.calls)
	assert.Empty(t, buf.String())
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.NewStorageMetrics(reg)
	s := heap.New[string, int](heap.WithListeners[string, int](NewMetrics[string, int]("counters", m)))

	require.NoError(t, s.Put("a", 1))
	require.NoError(t, s.Put("a", 2))
	_, err := s.Remove("a")
	require.NoError(t, err)

	expected := `
# HELP dittokv_storage_mutations_total Total number of store mutations observed by listeners
# TYPE dittokv_storage_mutations_total counter
dittokv_storage_mutations_total{alias="counters",op="added"} 2
dittokv_storage_mutations_total{alias="counters",op="removed"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "dittokv_storage_mutations_total"))
}

func TestMetrics_NilIsNoOp(t *testing.T) {
	t.Parallel()

	l := NewMetrics[string, int]("a", nil)
	assert.NoError(t, l.Added(storage.RetrieverFor("a"), storage.RetrieverFor(1), 0))
	assert.NoError(t, l.Removed(storage.RetrieverFor("a"), storage.RetrieverFor(1)))
}
