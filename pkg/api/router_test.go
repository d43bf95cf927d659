package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dittokv/pkg/api/handlers"
	"github.com/marmos91/dittokv/pkg/metrics"
	"github.com/marmos91/dittokv/pkg/registry"
	"github.com/marmos91/dittokv/pkg/storage"
	"github.com/marmos91/dittokv/pkg/storage/heap"
)

func newRegistry(t *testing.T, start bool) *registry.Registry {
	t.Helper()

	reg := registry.New(heap.NewFactory(), map[string]storage.StoreConfig{
		"sessions": heap.NewConfig[string, string](),
	}, registry.WithProperties(map[string]string{"region": "eu"}))
	if start {
		require.NoError(t, reg.Start(t.Context()).Wait(t.Context()))
	}
	t.Cleanup(reg.Shutdown)
	return reg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouter_RootRedirectsToHealth(t *testing.T) {
	t.Parallel()

	w := get(t, NewRouter(nil, nil), "/")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/health", w.Header().Get("Location"))
}

func TestRouter_HealthWithoutRegistry(t *testing.T) {
	t.Parallel()

	router := NewRouter(nil, nil)

	assert.Equal(t, http.StatusOK, get(t, router, "/health").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/health/ready").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/api/v1/stores").Code)
	assert.Equal(t, http.StatusNotFound, get(t, router, "/metrics").Code)
}

func TestRouter_ListStores(t *testing.T) {
	t.Parallel()

	w := get(t, NewRouter(newRegistry(t, true), nil), "/api/v1/stores")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string               `json:"status"`
		Data   []registry.StoreInfo `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "sessions", resp.Data[0].Alias)
	assert.Equal(t, heap.Tier, resp.Data[0].Tier)
}

func TestRouter_ListStores_NotStarted(t *testing.T) {
	t.Parallel()

	w := get(t, NewRouter(newRegistry(t, false), nil), "/api/v1/stores")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, handlers.ContentTypeProblemJSON, w.Header().Get("Content-Type"))
}

func TestRouter_GetStore(t *testing.T) {
	t.Parallel()

	router := NewRouter(newRegistry(t, true), nil)

	w := get(t, router, "/api/v1/stores/sessions")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data registry.StoreInfo `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "sessions", resp.Data.Alias)
	assert.Equal(t, "string", resp.Data.ValueType)

	w = get(t, router, "/api/v1/stores/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var problem handlers.Problem
	require.NoError(t, json.NewDecoder(w.Body).Decode(&problem))
	assert.Equal(t, http.StatusNotFound, problem.Status)
	assert.Contains(t, problem.Detail, "missing")
}

func TestRouter_GetStore_NotStarted(t *testing.T) {
	t.Parallel()

	w := get(t, NewRouter(newRegistry(t, false), nil), "/api/v1/stores/sessions")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_Properties(t *testing.T) {
	t.Parallel()

	w := get(t, NewRouter(newRegistry(t, true), nil), "/api/v1/properties")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "eu", resp.Data["region"])
}

func TestRouter_Metrics(t *testing.T) {
	t.Parallel()

	reg := newRegistry(t, true)
	promReg := prometheus.NewRegistry()
	storageMetrics := metrics.NewStorageMetrics(promReg)
	storageMetrics.Watch(reg)

	w := get(t, NewRouter(reg, promReg), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `dittokv_storage_entries{alias="sessions"} 0`), string(body))
}
