package handlers

import (
	"fmt"
	"net/http"

	"github.com/marmos91/dittokv/pkg/registry"
	"github.com/marmos91/dittokv/pkg/storage/monitoring"
)

// HealthHandler handles health check endpoints.
//
// Health endpoints are unauthenticated and provide:
//   - Liveness probe: Is the server process running?
//   - Readiness probe: Has the registry started?
//   - Store health: Size and types of every registered store
//   - Resource health: Usage of the resources the storage tier consumes
type HealthHandler struct {
	registry *registry.Registry
}

// NewHealthHandler creates a new health handler.
//
// The registry parameter may be nil, in which case readiness and store
// health checks will return unhealthy status.
func NewHealthHandler(registry *registry.Registry) *HealthHandler {
	return &HealthHandler{registry: registry}
}

// Liveness handles GET /health.
//
// Returns 200 OK as long as the HTTP server is responsive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthyResponse(map[string]string{
		"service": "dittokv",
	}))
}

// ReadinessResponse is the payload of the readiness probe.
type ReadinessResponse struct {
	State  string `json:"state"`
	Tier   string `json:"tier,omitempty"`
	Stores int    `json:"stores"`
}

// Readiness handles GET /health/ready.
//
// Returns 200 OK once the registry has started, 503 Service Unavailable
// before Start completes and after Shutdown.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("registry not initialized"))
		return
	}

	state := h.registry.State()
	resp := ReadinessResponse{
		State:  state.String(),
		Tier:   h.registry.Tier(),
		Stores: len(h.registry.Aliases()),
	}

	if state != registry.StateStarted {
		writeJSON(w, http.StatusServiceUnavailable,
			unhealthyResponseWithData(fmt.Sprintf("registry is %s", state), resp))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(resp))
}

// StoresResponse represents the detailed store health response.
type StoresResponse struct {
	Stores []registry.StoreInfo `json:"stores"`
}

// Stores handles GET /health/stores.
//
// Reports every registered store. Heap stores have no failure mode of their
// own, so the result follows the registry state.
func (h *HealthHandler) Stores(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("registry not initialized"))
		return
	}

	resp := StoresResponse{Stores: h.registry.Stores()}

	if state := h.registry.State(); state != registry.StateStarted {
		writeJSON(w, http.StatusServiceUnavailable,
			unhealthyResponseWithData(fmt.Sprintf("registry is %s", state), resp))
		return
	}

	writeJSON(w, http.StatusOK, healthyResponse(resp))
}

// ResourceHealth is a resource snapshot with its utilization.
type ResourceHealth struct {
	monitoring.Snapshot
	Utilization float64 `json:"utilization"`
}

// ResourcesResponse represents the resource health response.
type ResourcesResponse struct {
	Resources []ResourceHealth `json:"resources"`
}

// Resources handles GET /health/resources.
//
// Returns a snapshot of every resource the storage tier reports.
func (h *HealthHandler) Resources(w http.ResponseWriter, r *http.Request) {
	if h.registry == nil {
		writeJSON(w, http.StatusServiceUnavailable, unhealthyResponse("registry not initialized"))
		return
	}

	resp := ResourcesResponse{Resources: make([]ResourceHealth, 0)}
	for _, res := range h.registry.MonitoredResources() {
		snap := res.Snapshot()
		resp.Resources = append(resp.Resources, ResourceHealth{
			Snapshot:    snap,
			Utilization: snap.Utilization(),
		})
	}

	writeJSON(w, http.StatusOK, healthyResponse(resp))
}
