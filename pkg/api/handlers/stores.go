package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marmos91/dittokv/pkg/registry"
	storeerrors "github.com/marmos91/dittokv/pkg/storage/errors"
)

// StoreHandler serves read-only store introspection.
type StoreHandler struct {
	registry *registry.Registry
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(registry *registry.Registry) *StoreHandler {
	return &StoreHandler{registry: registry}
}

// List handles GET /api/v1/stores.
func (h *StoreHandler) List(w http.ResponseWriter, r *http.Request) {
	if state := h.registry.State(); state != registry.StateStarted {
		Conflict(w, storeerrors.NewInvalidStateError(state.String()).Error())
		return
	}

	writeJSON(w, http.StatusOK, okResponse(h.registry.Stores()))
}

// Get handles GET /api/v1/stores/{alias}.
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	alias := chi.URLParam(r, "alias")

	info, ok, err := h.registry.Describe(alias)
	switch {
	case storeerrors.IsInvalidStateError(err):
		Conflict(w, err.Error())
	case err != nil:
		InternalServerError(w, err.Error())
	case !ok:
		NotFound(w, "no store registered under alias "+alias)
	default:
		writeJSON(w, http.StatusOK, okResponse(info))
	}
}

// Properties handles GET /api/v1/properties.
func (h *StoreHandler) Properties(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, okResponse(h.registry.Properties()))
}
