package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casegear/configurator/internal/common"
)

// Handler exposes read-only catalog endpoints.
type Handler struct {
	Index *Index
}

// Brands handles GET /api/v1/brands.
func (h *Handler) Brands(w http.ResponseWriter, _ *http.Request) {
	if h.Index == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Index.Brands()})
}

// Models handles GET /api/v1/brands/{handle}/models.
func (h *Handler) Models(w http.ResponseWriter, r *http.Request) {
	if h.Index == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	handle := chi.URLParam(r, "handle")
	models := h.Index.ModelsForBrand(handle)
	if models == nil {
		models = []Model{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": models})
}

// Standalone handles GET /api/v1/standalone.
func (h *Handler) Standalone(w http.ResponseWriter, _ *http.Request) {
	if h.Index == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "catalog not configured", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Index.StandaloneItems()})
}
