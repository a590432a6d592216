package configurator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casegear/configurator/internal/common"
	"github.com/casegear/configurator/internal/obs"
)

// Handler exposes the session API: one configurator embedding per session,
// every mutation an Action, every response the fresh post-mutation view.
type Handler struct {
	Registry *Registry
}

// CreateSession handles POST /api/v1/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, _ *http.Request) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "session registry not configured", nil)
		return
	}
	s := h.Registry.Create()
	common.JSON(w, http.StatusCreated, map[string]any{"data": s.View()})
}

// GetSession handles GET /api/v1/sessions/{sessionID}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": s.View()})
}

// DeleteSession handles DELETE /api/v1/sessions/{sessionID}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "session registry not configured", nil)
		return
	}
	h.Registry.Remove(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

// AddSlot handles POST /api/v1/sessions/{sessionID}/slots.
func (h *Handler) AddSlot(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, Action{Kind: ActionAddSlot}, "add_slot")
}

// RemoveSlot handles DELETE /api/v1/sessions/{sessionID}/slots/{slotID}.
func (h *Handler) RemoveSlot(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, Action{Kind: ActionRemoveSlot, SlotID: chi.URLParam(r, "slotID")}, "remove_slot")
}

// ChooseBrand handles POST /api/v1/sessions/{sessionID}/slots/{slotID}/brand.
func (h *Handler) ChooseBrand(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Brand string `json:"brand"`
	}
	if !decode(w, r, &payload) {
		return
	}
	h.apply(w, r, Action{
		Kind:        ActionChooseBrand,
		SlotID:      chi.URLParam(r, "slotID"),
		BrandHandle: payload.Brand,
	}, "choose_brand")
}

// ChooseModel handles POST /api/v1/sessions/{sessionID}/slots/{slotID}/model.
func (h *Handler) ChooseModel(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Model string `json:"model"`
	}
	if !decode(w, r, &payload) {
		return
	}
	h.apply(w, r, Action{
		Kind:        ActionChooseModel,
		SlotID:      chi.URLParam(r, "slotID"),
		ModelHandle: payload.Model,
	}, "choose_model")
}

// AddLine handles POST /api/v1/sessions/{sessionID}/lines. The variant is
// addressed by the slot that resolved it and the role it fills.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SlotID string `json:"slotId"`
		Role   string `json:"role"`
	}
	if !decode(w, r, &payload) {
		return
	}
	h.apply(w, r, Action{
		Kind:   ActionAddVariant,
		SlotID: payload.SlotID,
		Role:   payload.Role,
	}, "add_line")
}

// ChangeQuantity handles PATCH /api/v1/sessions/{sessionID}/lines/{variantID}.
func (h *Handler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Delta int `json:"delta"`
	}
	if !decode(w, r, &payload) {
		return
	}
	h.apply(w, r, Action{
		Kind:      ActionChangeQuantity,
		VariantID: chi.URLParam(r, "variantID"),
		Delta:     payload.Delta,
	}, "change_quantity")
}

// RemoveLine handles DELETE /api/v1/sessions/{sessionID}/lines/{variantID}.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, Action{Kind: ActionRemoveLine, VariantID: chi.URLParam(r, "variantID")}, "remove_line")
}

// ToggleStandalone handles POST /api/v1/sessions/{sessionID}/standalone/{itemID}.
func (h *Handler) ToggleStandalone(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, Action{Kind: ActionToggleStandalone, ItemID: chi.URLParam(r, "itemID")}, "toggle_standalone")
}

// Reset handles POST /api/v1/sessions/{sessionID}/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, Action{Kind: ActionReset}, "reset")
}

// Summary handles GET /api/v1/sessions/{sessionID}/summary.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": s.Summary()})
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request, a Action, op string) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Apply(a); err != nil {
		h.countOp(op, "rejected")
		writeActionError(w, err)
		return
	}
	h.countOp(op, "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": s.View()})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	if h.Registry == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "session registry not configured", nil)
		return nil, false
	}
	id := chi.URLParam(r, "sessionID")
	s, ok := h.Registry.Get(id)
	if !ok {
		common.JSONError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found", nil)
		return nil, false
	}
	return s, true
}

func (h *Handler) countOp(op, result string) {
	if obs.SelectionOpsTotal != nil {
		obs.SelectionOpsTotal.WithLabelValues(op, result).Inc()
	}
}

func writeActionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnavailable):
		common.JSONError(w, http.StatusConflict, "UNAVAILABLE", "item is out of stock", nil)
	case errors.Is(err, ErrSlotLimit):
		common.JSONError(w, http.StatusConflict, "SLOT_LIMIT", "maximum number of configurations reached", nil)
	case errors.Is(err, ErrSlotNotFound):
		common.JSONError(w, http.StatusNotFound, "SLOT_NOT_FOUND", "slot not found", nil)
	case errors.Is(err, ErrBadAction):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_ACTION", err.Error(), nil)
	default:
		common.WriteError(w, err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid json payload", nil)
		return false
	}
	return true
}
