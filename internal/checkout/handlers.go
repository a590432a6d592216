package checkout

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/casegear/configurator/internal/common"
	"github.com/casegear/configurator/internal/configurator"
)

// SessionSource resolves sessions for the submit endpoint.
type SessionSource interface {
	Get(id string) (*configurator.Session, bool)
}

// Handler wires the submitter to HTTP.
type Handler struct {
	Sessions  SessionSource
	Submitter *Submitter
}

// Submit handles POST /api/v1/sessions/{sessionID}/submit.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.Sessions == nil || h.Submitter == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout not configured", nil)
		return
	}
	session, ok := h.Sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		common.JSONError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found", nil)
		return
	}
	state, err := h.Submitter.Submit(r.Context(), session)
	if err != nil {
		if errors.Is(err, ErrSubmitInFlight) {
			common.JSONError(w, http.StatusConflict, "SUBMIT_IN_FLIGHT", "a submission is already in progress", nil)
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": state})
}

// State handles GET /api/v1/sessions/{sessionID}/submit.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	if h.Sessions == nil || h.Submitter == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout not configured", nil)
		return
	}
	session, ok := h.Sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		common.JSONError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Submitter.State(session.ID)})
}
