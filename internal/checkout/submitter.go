package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/casegear/configurator/internal/cartclient"
	"github.com/casegear/configurator/internal/configurator"
	"github.com/casegear/configurator/internal/events"
	"github.com/casegear/configurator/internal/obs"
)

// Status enumerates the submitter's user-visible states.
type Status string

const (
	StatusIdle            Status = "idle"
	StatusSubmitting      Status = "submitting"
	StatusSucceeded       Status = "succeeded"
	StatusFailed          Status = "failed"
	StatusNothingSelected Status = "nothing_selected"
)

// FailReason classifies a failed submission.
type FailReason string

const (
	ReasonOutOfStock   FailReason = "out_of_stock"
	ReasonServiceError FailReason = "service_error"
)

// ErrSubmitInFlight is returned when a submission is already running for the
// session. The submit control is disabled client-side for the duration; this
// is the server-side backstop.
var ErrSubmitInFlight = errors.New("submission already in progress")

// StateView is the rendering-ready submitter state for one session.
type StateView struct {
	Status        Status     `json:"status"`
	Reason        FailReason `json:"reason,omitempty"`
	CartItemCount int        `json:"cartItemCount,omitempty"`
	ShakeIDs      []string   `json:"shakeIds,omitempty"`
}

type sessionState struct {
	status    Status
	reason    FailReason
	cartCount int
	shakeIDs  []string
	expiresAt time.Time
}

// Submitter serialises session selections into batched cart-service requests
// and tracks per-session submission state. Succeeded, Failed and
// NothingSelected are transient and self-revert to Idle after NoticeTTL.
type Submitter struct {
	Client    cartclient.Client
	Events    *events.Bus
	NoticeTTL time.Duration
	Now       func() time.Time
	Log       zerolog.Logger

	mu     sync.Mutex
	states map[string]*sessionState
}

func (s *Submitter) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Submitter) noticeTTL() time.Duration {
	if s.NoticeTTL <= 0 {
		return 4 * time.Second
	}
	return s.NoticeTTL
}

// State returns the current submitter state for the session, reverting
// expired transient states to Idle.
func (s *Submitter) State(sessionID string) StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(sessionID)
}

func (s *Submitter) stateLocked(sessionID string) StateView {
	st, ok := s.states[sessionID]
	if !ok {
		return StateView{Status: StatusIdle}
	}
	if st.status != StatusSubmitting && !st.expiresAt.IsZero() && s.now().After(st.expiresAt) {
		delete(s.states, sessionID)
		return StateView{Status: StatusIdle}
	}
	return StateView{
		Status:        st.status,
		Reason:        st.reason,
		CartItemCount: st.cartCount,
		ShakeIDs:      st.shakeIDs,
	}
}

func (s *Submitter) setTransient(sessionID string, st sessionState) StateView {
	st.expiresAt = s.now().Add(s.noticeTTL())
	s.mu.Lock()
	if s.states == nil {
		s.states = make(map[string]*sessionState)
	}
	s.states[sessionID] = &st
	s.mu.Unlock()
	return StateView{
		Status:        st.status,
		Reason:        st.reason,
		CartItemCount: st.cartCount,
		ShakeIDs:      st.shakeIDs,
	}
}

// Submit pushes the session's current selection to the cart service as one
// batch. An empty selection produces a transient NothingSelected notice and
// never contacts the service. The add call is not retried; a failed
// follow-up count read is tolerated as a stale count, not a failure.
func (s *Submitter) Submit(ctx context.Context, session *configurator.Session) (StateView, error) {
	if s == nil || s.Client == nil {
		return StateView{}, errors.New("submitter not configured")
	}

	summary := session.Summary()

	s.mu.Lock()
	if s.states == nil {
		s.states = make(map[string]*sessionState)
	}
	if cur := s.stateLocked(session.ID); cur.Status == StatusSubmitting {
		s.mu.Unlock()
		return cur, ErrSubmitInFlight
	}
	if summary.Empty {
		s.mu.Unlock()
		s.countSubmit("nothing_selected")
		return s.setTransient(session.ID, sessionState{status: StatusNothingSelected}), nil
	}
	s.states[session.ID] = &sessionState{status: StatusSubmitting}
	s.mu.Unlock()

	items := make([]cartclient.Item, 0, len(summary.Lines))
	ids := make([]string, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		items = append(items, cartclient.Item{ID: line.ID, Quantity: line.Quantity})
		ids = append(ids, line.ID)
	}

	addStart := time.Now()
	if err := s.Client.AddItems(ctx, items); err != nil {
		s.observeCart("add", "error", addStart)
		reason := ReasonServiceError
		var shake []string
		var addErr *cartclient.AddError
		if errors.As(err, &addErr) && addErr.OutOfStock() {
			reason = ReasonOutOfStock
			shake = ids
		}
		s.Log.Warn().Err(err).Str("session_id", session.ID).Str("reason", string(reason)).Msg("cart add failed")
		s.countSubmit(string(reason))
		if s.Events != nil {
			_ = s.Events.Emit(ctx, events.TopicCheckoutFailed, map[string]any{
				"sessionId": session.ID,
				"reason":    string(reason),
			})
		}
		return s.setTransient(session.ID, sessionState{status: StatusFailed, reason: reason, shakeIDs: shake}), nil
	}

	s.observeCart("add", "ok", addStart)

	count := summary.ItemCount
	readStart := time.Now()
	if cart, err := s.Client.GetCart(ctx); err != nil {
		s.observeCart("read", "error", readStart)
		// The add succeeded; a stale badge count beats a spurious error.
		s.Log.Warn().Err(err).Str("session_id", session.ID).Msg("cart count refresh failed")
	} else {
		s.observeCart("read", "ok", readStart)
		count = cart.ItemCount
	}

	session.ClearSelection()
	s.countSubmit("succeeded")
	if s.Events != nil {
		_ = s.Events.Emit(ctx, events.TopicCartUpdated, map[string]any{
			"sessionId": session.ID,
			"itemCount": count,
		})
	}
	return s.setTransient(session.ID, sessionState{status: StatusSucceeded, cartCount: count}), nil
}

func (s *Submitter) observeCart(call, result string, start time.Time) {
	if obs.CartServiceLatency != nil {
		obs.CartServiceLatency.WithLabelValues(call, result).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	}
}

func (s *Submitter) countSubmit(result string) {
	if obs.SubmitTotal != nil {
		obs.SubmitTotal.WithLabelValues(result).Inc()
	}
}

// Forget drops submitter state for a removed session.
func (s *Submitter) Forget(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
}
