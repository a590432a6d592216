package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	PingCartService(ctx context.Context, timeout time.Duration) error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker     Checker
	CartTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on the cart service probe.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	cartStatus := "ok"
	if err := h.Checker.PingCartService(r.Context(), h.cartTimeout()); err != nil {
		cartStatus = err.Error()
	}
	status := map[string]string{"cart_service": cartStatus}
	w.Header().Set("Content-Type", "application/json")
	if cartStatus != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) cartTimeout() time.Duration {
	if h.CartTimeout <= 0 {
		return 500 * time.Millisecond
	}
	return h.CartTimeout
}
