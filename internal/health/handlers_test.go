package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s stubChecker) PingCartService(context.Context, time.Duration) error {
	return s.err
}

func TestLiveAlwaysOK(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler{}.Live(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestReadyOK(t *testing.T) {
	h := Handler{Checker: stubChecker{}}
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"cart_service":"ok"`)
}

func TestReadyReportsCartServiceFailure(t *testing.T) {
	h := Handler{Checker: stubChecker{err: errors.New("dial tcp: connection refused")}}
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "connection refused")
}

func TestReadyWithoutChecker(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler{}.Ready(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
