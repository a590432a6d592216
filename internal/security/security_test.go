package security

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})
}

func TestHeadersMiddleware(t *testing.T) {
	h := Headers{Enable: true}.Middleware(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	// HSTS only applies to TLS requests.
	require.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestHeadersDisabled(t *testing.T) {
	h := Headers{}.Middleware(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Empty(t, rec.Header().Get("X-Content-Type-Options"))
}

func TestBodyLimitRejectsOversizedPayload(t *testing.T) {
	h := BodyLimit{Max: 16}.Middleware(okHandler())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 32)))
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	// 413s use the same error envelope as every other API error.
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestBodyLimitPassesSmallPayloadThrough(t *testing.T) {
	h := BodyLimit{Max: 64}.Middleware(okHandler())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"delta":1}`))
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, `{"delta":1}`, rec.Body.String())
}

func TestBodyLimitZeroDisables(t *testing.T) {
	h := BodyLimit{}.Middleware(okHandler())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 1024)))
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
