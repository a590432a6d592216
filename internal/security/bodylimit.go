package security

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/casegear/configurator/internal/common"
)

// BodyLimit enforces a maximum request payload size. Action payloads here are
// tiny JSON documents; anything near the limit is a misbehaving client.
type BodyLimit struct {
	Max int64
}

// Middleware rejects requests exceeding the configured limit with HTTP 413
// in the canonical error shape.
func (b BodyLimit) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.Max <= 0 || r.Body == nil {
			next.ServeHTTP(w, r)
			return
		}

		if r.ContentLength > b.Max && r.ContentLength != -1 {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body exceeds the allowed size", nil)
			return
		}

		limited := io.LimitReader(r.Body, b.Max+1)
		buf, err := io.ReadAll(limited)
		if err != nil && !errors.Is(err, io.EOF) {
			common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unable to read request body", nil)
			return
		}
		if int64(len(buf)) > b.Max {
			common.JSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body exceeds the allowed size", nil)
			return
		}

		_ = r.Body.Close()

		r.Body = io.NopCloser(bytes.NewReader(buf))
		r.ContentLength = int64(len(buf))
		next.ServeHTTP(w, r)
	})
}
