package obs

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const routePatternKey contextKey = "route_pattern"

// WithRoutePattern stores the matched chi route pattern in the context.
func WithRoutePattern(ctx context.Context, pattern string) context.Context {
	return context.WithValue(ctx, routePatternKey, pattern)
}

// RoutePatternFromContext returns the matched route pattern, if any.
func RoutePatternFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(routePatternKey).(string); ok {
		return v
	}
	return ""
}

// RoutePatternMiddleware injects the matched route pattern into request context.
func RoutePatternMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if rc := chi.RouteContext(ctx); rc != nil {
			if pattern := rc.RoutePattern(); pattern != "" {
				ctx = WithRoutePattern(ctx, pattern)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
