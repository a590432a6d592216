// Package badge keeps the last broadcast cart item count for header badges.
package badge

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/casegear/configurator/internal/common"
	"github.com/casegear/configurator/internal/events"
)

// Badge is a cart-count observer. It subscribes to the event bus and holds
// the most recent count for rendering.
type Badge struct {
	mu        sync.RWMutex
	count     int
	updatedAt time.Time
}

// Notify implements events.Notifier for cart.updated events.
func (b *Badge) Notify(_ context.Context, ev events.Event) error {
	if ev.Topic != events.TopicCartUpdated {
		return nil
	}
	count, ok := toInt(ev.Payload["itemCount"])
	if !ok {
		return nil
	}
	b.mu.Lock()
	b.count = count
	b.updatedAt = time.Now()
	b.mu.Unlock()
	return nil
}

// Count returns the last broadcast cart item count.
func (b *Badge) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Handler serves GET /api/v1/cart-badge.
func (b *Badge) Handler(w http.ResponseWriter, _ *http.Request) {
	b.mu.RLock()
	count := b.count
	updatedAt := b.updatedAt
	b.mu.RUnlock()
	payload := map[string]any{"itemCount": count}
	if !updatedAt.IsZero() {
		payload["updatedAt"] = updatedAt.UTC()
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": payload})
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
