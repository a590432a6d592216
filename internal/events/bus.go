package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Event is one emitted notification.
type Event struct {
	Topic   string
	Payload map[string]any
}

// Notifier reacts to emitted events (badge counters, logs, metrics).
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Bus fans events out to subscribed notifiers. Delivery is synchronous and
// best-effort: notifier errors are joined and reported to the emitter, never
// retried.
type Bus struct {
	mu        sync.RWMutex
	notifiers []Notifier
}

// Subscribe registers a notifier for all topics.
func (b *Bus) Subscribe(n Notifier) {
	if n == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifiers = append(b.notifiers, n)
}

// Emit dispatches the event to all configured notifiers.
func (b *Bus) Emit(ctx context.Context, topic string, payload map[string]any) error {
	if b == nil {
		return errors.New("events: bus not configured")
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return errors.New("events: topic is required")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	ev := Event{Topic: topic, Payload: payload}

	b.mu.RLock()
	notifiers := make([]Notifier, len(b.notifiers))
	copy(notifiers, b.notifiers)
	b.mu.RUnlock()

	var joined error
	for _, notifier := range notifiers {
		if notifier == nil {
			continue
		}
		if err := notifier.Notify(ctx, ev); err != nil {
			joined = errors.Join(joined, fmt.Errorf("events: notifier: %w", err))
		}
	}
	return joined
}
