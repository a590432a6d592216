package configurator

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/casegear/configurator/internal/catalog"
)

// Registry tracks live sessions, one per configurator embedding. Sessions
// are in-memory only; an idle sweep evicts abandoned ones.
type Registry struct {
	Catalog  *catalog.Index
	MaxSlots int
	TTL      time.Duration
	Now      func() time.Time
	Log      zerolog.Logger

	// OnEvict, when set, is called with the id of every session removed
	// through Remove or Sweep, so collaborators holding per-session state
	// can release it.
	OnEvict func(sessionID string)

	mu       sync.Mutex
	sessions map[string]*Session
}

func (r *Registry) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Registry) ttl() time.Duration {
	if r.TTL <= 0 {
		return 30 * time.Minute
	}
	return r.TTL
}

// Create starts a new session.
func (r *Registry) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions == nil {
		r.sessions = make(map[string]*Session)
	}
	s := NewSession(r.Catalog, r.MaxSlots, r.Now)
	r.sessions[s.ID] = s
	return s
}

// Get returns a session by id, refreshing its idle timestamp.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		s.Touch()
	}
	return s, ok
}

// Remove evicts a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok && r.OnEvict != nil {
		r.OnEvict(id)
	}
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle beyond the TTL and returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl())
	r.mu.Lock()
	var evicted []string
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()
	if r.OnEvict != nil {
		for _, id := range evicted {
			r.OnEvict(id)
		}
	}
	return len(evicted)
}

// StartSweeper runs Sweep on an interval until the context is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(); n > 0 {
					r.Log.Debug().Int("evicted", n).Msg("session sweep")
				}
			}
		}
	}()
}
