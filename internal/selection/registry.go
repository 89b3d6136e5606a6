package selection

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// StoreFactory returns the favourites store for a browser profile; an empty
// profile selects the default store.
type StoreFactory func(profile string) FavouriteStore

// Registry tracks live sessions by id.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	stores   StoreFactory
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistry creates an empty registry. stores may be nil, in which case
// favourites live only in memory.
func NewRegistry(stores StoreFactory, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		stores:   stores,
		logger:   logger,
		now:      time.Now,
	}
}

// Create starts a session for profile.
func (r *Registry) Create(profile string) *Session {
	var store FavouriteStore = &MemoryFavourites{}
	if r.stores != nil {
		store = r.stores(profile)
	}

	s := NewSession(uuid.NewString(), store, r.logger)
	s.touch(r.now())

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Debug("session created", zap.String("session", s.ID), zap.String("profile", profile))
	return s
}

// Get returns the session with id and marks it as seen.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Delete removes the session with id.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Info("expired idle sessions", zap.Int("count", removed), zap.Int("remaining", len(r.sessions)))
	}
	return removed
}
