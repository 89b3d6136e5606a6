package selection

import (
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/catalog"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// Session owns one State. Each transition runs to completion under the
// session lock.
type Session struct {
	ID string

	mu       sync.Mutex
	state    State
	store    FavouriteStore
	logger   *zap.Logger
	lastSeen time.Time
}

// NewSession creates a session and loads its favourites. A failed read
// starts the session with no favourites.
func NewSession(id string, store FavouriteStore, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		ID:       id,
		store:    store,
		logger:   logger,
		lastSeen: time.Now(),
		state:    State{Favourites: []string{}},
	}

	if store != nil {
		ids, err := store.LoadFavouriteIDs()
		if err != nil {
			logger.Warn("loading favourites failed, starting empty",
				zap.String("session", id), zap.Error(err))
		} else {
			s.state.Favourites = cleanFavourites(ids)
		}
	}
	return s
}

// State returns a copy of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() State {
	st := s.state
	st.Favourites = slices.Clone(st.Favourites)
	if st.SelectedLocation != nil {
		loc := *st.SelectedLocation
		st.SelectedLocation = &loc
	}
	return st
}

func (s *Session) apply(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.snapshot()
}

// SetSearchQuery replaces the search text and returns the new state.
func (s *Session) SetSearchQuery(q string) State {
	return s.apply(func(st State) State { return st.SetSearchQuery(q) })
}

// ToggleCountry selects or deselects a country and clears the video.
func (s *Session) ToggleCountry(name string) State {
	return s.apply(func(st State) State { return st.ToggleCountry(name) })
}

// ToggleVideo selects or deselects a video, keeping the country.
func (s *Session) ToggleVideo(videoID string) State {
	return s.apply(func(st State) State { return st.ToggleVideo(videoID) })
}

// SelectLocation opens the details for loc, or closes them when nil.
func (s *Session) SelectLocation(loc *model.Location) State {
	return s.apply(func(st State) State { return st.SelectLocation(loc) })
}

// ResetFilters clears the country and video selections.
func (s *Session) ResetFilters() State {
	return s.apply(State.ResetFilters)
}

// ToggleFiltersPanel opens or closes the filter panel.
func (s *Session) ToggleFiltersPanel() State {
	return s.apply(State.ToggleFiltersPanel)
}

// AddFavourite adds id and persists the list. Adding a present id changes
// nothing and writes nothing.
func (s *Session) AddFavourite(id string) (State, error) {
	return s.updateFavourites(func(st State) State { return st.WithFavourite(id) })
}

// RemoveFavourite removes id and persists the list. Removing an absent id
// changes nothing and writes nothing.
func (s *Session) RemoveFavourite(id string) (State, error) {
	return s.updateFavourites(func(st State) State { return st.WithoutFavourite(id) })
}

// updateFavourites keeps the in-memory change even when saving fails; the
// in-memory list is authoritative for the rest of the session.
func (s *Session) updateFavourites(fn func(State) State) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state.Favourites
	s.state = fn(s.state)
	if slices.Equal(before, s.state.Favourites) || s.store == nil {
		return s.snapshot(), nil
	}

	if err := s.store.SaveFavouriteIDs(slices.Clone(s.state.Favourites)); err != nil {
		s.logger.Warn("saving favourites failed", zap.String("session", s.ID), zap.Error(err))
		return s.snapshot(), err
	}
	return s.snapshot(), nil
}

// View renders the session against ix.
func (s *Session) View(ix *catalog.Index) View {
	return NewView(ix, s.State())
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// LastSeen returns when the session was last looked up.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
