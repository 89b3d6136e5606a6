package selection

import (
	"slices"
	"sync"
)

// FavouriteStore persists the favourite location ids of a session.
type FavouriteStore interface {
	LoadFavouriteIDs() ([]string, error)
	SaveFavouriteIDs(ids []string) error
}

// MemoryFavourites is an in-process FavouriteStore.
type MemoryFavourites struct {
	mu  sync.Mutex
	ids []string
}

// LoadFavouriteIDs returns a copy of the stored ids.
func (m *MemoryFavourites) LoadFavouriteIDs() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.ids), nil
}

// SaveFavouriteIDs replaces the stored ids with a copy of ids.
func (m *MemoryFavourites) SaveFavouriteIDs(ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = slices.Clone(ids)
	return nil
}
