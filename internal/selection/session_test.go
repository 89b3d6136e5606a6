package selection

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/catalog"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

type countingStore struct {
	ids     []string
	loadErr error
	saveErr error
	saves   int
}

func (c *countingStore) LoadFavouriteIDs() ([]string, error) {
	return c.ids, c.loadErr
}

func (c *countingStore) SaveFavouriteIDs(ids []string) error {
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	c.ids = ids
	return nil
}

func TestNewSessionLoadsFavourites(t *testing.T) {
	// A store written by an older client may contain a null entry.
	s := NewSession("s1", &countingStore{ids: []string{"", "a", "a", "b"}}, nil)
	assert.Equal(t, []string{"a", "b"}, s.State().Favourites)
}

func TestNewSessionReadFailureStartsEmpty(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewSession("s1", &countingStore{loadErr: errors.New("corrupt")}, zap.New(core))

	assert.Empty(t, s.State().Favourites)
	assert.NotNil(t, s.State().Favourites)
	assert.Equal(t, 1, logs.Len())
}

func TestSessionFavouritesPersistImmediately(t *testing.T) {
	store := &countingStore{}
	s := NewSession("s1", store, nil)

	st, err := s.AddFavourite("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, st.Favourites)
	assert.Equal(t, []string{"a"}, store.ids)
	assert.Equal(t, 1, store.saves)

	_, err = s.AddFavourite("a")
	require.NoError(t, err)
	_, err = s.RemoveFavourite("zzz")
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)

	st, err = s.RemoveFavourite("a")
	require.NoError(t, err)
	assert.Empty(t, st.Favourites)
	assert.Empty(t, store.ids)
	assert.Equal(t, 2, store.saves)
}

func TestSessionSaveFailureKeepsMemoryState(t *testing.T) {
	store := &countingStore{saveErr: errors.New("disk full")}
	s := NewSession("s1", store, nil)

	st, err := s.AddFavourite("a")
	assert.Error(t, err)
	assert.Equal(t, []string{"a"}, st.Favourites)
	assert.Equal(t, []string{"a"}, s.State().Favourites)
}

func TestSessionStateIsACopy(t *testing.T) {
	s := NewSession("s1", nil, nil)
	s.SelectLocation(&model.Location{ID: "1", Name: "Wawel"})
	_, _ = s.AddFavourite("1")

	st := s.State()
	st.Favourites[0] = "changed"
	st.SelectedLocation.Name = "changed"

	again := s.State()
	assert.Equal(t, []string{"1"}, again.Favourites)
	assert.Equal(t, "Wawel", again.SelectedLocation.Name)
}

func TestDispatchVideoClickDoesNotReachCountry(t *testing.T) {
	s := NewSession("s1", nil, nil)
	s.ToggleCountry("Polska")

	st := s.Dispatch(Click{Path: []Target{
		{Kind: TargetVideo, ID: "a"},
		{Kind: TargetCountry, ID: "Polska"},
	}})
	assert.Equal(t, "a", st.SelectedVideo)
	assert.Equal(t, "Polska", st.SelectedCountry)
}

func TestDispatchCountryClick(t *testing.T) {
	s := NewSession("s1", nil, nil)
	s.ToggleVideo("a")

	st := s.Dispatch(Click{Path: []Target{{Kind: TargetCountry, ID: "Polska"}}})
	assert.Equal(t, "Polska", st.SelectedCountry)
	assert.Empty(t, st.SelectedVideo)
}

func TestDispatchOtherTargets(t *testing.T) {
	s := NewSession("s1", nil, nil)
	loc := &model.Location{ID: "7"}

	st := s.Dispatch(Click{Path: []Target{{Kind: TargetLocation, Location: loc}}})
	assert.Equal(t, "7", st.SelectedLocation.ID)

	st = s.Dispatch(Click{Path: []Target{{Kind: TargetFilters}}})
	assert.True(t, st.FiltersOpen)

	s.ToggleCountry("Polska")
	st = s.Dispatch(Click{Path: []Target{{Kind: "unknown"}, {Kind: TargetReset}}})
	assert.Empty(t, st.SelectedCountry)

	st = s.Dispatch(Click{})
	assert.Equal(t, "7", st.SelectedLocation.ID)
}

func TestSessionConcurrentTransitions(t *testing.T) {
	s := NewSession("s1", &MemoryFavourites{}, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ToggleFiltersPanel()
			_, _ = s.AddFavourite("x")
		}()
	}
	wg.Wait()

	st := s.State()
	assert.False(t, st.FiltersOpen)
	assert.Equal(t, []string{"x"}, st.Favourites)
}

func TestRegistry(t *testing.T) {
	stores := map[string]*MemoryFavourites{}
	factory := func(profile string) FavouriteStore {
		if stores[profile] == nil {
			stores[profile] = &MemoryFavourites{}
		}
		return stores[profile]
	}
	r := NewRegistry(factory, nil)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	a := r.Create("")
	_, err := a.AddFavourite("1")
	require.NoError(t, err)

	b := r.Create("")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, []string{"1"}, b.State().Favourites)

	got, err := r.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = r.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	now = now.Add(90 * time.Minute)
	_, err = r.Get(b.ID)
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, r.Sweep(time.Hour))
	assert.Equal(t, 1, r.Len())
	_, err = r.Get(a.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, r.Delete(b.ID))
	assert.ErrorIs(t, r.Delete(b.ID), ErrSessionNotFound)
}

func TestSessionView(t *testing.T) {
	ix := catalog.NewIndex([]model.Video{
		{VideoID: "a", Title: "ODC. 1 Kraków", FilterTitle: "Kraków (odc. 1)", Locations: []model.Location{
			{ID: "1", Country: "Polska", Latitude: 50.06, Longitude: 19.94},
		}},
		{VideoID: "b", Title: "Zakopane", Locations: []model.Location{
			{ID: "2", Country: "Polska", Latitude: 49.30, Longitude: 19.95},
		}},
		{VideoID: "c", Title: "Wiedeń", Locations: []model.Location{
			{ID: "3", Country: "Austria", Latitude: 48.21, Longitude: 16.36},
		}},
		{VideoID: "d", Title: "Bez lokacji"},
	})

	s := NewSession("s1", nil, nil)
	s.ToggleCountry("Polska")
	s.ToggleVideo("a")

	v := s.View(ix)
	assert.Equal(t, 3, v.TotalLocations)
	assert.Equal(t, 3, v.VideoCount)
	assert.Equal(t, []string{}, v.Favourites)
	require.Len(t, v.Locations, 3)
	assert.False(t, v.Locations[0].IsFilteredOut)
	assert.True(t, v.Locations[1].IsFilteredOut)
	assert.True(t, v.Locations[2].IsFilteredOut)

	require.Len(t, v.Countries, 2)
	assert.Equal(t, "Austria", v.Countries[0].Name)
	assert.False(t, v.Countries[0].Expanded)

	polska := v.Countries[1]
	assert.Equal(t, "polska", polska.Slug)
	assert.True(t, polska.Expanded)
	assert.Equal(t, 2, polska.LocationCount)
	require.Len(t, polska.Videos, 2)
	assert.Equal(t, "Kraków (odc. 1)", polska.Videos[0].Title)
	assert.True(t, polska.Videos[0].Expanded)
	assert.False(t, polska.Videos[1].Expanded)

	require.NotNil(t, v.Bounds)
	assert.Equal(t, [4]float64{19.94, 50.06, 19.94, 50.06}, *v.Bounds)

	s.SetSearchQuery("wiedeń")
	v = s.View(ix)
	require.Len(t, v.Countries, 1)
	// The selected video is outside the new results but still filters.
	assert.Equal(t, "a", v.SelectedVideo)
	assert.False(t, v.Locations[0].IsFilteredOut)

	s.ResetFilters()
	s.SetSearchQuery("")
	v = s.View(ix)
	assert.Len(t, catalog.Visible(v.Locations), 3)
	assert.Equal(t, [4]float64{16.36, 48.21, 19.95, 50.06}, *v.Bounds)
}
