package catalog

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/markers"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

func loc(id, name, country string) model.Location {
	return model.Location{ID: id, Name: name, Country: country, Type: model.LocationRestaurant, Latitude: 50, Longitude: 19}
}

func sampleVideos() []model.Video {
	return []model.Video{
		{
			VideoID: "a", Title: "Kraków i okolice odc. 1",
			Locations: []model.Location{
				{ID: "1", Name: "Wierzynek", Country: "Polska", Address: "Rynek Główny 16", Latitude: 50.06, Longitude: 19.94, Type: model.LocationRestaurant},
				{ID: "3", Name: "Pałac Esterházy", Country: "Węgry", Description: "barokowy pałac", Latitude: 47.62, Longitude: 16.87, Type: model.LocationAttraction},
			},
		},
		{
			VideoID: "b", Title: "Wiedeń nocą",
			Locations: []model.Location{
				{ID: "2", Name: "Café Central", Country: "Austria", Latitude: 48.21, Longitude: 16.36, Type: model.LocationRestaurant},
				{ID: "1", Name: "Wierzynek", Country: "Polska", Address: "Rynek Główny 16", Latitude: 50.06, Longitude: 19.94, Type: model.LocationRestaurant},
			},
		},
		{VideoID: "c", Title: "Zapowiedź sezonu"},
		{
			VideoID: "d", Title: "Czarnogóra",
			Locations: []model.Location{
				{ID: "4", Name: "Kotor", Country: "Czarnogóra", Latitude: 42.42, Longitude: 18.77, Type: model.LocationOther},
				{ID: "5", Name: "Zamek", Country: "Czechy", Latitude: 50.08, Longitude: 14.40, Type: model.LocationAttraction},
			},
		},
	}
}

func names(countries []model.CountryData) []string {
	var out []string
	for _, c := range countries {
		out = append(out, c.Name)
	}
	return out
}

func ids(locs []model.Location) []string {
	var out []string
	for _, l := range locs {
		out = append(out, l.ID)
	}
	return out
}

func TestBuildScenario(t *testing.T) {
	videos := []model.Video{
		{VideoID: "a", Locations: []model.Location{loc("1", "Bar", "Polska")}},
		{VideoID: "b", Locations: []model.Location{loc("2", "Zamek", "Polska")}},
	}

	countries := Build(videos, "")
	require.Len(t, countries, 1)
	assert.Equal(t, "Polska", countries[0].Name)
	assert.Equal(t, []string{"1", "2"}, ids(countries[0].Locations))
	require.Len(t, countries[0].Videos, 2)
	assert.Equal(t, "a", countries[0].Videos[0].VideoID)
	assert.Equal(t, "b", countries[0].Videos[1].VideoID)

	projected := Project(videos, countries, "", "a")
	require.Len(t, projected, 2)
	assert.False(t, projected[0].IsFilteredOut)
	assert.True(t, projected[1].IsFilteredOut)
	assert.Equal(t, []string{"1"}, ids(Visible(projected)))
}

func TestBuildEmptyQueryIncludesEverythingOnce(t *testing.T) {
	countries := Build(sampleVideos(), "")

	perCountry := make(map[string]map[string]int)
	for _, c := range countries {
		perCountry[c.Name] = make(map[string]int)
		for _, l := range c.Locations {
			perCountry[c.Name][l.ID]++
		}
	}
	for _, v := range sampleVideos() {
		for _, l := range v.Locations {
			assert.Equal(t, 1, perCountry[l.Country][l.ID], "location %s in %s", l.ID, l.Country)
		}
	}
	// Wierzynek appears in two videos but once in Polska.
	assert.Len(t, perCountry["Polska"], 1)
}

func TestBuildSortsWithPolishCollation(t *testing.T) {
	countries := Build(sampleVideos(), "")
	assert.Equal(t, []string{"Austria", "Czarnogóra", "Czechy", "Polska", "Węgry"}, names(countries))

	for _, q := range []string{"", "a", "wierzynek", "pałac", "zzz"} {
		got := Build(sampleVideos(), q)
		for i := 1; i < len(got); i++ {
			assert.LessOrEqual(t, CompareNames(got[i-1].Name, got[i].Name), 0, "query %q", q)
		}
	}
}

func TestBuildQueryMatching(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		countries []string
	}{
		{"by location name", "  WIERZYNEK ", []string{"Polska"}},
		{"by video title pulls all its locations", "kraków", []string{"Polska", "Węgry"}},
		{"by description", "barokowy", []string{"Węgry"}},
		{"by address", "rynek", []string{"Polska"}},
		{"by country", "czechy", []string{"Czechy"}},
		{"no match", "sushi", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.countries, names(Build(sampleVideos(), tt.query)))
		})
	}
}

func TestBuildVideoEntriesCarryMatchingSubset(t *testing.T) {
	countries := Build(sampleVideos(), "café")
	require.Len(t, countries, 1)
	require.Len(t, countries[0].Videos, 1)
	assert.Equal(t, "b", countries[0].Videos[0].VideoID)
	assert.Equal(t, []string{"2"}, ids(countries[0].Videos[0].Locations))
}

func TestBuildFirstVideoWinsPerCountry(t *testing.T) {
	countries := Build(sampleVideos(), "")
	var polska model.CountryData
	for _, c := range countries {
		if c.Name == "Polska" {
			polska = c
		}
	}
	require.Len(t, polska.Videos, 2)
	assert.Equal(t, "a", polska.Videos[0].VideoID)
	assert.Equal(t, "b", polska.Videos[1].VideoID)
}

func TestBuildIsPureAndIdempotent(t *testing.T) {
	videos := sampleVideos()
	first := Build(videos, "a")
	second := Build(videos, "a")
	assert.Equal(t, first, second)
	assert.Equal(t, sampleVideos(), videos)

	// Mutating the result must not leak into the input.
	first[0].Videos[0].Locations[0].Name = "changed"
	assert.Equal(t, sampleVideos(), videos)
}

func TestBuildEmptyResultIsNotNil(t *testing.T) {
	got := Build(sampleVideos(), "nothing matches this")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, Build(nil, ""))
}

func TestProjectNoSelection(t *testing.T) {
	videos := sampleVideos()
	projected := Project(videos, Build(videos, ""), "", "")
	assert.Len(t, projected, 6)
	for _, l := range projected {
		assert.False(t, l.IsFilteredOut)
	}
	// The dataset itself is never annotated.
	assert.False(t, videos[0].Locations[0].IsFilteredOut)
}

func TestProjectCountry(t *testing.T) {
	videos := sampleVideos()
	projected := Project(videos, Build(videos, ""), "Polska", "")
	assert.Equal(t, []string{"1", "1"}, ids(Visible(projected)))
}

func TestProjectVideoTakesPrecedence(t *testing.T) {
	videos := sampleVideos()
	countries := Build(videos, "")
	for _, country := range []string{"Polska", "Austria", "Nowhere"} {
		withCountry := Project(videos, countries, country, "d")
		withoutCountry := Project(videos, countries, "", "d")
		assert.Equal(t, withoutCountry, withCountry)
	}
	assert.Equal(t, []string{"4", "5"}, ids(Visible(Project(videos, countries, "Polska", "d"))))
}

func TestProjectStaleSelectionHidesEverything(t *testing.T) {
	videos := sampleVideos()
	countries := Build(videos, "kotor")

	assert.Empty(t, Visible(Project(videos, countries, "Polska", "")))
	assert.Empty(t, Visible(Project(videos, countries, "", "gone")))
}

func TestBounds(t *testing.T) {
	videos := sampleVideos()
	projected := Project(videos, Build(videos, ""), "", "b")

	b, ok := Bounds(projected)
	require.True(t, ok)
	assert.InDelta(t, 16.36, b.Min.X(), 1e-9)
	assert.InDelta(t, 48.21, b.Min.Y(), 1e-9)
	assert.InDelta(t, 19.94, b.Max.X(), 1e-9)
	assert.InDelta(t, 50.06, b.Max.Y(), 1e-9)

	_, ok = Bounds(Project(videos, nil, "", "gone"))
	assert.False(t, ok)
}

func TestIndexMemoizesByNormalizedQuery(t *testing.T) {
	ix := NewIndex(sampleVideos())

	first := ix.Countries("Wierzynek")
	second := ix.Countries("  wierzynek")
	require.Len(t, first, 1)
	assert.Same(t, &first[0], &second[0])

	other := ix.Countries("")
	assert.Len(t, other, 5)
}

func TestFeatureCollection(t *testing.T) {
	videos := sampleVideos()
	projected := Project(videos, Build(videos, ""), "Austria", "")
	var icons markers.Cache

	fc := FeatureCollection(projected, "2", false, &icons)
	require.Len(t, fc.Features, 6)

	cafe := fc.Features[2]
	assert.Equal(t, "2", cafe.ID)
	assert.Equal(t, true, cafe.Properties["selected"])
	assert.Equal(t, false, cafe.Properties["filteredOut"])
	icon, ok := cafe.Properties["icon"].(markers.Icon)
	require.True(t, ok)
	assert.Contains(t, icon.ClassName, "selected-highlight")

	first := fc.Features[0]
	assert.Equal(t, true, first.Properties["filteredOut"])
	pt, ok := first.Geometry.(orb.Point)
	require.True(t, ok)
	assert.InDelta(t, 19.94, pt.Lon(), 1e-9)

	// restaurant selected, restaurant filtered, attraction filtered, other filtered
	assert.Equal(t, 4, icons.Len())
}

func TestPageForSlug(t *testing.T) {
	videos := sampleVideos()

	page, ok := PageForSlug(videos, "polska")
	require.True(t, ok)
	assert.Equal(t, "Polska", page.Name)
	assert.Equal(t, "Polsce", page.Locative)
	assert.Equal(t, "/country/polska", page.Path)
	assert.Equal(t, []string{"1"}, ids(page.Locations))
	require.Len(t, page.Videos, 2)
	// Country pages list full videos, not the matching subset.
	assert.Len(t, page.Videos[0].Locations, 2)

	page, ok = PageForSlug(videos, "czarnogora")
	require.True(t, ok)
	assert.Equal(t, "Czarnogóra", page.Name)

	_, ok = PageForSlug(videos, "narnia")
	assert.False(t, ok)
}

func TestCountrySlugs(t *testing.T) {
	assert.Equal(t, []string{"austria", "czarnogora", "czechy", "polska", "wegry"}, CountrySlugs(sampleVideos()))
}

func TestSummarize(t *testing.T) {
	ds := &model.Dataset{Videos: sampleVideos()}
	assert.Equal(t, Stats{TotalLocations: 6, VideoCount: 3, CountryCount: 5}, Summarize(ds))
}
