package selection

import (
	"github.com/krzysiekprzekwas/maklowicz-map/internal/catalog"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/slug"
)

// VideoRow is a video entry in the filter panel.
type VideoRow struct {
	VideoID   string           `json:"videoId"`
	Title     string           `json:"title"`
	VideoURL  string           `json:"videoUrl"`
	Date      string           `json:"date"`
	Selected  bool             `json:"selected"`
	Expanded  bool             `json:"expanded"`
	Locations []model.Location `json:"locations"`
}

// CountryRow is a country entry in the filter panel.
type CountryRow struct {
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Selected      bool       `json:"selected"`
	Expanded      bool       `json:"expanded"`
	LocationCount int        `json:"locationCount"`
	Videos        []VideoRow `json:"videos"`
}

// View is everything the presentation layer needs for one render.
type View struct {
	SearchQuery      string           `json:"searchQuery"`
	Countries        []CountryRow     `json:"countries"`
	Locations        []model.Location `json:"locations"`
	TotalLocations   int              `json:"totalLocations"`
	VideoCount       int              `json:"videoCount"`
	SelectedCountry  string           `json:"selectedCountry"`
	SelectedVideo    string           `json:"selectedVideo"`
	SelectedLocation *model.Location  `json:"selectedLocation"`
	FiltersOpen      bool             `json:"filtersOpen"`
	DetailsOpen      bool             `json:"detailsOpen"`
	Favourites       []string         `json:"favourites"`

	// Bounds is [minLon, minLat, maxLon, maxLat] of the visible locations.
	Bounds *[4]float64 `json:"bounds,omitempty"`
}

// NewView projects st over the indexed videos. A row is expanded exactly
// when it is selected.
func NewView(ix *catalog.Index, st State) View {
	videos := ix.Videos()
	countries := ix.Countries(st.SearchQuery)
	locs := catalog.Project(videos, countries, st.SelectedCountry, st.SelectedVideo)

	ds := model.Dataset{Videos: videos}
	v := View{
		SearchQuery:      st.SearchQuery,
		Countries:        make([]CountryRow, 0, len(countries)),
		Locations:        locs,
		TotalLocations:   ds.TotalLocations(),
		VideoCount:       ds.VideoCount(),
		SelectedCountry:  st.SelectedCountry,
		SelectedVideo:    st.SelectedVideo,
		SelectedLocation: st.SelectedLocation,
		FiltersOpen:      st.FiltersOpen,
		DetailsOpen:      st.DetailsOpen(),
		Favourites:       st.Favourites,
	}
	if v.Favourites == nil {
		v.Favourites = []string{}
	}

	for _, c := range countries {
		selected := c.Name == st.SelectedCountry
		row := CountryRow{
			Name:          c.Name,
			Slug:          slug.Country(c.Name),
			Selected:      selected,
			Expanded:      selected,
			LocationCount: len(c.Locations),
			Videos:        make([]VideoRow, 0, len(c.Videos)),
		}
		for _, video := range c.Videos {
			vs := video.VideoID == st.SelectedVideo
			row.Videos = append(row.Videos, VideoRow{
				VideoID:   video.VideoID,
				Title:     video.DisplayTitle(),
				VideoURL:  video.VideoURL,
				Date:      video.Date,
				Selected:  vs,
				Expanded:  vs,
				Locations: video.Locations,
			})
		}
		v.Countries = append(v.Countries, row)
	}

	if b, ok := catalog.Bounds(locs); ok {
		v.Bounds = &[4]float64{b.Min.Lon(), b.Min.Lat(), b.Max.Lon(), b.Max.Lat()}
	}
	return v
}
