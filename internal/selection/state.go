// Package selection holds the browsing state of one map session and the
// transitions between its fields.
package selection

import (
	"slices"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// State is the selection and filter state of one session. Empty strings
// mean nothing is selected.
type State struct {
	SearchQuery      string          `json:"searchQuery"`
	SelectedCountry  string          `json:"selectedCountry"`
	SelectedVideo    string          `json:"selectedVideo"`
	SelectedLocation *model.Location `json:"selectedLocation"`
	Favourites       []string        `json:"favourites"`
	FiltersOpen      bool            `json:"filtersOpen"`
}

// DetailsOpen reports whether the details panel is shown.
func (s State) DetailsOpen() bool {
	return s.SelectedLocation != nil
}

// IsFavourite reports whether id is in the favourites list.
func (s State) IsFavourite(id string) bool {
	return slices.Contains(s.Favourites, id)
}

// SetSearchQuery replaces the search text. Country and video selections are
// kept even if the new query no longer matches them.
func (s State) SetSearchQuery(q string) State {
	s.SearchQuery = q
	return s
}

// ToggleCountry selects name, or clears it when already selected. The video
// selection is always cleared.
func (s State) ToggleCountry(name string) State {
	if s.SelectedCountry == name {
		s.SelectedCountry = ""
	} else {
		s.SelectedCountry = name
	}
	s.SelectedVideo = ""
	return s
}

// ToggleVideo selects videoID, or clears it when already selected.
func (s State) ToggleVideo(videoID string) State {
	if s.SelectedVideo == videoID {
		s.SelectedVideo = ""
	} else {
		s.SelectedVideo = videoID
	}
	return s
}

// SelectLocation replaces the inspected location; nil closes the details.
func (s State) SelectLocation(loc *model.Location) State {
	if loc == nil {
		s.SelectedLocation = nil
		return s
	}
	cp := *loc
	cp.IsFilteredOut = false
	s.SelectedLocation = &cp
	return s
}

// ResetFilters clears the country and video selections.
func (s State) ResetFilters() State {
	s.SelectedCountry = ""
	s.SelectedVideo = ""
	return s
}

// ToggleFiltersPanel flips the filter panel.
func (s State) ToggleFiltersPanel() State {
	s.FiltersOpen = !s.FiltersOpen
	return s
}

// WithFavourite appends id unless it is empty or already present.
func (s State) WithFavourite(id string) State {
	if id == "" || s.IsFavourite(id) {
		return s
	}
	s.Favourites = append(slices.Clone(s.Favourites), id)
	return s
}

// WithoutFavourite removes id if present.
func (s State) WithoutFavourite(id string) State {
	i := slices.Index(s.Favourites, id)
	if i < 0 {
		return s
	}
	s.Favourites = slices.Delete(slices.Clone(s.Favourites), i, i+1)
	return s
}

// cleanFavourites drops empty and repeated ids, keeping first occurrences.
func cleanFavourites(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
