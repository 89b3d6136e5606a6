package catalog

import (
	"github.com/paulmach/orb"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// Project returns every location of every video, each copied with
// IsFilteredOut set when it falls outside the active filter. A selected
// video takes precedence over a selected country; with neither selected
// nothing is filtered out. A selection that no longer resolves filters
// everything out.
func Project(videos []model.Video, countries []model.CountryData, selectedCountry, selectedVideo string) []model.Location {
	inFilter := func(string) bool { return true }

	switch {
	case selectedVideo != "":
		ids := make(map[string]bool)
		for _, v := range videos {
			if v.VideoID == selectedVideo {
				for _, loc := range v.Locations {
					ids[loc.ID] = true
				}
				break
			}
		}
		inFilter = func(id string) bool { return ids[id] }
	case selectedCountry != "":
		ids := make(map[string]bool)
		for _, c := range countries {
			if c.Name == selectedCountry {
				for _, loc := range c.Locations {
					ids[loc.ID] = true
				}
				break
			}
		}
		inFilter = func(id string) bool { return ids[id] }
	}

	var n int
	for _, v := range videos {
		n += len(v.Locations)
	}

	out := make([]model.Location, 0, n)
	for _, v := range videos {
		for _, loc := range v.Locations {
			loc.IsFilteredOut = !inFilter(loc.ID)
			out = append(out, loc)
		}
	}
	return out
}

// Visible keeps the projected locations that are not filtered out.
func Visible(locs []model.Location) []model.Location {
	out := make([]model.Location, 0, len(locs))
	for _, loc := range locs {
		if !loc.IsFilteredOut {
			out = append(out, loc)
		}
	}
	return out
}

// Bounds returns the bounding box of the visible locations, which the map
// fits its viewport to. ok is false when nothing is visible.
func Bounds(locs []model.Location) (b orb.Bound, ok bool) {
	var mp orb.MultiPoint
	for _, loc := range locs {
		if loc.IsFilteredOut {
			continue
		}
		mp = append(mp, orb.Point{loc.Longitude, loc.Latitude})
	}
	if len(mp) == 0 {
		return orb.Bound{}, false
	}
	return mp.Bound(), true
}
