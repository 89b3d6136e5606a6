package catalog

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/markers"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// FeatureCollection renders projected locations as GeoJSON points for the
// map widget. Each feature carries its marker icon from icons.
func FeatureCollection(locs []model.Location, selectedID string, mobile bool, icons *markers.Cache) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, loc := range locs {
		f := geojson.NewFeature(orb.Point{loc.Longitude, loc.Latitude})
		f.ID = loc.ID

		selected := loc.ID == selectedID
		f.Properties["name"] = loc.Name
		f.Properties["country"] = loc.Country
		f.Properties["type"] = string(loc.Type)
		f.Properties["filteredOut"] = loc.IsFilteredOut
		f.Properties["selected"] = selected
		f.Properties["icon"] = icons.Get(markers.Key{
			Type:        loc.Type,
			Selected:    selected,
			FilteredOut: loc.IsFilteredOut,
			Mobile:      mobile,
		})
		fc.Append(f)
	}
	return fc
}
