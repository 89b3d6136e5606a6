package dataset

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// maxDuplicateDrift is how far apart, in metres, two entries sharing a
// location id may be before they are reported as conflicting.
const maxDuplicateDrift = 250.0

// Issue is a problem found in the dataset.
type Issue struct {
	VideoID    string `json:"videoId"`
	LocationID string `json:"locationId,omitempty"`
	Message    string `json:"message"`
}

func (i Issue) String() string {
	if i.LocationID == "" {
		return fmt.Sprintf("video %s: %s", i.VideoID, i.Message)
	}
	return fmt.Sprintf("video %s, location %s: %s", i.VideoID, i.LocationID, i.Message)
}

// Check reports locations the map cannot show correctly: missing fields,
// coordinates outside the globe or at the 0,0 placeholder, and ids shared by
// entries that disagree on name or position.
func Check(ds *model.Dataset) []Issue {
	var issues []Issue
	first := make(map[string]model.Location)
	firstVideo := make(map[string]string)

	for _, v := range ds.Videos {
		if strings.TrimSpace(v.Title) == "" {
			issues = append(issues, Issue{VideoID: v.VideoID, Message: "missing title"})
		}

		for _, loc := range v.Locations {
			report := func(format string, args ...any) {
				issues = append(issues, Issue{VideoID: v.VideoID, LocationID: loc.ID, Message: fmt.Sprintf(format, args...)})
			}

			if loc.ID == "" {
				report("missing id")
				continue
			}
			if strings.TrimSpace(loc.Name) == "" {
				report("missing name")
			}
			if strings.TrimSpace(loc.Country) == "" {
				report("missing country")
			}
			switch {
			case loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180:
				report("coordinates out of range (%f, %f)", loc.Latitude, loc.Longitude)
			case loc.Latitude == 0 && loc.Longitude == 0:
				report("coordinates not set")
			}

			prev, seen := first[loc.ID]
			if !seen {
				first[loc.ID] = loc
				firstVideo[loc.ID] = v.VideoID
				continue
			}
			if prev.Name != loc.Name {
				report("name %q differs from %q in video %s", loc.Name, prev.Name, firstVideo[loc.ID])
			}
			d := geo.Distance(orb.Point{prev.Longitude, prev.Latitude}, orb.Point{loc.Longitude, loc.Latitude})
			if d > maxDuplicateDrift {
				report("%.0f m away from the entry in video %s", d, firstVideo[loc.ID])
			}
		}
	}
	return issues
}
