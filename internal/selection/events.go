package selection

import "github.com/krzysiekprzekwas/maklowicz-map/internal/model"

// TargetKind names the kind of list or map element that received a click.
type TargetKind string

const (
	TargetCountry  TargetKind = "country"
	TargetVideo    TargetKind = "video"
	TargetLocation TargetKind = "location"
	TargetReset    TargetKind = "reset"
	TargetFilters  TargetKind = "filters"
)

// Target is one element on a click's propagation path. ID carries the
// country name or video id; Location carries the picked location, nil to
// close the details.
type Target struct {
	Kind     TargetKind      `json:"kind"`
	ID       string          `json:"id,omitempty"`
	Location *model.Location `json:"location,omitempty"`
}

// Click is a user click, Path ordered from the innermost element outwards.
type Click struct {
	Path []Target `json:"path"`
}

// Dispatch delivers c to each target on its path until a handler stops
// propagation. Video rows sit inside country rows, so the video handler
// always stops the click before it reaches the country.
func (s *Session) Dispatch(c Click) State {
	return s.apply(func(st State) State {
		for _, t := range c.Path {
			var stop bool
			st, stop = handle(st, t)
			if stop {
				break
			}
		}
		return st
	})
}

func handle(st State, t Target) (State, bool) {
	switch t.Kind {
	case TargetCountry:
		return st.ToggleCountry(t.ID), false
	case TargetVideo:
		return st.ToggleVideo(t.ID), true
	case TargetLocation:
		return st.SelectLocation(t.Location), true
	case TargetReset:
		return st.ResetFilters(), true
	case TargetFilters:
		return st.ToggleFiltersPanel(), true
	}
	return st, false
}
