package model

import "strings"

// LocationType classifies a location for icon and colour choice.
type LocationType string

const (
	LocationRestaurant LocationType = "restaurant"
	LocationAttraction LocationType = "attraction"
	LocationOther      LocationType = "other"
)

// LocationTypes lists every valid type in display order.
var LocationTypes = []LocationType{LocationRestaurant, LocationAttraction, LocationOther}

// NormalizeType maps a raw dataset value onto a LocationType. Unknown values
// become LocationOther; ok reports whether raw was recognised.
func NormalizeType(raw string) (t LocationType, ok bool) {
	switch LocationType(strings.ToLower(strings.TrimSpace(raw))) {
	case LocationRestaurant:
		return LocationRestaurant, true
	case LocationAttraction:
		return LocationAttraction, true
	case LocationOther:
		return LocationOther, true
	}
	return LocationOther, false
}

// Location is a single point of interest shown on the map.
type Location struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Latitude       float64      `json:"latitude"`
	Longitude      float64      `json:"longitude"`
	Address        string       `json:"address"`
	Country        string       `json:"country"`
	Type           LocationType `json:"type"`
	WebsiteURL     string       `json:"websiteUrl,omitempty"`
	GoogleMapsLink string       `json:"GoogleMapsLink,omitempty"`
	Image          string       `json:"image,omitempty"`

	// IsFilteredOut is set on projected copies only; the dataset never carries it.
	IsFilteredOut bool `json:"isFilteredOut,omitempty"`
}

// Video is a source episode and the locations it introduced.
type Video struct {
	VideoID       string     `json:"videoId"`
	VideoURL      string     `json:"videoUrl"`
	Title         string     `json:"title"`
	FilterTitle   string     `json:"filterTitle"`
	PlaylistID    string     `json:"playlistId"`
	PlaylistTitle string     `json:"playlistTitle"`
	Date          string     `json:"date"`
	Show          string     `json:"show"`
	Locations     []Location `json:"locations"`
}

// DisplayTitle returns the cleaned title, falling back to the raw one.
func (v Video) DisplayTitle() string {
	if v.FilterTitle != "" {
		return v.FilterTitle
	}
	return v.Title
}

// HasLocation reports whether the video references the location id.
func (v Video) HasLocation(id string) bool {
	for _, loc := range v.Locations {
		if loc.ID == id {
			return true
		}
	}
	return false
}

// Dataset is the full static dataset file.
type Dataset struct {
	Videos []Video `json:"videos"`
}

// AllLocations flattens every video's locations in dataset order.
func (d *Dataset) AllLocations() []Location {
	var locs []Location
	for _, v := range d.Videos {
		locs = append(locs, v.Locations...)
	}
	return locs
}

// TotalLocations sums the per-video location counts.
func (d *Dataset) TotalLocations() int {
	n := 0
	for _, v := range d.Videos {
		n += len(v.Locations)
	}
	return n
}

// VideoCount counts videos with at least one location.
func (d *Dataset) VideoCount() int {
	n := 0
	for _, v := range d.Videos {
		if len(v.Locations) > 0 {
			n++
		}
	}
	return n
}

// FindVideo returns the video with the given id.
func (d *Dataset) FindVideo(id string) (*Video, bool) {
	for i := range d.Videos {
		if d.Videos[i].VideoID == id {
			return &d.Videos[i], true
		}
	}
	return nil, false
}

// FindLocation returns the first location with the given id.
func (d *Dataset) FindLocation(id string) (Location, bool) {
	for _, v := range d.Videos {
		for _, loc := range v.Locations {
			if loc.ID == id {
				return loc, true
			}
		}
	}
	return Location{}, false
}

// CountryData groups matching locations and their videos under one country.
type CountryData struct {
	Name      string     `json:"name"`
	Locations []Location `json:"locations"`
	Videos    []Video    `json:"videos"`
}

// HasLocation reports whether the country bucket holds the location id.
func (c CountryData) HasLocation(id string) bool {
	for _, loc := range c.Locations {
		if loc.ID == id {
			return true
		}
	}
	return false
}
