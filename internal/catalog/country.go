package catalog

import (
	"sort"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/slug"
)

// CountryPage is everything a country landing page shows.
type CountryPage struct {
	Name      string           `json:"name"`
	Slug      string           `json:"slug"`
	Locative  string           `json:"locative"`
	Path      string           `json:"path"`
	Locations []model.Location `json:"locations"`
	Videos    []model.Video    `json:"videos"`
}

// CountrySlugs lists the distinct country slugs in the dataset, sorted.
func CountrySlugs(videos []model.Video) []string {
	seen := make(map[string]bool)
	var slugs []string
	for _, v := range videos {
		for _, loc := range v.Locations {
			s := slug.Country(loc.Country)
			if !seen[s] {
				seen[s] = true
				slugs = append(slugs, s)
			}
		}
	}
	sort.Strings(slugs)
	return slugs
}

// PageForSlug resolves a country slug to its page. The display name comes
// from the first location whose country slugs to s.
func PageForSlug(videos []model.Video, s string) (CountryPage, bool) {
	var name string
	found := false
	for _, v := range videos {
		for _, loc := range v.Locations {
			if slug.Country(loc.Country) == s {
				name, found = loc.Country, true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return CountryPage{}, false
	}

	page := CountryPage{
		Name:      name,
		Slug:      s,
		Locative:  slug.Locative(name),
		Path:      "/country/" + s,
		Locations: []model.Location{},
		Videos:    []model.Video{},
	}

	seen := make(map[string]bool)
	for _, v := range videos {
		inCountry := false
		for _, loc := range v.Locations {
			if loc.Country != name {
				continue
			}
			inCountry = true
			if !seen[loc.ID] {
				seen[loc.ID] = true
				page.Locations = append(page.Locations, loc)
			}
		}
		if inCountry {
			page.Videos = append(page.Videos, v)
		}
	}
	return page, true
}

// Stats are the dataset-wide counters shown in the filter panel header.
type Stats struct {
	TotalLocations int `json:"totalLocations"`
	VideoCount     int `json:"videoCount"`
	CountryCount   int `json:"countryCount"`
}

// Summarize computes Stats for a dataset.
func Summarize(ds *model.Dataset) Stats {
	countries := make(map[string]bool)
	for _, v := range ds.Videos {
		for _, loc := range v.Locations {
			countries[loc.Country] = true
		}
	}
	return Stats{
		TotalLocations: ds.TotalLocations(),
		VideoCount:     ds.VideoCount(),
		CountryCount:   len(countries),
	}
}
