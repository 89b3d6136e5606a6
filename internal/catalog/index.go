// Package catalog derives the country index and the visible map set from the
// static video dataset.
package catalog

import (
	"slices"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// collationTag orders country names; the dataset names countries in Polish.
var collationTag = language.Polish

type bucket struct {
	data      *model.CountryData
	locSeen   map[string]bool
	videoSeen map[string]bool
}

// Build groups the locations matching query by country. A location matches
// when the query is empty, when its video's title contains the query, or when
// its name, country, description or address does. Every country lists its
// matching locations once and the videos that contributed them, each video
// carrying only its matching locations. Countries are sorted by name.
func Build(videos []model.Video, query string) []model.CountryData {
	q := normalizeQuery(query)
	buckets := make(map[string]*bucket)

	for _, video := range videos {
		videoMatches := q == "" || strings.Contains(strings.ToLower(video.Title), q)

		var matching []model.Location
		for _, loc := range video.Locations {
			if videoMatches || locationMatches(loc, q) {
				matching = append(matching, loc)
			}
		}

		for _, loc := range matching {
			b, ok := buckets[loc.Country]
			if !ok {
				b = &bucket{
					data: &model.CountryData{
						Name:      loc.Country,
						Locations: []model.Location{},
						Videos:    []model.Video{},
					},
					locSeen:   make(map[string]bool),
					videoSeen: make(map[string]bool),
				}
				buckets[loc.Country] = b
			}

			if !b.locSeen[loc.ID] {
				b.locSeen[loc.ID] = true
				b.data.Locations = append(b.data.Locations, loc)
			}

			if !b.videoSeen[video.VideoID] {
				b.videoSeen[video.VideoID] = true
				v := video
				v.Locations = slices.Clone(matching)
				b.data.Videos = append(b.data.Videos, v)
			}
		}
	}

	countries := make([]model.CountryData, 0, len(buckets))
	for _, b := range buckets {
		countries = append(countries, *b.data)
	}
	sortCountries(countries)
	return countries
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func locationMatches(loc model.Location, q string) bool {
	for _, field := range []string{loc.Name, loc.Country, loc.Description, loc.Address} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// sortCountries orders by locale collation, falling back to byte order for
// names the collator considers equal.
func sortCountries(countries []model.CountryData) {
	col := collate.New(collationTag)
	sort.SliceStable(countries, func(i, j int) bool {
		if c := col.CompareString(countries[i].Name, countries[j].Name); c != 0 {
			return c < 0
		}
		return countries[i].Name < countries[j].Name
	})
}

// CompareNames compares two country names the way Build orders them.
func CompareNames(a, b string) int {
	if c := collate.New(collationTag).CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Index memoizes Build for one immutable video list. Callers must not modify
// the returned slices.
type Index struct {
	videos []model.Video

	mu        sync.Mutex
	built     bool
	lastQuery string
	last      []model.CountryData
}

// NewIndex creates an index over videos.
func NewIndex(videos []model.Video) *Index {
	return &Index{videos: videos}
}

// Videos returns the indexed videos.
func (ix *Index) Videos() []model.Video {
	return ix.videos
}

// Countries returns Build(videos, query), reusing the previous result when
// the normalized query has not changed.
func (ix *Index) Countries(query string) []model.CountryData {
	q := normalizeQuery(query)

	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.built && ix.lastQuery == q {
		return ix.last
	}
	ix.last = Build(ix.videos, q)
	ix.lastQuery = q
	ix.built = true
	return ix.last
}
