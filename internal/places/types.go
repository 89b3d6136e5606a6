package places

import (
	"slices"
	"strings"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
	"github.com/krzysiekprzekwas/maklowicz-map/internal/slug"
)

var (
	restaurantPlaceTypes = []string{"restaurant", "food", "cafe", "bar"}
	attractionPlaceTypes = []string{"tourist_attraction", "museum", "park", "point_of_interest", "establishment"}

	restaurantWords = []string{
		"restaurant", "cafe", "bar", "pub", "bistro", "pizzeria", "pizza", "food", "grill", "eatery",
		"restauracja", "kawiarnia", "karczma", "gospoda", "cukiernia", "winiarnia",
	}
	attractionWords = []string{
		"museum", "gallery", "park", "monument", "castle", "palace", "garden", "attraction", "landmark", "memorial",
		"muzeum", "galeria", "zamek", "pałac", "ogród", "pomnik", "katedra", "bazylika",
	}
)

// TypeFromPlaceTypes classifies a place by its Google place types.
func TypeFromPlaceTypes(types []string) model.LocationType {
	for _, t := range restaurantPlaceTypes {
		if slices.Contains(types, t) {
			return model.LocationRestaurant
		}
	}
	for _, t := range attractionPlaceTypes {
		if slices.Contains(types, t) {
			return model.LocationAttraction
		}
	}
	return model.LocationOther
}

// TypeFromName classifies a place by keywords in its name.
func TypeFromName(name string) model.LocationType {
	lower := strings.ToLower(name)
	for _, w := range restaurantWords {
		if strings.Contains(lower, w) {
			return model.LocationRestaurant
		}
	}
	for _, w := range attractionWords {
		if strings.Contains(lower, w) {
			return model.LocationAttraction
		}
	}
	return model.LocationOther
}

// GenerateID derives a location id from its name.
func GenerateID(name string) string {
	return slug.Place(name)
}
