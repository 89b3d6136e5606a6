package markers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

func TestNewIconStates(t *testing.T) {
	plain := NewIcon(Key{Type: model.LocationRestaurant})
	assert.Equal(t, "custom-marker-icon marker-yellow", plain.ClassName)
	assert.Equal(t, "utensils", plain.Glyph)
	assert.Equal(t, [2]int{17, 42}, plain.Anchor)

	selected := NewIcon(Key{Type: model.LocationAttraction, Selected: true, FilteredOut: true})
	assert.Contains(t, selected.ClassName, "selected-highlight")
	assert.NotContains(t, selected.ClassName, "filtered-out")

	dimmed := NewIcon(Key{Type: model.LocationOther, FilteredOut: true, Mobile: true})
	assert.True(t, strings.HasSuffix(dimmed.ClassName, "filtered-out mobile"))
	assert.Equal(t, "map-pin", dimmed.Glyph)
}

func TestNewIconUnknownTypeFallsBack(t *testing.T) {
	icon := NewIcon(Key{Type: "hotel"})
	assert.Equal(t, "marker-red", icon.Color)
}

func TestCacheReusesAndClears(t *testing.T) {
	var c Cache
	k := Key{Type: model.LocationRestaurant, Selected: true}

	first := c.Get(k)
	second := c.Get(k)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len())

	c.Get(Key{Type: model.LocationRestaurant, Mobile: true})
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, first, c.Get(k))
}

func TestClusterStyle(t *testing.T) {
	small := ClusterStyle(map[model.LocationType]int{model.LocationAttraction: 3, model.LocationRestaurant: 1})
	assert.Equal(t, model.LocationAttraction, small.DominantType)
	assert.Equal(t, 40, small.Size)
	assert.Equal(t, "#8a63d2", small.Border)

	big := ClusterStyle(map[model.LocationType]int{model.LocationRestaurant: 30, model.LocationOther: 25})
	assert.Equal(t, model.LocationRestaurant, big.DominantType)
	assert.Equal(t, 55, big.Size)
	assert.Equal(t, 4, big.BorderWidth)

	medium := ClusterStyle(map[model.LocationType]int{model.LocationOther: 12})
	assert.Equal(t, 44, medium.Size)

	tie := ClusterStyle(map[model.LocationType]int{model.LocationOther: 10, model.LocationAttraction: 10})
	assert.Equal(t, model.LocationAttraction, tie.DominantType)
	assert.Equal(t, 48, tie.Size)
}
