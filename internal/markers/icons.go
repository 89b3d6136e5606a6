// Package markers describes map marker icons and memoizes them per render
// state so the map widget can reuse identical icon instances.
package markers

import (
	"sync"

	"github.com/krzysiekprzekwas/maklowicz-map/internal/model"
)

// Key identifies one icon variant.
type Key struct {
	Type        model.LocationType
	Selected    bool
	FilteredOut bool
	Mobile      bool
}

// Icon is the renderer-facing description of a marker.
type Icon struct {
	ClassName   string `json:"className"`
	Glyph       string `json:"glyph"`
	Color       string `json:"color"`
	Size        [2]int `json:"iconSize"`
	Anchor      [2]int `json:"iconAnchor"`
	PopupAnchor [2]int `json:"popupAnchor"`
}

const baseClass = "custom-marker-icon"

type style struct {
	glyph string
	color string
}

var styles = map[model.LocationType]style{
	model.LocationRestaurant: {glyph: "utensils", color: "marker-yellow"},
	model.LocationAttraction: {glyph: "landmark", color: "marker-purple"},
	model.LocationOther:      {glyph: "map-pin", color: "marker-red"},
}

// NewIcon builds the icon for a key. Selection styling wins over the
// filtered-out styling.
func NewIcon(k Key) Icon {
	st, ok := styles[k.Type]
	if !ok {
		st = styles[model.LocationOther]
	}

	class := baseClass + " " + st.color
	switch {
	case k.Selected:
		class += " selected-highlight"
	case k.FilteredOut:
		class += " filtered-out"
	}
	if k.Mobile {
		class += " mobile"
	}

	return Icon{
		ClassName:   class,
		Glyph:       st.glyph,
		Color:       st.color,
		Size:        [2]int{34, 34},
		Anchor:      [2]int{17, 42},
		PopupAnchor: [2]int{0, -50},
	}
}

// Cache memoizes icons by Key. The zero value is ready to use.
type Cache struct {
	mu    sync.Mutex
	icons map[Key]Icon
}

// Get returns the cached icon for k, building it on first use.
func (c *Cache) Get(k Key) Icon {
	c.mu.Lock()
	defer c.mu.Unlock()

	if icon, ok := c.icons[k]; ok {
		return icon
	}
	if c.icons == nil {
		c.icons = make(map[Key]Icon)
	}
	icon := NewIcon(k)
	c.icons[k] = icon
	return icon
}

// Len reports how many variants are cached.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.icons)
}

// Clear drops every cached icon.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.icons = nil
}
