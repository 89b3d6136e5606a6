package markers

import "github.com/krzysiekprzekwas/maklowicz-map/internal/model"

// Cluster styles a marker cluster bubble.
type Cluster struct {
	DominantType model.LocationType `json:"dominantType"`
	Size         int                `json:"size"`
	FontSize     int                `json:"fontSize"`
	BorderWidth  int                `json:"borderWidth"`
	Background   string             `json:"background"`
	Border       string             `json:"border"`
	Text         string             `json:"text"`
}

type clusterColors struct {
	bg, border, text string
}

var clusterSchemes = map[model.LocationType]clusterColors{
	model.LocationRestaurant: {bg: "#fff3cd", border: "#ffc107", text: "#8c6d07"},
	model.LocationAttraction: {bg: "#e0d6f9", border: "#8a63d2", text: "#502d8e"},
	model.LocationOther:      {bg: "#fdd8d8", border: "#e57373", text: "#a73737"},
}

// ClusterStyle picks colours from the most common type in the cluster and
// grows the bubble in steps with the member count. Ties go to the type that
// comes first in model.LocationTypes.
func ClusterStyle(counts map[model.LocationType]int) Cluster {
	dominant := model.LocationRestaurant
	total := 0
	for _, t := range model.LocationTypes {
		total += counts[t]
		if counts[t] > counts[dominant] {
			dominant = t
		}
	}

	c := Cluster{DominantType: dominant, Size: 40, FontSize: 14, BorderWidth: 3}
	switch {
	case total >= 50:
		c.Size, c.FontSize, c.BorderWidth = 55, 16, 4
	case total >= 20:
		c.Size, c.FontSize = 48, 15
	case total >= 10:
		c.Size = 44
	}

	scheme := clusterSchemes[dominant]
	c.Background, c.Border, c.Text = scheme.bg, scheme.border, scheme.text
	return c
}
