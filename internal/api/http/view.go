package httpapi

import (
	"github.com/i474232898/temperature-column-map/internal/weather"
)

// ViewState is the initial camera of the column map.
type ViewState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Pitch     float64 `json:"pitch"`
	Bearing   float64 `json:"bearing"`
}

// LayerConfig holds the static column layer settings.
type LayerConfig struct {
	Type          string `json:"type"`
	Radius        int    `json:"radius"`
	Pickable      bool   `json:"pickable"`
	AutoHighlight bool   `json:"autoHighlight"`
}

// ViewConfig is what the page needs besides the data itself.
type ViewConfig struct {
	View  ViewState   `json:"view"`
	Layer LayerConfig `json:"layer"`
}

// DefaultView centers the camera on the registry's bounding box.
func DefaultView(reg *weather.Registry) ViewConfig {
	center := reg.Bounds().Center()
	return ViewConfig{
		View: ViewState{
			Latitude:  center.Lat(),
			Longitude: center.Lon(),
			Zoom:      5.6,
			Pitch:     45,
			Bearing:   0,
		},
		Layer: LayerConfig{
			Type:          "ColumnLayer",
			Radius:        12000,
			Pickable:      true,
			AutoHighlight: true,
		},
	}
}
