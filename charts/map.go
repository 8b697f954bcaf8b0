package charts

import "airbnb-dashboard/models"

const (
	MapZoom        = 10
	MapTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	MapAttribution = "&copy; OpenStreetMap contributors"
)

// MapMarker is a map point with its color on the price scale.
type MapMarker struct {
	models.MapPoint
	Color string `json:"color"`
}

// LegendStop is one labelled swatch of the price color bar.
type LegendStop struct {
	Price int    `json:"price"`
	Color string `json:"color"`
}

// MapFigure is what the browser needs to draw the listings map.
type MapFigure struct {
	Center      [2]float64   `json:"center"`
	Zoom        int          `json:"zoom"`
	TileURL     string       `json:"tile_url"`
	Attribution string       `json:"attribution"`
	Markers     []MapMarker  `json:"markers"`
	Legend      []LegendStop `json:"legend"`
}

// Map colors every point of view by price and attaches the viewport.
func Map(view models.MapView) MapFigure {
	fig := MapFigure{
		Center:      [2]float64{view.CenterLat, view.CenterLon},
		Zoom:        MapZoom,
		TileURL:     MapTileURL,
		Attribution: MapAttribution,
		Markers:     make([]MapMarker, 0, len(view.Points)),
	}
	for _, p := range view.Points {
		fig.Markers = append(fig.Markers, MapMarker{
			MapPoint: p,
			Color:    PriceColor(p.Price, view.MinPrice, view.MaxPrice),
		})
	}
	if len(view.Points) > 0 {
		fig.Legend = legend(view.MinPrice, view.MaxPrice)
	}
	return fig
}

func legend(min, max int) []LegendStop {
	if max <= min {
		return []LegendStop{{Price: min, Color: PriceColor(min, min, max)}}
	}
	const steps = 4
	stops := make([]LegendStop, 0, steps+1)
	for i := 0; i <= steps; i++ {
		price := min + (max-min)*i/steps
		stops = append(stops, LegendStop{Price: price, Color: PriceColor(price, min, max)})
	}
	return stops
}
