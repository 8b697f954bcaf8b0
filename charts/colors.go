package charts

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// plasma is a ten-stop sample of the Plasma colormap, dark to bright.
var plasma = []string{
	"#0d0887", "#46039f", "#7201a8", "#9c179e", "#bd3786",
	"#d8576b", "#ed7953", "#fb9f3a", "#fdca26", "#f0f921",
}

// categorical is the qualitative palette used for slices and bars.
var categorical = []string{
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a",
	"#19d3f3", "#ff6692", "#b6e880", "#ff97ff", "#fecb52",
}

var plasmaStops = mustParse(plasma)

func mustParse(hexes []string) []colorful.Color {
	out := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// Scale returns the Plasma color at t in [0, 1], blended in Lab space.
func Scale(t float64) colorful.Color {
	if math.IsNaN(t) || t <= 0 {
		return plasmaStops[0]
	}
	if t >= 1 {
		return plasmaStops[len(plasmaStops)-1]
	}
	pos := t * float64(len(plasmaStops)-1)
	i := int(pos)
	return plasmaStops[i].BlendLab(plasmaStops[i+1], pos-float64(i)).Clamped()
}

// PriceColor maps price onto the scale spanned by [min, max].
// A degenerate range maps everything to the middle of the scale.
func PriceColor(price, min, max int) string {
	if max <= min {
		return Scale(0.5).Hex()
	}
	return Scale(float64(price-min) / float64(max-min)).Hex()
}

// CategoryColor is the i-th palette color, cycling.
func CategoryColor(i int) string {
	return categorical[i%len(categorical)]
}

func drawingColor(hex string) drawing.Color {
	return drawing.ColorFromHex(hex[1:])
}
