package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"airbnb-dashboard/models"
)

// Donut renders the listings-per-neighbourhood-group distribution.
// Slices follow the order of groups.
func Donut(groups []models.GroupCount) (ChartFigure, error) {
	values := make([]chart.Value, 0, len(groups))
	total := 0
	for i, g := range groups {
		if g.Count <= 0 {
			continue
		}
		total += g.Count
		values = append(values, chart.Value{
			Value: float64(g.Count),
			Label: fmt.Sprintf("%s (%d)", g.Group, g.Count),
			Style: chart.Style{
				FillColor:   drawingColor(CategoryColor(i)),
				StrokeColor: chart.ColorWhite,
				StrokeWidth: 1,
			},
		})
	}
	if total == 0 {
		return placeholder(DonutTitle), nil
	}

	donut := chart.DonutChart{
		Title:  DonutTitle,
		Width:  defaultWidth,
		Height: defaultHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}
	return renderSVG(DonutTitle, len(values), func(rp chart.RendererProvider, buf *bytes.Buffer) error {
		return donut.Render(rp, buf)
	})
}
