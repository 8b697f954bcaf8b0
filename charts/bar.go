package charts

import (
	"bytes"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"

	"airbnb-dashboard/models"
)

// Bar renders the mean price of each room type as one bar.
func Bar(prices []models.RoomTypePrice) (ChartFigure, error) {
	if len(prices) == 0 {
		return placeholder(BarTitle), nil
	}

	bars := make([]chart.Value, 0, len(prices))
	top := 0.0
	for _, p := range prices {
		top = math.Max(top, p.MeanPrice)
		bars = append(bars, chart.Value{
			Value: p.MeanPrice,
			Label: fmt.Sprintf("%s ($%.0f)", p.RoomType, p.MeanPrice),
			Style: chart.Style{
				FillColor:   drawingColor(CategoryColor(0)),
				StrokeColor: drawingColor(CategoryColor(0)),
				StrokeWidth: 1,
			},
		})
	}
	// a flat range makes go-chart fail, so always start at zero and leave headroom
	if top <= 0 {
		top = 1
	}

	bar := chart.BarChart{
		Title:  BarTitle,
		Width:  defaultWidth,
		Height: defaultHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		BarWidth:   80,
		BarSpacing: 40,
		YAxis: chart.YAxis{
			Name:           "Average price ($)",
			Range:          &chart.ContinuousRange{Min: 0, Max: top * 1.1},
			ValueFormatter: dollarFormatter,
		},
		Bars: bars,
	}
	return renderSVG(BarTitle, len(bars), func(rp chart.RendererProvider, buf *bytes.Buffer) error {
		return bar.Render(rp, buf)
	})
}

func dollarFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("$%.0f", f)
	}
	return ""
}
