package charts

import (
	"bytes"
	"fmt"
	"html"

	"github.com/wcharczuk/go-chart/v2"
)

const (
	DonutTitle = "Number of Listings by Neighborhood Group"
	BarTitle   = "Average Price Distribution by Room Type"

	defaultWidth  = 640
	defaultHeight = 420
)

// ChartFigure is a rendered chart ready to be dropped into the page.
type ChartFigure struct {
	Title      string `json:"title"`
	Categories int    `json:"categories"`
	SVG        string `json:"svg"`
}

func renderSVG(title string, categories int, render func(chart.RendererProvider, *bytes.Buffer) error) (ChartFigure, error) {
	var buf bytes.Buffer
	if err := render(chart.SVG, &buf); err != nil {
		return ChartFigure{}, fmt.Errorf("charts: render %q: %w", title, err)
	}
	return ChartFigure{Title: title, Categories: categories, SVG: buf.String()}, nil
}

// placeholder is drawn instead of a chart when there is nothing to plot.
func placeholder(title string) ChartFigure {
	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<text x="%d" y="32" text-anchor="middle" font-family="sans-serif" font-size="16">%s</text>`+
		`<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="14" fill="#888">No listings match the current filters</text>`+
		`</svg>`,
		defaultWidth, defaultHeight, defaultWidth, defaultHeight,
		defaultWidth/2, html.EscapeString(title),
		defaultWidth/2, defaultHeight/2)
	return ChartFigure{Title: title, SVG: svg}
}
