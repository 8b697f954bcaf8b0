package server

import (
	"fmt"

	"airbnb-dashboard/charts"
	"airbnb-dashboard/services"
)

// figureFor turns a derivation result into what the browser draws:
// a charts.MapFigure for the map, a charts.ChartFigure otherwise.
func figureFor(u services.Update) (any, error) {
	switch u.Output {
	case services.OutputMap:
		if u.Map == nil {
			return nil, fmt.Errorf("server: %s update without a map view", u.Output)
		}
		return charts.Map(*u.Map), nil
	case services.OutputNeighbourhoodGroups:
		return charts.Donut(u.Groups)
	case services.OutputPriceByRoomType:
		return charts.Bar(u.Prices)
	}
	return nil, fmt.Errorf("%w: %q", services.ErrUnknownOutput, u.Output)
}
