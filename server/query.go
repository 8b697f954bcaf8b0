package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"airbnb-dashboard/models"
	"airbnb-dashboard/services"
)

// Query parameter names accepted by the page and the view API.
const (
	ParamPriceMin      = "price_min"
	ParamPriceMax      = "price_max"
	ParamNeighbourhood = "neighbourhood"
	ParamRoomType      = "room_type"
	ParamMinimumNights = "minimum_nights"
	ParamMinReviews    = "min_reviews"
)

// SelectionFromQuery overlays the parameters present in q on base and
// validates the result.
func SelectionFromQuery(q url.Values, base models.FilterSelection) (models.FilterSelection, error) {
	sel := base

	ints := []struct {
		param string
		dst   *int
	}{
		{ParamPriceMin, &sel.PriceMin},
		{ParamPriceMax, &sel.PriceMax},
		{ParamMinimumNights, &sel.MinimumNights},
		{ParamMinReviews, &sel.MinReviews},
	}
	for _, p := range ints {
		raw := strings.TrimSpace(q.Get(p.param))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return base, fmt.Errorf("%w: %s must be an integer, got %q", services.ErrInvalidSelection, p.param, raw)
		}
		*p.dst = v
	}

	if q.Has(ParamNeighbourhood) {
		sel.Neighbourhood = q.Get(ParamNeighbourhood)
	}
	if q.Has(ParamRoomType) {
		sel.RoomType = q.Get(ParamRoomType)
	}

	if err := services.ValidateSelection(sel); err != nil {
		return base, err
	}
	return sel, nil
}

// SelectionQuery is the inverse of SelectionFromQuery.
func SelectionQuery(sel models.FilterSelection) url.Values {
	q := url.Values{}
	q.Set(ParamPriceMin, strconv.Itoa(sel.PriceMin))
	q.Set(ParamPriceMax, strconv.Itoa(sel.PriceMax))
	q.Set(ParamNeighbourhood, sel.Neighbourhood)
	q.Set(ParamRoomType, sel.RoomType)
	q.Set(ParamMinimumNights, strconv.Itoa(sel.MinimumNights))
	q.Set(ParamMinReviews, strconv.Itoa(sel.MinReviews))
	return q
}
