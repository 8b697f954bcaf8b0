package services

import (
	"sort"

	"airbnb-dashboard/models"
)

// Map center used when a filter leaves nothing to average.
const (
	NYCLatitude  = 40.7128
	NYCLongitude = -74.0060
)

// Thresholds are inclusive: minimum_nights at most the selection, reviews at
// least the selection.

func inPriceRange(l *models.Listing, sel models.FilterSelection) bool {
	return l.Price >= sel.PriceMin && l.Price <= sel.PriceMax
}

func withinMinimumNights(l *models.Listing, sel models.FilterSelection) bool {
	return l.MinimumNights <= sel.MinimumNights
}

func hasEnoughReviews(l *models.Listing, sel models.FilterSelection) bool {
	return l.NumberOfReviews >= sel.MinReviews
}

// MatchesMap is the conjunctive filter of the map view.
func MatchesMap(l *models.Listing, sel models.FilterSelection) bool {
	return inPriceRange(l, sel) &&
		l.Neighbourhood == sel.Neighbourhood &&
		l.RoomType == sel.RoomType &&
		withinMinimumNights(l, sel) &&
		hasEnoughReviews(l, sel)
}

// MapListings returns copies of the listings behind the map view.
func MapListings(ds *Dataset, sel models.FilterSelection) []models.Listing {
	return ds.Filter(func(l *models.Listing) bool { return MatchesMap(l, sel) })
}

// DeriveMap returns one point per listing that passes every filter.
func DeriveMap(ds *Dataset, sel models.FilterSelection) models.MapView {
	view := models.MapView{Points: []models.MapPoint{}}

	var sumLat, sumLon float64
	ds.each(func(l *models.Listing) {
		if !MatchesMap(l, sel) {
			return
		}
		if len(view.Points) == 0 || l.Price < view.MinPrice {
			view.MinPrice = l.Price
		}
		if len(view.Points) == 0 || l.Price > view.MaxPrice {
			view.MaxPrice = l.Price
		}
		view.Points = append(view.Points, models.MapPoint{
			ID:        l.ID,
			Name:      l.Name,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
			Price:     l.Price,
			RoomType:  l.RoomType,
		})
		sumLat += l.Latitude
		sumLon += l.Longitude
	})

	if n := len(view.Points); n > 0 {
		view.CenterLat = sumLat / float64(n)
		view.CenterLon = sumLon / float64(n)
	} else {
		view.CenterLat, view.CenterLon = NYCLatitude, NYCLongitude
	}
	return view
}

// DeriveNeighbourhoodGroups counts listings per neighbourhood group for the
// price range, room type and minimum nights selection. Groups are sorted by name.
func DeriveNeighbourhoodGroups(ds *Dataset, sel models.FilterSelection) []models.GroupCount {
	counts := make(map[string]int)
	ds.each(func(l *models.Listing) {
		if inPriceRange(l, sel) && l.RoomType == sel.RoomType && withinMinimumNights(l, sel) {
			counts[l.NeighbourhoodGroup]++
		}
	})

	out := make([]models.GroupCount, 0, len(counts))
	for group, n := range counts {
		out = append(out, models.GroupCount{Group: group, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Group < out[j].Group })
	return out
}

// DerivePriceByRoomType averages price per room type for the neighbourhood,
// minimum nights and reviews selection. Room types are sorted by name.
func DerivePriceByRoomType(ds *Dataset, sel models.FilterSelection) []models.RoomTypePrice {
	type acc struct {
		sum   int
		count int
	}
	groups := make(map[string]*acc)
	ds.each(func(l *models.Listing) {
		if l.Neighbourhood != sel.Neighbourhood || !withinMinimumNights(l, sel) || !hasEnoughReviews(l, sel) {
			return
		}
		a, ok := groups[l.RoomType]
		if !ok {
			a = &acc{}
			groups[l.RoomType] = a
		}
		a.sum += l.Price
		a.count++
	})

	out := make([]models.RoomTypePrice, 0, len(groups))
	for roomType, a := range groups {
		out = append(out, models.RoomTypePrice{
			RoomType:  roomType,
			MeanPrice: float64(a.sum) / float64(a.count),
			Count:     a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomType < out[j].RoomType })
	return out
}
