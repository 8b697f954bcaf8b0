package services

import (
	"fmt"
	"sort"

	"airbnb-dashboard/models"
)

const (
	DashboardTitle  = "Airbnb New York Listings Dashboard"
	PriceStep       = 10
	PriceMarkEvery  = 100
	ReviewsStepSize = 5
)

// BuildLayout derives the static control set from dataset extremes.
func BuildLayout(ds *Dataset) (*models.Layout, error) {
	if ds.Len() == 0 {
		return nil, fmt.Errorf("layout: %w", ErrEmptyDataset)
	}

	minPrice, maxPrice := ds.listings[0].Price, ds.listings[0].Price
	maxReviews := 0
	var neighbourhoods, roomTypes []string
	seenNeighbourhood := make(map[string]struct{})
	seenRoomType := make(map[string]struct{})
	seenNights := make(map[int]struct{})
	var nights []int

	ds.each(func(l *models.Listing) {
		if l.Price < minPrice {
			minPrice = l.Price
		}
		if l.Price > maxPrice {
			maxPrice = l.Price
		}
		if l.NumberOfReviews > maxReviews {
			maxReviews = l.NumberOfReviews
		}
		if _, ok := seenNeighbourhood[l.Neighbourhood]; !ok {
			seenNeighbourhood[l.Neighbourhood] = struct{}{}
			neighbourhoods = append(neighbourhoods, l.Neighbourhood)
		}
		if _, ok := seenRoomType[l.RoomType]; !ok {
			seenRoomType[l.RoomType] = struct{}{}
			roomTypes = append(roomTypes, l.RoomType)
		}
		if _, ok := seenNights[l.MinimumNights]; !ok {
			seenNights[l.MinimumNights] = struct{}{}
			nights = append(nights, l.MinimumNights)
		}
	})
	sort.Ints(nights)

	// marks start at the minimum and stop before the maximum
	marks := make([]models.Mark, 0, (maxPrice-minPrice)/PriceMarkEvery+1)
	for v := minPrice; v < maxPrice; v += PriceMarkEvery {
		marks = append(marks, models.Mark{Value: v, Label: fmt.Sprintf("$%d", v)})
	}

	reviews := make([]int, 0, maxReviews/ReviewsStepSize+1)
	for v := 0; v <= maxReviews; v += ReviewsStepSize {
		reviews = append(reviews, v)
	}

	return &models.Layout{
		Title: DashboardTitle,
		Price: models.RangeSelector{
			Min:   minPrice,
			Max:   maxPrice,
			Step:  PriceStep,
			Marks: marks,
			Value: [2]int{minPrice, maxPrice},
		},
		Neighbourhoods: models.Dropdown{Options: neighbourhoods, Default: neighbourhoods[0]},
		RoomTypes:      models.Dropdown{Options: roomTypes, Default: roomTypes[0]},
		MinimumNights:  models.IntDropdown{Options: nights, Default: nights[0]},
		Reviews:        models.IntDropdown{Options: reviews, Default: 0},
		Outputs: []string{
			string(OutputMap),
			string(OutputNeighbourhoodGroups),
			string(OutputPriceByRoomType),
		},
	}, nil
}
