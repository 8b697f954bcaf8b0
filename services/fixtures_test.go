package services

import (
	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func listing(id int64, neighbourhood, group, roomType string, price, nights, reviews int) *models.Listing {
	return &models.Listing{
		ID:                 id,
		Name:               "Listing",
		HostName:           "Host",
		NeighbourhoodGroup: group,
		Neighbourhood:      neighbourhood,
		Latitude:           40.7 + float64(id)/1000,
		Longitude:          -73.95 - float64(id)/1000,
		RoomType:           roomType,
		Price:              price,
		MinimumNights:      nights,
		NumberOfReviews:    reviews,
	}
}

func fixtureListings() []*models.Listing {
	return []*models.Listing{
		listing(1, "Williamsburg", "Brooklyn", "Private room", 50, 1, 10),
		listing(2, "Williamsburg", "Brooklyn", "Private room", 150, 3, 0),
		listing(3, "Williamsburg", "Brooklyn", "Private room", 100, 4, 20),
		listing(4, "Williamsburg", "Brooklyn", "Private room", 151, 2, 5),
		listing(5, "Williamsburg", "Brooklyn", "Entire home/apt", 200, 2, 30),
		listing(6, "Williamsburg", "Brooklyn", "Private room", 49, 1, 3),
		listing(7, "Harlem", "Manhattan", "Private room", 80, 1, 7),
		listing(8, "Harlem", "Manhattan", "Entire home/apt", 120, 3, 12),
		listing(9, "Astoria", "Queens", "Shared room", 40, 1, 0),
		listing(10, "Williamsburg", "Brooklyn", "Shared room", 60, 3, 2),
	}
}

func fixtureDataset() *Dataset {
	return NewDataset(fixtureListings())
}

func williamsburgSelection() models.FilterSelection {
	return models.FilterSelection{
		PriceMin:      50,
		PriceMax:      150,
		Neighbourhood: "Williamsburg",
		RoomType:      "Private room",
		MinimumNights: 3,
		MinReviews:    0,
	}
}
