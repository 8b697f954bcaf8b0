package models

import "time"

// Column names of the AB_NYC_2019 listings schema.
const (
	ColID                = "id"
	ColName              = "name"
	ColHostID            = "host_id"
	ColHostName          = "host_name"
	ColNeighbourhoodGrp  = "neighbourhood_group"
	ColNeighbourhood     = "neighbourhood"
	ColLatitude          = "latitude"
	ColLongitude         = "longitude"
	ColRoomType          = "room_type"
	ColPrice             = "price"
	ColMinimumNights     = "minimum_nights"
	ColNumberOfReviews   = "number_of_reviews"
	ColLastReview        = "last_review"
	ColReviewsPerMonth   = "reviews_per_month"
	ColHostListingsCount = "calculated_host_listings_count"
	ColAvailability365   = "availability_365"
)

// RawTable holds a delimited file exactly as read: a header and string cells.
// The cleaning pass works on it so columns it does not know survive verbatim.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Index returns the position of column name in the header, or -1.
func (t *RawTable) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Listing is one cleaned row of the rental dataset as the dashboard uses it.
type Listing struct {
	ID                 int64
	Name               string
	HostID             int64
	HostName           string
	NeighbourhoodGroup string
	Neighbourhood      string
	Latitude           float64
	Longitude          float64
	RoomType           string
	Price              int
	MinimumNights      int
	NumberOfReviews    int
	LastReview         *time.Time
	ReviewsPerMonth    float64
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalListings           int
	AveragePrice            float64
	MinPrice                int
	MaxPrice                int
	MostExpensive           *Listing
	MostReviewed            []*Listing
	NeverReviewed           int
	ListingsByNeighbourhood map[string]int
}
