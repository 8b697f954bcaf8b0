package models

// FilterSelection is the UI-held state of one dashboard session.
type FilterSelection struct {
	PriceMin      int    `json:"price_min" validate:"gte=0"`
	PriceMax      int    `json:"price_max" validate:"gtefield=PriceMin"`
	Neighbourhood string `json:"neighbourhood"`
	RoomType      string `json:"room_type"`
	MinimumNights int    `json:"minimum_nights" validate:"gte=0"`
	MinReviews    int    `json:"min_reviews" validate:"gte=0"`
}

// Mark is a labelled tick on the price range selector.
type Mark struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// RangeSelector describes the price range control.
type RangeSelector struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Step  int    `json:"step"`
	Marks []Mark `json:"marks"`
	Value [2]int `json:"value"`
}

// Dropdown is a string-valued single-choice control.
type Dropdown struct {
	Options []string `json:"options"`
	Default string   `json:"default"`
}

// IntDropdown is an integer-valued single-choice control.
type IntDropdown struct {
	Options []int `json:"options"`
	Default int   `json:"default"`
}

// Layout is the static control set built once from the loaded dataset.
type Layout struct {
	Title          string        `json:"title"`
	Price          RangeSelector `json:"price"`
	Neighbourhoods Dropdown      `json:"neighbourhoods"`
	RoomTypes      Dropdown      `json:"room_types"`
	MinimumNights  IntDropdown   `json:"minimum_nights"`
	Reviews        IntDropdown   `json:"reviews"`
	Outputs        []string      `json:"outputs"`
}

// DefaultSelection is the selection a fresh session starts with.
func (l *Layout) DefaultSelection() FilterSelection {
	return FilterSelection{
		PriceMin:      l.Price.Value[0],
		PriceMax:      l.Price.Value[1],
		Neighbourhood: l.Neighbourhoods.Default,
		RoomType:      l.RoomTypes.Default,
		MinimumNights: l.MinimumNights.Default,
		MinReviews:    l.Reviews.Default,
	}
}

// MapPoint is one marker of the map view.
type MapPoint struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Price     int     `json:"price"`
	RoomType  string  `json:"room_type"`
}

// MapView is the result of the map derivation.
type MapView struct {
	Points    []MapPoint `json:"points"`
	CenterLat float64    `json:"center_lat"`
	CenterLon float64    `json:"center_lon"`
	MinPrice  int        `json:"min_price"`
	MaxPrice  int        `json:"max_price"`
}

// GroupCount is one slice of the neighbourhood-group distribution.
type GroupCount struct {
	Group string `json:"group"`
	Count int    `json:"count"`
}

// RoomTypePrice is one bar of the price-by-room-type chart.
type RoomTypePrice struct {
	RoomType  string  `json:"room_type"`
	MeanPrice float64 `json:"mean_price"`
	Count     int     `json:"count"`
}
