package services

import (
	"testing"
	"time"

	"airbnb-dashboard/models"
)

func sampleListings() []*models.Listing {
	reviewed := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	return []*models.Listing{
		{ID: 1, Name: "Villa A", NeighbourhoodGroup: "Manhattan", Price: 200, NumberOfReviews: 40, LastReview: &reviewed},
		{ID: 2, Name: "Studio B", NeighbourhoodGroup: "Brooklyn", Price: 50, NumberOfReviews: 12, LastReview: &reviewed},
		{ID: 3, Name: "Loft C", NeighbourhoodGroup: "Brooklyn", Price: 120, NumberOfReviews: 80, LastReview: &reviewed},
		{ID: 4, Name: "Cabin D", NeighbourhoodGroup: "Staten Island", Price: 300, NumberOfReviews: 0},
		{ID: 5, Name: "Flat E", NeighbourhoodGroup: "Queens", Price: 0, NumberOfReviews: 12, LastReview: &reviewed},
		{ID: 6, Name: "Room F", NeighbourhoodGroup: "Bronx", Price: 35, NumberOfReviews: 3, LastReview: &reviewed},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	if r.TotalListings != 6 {
		t.Errorf("TotalListings: got %d, want 6", r.TotalListings)
	}
	if r.NeverReviewed != 1 {
		t.Errorf("NeverReviewed: got %d, want 1", r.NeverReviewed)
	}
}

func TestInsightPrices(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	wantAvg := 117.50
	if r.AveragePrice != wantAvg {
		t.Errorf("AveragePrice: got %.2f, want %.2f", r.AveragePrice, wantAvg)
	}
	if r.MinPrice != 0 {
		t.Errorf("MinPrice: got %d, want 0", r.MinPrice)
	}
	if r.MaxPrice != 300 {
		t.Errorf("MaxPrice: got %d, want 300", r.MaxPrice)
	}
}

func TestInsightMostExpensive(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	if r.MostExpensive == nil {
		t.Fatal("MostExpensive should not be nil")
	}
	if r.MostExpensive.Name != "Cabin D" {
		t.Errorf("MostExpensive: got %q, want %q", r.MostExpensive.Name, "Cabin D")
	}
}

func TestInsightMostReviewed(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	if len(r.MostReviewed) != 5 {
		t.Fatalf("MostReviewed len: got %d, want 5", len(r.MostReviewed))
	}
	want := []int64{3, 1, 2, 5, 6}
	for i, id := range want {
		if r.MostReviewed[i].ID != id {
			t.Errorf("MostReviewed[%d]: got id %d, want %d", i, r.MostReviewed[i].ID, id)
		}
	}
}

func TestInsightNeighbourhoodGrouping(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(sampleListings())
	if r.ListingsByNeighbourhood["Brooklyn"] != 2 {
		t.Errorf("Brooklyn count: got %d, want 2", r.ListingsByNeighbourhood["Brooklyn"])
	}
	if r.ListingsByNeighbourhood["Manhattan"] != 1 {
		t.Errorf("Manhattan count: got %d, want 1", r.ListingsByNeighbourhood["Manhattan"])
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(nil)
	if r.TotalListings != 0 {
		t.Errorf("expected 0 total listings for empty input")
	}
	if r.MostExpensive != nil {
		t.Errorf("expected no most expensive listing for empty input")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Sunny Williamsburg loft", 10); got != "Sunny W..." {
		t.Errorf("truncate: got %q", got)
	}
	if got := truncate("Café", 10); got != "Café" {
		t.Errorf("truncate short: got %q", got)
	}
}
