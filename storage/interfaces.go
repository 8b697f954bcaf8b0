package storage

import "airbnb-dashboard/models"

// ListingWriter is the interface any storage backend for cleaned listings must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}

// ListingSource supplies the cleaned dataset the dashboard serves.
type ListingSource interface {
	FetchAll() ([]*models.Listing, error)
}

// CSVSource reads listings from a cleaned CSV file.
type CSVSource struct {
	Path string
}

// FetchAll loads every listing from the file.
func (s CSVSource) FetchAll() ([]*models.Listing, error) {
	return LoadListings(s.Path)
}
