package services

import (
	"errors"

	"airbnb-dashboard/models"
)

var ErrEmptyDataset = errors.New("dataset has no listings")

// Dataset is the read-only base table the dashboard derives every view from.
// It is built once and never mutated, so concurrent readers need no locking.
type Dataset struct {
	listings []models.Listing
}

// NewDataset copies listings into a new immutable Dataset, keeping file order.
func NewDataset(listings []*models.Listing) *Dataset {
	ds := &Dataset{listings: make([]models.Listing, 0, len(listings))}
	for _, l := range listings {
		if l != nil {
			ds.listings = append(ds.listings, *l)
		}
	}
	return ds
}

// Len returns the number of listings.
func (d *Dataset) Len() int {
	return len(d.listings)
}

// Filter returns copies of the listings matching keep, in dataset order.
func (d *Dataset) Filter(keep func(*models.Listing) bool) []models.Listing {
	var out []models.Listing
	d.each(func(l *models.Listing) {
		if keep(l) {
			out = append(out, *l)
		}
	})
	return out
}

func (d *Dataset) each(fn func(*models.Listing)) {
	for i := range d.listings {
		fn(&d.listings[i])
	}
}
