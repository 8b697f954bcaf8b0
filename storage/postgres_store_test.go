package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"airbnb-dashboard/models"
)

func TestBuildInsertPlaceholders(t *testing.T) {
	reviewed := time.Date(2019, 5, 21, 0, 0, 0, 0, time.UTC)
	batch := []*models.Listing{
		{ID: 1, Name: "A", Price: 100, LastReview: &reviewed},
		{ID: 2, Name: "B", Price: 200},
	}

	query, args := buildInsert(batch, 0)

	assert.Len(t, args, 2*listingColumns)
	assert.Contains(t, query, "($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)")
	assert.Contains(t, query, "($16,")
	assert.Contains(t, query, ",$30)")
	assert.NotContains(t, query, "ON CONFLICT", "duplicate ids must fail, not vanish")

	assert.Equal(t, reviewed, args[12])
	assert.Nil(t, args[listingColumns+12], "missing last_review is stored as NULL")
}

func TestBuildInsertStoresFilePosition(t *testing.T) {
	batch := []*models.Listing{{ID: 9}, {ID: 3}}

	query, args := buildInsert(batch, 500)

	assert.Contains(t, query, "row_position)")
	assert.Equal(t, int64(500), args[listingColumns-1])
	assert.Equal(t, int64(501), args[2*listingColumns-1])
}

func TestCheckUniqueIDs(t *testing.T) {
	assert.NoError(t, checkUniqueIDs([]*models.Listing{{ID: 3}, {ID: 1}, {ID: 2}}))

	err := checkUniqueIDs([]*models.Listing{{ID: 3}, {ID: 1}, {ID: 3}})
	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.ErrorContains(t, err, "3 at rows 1 and 3")
}
