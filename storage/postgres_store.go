package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"airbnb-dashboard/models"
	"airbnb-dashboard/utils"
)

const listingColumns = 15

// ErrDuplicateID is returned by Write when two listings share an id.
var ErrDuplicateID = errors.New("duplicate listing id")

// PostgresStore mirrors cleaned listings into PostgreSQL and reads them back.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore. The first ping is retried with
// exponential back-off.
func NewPostgresStore(dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id                  BIGINT        PRIMARY KEY,
			name                TEXT          NOT NULL,
			host_id             BIGINT        NOT NULL DEFAULT 0,
			host_name           TEXT          NOT NULL,
			neighbourhood_group TEXT          NOT NULL,
			neighbourhood       TEXT          NOT NULL,
			latitude            DOUBLE PRECISION NOT NULL,
			longitude           DOUBLE PRECISION NOT NULL,
			room_type           TEXT          NOT NULL,
			price               INTEGER       NOT NULL,
			minimum_nights      INTEGER       NOT NULL,
			number_of_reviews   INTEGER       NOT NULL DEFAULT 0,
			last_review         DATE,
			reviews_per_month   NUMERIC(8,2)  NOT NULL DEFAULT 0,
			row_position        BIGINT        NOT NULL DEFAULT 0
		);

		ALTER TABLE listings ADD COLUMN IF NOT EXISTS row_position BIGINT NOT NULL DEFAULT 0;

		CREATE INDEX IF NOT EXISTS idx_listings_price         ON listings(price);
		CREATE INDEX IF NOT EXISTS idx_listings_neighbourhood ON listings(neighbourhood);
		CREATE INDEX IF NOT EXISTS idx_listings_room_type     ON listings(room_type);
		CREATE INDEX IF NOT EXISTS idx_listings_position      ON listings(row_position);
	`)
	return err
}

// Write replaces the table contents with listings inside one transaction.
// The slice order is stored so FetchAll returns rows in file order.
func (ps *PostgresStore) Write(listings []*models.Listing) error {
	if err := checkUniqueIDs(listings); err != nil {
		return err
	}

	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 500
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := buildInsert(listings[i:end], i)
		if _, err := tx.Exec(query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func checkUniqueIDs(listings []*models.Listing) error {
	seen := make(map[int64]int, len(listings))
	for i, l := range listings {
		if first, dup := seen[l.ID]; dup {
			return fmt.Errorf("postgres: %w: %d at rows %d and %d", ErrDuplicateID, l.ID, first+1, i+1)
		}
		seen[l.ID] = i
	}
	return nil
}

// buildInsert renders one multi-row INSERT; offset is the position of
// batch[0] in the full slice.
func buildInsert(batch []*models.Listing, offset int) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*listingColumns)

	for idx, l := range batch {
		base := idx * listingColumns
		ph := make([]string, listingColumns)
		for c := range ph {
			ph[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")

		var lastReview any
		if l.LastReview != nil {
			lastReview = *l.LastReview
		}
		valueArgs = append(valueArgs,
			l.ID, l.Name, l.HostID, l.HostName, l.NeighbourhoodGroup, l.Neighbourhood,
			l.Latitude, l.Longitude, l.RoomType, l.Price, l.MinimumNights,
			l.NumberOfReviews, lastReview, l.ReviewsPerMonth, int64(offset+idx))
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (id, name, host_id, host_name, neighbourhood_group, neighbourhood,
			latitude, longitude, room_type, price, minimum_nights,
			number_of_reviews, last_review, reviews_per_month, row_position)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// FetchAll retrieves all stored listings in the order they were written.
func (ps *PostgresStore) FetchAll() ([]*models.Listing, error) {
	rows, err := ps.db.Query(`
		SELECT id, name, host_id, host_name, neighbourhood_group, neighbourhood,
			latitude, longitude, room_type, price, minimum_nights,
			number_of_reviews, last_review, reviews_per_month
		FROM listings
		ORDER BY row_position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		var lastReview sql.NullTime
		if err := rows.Scan(
			&l.ID, &l.Name, &l.HostID, &l.HostName, &l.NeighbourhoodGroup, &l.Neighbourhood,
			&l.Latitude, &l.Longitude, &l.RoomType, &l.Price, &l.MinimumNights,
			&l.NumberOfReviews, &lastReview, &l.ReviewsPerMonth,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if lastReview.Valid {
			d := lastReview.Time.In(time.UTC)
			l.LastReview = &d
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
