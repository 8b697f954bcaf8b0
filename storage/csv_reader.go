package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"airbnb-dashboard/models"
)

var (
	ErrMissingColumn  = errors.New("missing required column")
	ErrMalformedValue = errors.New("malformed value")
)

// RequiredListingColumns must be present in a cleaned listings file.
var RequiredListingColumns = []string{
	models.ColID,
	models.ColName,
	models.ColHostName,
	models.ColNeighbourhoodGrp,
	models.ColNeighbourhood,
	models.ColLatitude,
	models.ColLongitude,
	models.ColRoomType,
	models.ColPrice,
	models.ColMinimumNights,
	models.ColNumberOfReviews,
}

// ReadRawTable reads a delimited listings file into a RawTable.
func ReadRawTable(path string) (*models.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	t, err := ReadRawTableFrom(f)
	if err != nil {
		return nil, fmt.Errorf("%w (file %q)", err, path)
	}
	return t, nil
}

// ReadRawTableFrom reads CSV with a header row from r. Every record must
// have as many fields as the header.
func ReadRawTableFrom(r io.Reader) (*models.RawTable, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: empty file, no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	t := &models.RawTable{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read record: %w", err)
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// LoadListings reads a cleaned listings file into typed records.
func LoadListings(path string) ([]*models.Listing, error) {
	t, err := ReadRawTable(path)
	if err != nil {
		return nil, err
	}
	return ParseListings(t)
}

// ParseListings converts a cleaned table into typed listings.
func ParseListings(t *models.RawTable) ([]*models.Listing, error) {
	col := make(map[string]int, len(RequiredListingColumns))
	for _, name := range RequiredListingColumns {
		i := t.Index(name)
		if i < 0 {
			return nil, fmt.Errorf("csv: %w: %q", ErrMissingColumn, name)
		}
		col[name] = i
	}
	optional := func(name string) int { return t.Index(name) }
	hostIDCol := optional(models.ColHostID)
	lastReviewCol := optional(models.ColLastReview)
	rpmCol := optional(models.ColReviewsPerMonth)

	listings := make([]*models.Listing, 0, len(t.Rows))
	for i, row := range t.Rows {
		p := rowParser{row: row, line: i + 2}

		l := &models.Listing{
			ID:                 p.int64Cell(col[models.ColID], models.ColID),
			Name:               row[col[models.ColName]],
			HostName:           row[col[models.ColHostName]],
			NeighbourhoodGroup: row[col[models.ColNeighbourhoodGrp]],
			Neighbourhood:      row[col[models.ColNeighbourhood]],
			Latitude:           p.floatCell(col[models.ColLatitude], models.ColLatitude),
			Longitude:          p.floatCell(col[models.ColLongitude], models.ColLongitude),
			RoomType:           row[col[models.ColRoomType]],
			Price:              p.intCell(col[models.ColPrice], models.ColPrice),
			MinimumNights:      p.intCell(col[models.ColMinimumNights], models.ColMinimumNights),
			NumberOfReviews:    p.intCell(col[models.ColNumberOfReviews], models.ColNumberOfReviews),
		}
		if hostIDCol >= 0 && strings.TrimSpace(row[hostIDCol]) != "" {
			l.HostID = p.int64Cell(hostIDCol, models.ColHostID)
		}
		if rpmCol >= 0 && strings.TrimSpace(row[rpmCol]) != "" {
			l.ReviewsPerMonth = p.floatCell(rpmCol, models.ColReviewsPerMonth)
		}
		if lastReviewCol >= 0 {
			if s := strings.TrimSpace(row[lastReviewCol]); s != "" {
				d, err := time.Parse("2006-01-02", s)
				if err != nil {
					p.fail(models.ColLastReview, s)
				} else {
					l.LastReview = &d
				}
			}
		}

		if p.err != nil {
			return nil, p.err
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// rowParser keeps the first conversion error of a row.
type rowParser struct {
	row  []string
	line int
	err  error
}

func (p *rowParser) fail(column, value string) {
	if p.err == nil {
		p.err = fmt.Errorf("csv: line %d column %q: %w: %q", p.line, column, ErrMalformedValue, value)
	}
}

func (p *rowParser) floatCell(i int, column string) float64 {
	s := strings.TrimSpace(p.row[i])
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(column, s)
		return 0
	}
	return v
}

// intCell accepts "149" as well as "149.0"; fractional or negative values are malformed.
func (p *rowParser) intCell(i int, column string) int {
	return int(p.int64Cell(i, column))
}

func (p *rowParser) int64Cell(i int, column string) int64 {
	s := strings.TrimSpace(p.row[i])
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || math.IsInf(f, 0) {
		p.fail(column, s)
		return 0
	}
	return int64(f)
}
