package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"airbnb-dashboard/models"
	"airbnb-dashboard/storage"
	"airbnb-dashboard/utils"
)

const (
	NamePlaceholder     = "No Name Provided"
	HostNamePlaceholder = "No Host Name"
	// NotReviewed marks a missing last_review until dates are coerced.
	NotReviewed = "Not Reviewed"
	// ReviewDateLayout is how coerced last_review dates are written back.
	ReviewDateLayout = "2006-01-02"
)

// RequiredRawColumns must be present in a raw listings file: everything the
// dashboard loads plus the two imputed review columns.
var RequiredRawColumns = append(append([]string(nil), storage.RequiredListingColumns...),
	models.ColLastReview,
	models.ColReviewsPerMonth,
)

// nullTokens are the cell values read as missing.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

var reviewDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
}

// IsNull reports whether a raw cell holds a missing value.
func IsNull(cell string) bool {
	_, ok := nullTokens[strings.TrimSpace(cell)]
	return ok
}

// CleanerOptions are the outlier thresholds of the cleaning pass.
type CleanerOptions struct {
	MaxPrice         int
	MaxMinimumNights int
}

// CleanReport counts what each cleaning rule did.
type CleanReport struct {
	RowsRead              int
	RowsWritten           int
	NamesFilled           int
	HostNamesFilled       int
	LastReviewsFilled     int
	ReviewsPerMonthFilled int
	ReviewCountsFilled    int
	DroppedPrice          int
	DroppedMinimumNights  int
	DroppedIncomplete     int
	ReviewDatesNulled     int
}

// Cleaner applies the deterministic cleaning rules to a raw listings table.
type Cleaner struct {
	logger *utils.Logger
	opts   CleanerOptions
}

// NewCleaner creates a Cleaner with the given logger and thresholds.
func NewCleaner(logger *utils.Logger, opts CleanerOptions) *Cleaner {
	return &Cleaner{logger: logger, opts: opts}
}

type columnIndex struct {
	id, name, hostID, hostName, latitude, longitude int
	price, minimumNights, numberOfReviews           int
	lastReview, reviewsPerMonth                     int
}

func resolveColumns(t *models.RawTable) (columnIndex, error) {
	for _, col := range RequiredRawColumns {
		if t.Index(col) < 0 {
			return columnIndex{}, fmt.Errorf("cleaner: %w: %q", storage.ErrMissingColumn, col)
		}
	}
	return columnIndex{
		id:              t.Index(models.ColID),
		name:            t.Index(models.ColName),
		hostID:          t.Index(models.ColHostID),
		hostName:        t.Index(models.ColHostName),
		latitude:        t.Index(models.ColLatitude),
		longitude:       t.Index(models.ColLongitude),
		price:           t.Index(models.ColPrice),
		minimumNights:   t.Index(models.ColMinimumNights),
		numberOfReviews: t.Index(models.ColNumberOfReviews),
		lastReview:      t.Index(models.ColLastReview),
		reviewsPerMonth: t.Index(models.ColReviewsPerMonth),
	}, nil
}

// Clean returns a new table; raw is left untouched.
//
// Rules, in order: impute name, host_name, last_review and
// reviews_per_month; drop price and minimum_nights outliers; coerce
// last_review to a date or empty.
//
// Every numeric column the dashboard loads is checked too. Counts and ids
// must be non-negative whole numbers and coordinates finite; anything else
// fails with ErrMalformedValue. A missing number_of_reviews becomes 0 and a
// row without id or coordinates is dropped.
func (c *Cleaner) Clean(raw *models.RawTable) (*models.RawTable, *CleanReport, error) {
	idx, err := resolveColumns(raw)
	if err != nil {
		return nil, nil, err
	}

	report := &CleanReport{RowsRead: len(raw.Rows)}
	out := &models.RawTable{
		Header: append([]string(nil), raw.Header...),
		Rows:   make([][]string, 0, len(raw.Rows)),
	}

	for i, src := range raw.Rows {
		line := i + 2 // header is line 1
		row := append([]string(nil), src...)

		if IsNull(row[idx.name]) {
			row[idx.name] = NamePlaceholder
			report.NamesFilled++
		}
		if IsNull(row[idx.hostName]) {
			row[idx.hostName] = HostNamePlaceholder
			report.HostNamesFilled++
		}
		if IsNull(row[idx.lastReview]) {
			row[idx.lastReview] = NotReviewed
			report.LastReviewsFilled++
		}
		if IsNull(row[idx.reviewsPerMonth]) {
			row[idx.reviewsPerMonth] = "0"
			report.ReviewsPerMonthFilled++
		}

		cells := cellChecker{row: row, line: line}
		if cells.whole(idx.numberOfReviews, models.ColNumberOfReviews) {
			row[idx.numberOfReviews] = "0"
			report.ReviewCountsFilled++
		}
		cells.finite(idx.reviewsPerMonth, models.ColReviewsPerMonth)
		if idx.hostID >= 0 && cells.whole(idx.hostID, models.ColHostID) {
			row[idx.hostID] = ""
		}
		idNull := cells.whole(idx.id, models.ColID)
		latNull := cells.finite(idx.latitude, models.ColLatitude)
		lonNull := cells.finite(idx.longitude, models.ColLongitude)
		priceNull := cells.whole(idx.price, models.ColPrice)
		nightsNull := cells.whole(idx.minimumNights, models.ColMinimumNights)
		if cells.err != nil {
			return nil, nil, cells.err
		}

		// a missing number can never satisfy "<= cap", so it is dropped too
		if priceNull || cells.value(idx.price) > int64(c.opts.MaxPrice) {
			c.logger.Debug("[cleaner] Line %d dropped: price %q exceeds %d", line, row[idx.price], c.opts.MaxPrice)
			report.DroppedPrice++
			continue
		}
		if nightsNull || cells.value(idx.minimumNights) > int64(c.opts.MaxMinimumNights) {
			c.logger.Debug("[cleaner] Line %d dropped: minimum_nights %q exceeds %d",
				line, row[idx.minimumNights], c.opts.MaxMinimumNights)
			report.DroppedMinimumNights++
			continue
		}
		if idNull || latNull || lonNull {
			c.logger.Debug("[cleaner] Line %d dropped: missing id or coordinates", line)
			report.DroppedIncomplete++
			continue
		}

		if d, ok := parseReviewDate(row[idx.lastReview]); ok {
			row[idx.lastReview] = d.Format(ReviewDateLayout)
		} else {
			row[idx.lastReview] = ""
			report.ReviewDatesNulled++
		}

		out.Rows = append(out.Rows, row)
	}

	report.RowsWritten = len(out.Rows)
	c.logger.Info("[cleaner] Cleaned %d → %d listings (dropped %d: price %d, minimum_nights %d, incomplete %d)",
		report.RowsRead, report.RowsWritten, report.RowsRead-report.RowsWritten,
		report.DroppedPrice, report.DroppedMinimumNights, report.DroppedIncomplete)
	c.logger.Info("[cleaner] Filled names %d, host names %d, last reviews %d, reviews/month %d, review counts %d",
		report.NamesFilled, report.HostNamesFilled, report.LastReviewsFilled, report.ReviewsPerMonthFilled,
		report.ReviewCountsFilled)

	return out, report, nil
}

// cellChecker validates the numeric cells of one row, keeping the first
// malformed value. Whole-number cells are rewritten in canonical form, so
// "149.0" becomes "149".
type cellChecker struct {
	row    []string
	line   int
	err    error
	values map[int]int64
}

func (c *cellChecker) fail(column, cell string) {
	if c.err == nil {
		c.err = fmt.Errorf("cleaner: line %d column %q: %w: %q", c.line, column, storage.ErrMalformedValue, cell)
	}
}

// whole accepts non-negative whole numbers. It reports true for a null cell.
func (c *cellChecker) whole(i int, column string) (null bool) {
	cell := c.row[i]
	if IsNull(cell) {
		return true
	}
	s := strings.TrimSpace(cell)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsInf(f, 0) || f != math.Trunc(f) || f >= math.MaxInt64 {
			c.fail(column, cell)
			return false
		}
		n = int64(f)
	}
	if n < 0 {
		c.fail(column, cell)
		return false
	}
	if c.values == nil {
		c.values = make(map[int]int64)
	}
	c.values[i] = n
	c.row[i] = strconv.FormatInt(n, 10)
	return false
}

// finite accepts any finite number and leaves the cell text as is.
func (c *cellChecker) finite(i int, column string) (null bool) {
	cell := c.row[i]
	if IsNull(cell) {
		return true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		c.fail(column, cell)
	}
	return false
}

func (c *cellChecker) value(i int) int64 {
	return c.values[i]
}

func parseReviewDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	for _, layout := range reviewDateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
