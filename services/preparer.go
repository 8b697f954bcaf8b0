package services

import (
	"fmt"

	"airbnb-dashboard/models"
	"airbnb-dashboard/storage"
	"airbnb-dashboard/utils"
)

// Preparer is the one-shot cleaning pipeline: read raw, clean, persist.
type Preparer struct {
	cleaner *Cleaner
	logger  *utils.Logger
}

// NewPreparer creates a Preparer with the given thresholds.
func NewPreparer(logger *utils.Logger, opts CleanerOptions) *Preparer {
	return &Preparer{cleaner: NewCleaner(logger, opts), logger: logger}
}

// Prepare reads the raw file at rawPath and returns the cleaned table.
func (p *Preparer) Prepare(rawPath string) (*models.RawTable, *CleanReport, error) {
	raw, err := storage.ReadRawTable(rawPath)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare: %w", err)
	}
	p.logger.Info("[prepare] Read %d raw listings from %s", len(raw.Rows), rawPath)

	cleaned, report, err := p.cleaner.Clean(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("prepare: %w", err)
	}
	return cleaned, report, nil
}

// Persist writes the cleaned table to outPath, replacing it atomically.
func (p *Preparer) Persist(table *models.RawTable, outPath string) error {
	if err := storage.WriteTableAtomic(outPath, table); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	p.logger.Info("[prepare] Wrote %d cleaned listings to %s", len(table.Rows), outPath)
	return nil
}
