package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"airbnb-dashboard/services"
	"airbnb-dashboard/storage"
	"airbnb-dashboard/utils"
)

var (
	prepareIn       string
	prepareOut      string
	prepareMaxPrice int
	prepareMaxNight int
	preparePostgres bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Clean the raw listings CSV into the dashboard dataset",
	Long: `Reads the raw listings file, fills missing names, host names, review dates
and reviews per month, drops price and minimum-nights outliers, normalises
last_review to YYYY-MM-DD and writes the result atomically.`,
	Args: cobra.NoArgs,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().StringVar(&prepareIn, "in", "", "Raw listings CSV (default from RAW_DATA_PATH)")
	prepareCmd.Flags().StringVar(&prepareOut, "out", "", "Cleaned output CSV (default from PROCESSED_DATA_PATH)")
	prepareCmd.Flags().IntVar(&prepareMaxPrice, "max-price", 0, "Drop listings priced above this (default from MAX_PRICE)")
	prepareCmd.Flags().IntVar(&prepareMaxNight, "max-minimum-nights", 0, "Drop listings requiring more nights than this (default from MAX_MINIMUM_NIGHTS)")
	prepareCmd.Flags().BoolVar(&preparePostgres, "postgres", false, "Also mirror the cleaned listings into PostgreSQL")
}

func runPrepare(cmd *cobra.Command, args []string) error {
	in := firstNonEmpty(prepareIn, cfg.RawDataPath)
	out := firstNonEmpty(prepareOut, cfg.ProcessedDataPath)
	opts := services.CleanerOptions{
		MaxPrice:         firstPositive(prepareMaxPrice, cfg.MaxPrice),
		MaxMinimumNights: firstPositive(prepareMaxNight, cfg.MaxMinimumNights),
	}

	logger.Info("=== Data preparation starting ===")
	logger.Info("Config — in: %s | out: %s | max price: %d | max minimum nights: %d",
		in, out, opts.MaxPrice, opts.MaxMinimumNights)

	preparer := services.NewPreparer(logger, opts)
	table, _, err := preparer.Prepare(in)
	if err != nil {
		return err
	}
	if err := preparer.Persist(table, out); err != nil {
		return err
	}

	if preparePostgres {
		if err := mirrorToPostgres(out); err != nil {
			return err
		}
	}

	logger.Info("Done. Cleaned data → %s", out)
	return nil
}

// mirrorToPostgres reloads the written file so the database holds exactly
// what the dashboard would read from disk.
func mirrorToPostgres(path string) error {
	listings, err := storage.LoadListings(path)
	if err != nil {
		return fmt.Errorf("mirror: %w", err)
	}

	store, err := storage.NewPostgresStore(cfg.DSN(), &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   time.Second,
		MaxDelay:    15 * time.Second,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("Make sure PostgreSQL is running: docker compose up -d")
		return err
	}
	defer store.Close()

	var writer storage.ListingWriter = store
	if err := writer.Write(listings); err != nil {
		return err
	}
	logger.Info("Mirrored %d listings into PostgreSQL (table: listings)", len(listings))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
