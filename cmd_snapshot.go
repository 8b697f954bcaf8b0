package main

import (
	"time"

	"github.com/spf13/cobra"

	"airbnb-dashboard/snapshot"
)

var (
	snapshotURL     string
	snapshotDir     string
	snapshotPresets []string
	snapshotSettle  time.Duration
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Capture PNG screenshots of a running dashboard",
	Long: `Opens the dashboard in headless Chrome once per preset, waits until every
output has been drawn and writes <dir>/<preset>.png.

A preset is "name" or "name:query", for example
  --preset williamsburg:neighbourhood=Williamsburg&room_type=Private+room`,
	Example: `  airbnb-dashboard snapshot --preset default --preset harlem:neighbourhood=Harlem`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := snapshot.ParsePresets(snapshotPresets)
		if err != nil {
			return err
		}

		capturer := snapshot.New(snapshot.Options{
			BaseURL:     firstNonEmpty(snapshotURL, cfg.DashboardURL),
			OutDir:      firstNonEmpty(snapshotDir, cfg.SnapshotDir),
			ChromeBin:   cfg.ChromeBin,
			Concurrency: cfg.SnapshotConcurrency,
			RateLimitMs: cfg.SnapshotRateLimitMs,
			MaxRetries:  cfg.MaxRetries,
			Settle:      snapshotSettle,
		}, logger)

		results, err := capturer.Capture(cmd.Context(), presets)
		if err != nil {
			return err
		}
		logger.Info("Captured %d snapshots", len(results))
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "", "Dashboard base URL (default from DASHBOARD_URL)")
	snapshotCmd.Flags().StringVar(&snapshotDir, "dir", "", "Output directory (default from SNAPSHOT_DIR)")
	snapshotCmd.Flags().StringArrayVar(&snapshotPresets, "preset", nil, "Preset as name or name:query (repeatable)")
	snapshotCmd.Flags().DurationVar(&snapshotSettle, "settle", 2*time.Second, "Extra wait after the page is ready, for map tiles")
}
