package main

import (
	"github.com/spf13/cobra"

	"airbnb-dashboard/services"
)

var (
	insightsData   string
	insightsSource string
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Print summary statistics of the cleaned dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataPath := firstNonEmpty(insightsData, cfg.ProcessedDataPath)
		src, closeSrc, err := listingSource(cfg.WithDataSource(insightsSource), dataPath)
		if err != nil {
			return err
		}
		defer closeSrc()

		listings, err := src.FetchAll()
		if err != nil {
			return err
		}

		svc := services.NewInsightService(logger)
		svc.Print(svc.Generate(listings))
		return nil
	},
}

func init() {
	insightsCmd.Flags().StringVar(&insightsData, "data", "", "Cleaned listings CSV (default from PROCESSED_DATA_PATH)")
	insightsCmd.Flags().StringVar(&insightsSource, "source", "", "Dataset source: csv or postgres (default from DATA_SOURCE)")
}
