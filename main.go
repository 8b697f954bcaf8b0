package main

import (
	"os"

	"github.com/spf13/cobra"

	"airbnb-dashboard/config"
	"airbnb-dashboard/utils"
)

var (
	cfg    *config.Config
	logger *utils.Logger

	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "airbnb-dashboard",
	Short: "Clean the NYC Airbnb listings dataset and serve an interactive dashboard",
	Long: `airbnb-dashboard prepares the AB_NYC_2019 listings file (imputation and
outlier removal) and serves a filterable map and chart dashboard over it.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logger = utils.NewLoggerWithOptions(utils.LogOptions{
			Level:  cfg.LogLevel,
			Format: cfg.LogFormat,
			File:   cfg.LogFile,
		})
	},
}

func init() {
	cfg = config.Load()

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL)")

	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("%v", err)
		}
		os.Exit(1)
	}
}
