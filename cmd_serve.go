package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"airbnb-dashboard/config"
	"airbnb-dashboard/models"
	"airbnb-dashboard/server"
	"airbnb-dashboard/services"
	"airbnb-dashboard/storage"
	"airbnb-dashboard/utils"
)

var (
	serveAddr   string
	serveData   string
	serveSource string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive listings dashboard",
	Long: `Loads the cleaned listings once and serves the dashboard page, its
websocket update protocol, a small JSON/XLSX API, /health and /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from HTTP_ADDR)")
	serveCmd.Flags().StringVar(&serveData, "data", "", "Cleaned listings CSV (default from PROCESSED_DATA_PATH)")
	serveCmd.Flags().StringVar(&serveSource, "source", "", "Dataset source: csv or postgres (default from DATA_SOURCE)")
}

// listingSource picks where the cleaned dataset is read from.
func listingSource(c *config.Config, csvPath string) (storage.ListingSource, func() error, error) {
	switch {
	case c.UseCSV():
		return storage.CSVSource{Path: csvPath}, func() error { return nil }, nil
	case c.UsePostgres():
		store, err := storage.NewPostgresStore(c.DSN(), &utils.RetryConfig{
			MaxAttempts: c.MaxRetries,
			BaseDelay:   time.Second,
			MaxDelay:    15 * time.Second,
			Logger:      logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown data source %q (want csv or postgres)", c.DataSource)
}

func loadDataset(c *config.Config, csvPath string) (*services.Dataset, *models.Layout, error) {
	src, closeSrc, err := listingSource(c, csvPath)
	if err != nil {
		return nil, nil, err
	}
	defer closeSrc()

	listings, err := src.FetchAll()
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset: %w", err)
	}

	ds := services.NewDataset(listings)
	layout, err := services.BuildLayout(ds)
	if err != nil {
		return nil, nil, err
	}
	return ds, layout, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := firstNonEmpty(serveAddr, cfg.HTTPAddr)
	dataPath := firstNonEmpty(serveData, cfg.ProcessedDataPath)
	dataCfg := cfg.WithDataSource(serveSource)

	logger.Info("=== Airbnb dashboard starting ===")

	ds, layout, err := loadDataset(dataCfg, dataPath)
	if err != nil {
		return err
	}
	logger.Info("Loaded %d listings from %s (%s) — %d neighbourhoods, %d room types, price $%d-$%d",
		ds.Len(), dataPath, dataCfg.DataSource, len(layout.Neighbourhoods.Options), len(layout.RoomTypes.Options),
		layout.Price.Min, layout.Price.Max)

	dispatcher := services.NewDispatcher(ds, logger)
	dispatcher.SetObserver(server.ObserveDerivation)

	srv := &http.Server{
		Addr:              addr,
		Handler:           server.New(dispatcher, layout, logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Dashboard listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down dashboard...")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Dashboard stopped")
	return nil
}
