package config

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	// DefaultMaxPrice is the nightly price above which a listing is an outlier.
	DefaultMaxPrice = 1000
	// DefaultMaxMinimumNights caps minimum_nights to a sensible year.
	DefaultMaxMinimumNights = 365
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	RawDataPath       string
	ProcessedDataPath string

	MaxPrice         int
	MaxMinimumNights int

	HTTPAddr   string
	DataSource string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	MaxRetries       int

	LogLevel  string
	LogFormat string
	LogFile   string

	ChromeBin           string
	DashboardURL        string
	SnapshotDir         string
	SnapshotConcurrency int
	SnapshotRateLimitMs int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("[config] No .env file found, falling back to system env vars")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("RAW_DATA_PATH", "data/raw/AB_NYC_2019.csv")
	v.SetDefault("PROCESSED_DATA_PATH", "data/processed/processed_data.csv")
	v.SetDefault("MAX_PRICE", DefaultMaxPrice)
	v.SetDefault("MAX_MINIMUM_NIGHTS", DefaultMaxMinimumNights)

	v.SetDefault("HTTP_ADDR", ":8050")
	v.SetDefault("DATA_SOURCE", "csv")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "airbnb")
	v.SetDefault("POSTGRES_PASSWORD", "airbnb123")
	v.SetDefault("POSTGRES_DB", "rental_db")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("MAX_RETRIES", 5)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("LOG_FILE", "")

	v.SetDefault("CHROME_BIN", "")
	v.SetDefault("DASHBOARD_URL", "http://localhost:8050")
	v.SetDefault("SNAPSHOT_DIR", "./output/snapshots")
	v.SetDefault("SNAPSHOT_CONCURRENCY", 2)
	v.SetDefault("SNAPSHOT_RATE_LIMIT_MS", 500)

	return &Config{
		RawDataPath:       v.GetString("RAW_DATA_PATH"),
		ProcessedDataPath: v.GetString("PROCESSED_DATA_PATH"),
		MaxPrice:          v.GetInt("MAX_PRICE"),
		MaxMinimumNights:  v.GetInt("MAX_MINIMUM_NIGHTS"),

		HTTPAddr:   v.GetString("HTTP_ADDR"),
		DataSource: v.GetString("DATA_SOURCE"),

		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetString("POSTGRES_PORT"),
		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),
		PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),
		MaxRetries:       v.GetInt("MAX_RETRIES"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
		LogFile:   v.GetString("LOG_FILE"),

		ChromeBin:           v.GetString("CHROME_BIN"),
		DashboardURL:        v.GetString("DASHBOARD_URL"),
		SnapshotDir:         v.GetString("SNAPSHOT_DIR"),
		SnapshotConcurrency: v.GetInt("SNAPSHOT_CONCURRENCY"),
		SnapshotRateLimitMs: v.GetInt("SNAPSHOT_RATE_LIMIT_MS"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// WithDataSource returns a copy of c reading listings from source, or c
// itself when source is empty.
func (c *Config) WithDataSource(source string) *Config {
	if source == "" {
		return c
	}
	cp := *c
	cp.DataSource = source
	return &cp
}

// UseCSV reports whether the dashboard should read listings from the cleaned CSV file.
func (c *Config) UseCSV() bool {
	return c.DataSource == "" || c.DataSource == "csv"
}

// UsePostgres reports whether the dashboard should read listings from PostgreSQL.
func (c *Config) UsePostgres() bool {
	return c.DataSource == "postgres"
}
