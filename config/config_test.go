package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, DefaultMaxPrice, cfg.MaxPrice)
	assert.Equal(t, DefaultMaxMinimumNights, cfg.MaxMinimumNights)
	assert.Equal(t, "data/processed/processed_data.csv", cfg.ProcessedDataPath)
	assert.Equal(t, ":8050", cfg.HTTPAddr)
	assert.False(t, cfg.UsePostgres())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAX_PRICE", "500")
	t.Setenv("DATA_SOURCE", "postgres")
	t.Setenv("PROCESSED_DATA_PATH", "/tmp/clean.csv")

	cfg := Load()

	assert.Equal(t, 500, cfg.MaxPrice)
	assert.True(t, cfg.UsePostgres())
	assert.Equal(t, "/tmp/clean.csv", cfg.ProcessedDataPath)
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "u",
		PostgresPassword: "p",
		PostgresDB:       "listings",
		PostgresSSLMode:  "disable",
	}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=listings sslmode=disable", cfg.DSN())
}

func TestWithDataSource(t *testing.T) {
	cfg := &Config{DataSource: "csv"}

	assert.Same(t, cfg, cfg.WithDataSource(""))

	pg := cfg.WithDataSource("postgres")
	assert.True(t, pg.UsePostgres())
	assert.False(t, pg.UseCSV())
	assert.True(t, cfg.UseCSV(), "the original config is not modified")

	unknown := cfg.WithDataSource("mongo")
	assert.False(t, unknown.UseCSV())
	assert.False(t, unknown.UsePostgres())
}
