package config_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Stock.ExpiringDays)
	assert.Equal(t, 30, cfg.Stock.UsageWindowDays)
	assert.True(t, cfg.Stock.LowStockFallback.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "first_active", cfg.Stock.LocationPolicy)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("STOCK_LOW_FALLBACK", "2.5")
	t.Setenv("STOCK_EXPIRING_DAYS", "3")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.True(t, cfg.Stock.LowStockFallback.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, 3, cfg.Stock.ExpiringDays)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stock?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
