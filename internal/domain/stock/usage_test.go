package stock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/stock"
)

func dated(t entity.MovementType, qty int64, at time.Time) *entity.StockMovement {
	return &entity.StockMovement{Type: t, Quantity: decimal.NewFromInt(qty), Date: at}
}

func TestOutboundInWindow_SoloSalidasDeLaVentana(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	movements := []*entity.StockMovement{
		dated(entity.MovementTypeOutbound, 30, now.AddDate(0, 0, -1)),
		dated(entity.MovementTypeProductionInput, 15, now.AddDate(0, 0, -10)),
		dated(entity.MovementTypeTransfer, 15, now.AddDate(0, 0, -29)),
		dated(entity.MovementTypeOutbound, 500, now.AddDate(0, 0, -31)),
		dated(entity.MovementTypeOutbound, 700, now.AddDate(0, 0, 2)),
		dated(entity.MovementTypeInbound, 999, now.AddDate(0, 0, -2)),
	}

	used := stock.OutboundInWindow(movements, now.AddDate(0, 0, -30), now)
	assert.Equal(t, "60", used.String(), "las salidas con fecha futura no cuentan")
	assert.Equal(t, "2", stock.UsageFromTotal(used, 30).String())
}

func TestOutboundInWindow_SinMovimientos(t *testing.T) {
	assert.True(t, stock.OutboundInWindow(nil, time.Time{}, time.Now()).IsZero())
}

func TestInWindow_Bordes(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	assert.True(t, stock.InWindow(since, since, until))
	assert.True(t, stock.InWindow(until, since, until))
	assert.False(t, stock.InWindow(until.Add(time.Second), since, until))
	assert.False(t, stock.InWindow(since.Add(-time.Second), since, until))
}

func TestEstimatedDaysRemaining(t *testing.T) {
	assert.Nil(t, stock.EstimatedDaysRemaining(decimal.NewFromInt(10), decimal.Zero), "sin consumo no hay estimación")

	d := stock.EstimatedDaysRemaining(decimal.NewFromInt(10), decimal.NewFromInt(3))
	require.NotNil(t, d)
	assert.Equal(t, 3, *d)

	d = stock.EstimatedDaysRemaining(decimal.Zero, decimal.NewFromInt(3))
	require.NotNil(t, d)
	assert.Equal(t, 0, *d)
}

func TestUsageFromTotal(t *testing.T) {
	assert.Equal(t, "1.5", stock.UsageFromTotal(decimal.NewFromInt(45), 30).String())
	assert.True(t, stock.UsageFromTotal(decimal.NewFromInt(45), 0).IsZero())
}
