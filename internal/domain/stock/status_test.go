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

var today = time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

func daysFromToday(n int) *time.Time {
	d := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
	return &d
}

func TestEvaluate_Precedencia(t *testing.T) {
	p := stock.DefaultStatusPolicy()
	threshold := &entity.StockThreshold{MinQuantity: decimal.NewFromInt(20), AlertEnabled: true}

	cases := []struct {
		name string
		in   stock.StatusInput
		want stock.Status
	}{
		{"vencido gana a agotado", stock.StatusInput{Quantity: decimal.Zero, ExpirationDate: daysFromToday(-1)}, stock.StatusExpired},
		{"vence hoy es por vencer", stock.StatusInput{Quantity: decimal.NewFromInt(100), ExpirationDate: daysFromToday(0)}, stock.StatusExpiring},
		{"vence en 7 días es por vencer", stock.StatusInput{Quantity: decimal.NewFromInt(100), ExpirationDate: daysFromToday(7)}, stock.StatusExpiring},
		{"por vencer gana a bajo", stock.StatusInput{Quantity: decimal.NewFromInt(1), ExpirationDate: daysFromToday(3), Threshold: threshold}, stock.StatusExpiring},
		{"agotado", stock.StatusInput{Quantity: decimal.Zero, ExpirationDate: daysFromToday(8)}, stock.StatusOutOfStock},
		{"bajo según umbral", stock.StatusInput{Quantity: decimal.NewFromInt(19), Threshold: threshold}, stock.StatusLow},
		{"en el umbral es OK", stock.StatusInput{Quantity: decimal.NewFromInt(20), Threshold: threshold}, stock.StatusOK},
		{"sin umbral usa mínimo 5", stock.StatusInput{Quantity: decimal.RequireFromString("4.9")}, stock.StatusLow},
		{"sin umbral y sin lote", stock.StatusInput{Quantity: decimal.NewFromInt(5)}, stock.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Today = today
			assert.Equal(t, tc.want, p.Evaluate(tc.in))
		})
	}
}

func TestEvaluate_UmbralDeshabilitadoUsaMinimoPorDefecto(t *testing.T) {
	p := stock.DefaultStatusPolicy()
	off := &entity.StockThreshold{MinQuantity: decimal.NewFromInt(50), AlertEnabled: false}
	assert.Equal(t, stock.StatusOK, p.Evaluate(stock.StatusInput{Quantity: decimal.NewFromInt(10), Threshold: off, Today: today}))
	assert.Equal(t, stock.StatusLow, p.Evaluate(stock.StatusInput{Quantity: decimal.NewFromInt(3), Threshold: off, Today: today}))
}

// El vencimiento manda sobre el resto aunque haya stock de sobra.
func TestEvaluate_VencidoSiempreGana(t *testing.T) {
	p := stock.DefaultStatusPolicy()
	for _, qty := range []int64{0, 1, 1000} {
		got := p.Evaluate(stock.StatusInput{Quantity: decimal.NewFromInt(qty), ExpirationDate: daysFromToday(-30), Today: today})
		assert.Equal(t, stock.StatusExpired, got)
	}
}

func TestDaysToExpire(t *testing.T) {
	assert.Nil(t, stock.DaysToExpire(nil, today))

	d := stock.DaysToExpire(daysFromToday(5), today)
	require.NotNil(t, d)
	assert.Equal(t, 5, *d)

	d = stock.DaysToExpire(daysFromToday(-2), today)
	require.NotNil(t, d)
	assert.Equal(t, -2, *d)
}

func TestExpirationBucket(t *testing.T) {
	i := func(v int) *int { return &v }
	assert.Equal(t, stock.BucketNoDate, stock.ExpirationBucket(nil))
	assert.Equal(t, stock.BucketExpired, stock.ExpirationBucket(i(-1)))
	assert.Equal(t, stock.BucketExpiring7, stock.ExpirationBucket(i(0)))
	assert.Equal(t, stock.BucketExpiring7, stock.ExpirationBucket(i(7)))
	assert.Equal(t, stock.BucketExpiring30, stock.ExpirationBucket(i(8)))
	assert.Equal(t, stock.BucketValid, stock.ExpirationBucket(i(31)))
}

func TestIdleDays(t *testing.T) {
	assert.Nil(t, stock.IdleDays(nil, today))
	last := today.AddDate(0, 0, -12)
	d := stock.IdleDays(&last, today)
	require.NotNil(t, d)
	assert.Equal(t, 12, *d)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "VENCIDO", stock.StatusExpired.Label())
	assert.Equal(t, "EN ALERTA", stock.StatusLow.Label())
}

func TestMatchesExpirationFilter(t *testing.T) {
	i := func(v int) *int { return &v }
	assert.True(t, stock.MatchesExpirationFilter("", nil))
	assert.True(t, stock.MatchesExpirationFilter(stock.BucketNoDate, nil))
	assert.False(t, stock.MatchesExpirationFilter(stock.BucketExpired, nil))
	assert.True(t, stock.MatchesExpirationFilter(stock.BucketExpiring30, i(3)), "30 días incluye los de 7")
	assert.False(t, stock.MatchesExpirationFilter(stock.BucketExpiring7, i(8)))
	assert.True(t, stock.MatchesExpirationFilter(stock.BucketValid, i(31)))
	assert.False(t, stock.MatchesExpirationFilter("otro", i(1)))
}
