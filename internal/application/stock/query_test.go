package stock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	domstock "github.com/jhoicas/bakery-stock-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// ItemOverview
// ──────────────────────────────────────────────────────────────────────────────

func TestItemOverview_EstadoPorVencerEIndicadores(t *testing.T) {
	f := newFixture(t)
	loc := f.location("Main")
	sup := f.supply("LEV-01", "Levadura")
	b, err := f.supplies.CreateBatch(f.ctx, dto.CreateBatchRequest{
		SupplyItemID: sup, BatchCode: "L1", Quantity: dec("100"), ExpirationDate: ptr("2026-03-13"),
	})
	require.NoError(t, err)
	item := f.itemOfBatch(b.ID)
	require.NotNil(t, item)

	_, err = f.record(dto.RecordMovementRequest{
		StockItemID: item.ID, MovementType: "OUTBOUND", Quantity: dec("15"), SourceLocationID: &loc,
	})
	require.NoError(t, err)

	ov, err := f.query.ItemOverview(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Levadura", ov.DisplayName)
	assert.Equal(t, "L1", ov.BatchCode)
	assert.Equal(t, "Main", ov.LocationName)
	require.NotNil(t, ov.DaysToExpire)
	assert.Equal(t, 3, *ov.DaysToExpire)
	assert.Equal(t, string(domstock.StatusExpiring), ov.Status)
	assert.Equal(t, "POR VENCER", ov.StatusLabel)
	assert.Equal(t, dto.ExpirationBadge{Text: "3d", Level: "warning"}, ov.ExpirationBadge)
	assert.Equal(t, domstock.BucketExpiring7, ov.ExpirationBucket)

	assert.True(t, ov.TotalIn.Equal(dec("100")))
	assert.True(t, ov.TotalOut.Equal(dec("15")))
	assert.Equal(t, 2, ov.TotalMovements)
	assert.Equal(t, 2, ov.Turnover)
	assert.True(t, ov.AverageDailyUsage.Equal(dec("0.5")))
	require.NotNil(t, ov.EstimatedDaysRemaining)
	assert.Equal(t, 170, *ov.EstimatedDaysRemaining)
	require.NotNil(t, ov.IdleDays)
	assert.Equal(t, 0, *ov.IdleDays)
}

func TestItemOverview_SinMovimientosDeSalida(t *testing.T) {
	f := newFixture(t)
	_, _, itemID := f.stocked("10")

	ov, err := f.query.ItemOverview(f.ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, string(domstock.StatusOK), ov.Status)
	assert.True(t, ov.AverageDailyUsage.IsZero())
	assert.Nil(t, ov.EstimatedDaysRemaining)
	assert.Equal(t, domstock.BucketNoDate, ov.ExpirationBucket)
	assert.Equal(t, "-", ov.ExpirationBadge.Text)
}

// ──────────────────────────────────────────────────────────────────────────────
// ListItems
// ──────────────────────────────────────────────────────────────────────────────

func TestListItems_StockBajoConUmbral(t *testing.T) {
	f := newFixture(t)
	f.location("Main")
	harina := f.supply("HAR-01", "Harina")
	azucar := f.supply("AZU-01", "Azúcar")
	f.batch(harina, "H1", "40")
	f.batch(azucar, "A1", "40")

	thresholds := stock.NewThresholdUseCase(f.repos.Thresholds, f.repos.Supplies)
	_, err := thresholds.Upsert(f.ctx, harina, dto.UpsertThresholdRequest{MinQuantity: dec("50")})
	require.NoError(t, err)

	low, err := f.query.ListItems(f.ctx, dto.StockItemListQuery{LowStock: true})
	require.NoError(t, err)
	require.Equal(t, 1, low.Page.Total)
	assert.Equal(t, "Harina", low.Items[0].DisplayName)
	assert.Equal(t, string(domstock.StatusLow), low.Items[0].Status)

	ok, err := f.query.ListItems(f.ctx, dto.StockItemListQuery{Status: "OK"})
	require.NoError(t, err)
	require.Equal(t, 1, ok.Page.Total)
	assert.Equal(t, "Azúcar", ok.Items[0].DisplayName)
}

func TestListItems_FiltroVencimientoYPaginacion(t *testing.T) {
	f := newFixture(t)
	f.location("Main")
	sup := f.supply("LEC-01", "Leche")
	for _, exp := range []string{"2026-03-01", "2026-03-12", "2026-04-01"} {
		_, err := f.supplies.CreateBatch(f.ctx, dto.CreateBatchRequest{
			SupplyItemID: sup, BatchCode: "L-" + exp, Quantity: dec("5"), ExpirationDate: ptr(exp),
		})
		require.NoError(t, err)
	}

	expired, err := f.query.ListItems(f.ctx, dto.StockItemListQuery{Expiration: domstock.BucketExpired})
	require.NoError(t, err)
	require.Equal(t, 1, expired.Page.Total)
	assert.Equal(t, string(domstock.StatusExpired), expired.Items[0].Status)

	soon, err := f.query.ListItems(f.ctx, dto.StockItemListQuery{Expiration: domstock.BucketExpiring30})
	require.NoError(t, err)
	assert.Equal(t, 2, soon.Page.Total, "expiring_30 incluye también los que vencen en 7 días")

	page, err := f.query.ListItems(f.ctx, dto.StockItemListQuery{PageRequest: dto.PageRequest{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Page.Total)
	assert.Len(t, page.Items, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestKardex_OrdenCronologico(t *testing.T) {
	f := newFixture(t)
	loc, _, itemID := f.stocked("10")
	_, err := f.record(dto.RecordMovementRequest{
		StockItemID: itemID, MovementType: "OUTBOUND", Quantity: dec("4"), SourceLocationID: &loc,
	})
	require.NoError(t, err)

	k, err := f.query.Kardex(f.ctx, itemID)
	require.NoError(t, err)
	require.Len(t, k.Movements, 2)
	assert.Equal(t, "INBOUND", k.Movements[0].MovementType)
	assert.Equal(t, "OUTBOUND", k.Movements[1].MovementType)
	assert.Equal(t, "10 → 6", k.Movements[1].BalanceChange)
	assert.True(t, k.Item.Quantity.Equal(dec("6")))
}

func TestLocationSummary(t *testing.T) {
	assert.Equal(t, "A → B", stock.LocationSummary("A", "B"))
	assert.Equal(t, "A → [Salida]", stock.LocationSummary("A", ""))
	assert.Equal(t, "[Entrada] → B", stock.LocationSummary("", "B"))
	assert.Equal(t, "-", stock.LocationSummary("", ""))
}
