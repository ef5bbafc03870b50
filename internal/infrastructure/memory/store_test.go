package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
	"github.com/jhoicas/bakery-stock-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

var t0 = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func seedLocation(t *testing.T, r stock.Repos, id, name string, created time.Time) {
	t.Helper()
	require.NoError(t, r.Locations.Create(context.Background(), &entity.StockLocation{
		ID: id, Name: name, IsActive: true, CreatedAt: created, UpdatedAt: created,
	}))
}

func seedItem(t *testing.T, r stock.Repos, id, batchID, locID, qty string) {
	t.Helper()
	item := &entity.StockItem{ID: id, LocationID: locID, Quantity: decimal.RequireFromString(qty)}
	if batchID != "" {
		item.SupplyBatchID = &batchID
	}
	require.NoError(t, r.Items.Create(context.Background(), item))
}

func movement(id, itemID string, typ entity.MovementType, qty string, date time.Time) *entity.StockMovement {
	return &entity.StockMovement{
		ID: id, StockItemID: itemID, Type: typ, Quantity: decimal.RequireFromString(qty), Date: date,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_ErrorDescartaCambios(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(r stock.Repos) error {
		seedLocation(t, r, "loc-1", "Bodega", t0)
		return boom
	})
	require.ErrorIs(t, err, boom)

	loc, err := s.Repos().Locations.GetByID(ctx, "loc-1")
	require.NoError(t, err)
	assert.Nil(t, loc, "el rollback no debe dejar la ubicación")
}

func TestRun_ExitoPublicaCambios(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Run(ctx, func(r stock.Repos) error {
		seedLocation(t, r, "loc-1", "Bodega", t0)
		return nil
	}))

	loc, err := s.Repos().Locations.GetByID(ctx, "loc-1")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "Bodega", loc.Name)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Run(ctx, func(stock.Repos) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestLocations_FirstActiveEsLaMasAntigua(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()

	seedLocation(t, r, "loc-b", "Vitrina", t0.Add(time.Hour))
	seedLocation(t, r, "loc-a", "Bodega", t0)
	require.NoError(t, r.Locations.Update(ctx, &entity.StockLocation{ID: "loc-a", Name: "Bodega", IsActive: false, CreatedAt: t0}))

	first, err := r.Locations.FirstActive(ctx)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "loc-b", first.ID)

	active, err := r.Locations.List(ctx, true, 0, 0)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestItems_DuplicadoLoteUbicacion(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	seedLocation(t, r, "loc-1", "Bodega", t0)
	seedItem(t, r, "item-1", "batch-1", "loc-1", "0")

	err := r.Items.Create(context.Background(), &entity.StockItem{ID: "item-2", SupplyBatchID: ptr("batch-1"), LocationID: "loc-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItems_DevuelveCopias(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()
	seedLocation(t, r, "loc-1", "Bodega", t0)
	seedItem(t, r, "item-1", "", "loc-1", "5")

	got, err := r.Items.GetByID(ctx, "item-1")
	require.NoError(t, err)
	got.Quantity = decimal.NewFromInt(999)

	again, err := r.Items.GetByID(ctx, "item-1")
	require.NoError(t, err)
	assert.True(t, again.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestMovements_ListOrdenYTotal(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()
	seedLocation(t, r, "loc-1", "Bodega", t0)
	seedItem(t, r, "item-1", "", "loc-1", "0")

	require.NoError(t, r.Movements.Create(ctx, movement("m1", "item-1", entity.MovementTypeInbound, "10", t0)))
	require.NoError(t, r.Movements.Create(ctx, movement("m2", "item-1", entity.MovementTypeOutbound, "3", t0.Add(time.Hour))))
	require.NoError(t, r.Movements.Create(ctx, movement("m3", "item-1", entity.MovementTypeOutbound, "1", t0.Add(time.Hour))))

	page, total, err := r.Movements.List(ctx, repository.MovementFilter{StockItemID: "item-1", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "m3", page[0].Movement.ID, "misma fecha: el último insertado primero")
	assert.Equal(t, "m2", page[1].Movement.ID)

	outs, total, err := r.Movements.List(ctx, repository.MovementFilter{Type: entity.MovementTypeOutbound})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, outs, 2)
}

func TestMovements_RechazaCantidadNoPositiva(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	seedLocation(t, r, "loc-1", "Bodega", t0)
	seedItem(t, r, "item-1", "", "loc-1", "0")

	err := r.Movements.Create(context.Background(), movement("m1", "item-1", entity.MovementTypeInbound, "0", t0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovements_UpdateConservaFoto(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()
	seedLocation(t, r, "loc-1", "Bodega", t0)
	seedItem(t, r, "item-1", "", "loc-1", "0")

	m := movement("m1", "item-1", entity.MovementTypeInbound, "10", t0)
	before, after := decimal.Zero, decimal.NewFromInt(10)
	m.BeforeQuantity, m.AfterQuantity = &before, &after
	require.NoError(t, r.Movements.Create(ctx, m))

	upd := movement("m1", "item-1", entity.MovementTypeInbound, "12", t0)
	require.NoError(t, r.Movements.Update(ctx, upd))

	got, err := r.Movements.GetByID(ctx, "m1")
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(12)))
	require.NotNil(t, got.AfterQuantity)
	assert.True(t, got.AfterQuantity.Equal(decimal.NewFromInt(10)))
}

func TestMovements_AggregateYDrift(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()
	seedLocation(t, r, "loc-1", "Bodega", t0)
	seedItem(t, r, "item-1", "", "loc-1", "6")
	seedItem(t, r, "item-2", "", "loc-1", "0")

	require.NoError(t, r.Movements.Create(ctx, movement("m1", "item-1", entity.MovementTypeInbound, "10", t0)))
	require.NoError(t, r.Movements.Create(ctx, movement("m2", "item-1", entity.MovementTypeOutbound, "3", t0.AddDate(0, 0, 5))))
	reason := entity.AdjustmentReasonDamage
	adj := movement("m3", "item-1", entity.MovementTypeAdjustment, "1", t0.AddDate(0, 0, 6))
	adj.AdjustmentReason = &reason
	require.NoError(t, r.Movements.Create(ctx, adj))

	agg, err := r.Movements.Aggregate(ctx, "item-1", t0.AddDate(0, 0, 1), t0.AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.True(t, agg.TotalIn.Equal(decimal.NewFromInt(10)))
	assert.True(t, agg.TotalOut.Equal(decimal.NewFromInt(3)))
	assert.True(t, agg.OutboundSince.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 3, agg.Count)
	assert.Equal(t, 2, agg.RecentCount)
	require.NotNil(t, agg.LastMovementAt)
	assert.True(t, agg.LastMovementAt.Equal(t0.AddDate(0, 0, 6)))

	// item-1 guarda 6 y el libro da 7; item-2 cuadra en 0.
	rows, err := r.Items.Drifted(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "item-1", rows[0].StockItemID)
	assert.True(t, rows[0].Stored.Equal(decimal.NewFromInt(6)))
}

func TestSupplies_SKUDuplicadoYCerrojo(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()

	require.NoError(t, r.Supplies.CreateItem(ctx, &entity.SupplyItem{ID: "sup-1", SKU: "HAR-01", Name: "Harina", IsActive: true}))
	err := r.Supplies.CreateItem(ctx, &entity.SupplyItem{ID: "sup-2", SKU: "har-01", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, r.Supplies.CreateBatch(ctx, &entity.SupplyBatch{ID: "b1", SupplyItemID: "sup-1", BatchCode: "B1", IsActive: true}))
	require.NoError(t, r.Supplies.MarkStockEntryCreated(ctx, "b1"))
	// Un UpdateBatch con el flag en false no reabre el cerrojo.
	require.NoError(t, r.Supplies.UpdateBatch(ctx, &entity.SupplyBatch{ID: "b1", SupplyItemID: "sup-1", BatchCode: "B1"}))

	b, err := r.Supplies.GetBatch(ctx, "b1")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, b.StockEntryCreated)
	require.NotNil(t, b.SupplyItem)
	assert.Equal(t, "Harina", b.SupplyItem.Name)
}

func ptr[T any](v T) *T { return &v }

func TestMovements_AggregateExcluyeFechasFuturas(t *testing.T) {
	s := memory.NewStore()
	r := s.Repos()
	ctx := context.Background()
	seedLocation(t, r, "loc-1", "Bodega", t0)
	seedItem(t, r, "item-1", "", "loc-1", "10")
	now := t0.AddDate(0, 0, 10)

	require.NoError(t, r.Movements.Create(ctx, movement("m1", "item-1", entity.MovementTypeOutbound, "2", now.AddDate(0, 0, -1))))
	require.NoError(t, r.Movements.Create(ctx, movement("m2", "item-1", entity.MovementTypeOutbound, "50", now.AddDate(0, 0, 3))))

	agg, err := r.Movements.Aggregate(ctx, "item-1", now.AddDate(0, 0, -30), now)
	require.NoError(t, err)
	assert.True(t, agg.OutboundSince.Equal(decimal.NewFromInt(2)), "la salida con fecha futura no entra en la ventana")
	assert.Equal(t, 1, agg.RecentCount)
	assert.True(t, agg.TotalOut.Equal(decimal.NewFromInt(52)), "el total del libro sí la incluye")
	assert.Equal(t, 2, agg.Count)
}
