package supplies_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/internal/application/supplies"
	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/infrastructure/memory"
)

// failingTrigger simula un fallo al materializar el lote.
type failingTrigger struct {
	batchID string
}

func (f *failingTrigger) AutoAddToStockInTx(_ context.Context, _ stock.Repos, b *entity.SupplyBatch) (bool, error) {
	f.batchID = b.ID
	return false, errors.New("fallo al materializar")
}

func clock() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

func TestCreateBatch_FalloDelDisparadorRevierteElLote(t *testing.T) {
	s := memory.NewStore()
	trigger := &failingTrigger{}
	uc := supplies.NewUseCase(s, s.Repos(), trigger, nil, clock)
	ctx := context.Background()

	sup, err := uc.CreateItem(ctx, dto.CreateSupplyItemRequest{SKU: "HAR-01", Name: "Harina", UnitOfMeasure: "kg"})
	require.NoError(t, err)

	_, err = uc.CreateBatch(ctx, dto.CreateBatchRequest{SupplyItemID: sup.ID, BatchCode: "B1", Quantity: decimal.NewFromInt(10)})
	require.Error(t, err)
	require.NotEmpty(t, trigger.batchID)

	_, err = uc.GetBatch(ctx, trigger.batchID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "el lote no debe quedar creado")
}

func TestCreateBatch_SinDisparador(t *testing.T) {
	s := memory.NewStore()
	uc := supplies.NewUseCase(s, s.Repos(), nil, nil, clock)
	ctx := context.Background()

	sup, err := uc.CreateItem(ctx, dto.CreateSupplyItemRequest{SKU: "HAR-01", Name: "Harina", UnitOfMeasure: "kg"})
	require.NoError(t, err)

	exp := "2026-06-30"
	b, err := uc.CreateBatch(ctx, dto.CreateBatchRequest{
		SupplyItemID: sup.ID, BatchCode: " B1 ", Quantity: decimal.NewFromInt(10), ExpirationDate: &exp,
	})
	require.NoError(t, err)
	assert.Equal(t, "B1", b.BatchCode)
	assert.Equal(t, "Harina", b.SupplyItemName)
	require.NotNil(t, b.ExpirationDate)
	assert.Equal(t, exp, *b.ExpirationDate)
	assert.False(t, b.StockCreated)
}

func TestCreateBatch_InsumoInexistente(t *testing.T) {
	s := memory.NewStore()
	uc := supplies.NewUseCase(s, s.Repos(), nil, nil, clock)

	_, err := uc.CreateBatch(context.Background(), dto.CreateBatchRequest{SupplyItemID: "no-existe", BatchCode: "B1", Quantity: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateBatch_FechaInvalida(t *testing.T) {
	s := memory.NewStore()
	uc := supplies.NewUseCase(s, s.Repos(), nil, nil, clock)

	bad := "30/06/2026"
	_, err := uc.CreateBatch(context.Background(), dto.CreateBatchRequest{SupplyItemID: "x", BatchCode: "B1", ExpirationDate: &bad})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.True(t, verr.Has(domain.CodeInvalidDate))
}

func TestCreateItem_SKUDuplicado(t *testing.T) {
	s := memory.NewStore()
	uc := supplies.NewUseCase(s, s.Repos(), nil, nil, clock)
	ctx := context.Background()

	_, err := uc.CreateItem(ctx, dto.CreateSupplyItemRequest{SKU: "HAR-01", Name: "Harina", UnitOfMeasure: "kg"})
	require.NoError(t, err)
	_, err = uc.CreateItem(ctx, dto.CreateSupplyItemRequest{SKU: "HAR-01", Name: "Otra", UnitOfMeasure: "kg"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestListItems_TotalSinPaginar(t *testing.T) {
	s := memory.NewStore()
	uc := supplies.NewUseCase(s, s.Repos(), nil, nil, clock)
	ctx := context.Background()

	for _, name := range []string{"Azúcar", "Harina", "Levadura"} {
		_, err := uc.CreateItem(ctx, dto.CreateSupplyItemRequest{SKU: name, Name: name, UnitOfMeasure: "kg"})
		require.NoError(t, err)
	}

	page, err := uc.ListItems(ctx, dto.PageRequest{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Page.Total)
	assert.Equal(t, "Azúcar", page.Items[0].Name)

	last, err := uc.ListItems(ctx, dto.PageRequest{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.Equal(t, 3, last.Page.Total)
}
