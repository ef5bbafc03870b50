package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/internal/application/supplies"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
	domstock "github.com/jhoicas/bakery-stock-api/internal/domain/stock"
	"github.com/jhoicas/bakery-stock-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: casos de uso cableados sobre el Store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const testUser = "00000000-0000-0000-0000-0000000000aa"

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t         *testing.T
	ctx       context.Context
	store     *memory.Store
	repos     stock.Repos
	ledger    *stock.LedgerUseCase
	orch      *stock.Orchestrator
	query     *stock.QueryUseCase
	locations *stock.LocationUseCase
	supplies  *supplies.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	clock := func() time.Time { return testNow }
	orch := stock.NewOrchestrator(s, stock.FirstActiveLocation{}, nil, clock)
	return &fixture{
		t:         t,
		ctx:       context.Background(),
		store:     s,
		repos:     s.Repos(),
		ledger:    stock.NewLedgerUseCase(s, s.Repos(), nil, clock),
		orch:      orch,
		query:     stock.NewQueryUseCase(s.Repos(), domstock.DefaultStatusPolicy(), 30, clock),
		locations: stock.NewLocationUseCase(s.Repos().Locations, clock),
		supplies:  supplies.NewUseCase(s, s.Repos(), orch, nil, clock),
	}
}

func (f *fixture) location(name string) string {
	f.t.Helper()
	loc, err := f.locations.Create(f.ctx, dto.CreateLocationRequest{Name: name})
	require.NoError(f.t, err)
	return loc.ID
}

func (f *fixture) supply(sku, name string) string {
	f.t.Helper()
	it, err := f.supplies.CreateItem(f.ctx, dto.CreateSupplyItemRequest{SKU: sku, Name: name, UnitOfMeasure: "kg"})
	require.NoError(f.t, err)
	return it.ID
}

func (f *fixture) batch(supplyID, code, qty string) *dto.BatchResponse {
	f.t.Helper()
	b, err := f.supplies.CreateBatch(f.ctx, dto.CreateBatchRequest{
		SupplyItemID: supplyID, BatchCode: code, Quantity: decimal.RequireFromString(qty),
	})
	require.NoError(f.t, err)
	return b
}

// itemOfBatch StockItem del lote (en cualquier ubicación) o nil.
func (f *fixture) itemOfBatch(batchID string) *entity.StockItem {
	f.t.Helper()
	it, err := f.repos.Items.FindByBatch(f.ctx, batchID, false)
	require.NoError(f.t, err)
	return it
}

func (f *fixture) item(id string) *entity.StockItem {
	f.t.Helper()
	it, err := f.repos.Items.GetByID(f.ctx, id)
	require.NoError(f.t, err)
	require.NotNil(f.t, it)
	return it
}

// movements del item, del más antiguo al más reciente.
func (f *fixture) movements(itemID string) []*entity.StockMovement {
	f.t.Helper()
	views, _, err := f.repos.Movements.List(f.ctx, repository.MovementFilter{StockItemID: itemID})
	require.NoError(f.t, err)
	out := make([]*entity.StockMovement, 0, len(views))
	for i := len(views) - 1; i >= 0; i-- {
		out = append(out, views[i].Movement)
	}
	return out
}

func (f *fixture) record(req dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	return f.ledger.RecordMovement(f.ctx, testUser, req)
}

// stocked crea ubicación, insumo y un lote materializado con qty; devuelve (locID, batchID, itemID).
func (f *fixture) stocked(qty string) (string, string, string) {
	f.t.Helper()
	loc := f.location("Main")
	sup := f.supply("HAR-01", "Harina de trigo")
	b := f.batch(sup, "B1", qty)
	it := f.itemOfBatch(b.ID)
	require.NotNil(f.t, it)
	return loc, b.ID, it.ID
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }
