package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

// StockItemView StockItem con los datos de lote, insumo, ubicación y umbral que necesita la consulta.
type StockItemView struct {
	Item           *entity.StockItem
	SupplyItemName string
	SupplyItemSKU  string
	BatchCode      string
	ExpirationDate *time.Time
	LocationName   string
	Threshold      *entity.StockThreshold
}

// DisplayName nombre del insumo o, si no hay, el código de lote.
func (v *StockItemView) DisplayName() string {
	if v.SupplyItemName != "" {
		return v.SupplyItemName
	}
	if v.BatchCode != "" {
		return v.BatchCode
	}
	return v.Item.ID
}

// StockItemFilter filtros del listado. Expiration es uno de los buckets de stock.Bucket*
// y se evalúa contra Today.
type StockItemFilter struct {
	LocationID   string
	SupplyItemID string
	Expiration   string
	Today        time.Time
}

// DriftRow StockItem cuyo saldo guardado difiere del agregado del libro.
type DriftRow struct {
	StockItemID string
	Stored      decimal.Decimal
	TotalIn     decimal.Decimal
	TotalOut    decimal.Decimal
}

// StockItemRepository puerto de persistencia para StockItem.
// Usado dentro de transacciones: GetForUpdate y las variantes forUpdate bloquean la fila.
type StockItemRepository interface {
	// Create falla con domain.ErrDuplicate si ya existe el par (lote, ubicación).
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error)
	FindByBatchAndLocation(ctx context.Context, batchID, locationID string, forUpdate bool) (*entity.StockItem, error)
	// FindByBatch primer StockItem del lote en cualquier ubicación (orden created_at).
	FindByBatch(ctx context.Context, batchID string, forUpdate bool) (*entity.StockItem, error)
	// FindFreestanding StockItem sin lote de un insumo en una ubicación.
	FindFreestanding(ctx context.Context, supplyItemID, locationID string, forUpdate bool) (*entity.StockItem, error)
	UpdateQuantity(ctx context.Context, id string, qty decimal.Decimal) error
	GetView(ctx context.Context, id string) (*StockItemView, error)
	ListViews(ctx context.Context, f StockItemFilter) ([]*StockItemView, error)
	// Drifted agregado INBOUND+PRODUCTION_OUTPUT menos OUTBOUND+PRODUCTION_INPUT+TRANSFER distinto del saldo.
	Drifted(ctx context.Context) ([]*DriftRow, error)
}
