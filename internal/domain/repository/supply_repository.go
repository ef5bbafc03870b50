package repository

import (
	"context"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

// SupplyRepository insumos y lotes (colaborador externo; solo lo que usa el libro).
type SupplyRepository interface {
	CreateItem(ctx context.Context, item *entity.SupplyItem) error
	GetItem(ctx context.Context, id string) (*entity.SupplyItem, error)
	// ListItems devuelve la página y el total sin paginar.
	ListItems(ctx context.Context, limit, offset int) ([]*entity.SupplyItem, int, error)

	CreateBatch(ctx context.Context, b *entity.SupplyBatch) error
	// GetBatch carga también SupplyItem si existe.
	GetBatch(ctx context.Context, id string) (*entity.SupplyBatch, error)
	GetBatchForUpdate(ctx context.Context, id string) (*entity.SupplyBatch, error)
	UpdateBatch(ctx context.Context, b *entity.SupplyBatch) error
	// MarkStockEntryCreated pone el cerrojo en true; nunca lo vuelve a false.
	MarkStockEntryCreated(ctx context.Context, batchID string) error
}
