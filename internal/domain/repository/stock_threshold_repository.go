package repository

import (
	"context"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

// StockThresholdRepository umbrales de alerta por insumo (uno por insumo).
type StockThresholdRepository interface {
	GetBySupplyItem(ctx context.Context, supplyItemID string) (*entity.StockThreshold, error)
	Upsert(ctx context.Context, t *entity.StockThreshold) error
	List(ctx context.Context) ([]*entity.StockThreshold, error)
}
