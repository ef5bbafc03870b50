package repository

import (
	"context"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

// StockLocationRepository define el puerto de persistencia para StockLocation (DIP).
// No hay Delete: los movimientos conservan la referencia hasta que la BD la anule.
type StockLocationRepository interface {
	Create(ctx context.Context, loc *entity.StockLocation) error
	GetByID(ctx context.Context, id string) (*entity.StockLocation, error)
	Update(ctx context.Context, loc *entity.StockLocation) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.StockLocation, error)
	// FirstActive devuelve la ubicación activa más antigua (created_at, id) o nil si no hay.
	FirstActive(ctx context.Context) (*entity.StockLocation, error)
}
