package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

// MovementFilter filtros del historial. Los campos vacíos no filtran; Limit <= 0 no pagina.
type MovementFilter struct {
	StockItemID           string
	Type                  entity.MovementType
	AdjustmentReason      entity.AdjustmentReason
	SourceLocationID      string
	DestinationLocationID string
	Since                 *time.Time
	Limit                 int
	Offset                int
}

// MovementView movimiento con los nombres que se muestran en el historial.
type MovementView struct {
	Movement                *entity.StockMovement
	SupplyItemName          string
	BatchCode               string
	SourceLocationName      string
	DestinationLocationName string
}

// MovementAggregate agregados del libro de un StockItem.
// OutboundSince y RecentCount cuentan solo los movimientos fechados en [since, until].
type MovementAggregate struct {
	TotalIn        decimal.Decimal
	TotalOut       decimal.Decimal
	OutboundSince  decimal.Decimal
	Count          int
	RecentCount    int
	LastMovementAt *time.Time
}

// StockMovementRepository puerto de persistencia del libro de movimientos. No hay Delete.
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error)
	// GetPairedLeg otra pata del traslado transferID (distinta de movementID), bloqueada; nil si no hay.
	GetPairedLeg(ctx context.Context, transferID, movementID string) (*entity.StockMovement, error)
	// Update reescribe los campos editables; before/after no se tocan.
	Update(ctx context.Context, m *entity.StockMovement) error
	// List devuelve la página (más recientes primero) y el total sin paginar.
	List(ctx context.Context, f MovementFilter) ([]*MovementView, int, error)
	Aggregate(ctx context.Context, stockItemID string, since, until time.Time) (*MovementAggregate, error)
	CreateRevision(ctx context.Context, rev *entity.StockMovementRevision) error
	ListRevisions(ctx context.Context, movementID string) ([]*entity.StockMovementRevision, error)
}
