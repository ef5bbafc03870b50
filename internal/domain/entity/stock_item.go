package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem saldo actual de un lote de insumo (o de un insumo suelto) en una ubicación.
// Quantity está desnormalizada: el origen de verdad es el libro de movimientos.
type StockItem struct {
	ID                string
	SupplyItemID      *string
	SupplyBatchID     *string
	LocationID        string
	Quantity          decimal.Decimal
	UnitOfMeasure     string
	ProductionBatchID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
