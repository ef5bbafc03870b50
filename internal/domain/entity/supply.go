package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyItem insumo del catálogo (colaborador externo; solo los campos que lee el libro).
type SupplyItem struct {
	ID            string
	SKU           string
	Name          string
	UnitOfMeasure string
	IsActive      bool
	CreatedAt     time.Time
}

// SupplyBatch lote recibido de un insumo.
// StockEntryCreated es un cerrojo de un solo sentido: una vez en true no vuelve a false.
type SupplyBatch struct {
	ID                string
	SupplyItemID      string
	SupplyItem        *SupplyItem
	BatchCode         string
	Quantity          decimal.Decimal
	ExpirationDate    *time.Time
	IsActive          bool
	StockEntryCreated bool
	CreatedAt         time.Time
}
