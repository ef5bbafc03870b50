package entity

import "github.com/shopspring/decimal"

// StockThreshold mínimo de existencias por insumo para alertas de stock bajo.
type StockThreshold struct {
	SupplyItemID string
	MinQuantity  decimal.Decimal
	AlertEnabled bool
}
