package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplyItemRequest alta de un insumo del catálogo.
type CreateSupplyItemRequest struct {
	SKU           string `json:"sku" validate:"required,min=1,max=50"`
	Name          string `json:"name" validate:"required,min=1,max=200"`
	UnitOfMeasure string `json:"unit_of_measure" validate:"required,max=16"`
}

// SupplyItemResponse insumo del catálogo.
type SupplyItemResponse struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	UnitOfMeasure string    `json:"unit_of_measure"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// SupplyItemListResponse lista paginada de insumos.
type SupplyItemListResponse struct {
	Items []SupplyItemResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// CreateBatchRequest alta de un lote. expiration_date en formato AAAA-MM-DD.
type CreateBatchRequest struct {
	SupplyItemID   string          `json:"supply_item_id" validate:"required,uuid"`
	BatchCode      string          `json:"batch_code" validate:"required,min=1,max=50"`
	Quantity       decimal.Decimal `json:"quantity" swaggertype:"string" example:"25"`
	ExpirationDate *string         `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsActive       *bool           `json:"is_active,omitempty"`
}

// UpdateBatchRequest actualización de un lote. No genera existencias.
type UpdateBatchRequest struct {
	Quantity       *decimal.Decimal `json:"quantity,omitempty" swaggertype:"string"`
	ExpirationDate *string          `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// BatchResponse lote de insumo. StockCreated indica si la alta generó existencias en esta llamada.
type BatchResponse struct {
	ID                string          `json:"id"`
	SupplyItemID      string          `json:"supply_item_id"`
	SupplyItemName    string          `json:"supply_item_name,omitempty"`
	BatchCode         string          `json:"batch_code"`
	Quantity          decimal.Decimal `json:"quantity" swaggertype:"string"`
	ExpirationDate    *string         `json:"expiration_date,omitempty"`
	IsActive          bool            `json:"is_active"`
	StockEntryCreated bool            `json:"stock_entry_created"`
	StockCreated      bool            `json:"stock_created"`
	CreatedAt         time.Time       `json:"created_at"`
}

// ForceEntryRequest body de POST /api/supplies/batches/:id/force-entry.
type ForceEntryRequest struct {
	LocationID *string `json:"location_id,omitempty" validate:"omitempty,uuid"`
}

// ForceEntryResponse resultado de forzar la entrada de un lote.
type ForceEntryResponse struct {
	BatchID string `json:"batch_id"`
	Applied bool   `json:"applied"`
}
