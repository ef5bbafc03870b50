package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockItemRequest alta manual de un StockItem desde el back-office.
// Si la cantidad es positiva se registra la entrada correspondiente.
type CreateStockItemRequest struct {
	SupplyItemID  *string         `json:"supply_item_id,omitempty" validate:"omitempty,uuid"`
	SupplyBatchID *string         `json:"supply_batch_id,omitempty" validate:"omitempty,uuid"`
	LocationID    string          `json:"location_id" validate:"required,uuid"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string" example:"10"`
	UnitOfMeasure string          `json:"unit_of_measure" validate:"max=16"`
	Reference     string          `json:"reference" validate:"max=100"`
	Notes         string          `json:"notes" validate:"max=2000"`
}

// StockItemListQuery filtros de GET /api/stock/items.
type StockItemListQuery struct {
	PageRequest
	LocationID   string `query:"location_id" validate:"omitempty,uuid"`
	SupplyItemID string `query:"supply_item_id" validate:"omitempty,uuid"`
	Expiration   string `query:"expiration" validate:"omitempty,oneof=expired expiring_7 expiring_30 valid nodate"`
	LowStock     bool   `query:"low_stock"`
	Status       string `query:"status" validate:"omitempty,oneof=EXPIRED EXPIRING OUT_OF_STOCK LOW OK"`
	IdleDays     int    `query:"idle_days" validate:"omitempty,oneof=15 30 60"`
}

// ExpirationBadge texto y nivel para mostrar el vencimiento.
type ExpirationBadge struct {
	Text  string `json:"text"`
	Level string `json:"level"` // danger, warning, ok, none
}

// StockItemResponse vista consolidada de un StockItem: saldo, lote, estado e indicadores.
type StockItemResponse struct {
	ID                     string          `json:"id"`
	SupplyItemID           *string         `json:"supply_item_id,omitempty"`
	SupplyBatchID          *string         `json:"supply_batch_id,omitempty"`
	DisplayName            string          `json:"display_name"`
	SKU                    string          `json:"sku,omitempty"`
	BatchCode              string          `json:"batch_code,omitempty"`
	LocationID             string          `json:"location_id"`
	LocationName           string          `json:"location_name"`
	Quantity               decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitOfMeasure          string          `json:"unit_of_measure"`
	ExpirationDate         *time.Time      `json:"expiration_date,omitempty"`
	DaysToExpire           *int            `json:"days_to_expire,omitempty"`
	ExpirationBucket       string          `json:"expiration_bucket"`
	ExpirationBadge        ExpirationBadge `json:"expiration_badge"`
	Status                 string          `json:"status"`
	StatusLabel            string          `json:"status_label"`
	AverageDailyUsage      decimal.Decimal `json:"average_daily_usage" swaggertype:"string"`
	EstimatedDaysRemaining *int            `json:"estimated_days_remaining,omitempty"`
	TotalIn                decimal.Decimal `json:"total_in" swaggertype:"string"`
	TotalOut               decimal.Decimal `json:"total_out" swaggertype:"string"`
	TotalMovements         int             `json:"total_movements"`
	LastMovementAt         *time.Time      `json:"last_movement_at,omitempty"`
	Turnover               int             `json:"turnover"`
	IdleDays               *int            `json:"idle_days,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// StockItemListResponse lista paginada de StockItems.
type StockItemListResponse struct {
	Items []StockItemResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// RecalculateResponse saldo antes y después de reconstruirlo desde el libro.
type RecalculateResponse struct {
	StockItemID string          `json:"stock_item_id"`
	Previous    decimal.Decimal `json:"previous" swaggertype:"string"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
}

// DriftItem StockItem cuyo saldo no coincide con el agregado del libro.
type DriftItem struct {
	StockItemID string          `json:"stock_item_id"`
	Stored      decimal.Decimal `json:"stored" swaggertype:"string"`
	Ledger      decimal.Decimal `json:"ledger" swaggertype:"string"`
	Difference  decimal.Decimal `json:"difference" swaggertype:"string"`
}

// DriftReportResponse informe de conciliación.
type DriftReportResponse struct {
	Items       []DriftItem `json:"items"`
	Count       int         `json:"count"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// UpsertThresholdRequest body para PUT /api/stock/thresholds/:supply_item_id.
type UpsertThresholdRequest struct {
	MinQuantity  decimal.Decimal `json:"min_quantity" swaggertype:"string" example:"5"`
	AlertEnabled *bool           `json:"alert_enabled"`
}

// ThresholdResponse umbral de alerta de un insumo.
type ThresholdResponse struct {
	SupplyItemID string          `json:"supply_item_id"`
	MinQuantity  decimal.Decimal `json:"min_quantity" swaggertype:"string"`
	AlertEnabled bool            `json:"alert_enabled"`
}

// KardexResponse ficha de un StockItem con su historial en orden cronológico.
type KardexResponse struct {
	Item        StockItemResponse  `json:"item"`
	Movements   []MovementResponse `json:"movements"`
	GeneratedAt time.Time          `json:"generated_at"`
}
