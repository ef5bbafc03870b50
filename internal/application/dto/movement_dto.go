package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/stock/movements.
// La cantidad siempre es positiva; la dirección la da movement_type.
type RecordMovementRequest struct {
	StockItemID           string          `json:"stock_item_id" validate:"required,uuid"`
	MovementType          string          `json:"movement_type" validate:"required"`
	Quantity              decimal.Decimal `json:"quantity" swaggertype:"string" example:"2.500"`
	Date                  *time.Time      `json:"date,omitempty"`
	AdjustmentReason      *string         `json:"adjustment_reason,omitempty"`
	SourceLocationID      *string         `json:"source_location_id,omitempty" validate:"omitempty,uuid"`
	DestinationLocationID *string         `json:"destination_location_id,omitempty" validate:"omitempty,uuid"`
	Reference             string          `json:"reference" validate:"max=100"`
	Notes                 string          `json:"notes" validate:"max=2000"`
	ProductionOrderID     *string         `json:"production_order_id,omitempty" validate:"omitempty,uuid"`
}

// EditMovementRequest body para PUT /api/stock/movements/:id (reemplazo completo).
// stock_item_id vacío conserva el del movimiento original.
type EditMovementRequest struct {
	StockItemID           string          `json:"stock_item_id" validate:"omitempty,uuid"`
	MovementType          string          `json:"movement_type" validate:"required"`
	Quantity              decimal.Decimal `json:"quantity" swaggertype:"string" example:"2.500"`
	Date                  *time.Time      `json:"date,omitempty"`
	AdjustmentReason      *string         `json:"adjustment_reason,omitempty"`
	SourceLocationID      *string         `json:"source_location_id,omitempty" validate:"omitempty,uuid"`
	DestinationLocationID *string         `json:"destination_location_id,omitempty" validate:"omitempty,uuid"`
	Reference             string          `json:"reference" validate:"max=100"`
	Notes                 string          `json:"notes" validate:"max=2000"`
	ProductionOrderID     *string         `json:"production_order_id,omitempty" validate:"omitempty,uuid"`
}

// TransferRequest body para POST /api/stock/transfers.
type TransferRequest struct {
	StockItemID           string          `json:"stock_item_id" validate:"required,uuid"`
	DestinationLocationID string          `json:"destination_location_id" validate:"required,uuid"`
	Quantity              decimal.Decimal `json:"quantity" swaggertype:"string" example:"1"`
	Date                  *time.Time      `json:"date,omitempty"`
	Reference             string          `json:"reference" validate:"max=100"`
	Notes                 string          `json:"notes" validate:"max=2000"`
}

// MovementListQuery filtros de GET /api/stock/movements.
type MovementListQuery struct {
	PageRequest
	StockItemID           string `query:"stock_item_id" validate:"omitempty,uuid"`
	MovementType          string `query:"movement_type"`
	AdjustmentReason      string `query:"adjustment_reason"`
	SourceLocationID      string `query:"source_location_id" validate:"omitempty,uuid"`
	DestinationLocationID string `query:"destination_location_id" validate:"omitempty,uuid"`
	RecentDays            int    `query:"recent_days" validate:"omitempty,oneof=7 30 90"`
}

// MovementResponse movimiento con los campos de presentación del historial.
type MovementResponse struct {
	ID                      string           `json:"id"`
	StockItemID             string           `json:"stock_item_id"`
	ItemName                string           `json:"item_name"`
	BatchCode               string           `json:"batch_code"`
	MovementType            string           `json:"movement_type"`
	MovementTypeLabel       string           `json:"movement_type_label"`
	Quantity                decimal.Decimal  `json:"quantity" swaggertype:"string"`
	Date                    time.Time        `json:"date"`
	AdjustmentReason        *string          `json:"adjustment_reason,omitempty"`
	AdjustmentReasonLabel   string           `json:"adjustment_reason_label,omitempty"`
	SourceLocationID        *string          `json:"source_location_id,omitempty"`
	SourceLocationName      string           `json:"source_location_name,omitempty"`
	DestinationLocationID   *string          `json:"destination_location_id,omitempty"`
	DestinationLocationName string           `json:"destination_location_name,omitempty"`
	LocationSummary         string           `json:"location_summary"`
	BeforeQuantity          *decimal.Decimal `json:"before_quantity,omitempty" swaggertype:"string"`
	AfterQuantity           *decimal.Decimal `json:"after_quantity,omitempty" swaggertype:"string"`
	BalanceChange           string           `json:"balance_change"`
	Reference               string           `json:"reference"`
	Notes                   string           `json:"notes"`
	ProductionOrderID       *string          `json:"production_order_id,omitempty"`
	TransferID              *string          `json:"transfer_id,omitempty"`
	CreatedBy               string           `json:"created_by"`
	CreatedAt               time.Time        `json:"created_at"`
	UpdatedAt               time.Time        `json:"updated_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// TransferResponse los dos movimientos que genera un traslado.
type TransferResponse struct {
	Outbound MovementResponse `json:"outbound"`
	Inbound  MovementResponse `json:"inbound"`
}

// MovementRevisionResponse versión anterior de un movimiento editado.
type MovementRevisionResponse struct {
	ID                    string          `json:"id"`
	MovementID            string          `json:"movement_id"`
	StockItemID           string          `json:"stock_item_id"`
	MovementType          string          `json:"movement_type"`
	Quantity              decimal.Decimal `json:"quantity" swaggertype:"string"`
	SourceLocationID      *string         `json:"source_location_id,omitempty"`
	DestinationLocationID *string         `json:"destination_location_id,omitempty"`
	ChangedFields         []string        `json:"changed_fields"`
	Reason                string          `json:"reason"`
	ChangedBy             string          `json:"changed_by"`
	ChangedAt             time.Time       `json:"changed_at"`
}
