package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento de existencias. La dirección la da el tipo, nunca el signo.
type MovementType string

const (
	MovementTypeInbound          MovementType = "INBOUND"           // entrada
	MovementTypeOutbound         MovementType = "OUTBOUND"          // salida
	MovementTypeTransfer         MovementType = "TRANSFER"          // traslado entre ubicaciones
	MovementTypeAdjustment       MovementType = "ADJUSTMENT"        // ajuste manual (requiere motivo)
	MovementTypeProductionInput  MovementType = "PRODUCTION_INPUT"  // consumo en producción
	MovementTypeProductionOutput MovementType = "PRODUCTION_OUTPUT" // producto terminado
)

// MovementTypes lista todos los tipos válidos en orden de presentación.
var MovementTypes = []MovementType{
	MovementTypeInbound,
	MovementTypeOutbound,
	MovementTypeTransfer,
	MovementTypeAdjustment,
	MovementTypeProductionInput,
	MovementTypeProductionOutput,
}

var movementTypeLabels = map[MovementType]string{
	MovementTypeInbound:          "Entrada",
	MovementTypeOutbound:         "Salida",
	MovementTypeTransfer:         "Traslado",
	MovementTypeAdjustment:       "Ajuste",
	MovementTypeProductionInput:  "Producción",
	MovementTypeProductionOutput: "Producto terminado",
}

// Valid indica si el tipo es conocido.
func (t MovementType) Valid() bool {
	_, ok := movementTypeLabels[t]
	return ok
}

// Label nombre legible del tipo.
func (t MovementType) Label() string {
	if l, ok := movementTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// AdjustmentReason motivo de un ajuste manual.
type AdjustmentReason string

const (
	AdjustmentReasonInventoryError AdjustmentReason = "INVENTORY_ERROR"
	AdjustmentReasonDamage         AdjustmentReason = "DAMAGE"
	AdjustmentReasonTheft          AdjustmentReason = "THEFT"
	AdjustmentReasonSample         AdjustmentReason = "SAMPLE"
	AdjustmentReasonAdminEdit      AdjustmentReason = "ADMIN_EDIT"
	AdjustmentReasonOther          AdjustmentReason = "OTHER"
)

var adjustmentReasonLabels = map[AdjustmentReason]string{
	AdjustmentReasonInventoryError: "Error de inventario",
	AdjustmentReasonDamage:         "Avería",
	AdjustmentReasonTheft:          "Hurto",
	AdjustmentReasonSample:         "Muestra técnica",
	AdjustmentReasonAdminEdit:      "Ajuste manual vía admin",
	AdjustmentReasonOther:          "Otro",
}

// Valid indica si el motivo es conocido.
func (r AdjustmentReason) Valid() bool {
	_, ok := adjustmentReasonLabels[r]
	return ok
}

// Label nombre legible del motivo.
func (r AdjustmentReason) Label() string {
	if l, ok := adjustmentReasonLabels[r]; ok {
		return l
	}
	return string(r)
}

// StockMovement registro de auditoría de un cambio de cantidad sobre un StockItem.
// BeforeQuantity/AfterQuantity son una foto tomada al escribir y no se recalculan.
type StockMovement struct {
	ID                    string
	StockItemID           string
	Type                  MovementType
	Quantity              decimal.Decimal // siempre > 0
	Date                  time.Time
	AdjustmentReason      *AdjustmentReason
	SourceLocationID      *string
	DestinationLocationID *string
	Reference             string
	Notes                 string
	ProductionOrderID     *string
	TransferID            *string // compartido por las dos patas de un traslado
	BeforeQuantity        *decimal.Decimal
	AfterQuantity         *decimal.Decimal
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// StockMovementRevision versión anterior de un movimiento editado por un administrador.
type StockMovementRevision struct {
	ID                    string
	MovementID            string
	StockItemID           string
	Type                  MovementType
	Quantity              decimal.Decimal
	SourceLocationID      *string
	DestinationLocationID *string
	ChangedFields         []string
	Reason                string
	ChangedBy             string
	ChangedAt             time.Time
}
