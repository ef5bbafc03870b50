package stock

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

// Nombres de campo usados en los rechazos (coinciden con el JSON de la API).
const (
	FieldQuantity            = "quantity"
	FieldMovementType        = "movement_type"
	FieldStockItem           = "stock_item_id"
	FieldAdjustmentReason    = "adjustment_reason"
	FieldSourceLocation      = "source_location_id"
	FieldDestinationLocation = "destination_location_id"
	FieldNotes               = "notes"
)

// MovementCheck entrada del validador.
// Available es el saldo del StockItem antes de aplicar el movimiento, leído dentro de la
// misma transacción que la escritura. En una edición, Original es la versión persistida.
type MovementCheck struct {
	Movement  *entity.StockMovement
	Available decimal.Decimal
	Original  *entity.StockMovement
}

// ValidateMovement aplica todas las reglas y devuelve un *domain.ValidationError con
// cada campo rechazado, o nil si el movimiento es legal.
func ValidateMovement(in MovementCheck) error {
	m := in.Movement
	verr := &domain.ValidationError{}

	if !m.Type.Valid() {
		verr.Add(FieldMovementType, domain.CodeInvalidType,
			fmt.Sprintf("tipo de movimiento desconocido: %q", m.Type))
	}

	if m.Quantity.LessThanOrEqual(decimal.Zero) {
		verr.Add(FieldQuantity, domain.CodeInvalidQuantity, "la cantidad debe ser mayor que cero")
	} else if in.Available.Add(SignedDelta(m)).IsNegative() {
		verr.Add(FieldQuantity, domain.CodeInsufficientStock, fmt.Sprintf(
			"stock insuficiente: la cantidad (%s) excede el stock disponible (%s)",
			m.Quantity.String(), in.Available.String()))
	}

	if m.Type == entity.MovementTypeAdjustment {
		if m.AdjustmentReason == nil || *m.AdjustmentReason == "" {
			verr.Add(FieldAdjustmentReason, domain.CodeMissingAdjustmentReason,
				"para ajustes, seleccione el motivo del ajuste")
		}
	}
	if m.AdjustmentReason != nil && *m.AdjustmentReason != "" && !m.AdjustmentReason.Valid() {
		verr.Add(FieldAdjustmentReason, domain.CodeInvalidReason,
			fmt.Sprintf("motivo de ajuste desconocido: %q", *m.AdjustmentReason))
	}

	if (m.Type == entity.MovementTypeOutbound || m.Type == entity.MovementTypeTransfer) && isBlank(m.SourceLocationID) {
		verr.Add(FieldSourceLocation, domain.CodeMissingSourceLocation,
			"campo obligatorio para este tipo de movimiento")
	}
	if (m.Type == entity.MovementTypeInbound || m.Type == entity.MovementTypeTransfer) && isBlank(m.DestinationLocationID) {
		verr.Add(FieldDestinationLocation, domain.CodeMissingDestinationLocation,
			"campo obligatorio para este tipo de movimiento")
	}

	if in.Original != nil && len(ChangedCriticalFields(in.Original, m)) > 0 && strings.TrimSpace(m.Notes) == "" {
		verr.Add(FieldNotes, domain.CodeMissingJustification,
			"justifique la alteración de campos críticos en observaciones")
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

// ChangedCriticalFields campos críticos que difieren entre la versión persistida y la propuesta.
func ChangedCriticalFields(original, proposed *entity.StockMovement) []string {
	var changed []string
	if !original.Quantity.Equal(proposed.Quantity) {
		changed = append(changed, FieldQuantity)
	}
	if original.Type != proposed.Type {
		changed = append(changed, FieldMovementType)
	}
	if original.StockItemID != proposed.StockItemID {
		changed = append(changed, FieldStockItem)
	}
	if !sameRef(original.SourceLocationID, proposed.SourceLocationID) {
		changed = append(changed, FieldSourceLocation)
	}
	if !sameRef(original.DestinationLocationID, proposed.DestinationLocationID) {
		changed = append(changed, FieldDestinationLocation)
	}
	return changed
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func sameRef(a, b *string) bool {
	if isBlank(a) || isBlank(b) {
		return isBlank(a) == isBlank(b)
	}
	return *a == *b
}
