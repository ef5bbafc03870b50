// Package stock contiene los servicios de dominio puros del libro de existencias:
// dirección de los movimientos, validación previa al commit, evaluación de estado
// y proyección de consumo. No depende de persistencia.
package stock

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

// IsInbound tipos que suman al saldo (entrada y producto terminado).
func IsInbound(t entity.MovementType) bool {
	return t == entity.MovementTypeInbound || t == entity.MovementTypeProductionOutput
}

// IsOutbound tipos que restan del saldo (salida, consumo en producción y traslado).
func IsOutbound(t entity.MovementType) bool {
	switch t {
	case entity.MovementTypeOutbound, entity.MovementTypeProductionInput, entity.MovementTypeTransfer:
		return true
	}
	return false
}

// SignedDelta efecto del movimiento sobre el saldo del StockItem.
// Los ajustes codifican el signo en las ubicaciones: solo destino suma, solo origen resta;
// con ambas o ninguna el efecto es nulo.
func SignedDelta(m *entity.StockMovement) decimal.Decimal {
	switch {
	case IsInbound(m.Type):
		return m.Quantity
	case IsOutbound(m.Type):
		return m.Quantity.Neg()
	case m.Type == entity.MovementTypeAdjustment:
		hasSrc := m.SourceLocationID != nil
		hasDst := m.DestinationLocationID != nil
		if hasDst && !hasSrc {
			return m.Quantity
		}
		if hasSrc && !hasDst {
			return m.Quantity.Neg()
		}
	}
	return decimal.Zero
}

// LedgerTotals agregados del libro por clase de tipo.
type LedgerTotals struct {
	TotalIn  decimal.Decimal
	TotalOut decimal.Decimal
}

// Balance saldo reconstruido: entradas menos salidas.
func (t LedgerTotals) Balance() decimal.Decimal {
	return t.TotalIn.Sub(t.TotalOut)
}

// Totals agrega una lista de movimientos. Los ajustes no forman parte del agregado.
func Totals(movements []*entity.StockMovement) LedgerTotals {
	totals := LedgerTotals{TotalIn: decimal.Zero, TotalOut: decimal.Zero}
	for _, m := range movements {
		switch {
		case IsInbound(m.Type):
			totals.TotalIn = totals.TotalIn.Add(m.Quantity)
		case IsOutbound(m.Type):
			totals.TotalOut = totals.TotalOut.Add(m.Quantity)
		}
	}
	return totals
}
