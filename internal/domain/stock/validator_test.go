package stock_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/stock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func validate(t *testing.T, m *entity.StockMovement, available string) *domain.ValidationError {
	t.Helper()
	err := stock.ValidateMovement(stock.MovementCheck{Movement: m, Available: decimal.RequireFromString(available)})
	if err == nil {
		return nil
	}
	verr, ok := domain.AsValidation(err)
	require.True(t, ok, "el validador siempre devuelve *domain.ValidationError")
	return verr
}

func outbound(qty string) *entity.StockMovement {
	m := mov(entity.MovementTypeOutbound, qty)
	m.StockItemID = "item-1"
	m.SourceLocationID = ptr("loc-1")
	return m
}

func inbound(qty string) *entity.StockMovement {
	m := mov(entity.MovementTypeInbound, qty)
	m.StockItemID = "item-1"
	m.DestinationLocationID = ptr("loc-1")
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla 1: stock insuficiente
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_SalidaMayorQueDisponible_Rechaza(t *testing.T) {
	verr := validate(t, outbound("15"), "10")
	require.NotNil(t, verr)

	f, ok := verr.Field(stock.FieldQuantity)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInsufficientStock, f.Code)
	assert.Contains(t, f.Message, "15")
	assert.Contains(t, f.Message, "10")
	assert.True(t, errors.Is(verr, domain.ErrInsufficientStock))
	assert.True(t, errors.Is(verr, domain.ErrInvalidInput))
}

func TestValidate_SalidaIgualAlDisponible_Acepta(t *testing.T) {
	assert.Nil(t, validate(t, outbound("10"), "10"))
}

func TestValidate_ConsumoYTrasladoTambienRequierenStock(t *testing.T) {
	prod := mov(entity.MovementTypeProductionInput, "3")
	verr := validate(t, prod, "2")
	require.NotNil(t, verr)
	assert.True(t, verr.Has(domain.CodeInsufficientStock))

	tr := mov(entity.MovementTypeTransfer, "3")
	tr.SourceLocationID = ptr("a")
	tr.DestinationLocationID = ptr("b")
	verr = validate(t, tr, "2")
	require.NotNil(t, verr)
	assert.True(t, verr.Has(domain.CodeInsufficientStock))
}

func TestValidate_AjusteNegativoNoDejaSaldoNegativo(t *testing.T) {
	adj := mov(entity.MovementTypeAdjustment, "5")
	adj.AdjustmentReason = ptr(entity.AdjustmentReasonDamage)
	adj.SourceLocationID = ptr("loc-1")

	verr := validate(t, adj, "4")
	require.NotNil(t, verr)
	assert.True(t, verr.Has(domain.CodeInsufficientStock))

	assert.Nil(t, validate(t, adj, "5"))
}

func TestValidate_EntradaSobreSaldoCero_Acepta(t *testing.T) {
	assert.Nil(t, validate(t, inbound("3"), "0"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla 2: cantidad positiva
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_CantidadNoPositiva(t *testing.T) {
	for _, q := range []string{"0", "-1"} {
		verr := validate(t, inbound(q), "10")
		require.NotNil(t, verr, q)
		f, ok := verr.Field(stock.FieldQuantity)
		require.True(t, ok)
		assert.Equal(t, domain.CodeInvalidQuantity, f.Code)
		assert.False(t, verr.Has(domain.CodeInsufficientStock))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reglas 3-5: motivo y ubicaciones obligatorias
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_AjusteSinMotivo(t *testing.T) {
	adj := mov(entity.MovementTypeAdjustment, "1")
	adj.DestinationLocationID = ptr("loc-1")

	verr := validate(t, adj, "0")
	require.NotNil(t, verr)
	f, ok := verr.Field(stock.FieldAdjustmentReason)
	require.True(t, ok)
	assert.Equal(t, domain.CodeMissingAdjustmentReason, f.Code)
}

func TestValidate_MotivoDesconocido(t *testing.T) {
	adj := mov(entity.MovementTypeAdjustment, "1")
	adj.AdjustmentReason = ptr(entity.AdjustmentReason("MAGIA"))

	verr := validate(t, adj, "0")
	require.NotNil(t, verr)
	assert.True(t, verr.Has(domain.CodeInvalidReason))
}

func TestValidate_SalidaSinOrigen(t *testing.T) {
	m := outbound("1")
	m.SourceLocationID = nil
	verr := validate(t, m, "10")
	require.NotNil(t, verr)
	f, ok := verr.Field(stock.FieldSourceLocation)
	require.True(t, ok)
	assert.Equal(t, domain.CodeMissingSourceLocation, f.Code)
}

func TestValidate_EntradaSinDestino(t *testing.T) {
	m := inbound("1")
	m.DestinationLocationID = ptr("  ")
	verr := validate(t, m, "10")
	require.NotNil(t, verr)
	assert.True(t, verr.Has(domain.CodeMissingDestinationLocation))
}

func TestValidate_TrasladoSinUbicaciones_ReportaAmbosCampos(t *testing.T) {
	verr := validate(t, mov(entity.MovementTypeTransfer, "1"), "10")
	require.NotNil(t, verr)
	assert.True(t, verr.Has(domain.CodeMissingSourceLocation))
	assert.True(t, verr.Has(domain.CodeMissingDestinationLocation))
}

func TestValidate_TipoDesconocido(t *testing.T) {
	verr := validate(t, mov(entity.MovementType("ROBO"), "1"), "10")
	require.NotNil(t, verr)
	assert.True(t, verr.Has(domain.CodeInvalidType))
}

func TestValidate_AcumulaTodosLosRechazos(t *testing.T) {
	m := mov(entity.MovementTypeOutbound, "50")
	verr := validate(t, m, "1")
	require.NotNil(t, verr)
	assert.Len(t, verr.Fields, 2)
	assert.True(t, verr.Has(domain.CodeInsufficientStock))
	assert.True(t, verr.Has(domain.CodeMissingSourceLocation))
}

// ──────────────────────────────────────────────────────────────────────────────
// Regla 6: justificación en ediciones
// ──────────────────────────────────────────────────────────────────────────────

func TestValidate_EdicionCriticaSinNotas_Rechaza(t *testing.T) {
	original := inbound("10")
	proposed := inbound("12")

	err := stock.ValidateMovement(stock.MovementCheck{
		Movement: proposed, Available: decimal.NewFromInt(0), Original: original,
	})
	verr, ok := domain.AsValidation(err)
	require.True(t, ok)
	f, ok := verr.Field(stock.FieldNotes)
	require.True(t, ok)
	assert.Equal(t, domain.CodeMissingJustification, f.Code)
}

func TestValidate_EdicionCriticaConNotas_Acepta(t *testing.T) {
	original := inbound("10")
	proposed := inbound("12")
	proposed.Notes = "conteo físico corregido"

	err := stock.ValidateMovement(stock.MovementCheck{
		Movement: proposed, Available: decimal.NewFromInt(0), Original: original,
	})
	assert.NoError(t, err)
}

func TestValidate_EdicionSoloReferencia_NoRequiereNotas(t *testing.T) {
	original := inbound("10")
	proposed := inbound("10")
	proposed.Reference = "factura 123"

	err := stock.ValidateMovement(stock.MovementCheck{
		Movement: proposed, Available: decimal.NewFromInt(0), Original: original,
	})
	assert.NoError(t, err)
}

func TestChangedCriticalFields(t *testing.T) {
	original := outbound("5")
	proposed := outbound("5")
	proposed.Type = entity.MovementTypeTransfer
	proposed.SourceLocationID = ptr("loc-2")
	proposed.DestinationLocationID = ptr("loc-3")
	proposed.StockItemID = "item-2"

	got := stock.ChangedCriticalFields(original, proposed)
	assert.ElementsMatch(t, []string{
		stock.FieldMovementType, stock.FieldStockItem,
		stock.FieldSourceLocation, stock.FieldDestinationLocation,
	}, got)
	assert.Empty(t, stock.ChangedCriticalFields(original, outbound("5.000")))
}

// Ningún movimiento aceptado deja el saldo por debajo de cero.
func TestValidate_SaldoNuncaNegativo(t *testing.T) {
	loc := "loc-1"
	reason := entity.AdjustmentReasonInventoryError
	candidates := []*entity.StockMovement{
		outbound("1"), outbound("7"), outbound("20"), inbound("3"),
		{Type: entity.MovementTypeProductionInput, Quantity: decimal.NewFromInt(4)},
		{Type: entity.MovementTypeAdjustment, Quantity: decimal.NewFromInt(9), SourceLocationID: &loc, AdjustmentReason: &reason},
		{Type: entity.MovementTypeAdjustment, Quantity: decimal.NewFromInt(2), DestinationLocationID: &loc, AdjustmentReason: &reason},
	}
	balance := decimal.NewFromInt(8)
	for i := 0; i < 5; i++ {
		for _, m := range candidates {
			if stock.ValidateMovement(stock.MovementCheck{Movement: m, Available: balance}) != nil {
				continue
			}
			balance = balance.Add(stock.SignedDelta(m))
			require.False(t, balance.IsNegative(), "saldo negativo tras %s %s", m.Type, m.Quantity)
		}
	}
}
