package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/stock"
)

func ptr[T any](v T) *T { return &v }

func mov(t entity.MovementType, qty string) *entity.StockMovement {
	return &entity.StockMovement{Type: t, Quantity: decimal.RequireFromString(qty)}
}

func TestSignedDelta_PorTipo(t *testing.T) {
	cases := []struct {
		name string
		m    *entity.StockMovement
		want string
	}{
		{"entrada suma", mov(entity.MovementTypeInbound, "4"), "4"},
		{"producto terminado suma", mov(entity.MovementTypeProductionOutput, "2.5"), "2.5"},
		{"salida resta", mov(entity.MovementTypeOutbound, "3"), "-3"},
		{"consumo en producción resta", mov(entity.MovementTypeProductionInput, "1"), "-1"},
		{"traslado resta en el origen", mov(entity.MovementTypeTransfer, "6"), "-6"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, decimal.RequireFromString(tc.want).Equal(stock.SignedDelta(tc.m)),
				"got %s", stock.SignedDelta(tc.m))
		})
	}
}

func TestSignedDelta_AjusteSegunUbicaciones(t *testing.T) {
	loc := "loc-1"

	up := mov(entity.MovementTypeAdjustment, "2")
	up.DestinationLocationID = &loc
	assert.True(t, decimal.NewFromInt(2).Equal(stock.SignedDelta(up)))

	down := mov(entity.MovementTypeAdjustment, "2")
	down.SourceLocationID = &loc
	assert.True(t, decimal.NewFromInt(-2).Equal(stock.SignedDelta(down)))

	both := mov(entity.MovementTypeAdjustment, "2")
	both.SourceLocationID = &loc
	both.DestinationLocationID = ptr("loc-2")
	assert.True(t, stock.SignedDelta(both).IsZero())

	assert.True(t, stock.SignedDelta(mov(entity.MovementTypeAdjustment, "2")).IsZero())
}

func TestTotals_ExcluyeAjustes(t *testing.T) {
	loc := "loc-1"
	adj := mov(entity.MovementTypeAdjustment, "100")
	adj.DestinationLocationID = &loc

	totals := stock.Totals([]*entity.StockMovement{
		mov(entity.MovementTypeInbound, "10"),
		mov(entity.MovementTypeProductionOutput, "5"),
		mov(entity.MovementTypeOutbound, "3"),
		mov(entity.MovementTypeProductionInput, "2"),
		mov(entity.MovementTypeTransfer, "1"),
		adj,
	})

	assert.Equal(t, "15", totals.TotalIn.String())
	assert.Equal(t, "6", totals.TotalOut.String())
	assert.Equal(t, "9", totals.Balance().String())
}

func TestTotals_Vacio(t *testing.T) {
	totals := stock.Totals(nil)
	assert.True(t, totals.Balance().IsZero())
}
