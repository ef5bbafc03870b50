package export_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/infrastructure/export"
)

func movs() []dto.MovementResponse {
	before := decimal.NewFromInt(10)
	after := decimal.RequireFromString("7.5")
	reason := "WASTE"
	return []dto.MovementResponse{
		{
			MovementTypeLabel: "Entrada", Quantity: decimal.NewFromInt(10), ItemName: "Azúcar", BatchCode: "A1",
			Date: time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC), LocationSummary: "[Entrada] → Main",
			CreatedBy: "bodega",
		},
		{
			MovementTypeLabel: "Ajuste", AdjustmentReason: &reason, AdjustmentReasonLabel: "Merma",
			Quantity: decimal.RequireFromString("2.5"), ItemName: "Azúcar", BatchCode: "A1",
			Date: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), LocationSummary: "Main → [Salida]",
			BeforeQuantity: &before, AfterQuantity: &after,
		},
	}
}

func TestParseEncoding(t *testing.T) {
	e, err := export.ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, export.EncodingUTF8, e)

	e, err = export.ParseEncoding("Windows-1252")
	require.NoError(t, err)
	assert.Equal(t, export.EncodingWindows1252, e)
	assert.Equal(t, "text/csv; charset=windows-1252", e.ContentType())

	_, err = export.ParseEncoding("ebcdic")
	assert.Error(t, err)
}

func TestWrite_UTF8ConBOMYColumnas(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.NewMovementsWriter(export.EncodingUTF8).Write(&buf, movs()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))

	r := csv.NewReader(bytes.NewReader(raw[3:]))
	r.Comma = ';'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fecha", rows[0][0])
	assert.Equal(t, []string{
		"2026-03-02 09:00", "Ajuste (Merma)", "2.5", "Azúcar", "A1", "Main → [Salida]", "10", "7.5", "",
	}, rows[2])
	assert.Equal(t, "", rows[1][6], "sin foto de saldo la celda queda vacía")
}

func TestWrite_Windows1252(t *testing.T) {
	var buf bytes.Buffer
	w := export.NewMovementsWriter(export.EncodingWindows1252, export.WithDelimiter(','))
	require.NoError(t, w.Write(&buf, movs()))

	raw := buf.Bytes()
	assert.False(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, string(raw), "Az\xfacar", "la ú se codifica en un solo byte")
	assert.NotContains(t, string(raw), "→")
	assert.True(t, strings.HasPrefix(string(raw), "Fecha,Tipo,Cantidad"))
}

func TestWrite_SinMovimientosSoloCabecera(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.NewMovementsWriter(export.EncodingUTF8, export.WithBOM(false)).Write(&buf, nil))
	assert.Equal(t, "Fecha;Tipo;Cantidad;Insumo;Lote;Ubicación;Antes;Después;Usuario\n", buf.String())
}
