// Package pdf genera el kardex (ficha de movimientos) de un StockItem.
//
// Layout de la página A4 horizontal:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Insumo + lote        │  KARDEX + fecha de emisión    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FICHA: Ubicación / Unidad / Vencimiento / Estado │ QR       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Origen → Destino | Cant | Antes | ... │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Saldo actual                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 122, Green: 72, Blue: 30}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ stock.KardexPDFGenerator = (*MarotoKardexGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoKardexGenerator implementa stock.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct {
	title string
}

// NewMarotoKardexGenerator construye el generador. title aparece como autor del documento.
func NewMarotoKardexGenerator(title string) *MarotoKardexGenerator {
	return &MarotoKardexGenerator{title: nonEmpty(title, "Panadería")}
}

// GenerateKardexPDF genera el PDF y devuelve sus bytes.
func (g *MarotoKardexGenerator) GenerateKardexPDF(_ context.Context, k *dto.KardexResponse) ([]byte, error) {
	if k == nil {
		return nil, fmt.Errorf("pdf: kardex vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kardex "+k.Item.DisplayName, true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(k))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(itemRow(&k.Item))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(k.Movements) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	for _, r := range movementRows(k.Movements) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(&k.Item))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: insumo + lote (izq) y título + fecha de emisión (der).
func headerRow(k *dto.KardexResponse) core.Row {
	batch := "Sin lote"
	if k.Item.BatchCode != "" {
		batch = "Lote " + k.Item.BatchCode
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New(k.Item.DisplayName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(batch+"   |   SKU: "+nonEmpty(k.Item.SKU, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("KARDEX DE EXISTENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+k.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// itemRow: ficha del StockItem con QR del ID para ubicarlo en bodega.
func itemRow(it *dto.StockItemResponse) core.Row {
	expiration := "Sin vencimiento"
	if it.ExpirationDate != nil {
		expiration = it.ExpirationDate.Format("02/01/2006") + " (" + it.ExpirationBadge.Text + ")"
	}
	statusColor := colorGray
	if it.Status != "OK" {
		statusColor = colorDanger
	}
	return row.New(24).Add(
		col.New(10).Add(
			text.New("Ubicación: "+nonEmpty(it.LocationName, "-")+"   |   Unidad: "+nonEmpty(it.UnitOfMeasure, "-"), props.Text{
				Size: 9, Top: 2,
			}),
			text.New("Vencimiento: "+expiration, props.Text{Size: 9, Top: 8}),
			text.New("Estado: "+it.StatusLabel, props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 14, Color: statusColor,
			}),
		),
		col.New(2).Add(code.NewQr(it.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 1, align.Left),
		h("Tipo", 2, align.Left),
		h("Origen - Destino", 3, align.Left),
		h("Cant.", 1, align.Right),
		h("Antes", 1, align.Right),
		h("Después", 1, align.Right),
		h("Referencia", 2, align.Left),
		h("Usuario", 1, align.Left),
	)
}

// movementRows: una fila por movimiento, en orden cronológico.
func movementRows(movs []dto.MovementResponse) []core.Row {
	result := make([]core.Row, 0, len(movs))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, mv := range movs {
		typ := mv.MovementTypeLabel
		if mv.AdjustmentReasonLabel != "" {
			typ += " (" + mv.AdjustmentReasonLabel + ")"
		}
		result = append(result, row.New(6).Add(
			cell(mv.Date.Format("02/01/06"), 1, align.Left),
			cell(typ, 2, align.Left),
			cell(mv.LocationSummary, 3, align.Left),
			cell(mv.Quantity.String(), 1, align.Right),
			cell(formatQty(mv.BeforeQuantity), 1, align.Right),
			cell(formatQty(mv.AfterQuantity), 1, align.Right),
			cell(nonEmpty(mv.Reference, "-"), 2, align.Left),
			cell(nonEmpty(mv.CreatedBy, "sistema"), 1, align.Left),
		))
	}
	return result
}

// totalsRow: entradas, salidas y saldo actual alineados a la derecha.
func totalsRow(it *dto.StockItemResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Total entradas:"),
			text.New("Total salidas:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("SALDO ACTUAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 10, Color: colorPrimary}),
		),
		col.New(3).Add(
			value(it.TotalIn.String()+" "+it.UnitOfMeasure),
			text.New(it.TotalOut.String()+" "+it.UnitOfMeasure, props.Text{Size: 9, Align: align.Right, Right: 1, Top: 5}),
			text.New(it.Quantity.String()+" "+it.UnitOfMeasure, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 10, Color: colorPrimary}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty cantidad opcional; sin foto se muestra "-".
func formatQty(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
