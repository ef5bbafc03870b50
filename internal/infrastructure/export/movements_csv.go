// Package export serializa el historial de movimientos a CSV para hojas de cálculo.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
)

// Encoding codificación de salida del CSV.
type Encoding string

const (
	EncodingUTF8        Encoding = "utf-8"
	EncodingWindows1252 Encoding = "windows-1252"
)

// ParseEncoding interpreta el parámetro ?encoding=. Vacío equivale a UTF-8.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "windows-1252", "cp1252", "latin1":
		return EncodingWindows1252, nil
	}
	return "", fmt.Errorf("export: codificación no soportada %q", s)
}

// ContentType cabecera HTTP correspondiente a la codificación.
func (e Encoding) ContentType() string {
	if e == EncodingWindows1252 {
		return "text/csv; charset=windows-1252"
	}
	return "text/csv; charset=utf-8"
}

var header = []string{
	"Fecha", "Tipo", "Cantidad", "Insumo", "Lote", "Ubicación", "Antes", "Después", "Usuario",
}

// WriterOption configura el MovementsWriter.
type WriterOption func(*MovementsWriter)

// WithDelimiter separador de campos (por defecto ';', el que espera Excel en es-CO).
func WithDelimiter(d rune) WriterOption {
	return func(w *MovementsWriter) { w.delimiter = d }
}

// WithBOM antepone el BOM UTF-8. Se ignora en Windows-1252.
func WithBOM(on bool) WriterOption {
	return func(w *MovementsWriter) { w.bom = on }
}

// MovementsWriter escribe movimientos como CSV.
type MovementsWriter struct {
	encoding  Encoding
	delimiter rune
	bom       bool
}

// NewMovementsWriter crea el escritor para la codificación dada.
func NewMovementsWriter(enc Encoding, opts ...WriterOption) *MovementsWriter {
	w := &MovementsWriter{encoding: enc, delimiter: ';', bom: true}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write escribe la cabecera y una fila por movimiento.
func (mw *MovementsWriter) Write(out io.Writer, movs []dto.MovementResponse) error {
	dst := out
	var closer io.Closer
	switch mw.encoding {
	case EncodingWindows1252:
		// Los caracteres fuera de la tabla (p. ej. la flecha del resumen) se sustituyen.
		tw := transform.NewWriter(out, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
		dst, closer = tw, tw
	default:
		if mw.bom {
			if _, err := out.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
				return fmt.Errorf("export: escribir BOM: %w", err)
			}
		}
	}

	cw := csv.NewWriter(dst)
	cw.Comma = mw.delimiter
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: escribir cabecera: %w", err)
	}
	for i := range movs {
		if err := cw.Write(record(&movs[i])); err != nil {
			return fmt.Errorf("export: escribir fila %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

func record(m *dto.MovementResponse) []string {
	typ := m.MovementTypeLabel
	if m.AdjustmentReasonLabel != "" {
		typ += " (" + m.AdjustmentReasonLabel + ")"
	}
	return []string{
		m.Date.Format("2006-01-02 15:04"),
		typ,
		m.Quantity.String(),
		m.ItemName,
		m.BatchCode,
		m.LocationSummary,
		qty(m.BeforeQuantity),
		qty(m.AfterQuantity),
		m.CreatedBy,
	}
}

func qty(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
