package stock

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

// Status estado de alerta derivado de un StockItem.
type Status string

const (
	StatusExpired    Status = "EXPIRED"
	StatusExpiring   Status = "EXPIRING"
	StatusOutOfStock Status = "OUT_OF_STOCK"
	StatusLow        Status = "LOW"
	StatusOK         Status = "OK"
)

var statusLabels = map[Status]string{
	StatusExpired:    "VENCIDO",
	StatusExpiring:   "POR VENCER",
	StatusOutOfStock: "AGOTADO",
	StatusLow:        "EN ALERTA",
	StatusOK:         "OK",
}

// Label etiqueta para la interfaz de administración.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// StatusPolicy parámetros del evaluador.
type StatusPolicy struct {
	ExpiringDays     int
	LowStockFallback decimal.Decimal
}

// DefaultStatusPolicy 7 días para "por vencer" y mínimo de 5 unidades sin umbral.
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{ExpiringDays: 7, LowStockFallback: decimal.NewFromInt(5)}
}

// StatusInput datos que lee el evaluador. ExpirationDate y Threshold pueden ser nil.
type StatusInput struct {
	Quantity       decimal.Decimal
	ExpirationDate *time.Time
	Threshold      *entity.StockThreshold
	Today          time.Time
}

// Evaluate devuelve el primer estado que aplica:
// vencido > por vencer > agotado > stock bajo > OK.
func (p StatusPolicy) Evaluate(in StatusInput) Status {
	if days := DaysToExpire(in.ExpirationDate, in.Today); days != nil {
		if *days < 0 {
			return StatusExpired
		}
		if *days <= p.ExpiringDays {
			return StatusExpiring
		}
	}
	if in.Quantity.LessThanOrEqual(decimal.Zero) {
		return StatusOutOfStock
	}
	if p.IsLowStock(in.Quantity, in.Threshold) {
		return StatusLow
	}
	return StatusOK
}

// IsLowStock compara contra el umbral activo del insumo o, si no hay, contra el mínimo por defecto.
func (p StatusPolicy) IsLowStock(qty decimal.Decimal, threshold *entity.StockThreshold) bool {
	if threshold != nil && threshold.AlertEnabled {
		return qty.LessThan(threshold.MinQuantity)
	}
	return qty.LessThan(p.LowStockFallback)
}

// DaysToExpire días de calendario entre hoy y el vencimiento; nil si no hay fecha.
func DaysToExpire(expiration *time.Time, today time.Time) *int {
	if expiration == nil {
		return nil
	}
	days := daysBetween(today, *expiration)
	return &days
}

// IdleDays días transcurridos desde el último movimiento; nil si nunca se movió.
func IdleDays(last *time.Time, today time.Time) *int {
	if last == nil {
		return nil
	}
	days := daysBetween(*last, today)
	return &days
}

// Buckets de vencimiento usados por filtros y badges.
const (
	BucketExpired    = "expired"
	BucketExpiring7  = "expiring_7"
	BucketExpiring30 = "expiring_30"
	BucketValid      = "valid"
	BucketNoDate     = "nodate"
)

// ExpirationBucket clasifica los días a vencer en un bucket excluyente.
func ExpirationBucket(days *int) string {
	switch {
	case days == nil:
		return BucketNoDate
	case *days < 0:
		return BucketExpired
	case *days <= 7:
		return BucketExpiring7
	case *days <= 30:
		return BucketExpiring30
	default:
		return BucketValid
	}
}

func daysBetween(from, to time.Time) int {
	return int(civil(to).Sub(civil(from)).Hours() / 24)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MatchesExpirationFilter filtro de listado por vencimiento. A diferencia de ExpirationBucket
// los rangos se solapan: expiring_30 incluye también los que vencen en 7 días o menos.
func MatchesExpirationFilter(filter string, days *int) bool {
	switch filter {
	case "":
		return true
	case BucketNoDate:
		return days == nil
	}
	if days == nil {
		return false
	}
	switch filter {
	case BucketExpired:
		return *days < 0
	case BucketExpiring7:
		return *days >= 0 && *days <= 7
	case BucketExpiring30:
		return *days >= 0 && *days <= 30
	case BucketValid:
		return *days > 30
	}
	return false
}
