package stock

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
)

// DefaultUsageWindowDays ventana por defecto del consumo medio.
const DefaultUsageWindowDays = 30

// InWindow indica si at cae en [since, until]. Los movimientos con fecha futura quedan fuera.
func InWindow(at, since, until time.Time) bool {
	return !at.Before(since) && !at.After(until)
}

// OutboundInWindow suma las salidas fechadas dentro de [since, until].
func OutboundInWindow(movements []*entity.StockMovement, since, until time.Time) decimal.Decimal {
	used := decimal.Zero
	for _, m := range movements {
		if IsOutbound(m.Type) && InWindow(m.Date, since, until) {
			used = used.Add(m.Quantity)
		}
	}
	return used
}

// UsageFromTotal consumo medio diario a partir del total de salidas de la ventana.
func UsageFromTotal(totalOut decimal.Decimal, windowDays int) decimal.Decimal {
	if windowDays <= 0 || !totalOut.IsPositive() {
		return decimal.Zero
	}
	return totalOut.Div(decimal.NewFromInt(int64(windowDays)))
}

// EstimatedDaysRemaining floor(cantidad / consumo). nil cuando no hay consumo: sin estimación.
func EstimatedDaysRemaining(quantity, dailyUsage decimal.Decimal) *int {
	if !dailyUsage.IsPositive() {
		return nil
	}
	days := int(quantity.Div(dailyUsage).Floor().IntPart())
	if days < 0 {
		days = 0
	}
	return &days
}
