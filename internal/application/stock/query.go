package stock

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
	domstock "github.com/jhoicas/bakery-stock-api/internal/domain/stock"
)

// QueryUseCase vistas de solo lectura: estado, indicadores, conciliación y kardex.
// No bloquea ni modifica nada.
type QueryUseCase struct {
	repos      Repos
	policy     domstock.StatusPolicy
	windowDays int
	now        Clock
}

// NewQueryUseCase construye el caso de uso. windowDays <= 0 usa la ventana por defecto.
func NewQueryUseCase(repos Repos, policy domstock.StatusPolicy, windowDays int, clock Clock) *QueryUseCase {
	if windowDays <= 0 {
		windowDays = domstock.DefaultUsageWindowDays
	}
	if clock == nil {
		clock = systemClock
	}
	return &QueryUseCase{repos: repos, policy: policy, windowDays: windowDays, now: clock}
}

// ItemOverview vista consolidada de un StockItem.
func (uc *QueryUseCase) ItemOverview(ctx context.Context, id string) (*dto.StockItemResponse, error) {
	v, err := uc.repos.Items.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("stock item %s: %w", id, domain.ErrNotFound)
	}
	resp, err := uc.overview(ctx, v)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListItems lista StockItems con su estado. Los filtros de estado, stock bajo y ociosidad
// se calculan aquí, por eso la paginación se aplica después de evaluarlos.
func (uc *QueryUseCase) ListItems(ctx context.Context, q dto.StockItemListQuery) (*dto.StockItemListResponse, error) {
	q.DefaultPage()
	views, err := uc.repos.Items.ListViews(ctx, repository.StockItemFilter{
		LocationID:   q.LocationID,
		SupplyItemID: q.SupplyItemID,
		Expiration:   q.Expiration,
		Today:        uc.now(),
	})
	if err != nil {
		return nil, err
	}

	matched := make([]dto.StockItemResponse, 0, len(views))
	for _, v := range views {
		if q.LowStock && !uc.policy.IsLowStock(v.Item.Quantity, v.Threshold) {
			continue
		}
		resp, err := uc.overview(ctx, v)
		if err != nil {
			return nil, err
		}
		if q.Status != "" && resp.Status != q.Status {
			continue
		}
		if q.IdleDays > 0 && (resp.IdleDays == nil || *resp.IdleDays < q.IdleDays) {
			continue
		}
		matched = append(matched, resp)
	}

	total := len(matched)
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)
	return &dto.StockItemListResponse{
		Items: matched[start:end],
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

func (uc *QueryUseCase) overview(ctx context.Context, v *repository.StockItemView) (dto.StockItemResponse, error) {
	now := uc.now()
	agg, err := uc.repos.Movements.Aggregate(ctx, v.Item.ID, now.AddDate(0, 0, -uc.windowDays), now)
	if err != nil {
		return dto.StockItemResponse{}, err
	}
	item := v.Item
	days := domstock.DaysToExpire(v.ExpirationDate, now)
	status := uc.policy.Evaluate(domstock.StatusInput{
		Quantity:       item.Quantity,
		ExpirationDate: v.ExpirationDate,
		Threshold:      v.Threshold,
		Today:          now,
	})
	usage := domstock.UsageFromTotal(agg.OutboundSince, uc.windowDays)

	return dto.StockItemResponse{
		ID:                     item.ID,
		SupplyItemID:           item.SupplyItemID,
		SupplyBatchID:          item.SupplyBatchID,
		DisplayName:            v.DisplayName(),
		SKU:                    v.SupplyItemSKU,
		BatchCode:              v.BatchCode,
		LocationID:             item.LocationID,
		LocationName:           v.LocationName,
		Quantity:               item.Quantity,
		UnitOfMeasure:          item.UnitOfMeasure,
		ExpirationDate:         v.ExpirationDate,
		DaysToExpire:           days,
		ExpirationBucket:       domstock.ExpirationBucket(days),
		ExpirationBadge:        uc.expirationBadge(days),
		Status:                 string(status),
		StatusLabel:            status.Label(),
		AverageDailyUsage:      usage.Round(3),
		EstimatedDaysRemaining: domstock.EstimatedDaysRemaining(item.Quantity, usage),
		TotalIn:                agg.TotalIn,
		TotalOut:               agg.TotalOut,
		TotalMovements:         agg.Count,
		LastMovementAt:         agg.LastMovementAt,
		Turnover:               agg.RecentCount,
		IdleDays:               domstock.IdleDays(agg.LastMovementAt, now),
		CreatedAt:              item.CreatedAt,
		UpdatedAt:              item.UpdatedAt,
	}, nil
}

func (uc *QueryUseCase) expirationBadge(days *int) dto.ExpirationBadge {
	switch {
	case days == nil:
		return dto.ExpirationBadge{Text: "-", Level: "none"}
	case *days < 0:
		return dto.ExpirationBadge{Text: "Vencido", Level: "danger"}
	case *days <= uc.policy.ExpiringDays:
		return dto.ExpirationBadge{Text: fmt.Sprintf("%dd", *days), Level: "warning"}
	default:
		return dto.ExpirationBadge{Text: fmt.Sprintf("%dd", *days), Level: "ok"}
	}
}

// DriftReport StockItems cuyo saldo difiere de lo que escribiría Recalculate. Solo lectura.
func (uc *QueryUseCase) DriftReport(ctx context.Context) (*dto.DriftReportResponse, error) {
	rows, err := uc.repos.Items.Drifted(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DriftItem, 0, len(rows))
	for _, r := range rows {
		ledger := domstock.LedgerTotals{TotalIn: r.TotalIn, TotalOut: r.TotalOut}.Balance()
		items = append(items, dto.DriftItem{
			StockItemID: r.StockItemID,
			Stored:      r.Stored,
			Ledger:      ledger,
			Difference:  r.Stored.Sub(ledger),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].StockItemID < items[j].StockItemID })
	return &dto.DriftReportResponse{Items: items, Count: len(items), GeneratedAt: uc.now()}, nil
}

// Kardex ficha del StockItem con todos sus movimientos, del más antiguo al más reciente.
func (uc *QueryUseCase) Kardex(ctx context.Context, itemID string) (*dto.KardexResponse, error) {
	item, err := uc.ItemOverview(ctx, itemID)
	if err != nil {
		return nil, err
	}
	views, _, err := uc.repos.Movements.List(ctx, repository.MovementFilter{StockItemID: itemID})
	if err != nil {
		return nil, err
	}
	movs := make([]dto.MovementResponse, 0, len(views))
	for i := len(views) - 1; i >= 0; i-- {
		movs = append(movs, toMovementResponse(views[i]))
	}
	return &dto.KardexResponse{Item: *item, Movements: movs, GeneratedAt: uc.now()}, nil
}
