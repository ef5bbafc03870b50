package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
)

var _ repository.StockThresholdRepository = (*StockThresholdRepo)(nil)

// StockThresholdRepo implementación de StockThresholdRepository sobre PostgreSQL.
type StockThresholdRepo struct {
	q Querier
}

// NewStockThresholdRepository construye el adaptador. Acepta pool o tx (Querier).
func NewStockThresholdRepository(q Querier) *StockThresholdRepo {
	return &StockThresholdRepo{q: q}
}

func (r *StockThresholdRepo) GetBySupplyItem(ctx context.Context, supplyItemID string) (*entity.StockThreshold, error) {
	query := `
		SELECT supply_item_id, min_quantity, alert_enabled
		FROM stock_thresholds WHERE supply_item_id = $1`
	var t entity.StockThreshold
	err := r.q.QueryRow(ctx, query, supplyItemID).Scan(&t.SupplyItemID, &t.MinQuantity, &t.AlertEnabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock threshold: %w", err)
	}
	return &t, nil
}

func (r *StockThresholdRepo) Upsert(ctx context.Context, t *entity.StockThreshold) error {
	query := `
		INSERT INTO stock_thresholds (supply_item_id, min_quantity, alert_enabled, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (supply_item_id)
		DO UPDATE SET min_quantity = EXCLUDED.min_quantity, alert_enabled = EXCLUDED.alert_enabled, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, t.SupplyItemID, t.MinQuantity, t.AlertEnabled); err != nil {
		return wrapWriteErr("upsert stock threshold", err)
	}
	return nil
}

func (r *StockThresholdRepo) List(ctx context.Context) ([]*entity.StockThreshold, error) {
	query := `
		SELECT supply_item_id, min_quantity, alert_enabled
		FROM stock_thresholds ORDER BY supply_item_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock thresholds: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockThreshold
	for rows.Next() {
		var t entity.StockThreshold
		if err := rows.Scan(&t.SupplyItemID, &t.MinQuantity, &t.AlertEnabled); err != nil {
			return nil, fmt.Errorf("scan stock threshold: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
