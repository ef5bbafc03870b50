package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
	domstock "github.com/jhoicas/bakery-stock-api/internal/domain/stock"
)

var _ repository.StockItemRepository = (*StockItemRepo)(nil)

// StockItemRepo implementación de StockItemRepository sobre PostgreSQL (usable con pool o tx).
type StockItemRepo struct {
	q Querier
}

// NewStockItemRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockItemRepository(q Querier) *StockItemRepo {
	return &StockItemRepo{q: q}
}

const itemColumns = `i.id, i.supply_item_id, i.supply_batch_id, i.location_id, i.quantity,
	i.unit_of_measure, i.production_batch_id, i.created_at, i.updated_at`

// Create persiste un StockItem. El índice único (supply_batch_id, location_id) da ErrDuplicate.
func (r *StockItemRepo) Create(ctx context.Context, item *entity.StockItem) error {
	query := `
		INSERT INTO stock_items (id, supply_item_id, supply_batch_id, location_id, quantity,
			unit_of_measure, production_batch_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.SupplyItemID, item.SupplyBatchID, item.LocationID, item.Quantity,
		item.UnitOfMeasure, item.ProductionBatchID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert stock item", err)
	}
	return nil
}

// GetByID obtiene un StockItem sin bloquear.
func (r *StockItemRepo) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.one(ctx, `i.id = $1`, false, id)
}

// GetForUpdate obtiene el StockItem y bloquea la fila (SELECT FOR UPDATE).
func (r *StockItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.one(ctx, `i.id = $1`, true, id)
}

func (r *StockItemRepo) FindByBatchAndLocation(ctx context.Context, batchID, locationID string, forUpdate bool) (*entity.StockItem, error) {
	return r.one(ctx, `i.supply_batch_id = $1 AND i.location_id = $2`, forUpdate, batchID, locationID)
}

func (r *StockItemRepo) FindByBatch(ctx context.Context, batchID string, forUpdate bool) (*entity.StockItem, error) {
	return r.one(ctx, `i.supply_batch_id = $1`, forUpdate, batchID)
}

func (r *StockItemRepo) FindFreestanding(ctx context.Context, supplyItemID, locationID string, forUpdate bool) (*entity.StockItem, error) {
	return r.one(ctx, `i.supply_batch_id IS NULL AND i.supply_item_id = $1 AND i.location_id = $2`, forUpdate, supplyItemID, locationID)
}

func (r *StockItemRepo) one(ctx context.Context, where string, forUpdate bool, args ...any) (*entity.StockItem, error) {
	query := `SELECT ` + itemColumns + ` FROM stock_items i WHERE ` + where +
		` ORDER BY i.created_at, i.id LIMIT 1` + lockClause(forUpdate)
	item, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item: %w", err)
	}
	return item, nil
}

// UpdateQuantity escribe el saldo. Solo se llama con la fila bloqueada en la misma tx.
func (r *StockItemRepo) UpdateQuantity(ctx context.Context, id string, qty decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx, `UPDATE stock_items SET quantity = $2, updated_at = now() WHERE id = $1`, id, qty)
	if err != nil {
		return fmt.Errorf("update stock quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("stock item %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

const viewSelect = `
	SELECT ` + itemColumns + `,
		COALESCE(s.name, ''), COALESCE(s.sku, ''), COALESCE(b.batch_code, ''), b.expiration_date,
		COALESCE(l.name, ''), t.supply_item_id, t.min_quantity, t.alert_enabled
	FROM stock_items i
	LEFT JOIN supply_batches b ON b.id = i.supply_batch_id
	LEFT JOIN supply_items s ON s.id = COALESCE(i.supply_item_id, b.supply_item_id)
	LEFT JOIN stock_locations l ON l.id = i.location_id
	LEFT JOIN stock_thresholds t ON t.supply_item_id = s.id`

// GetView StockItem con lote, insumo, ubicación y umbral.
func (r *StockItemRepo) GetView(ctx context.Context, id string) (*repository.StockItemView, error) {
	v, err := scanView(r.q.QueryRow(ctx, viewSelect+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock item view: %w", err)
	}
	return v, nil
}

// ListViews vistas filtradas por ubicación, insumo y bucket de vencimiento (sin paginar).
func (r *StockItemRepo) ListViews(ctx context.Context, f repository.StockItemFilter) ([]*repository.StockItemView, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.LocationID != "" {
		conds = append(conds, "i.location_id = "+arg(f.LocationID))
	}
	if f.SupplyItemID != "" {
		conds = append(conds, "i.supply_item_id = "+arg(f.SupplyItemID))
	}
	if f.Expiration != "" {
		cond, err := expirationCond(f.Expiration, arg(f.Today.Format("2006-01-02")))
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	query := viewSelect
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY COALESCE(s.name, ''), b.expiration_date NULLS LAST, i.created_at, i.id`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock item views: %w", err)
	}
	defer rows.Close()
	var list []*repository.StockItemView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock item view: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// expirationCond traduce el filtro de vencimiento (mismos rangos que stock.MatchesExpirationFilter).
func expirationCond(filter, today string) (string, error) {
	d := today + "::date"
	switch filter {
	case domstock.BucketNoDate:
		return "b.expiration_date IS NULL", nil
	case domstock.BucketExpired:
		return "b.expiration_date < " + d, nil
	case domstock.BucketExpiring7:
		return "b.expiration_date BETWEEN " + d + " AND " + d + " + 7", nil
	case domstock.BucketExpiring30:
		return "b.expiration_date BETWEEN " + d + " AND " + d + " + 30", nil
	case domstock.BucketValid:
		return "b.expiration_date > " + d + " + 30", nil
	}
	return "", fmt.Errorf("filtro de vencimiento %q: %w", filter, domain.ErrInvalidInput)
}

// Drifted StockItems cuyo saldo guardado difiere del agregado del libro (ajustes excluidos).
func (r *StockItemRepo) Drifted(ctx context.Context) ([]*repository.DriftRow, error) {
	query := `
		WITH ledger AS (
			SELECT i.id, i.quantity,
				COALESCE(SUM(m.quantity) FILTER (WHERE m.movement_type = ANY($1)), 0) AS total_in,
				COALESCE(SUM(m.quantity) FILTER (WHERE m.movement_type = ANY($2)), 0) AS total_out
			FROM stock_items i
			LEFT JOIN stock_movements m ON m.stock_item_id = i.id
			GROUP BY i.id, i.quantity
		)
		SELECT id, quantity, total_in, total_out FROM ledger
		WHERE quantity <> total_in - total_out
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, inboundTypes(), outboundTypes())
	if err != nil {
		return nil, fmt.Errorf("drifted stock items: %w", err)
	}
	defer rows.Close()
	var list []*repository.DriftRow
	for rows.Next() {
		var d repository.DriftRow
		if err := rows.Scan(&d.StockItemID, &d.Stored, &d.TotalIn, &d.TotalOut); err != nil {
			return nil, fmt.Errorf("scan drift row: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// inboundTypes / outboundTypes tipos de cada clase como text[] para ANY($n).
func inboundTypes() []string  { return typesWhere(domstock.IsInbound) }
func outboundTypes() []string { return typesWhere(domstock.IsOutbound) }

func typesWhere(match func(entity.MovementType) bool) []string {
	var out []string
	for _, t := range entity.MovementTypes {
		if match(t) {
			out = append(out, string(t))
		}
	}
	return out
}

func scanItem(row pgx.Row) (*entity.StockItem, error) {
	var it entity.StockItem
	err := row.Scan(&it.ID, &it.SupplyItemID, &it.SupplyBatchID, &it.LocationID, &it.Quantity,
		&it.UnitOfMeasure, &it.ProductionBatchID, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func scanView(row pgx.Row) (*repository.StockItemView, error) {
	var (
		it       entity.StockItem
		v        repository.StockItemView
		thSupply *string
		thMin    *decimal.Decimal
		thAlert  *bool
	)
	err := row.Scan(&it.ID, &it.SupplyItemID, &it.SupplyBatchID, &it.LocationID, &it.Quantity,
		&it.UnitOfMeasure, &it.ProductionBatchID, &it.CreatedAt, &it.UpdatedAt,
		&v.SupplyItemName, &v.SupplyItemSKU, &v.BatchCode, &v.ExpirationDate,
		&v.LocationName, &thSupply, &thMin, &thAlert)
	if err != nil {
		return nil, err
	}
	v.Item = &it
	if thSupply != nil && thMin != nil {
		v.Threshold = &entity.StockThreshold{SupplyItemID: *thSupply, MinQuantity: *thMin, AlertEnabled: thAlert != nil && *thAlert}
	}
	return &v, nil
}
