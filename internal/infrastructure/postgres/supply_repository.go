package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
)

var _ repository.SupplyRepository = (*SupplyRepo)(nil)

// SupplyRepo insumos y lotes sobre PostgreSQL (usable con pool o tx).
type SupplyRepo struct {
	q Querier
}

// NewSupplyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplyRepository(q Querier) *SupplyRepo {
	return &SupplyRepo{q: q}
}

// CreateItem persiste un insumo. SKU repetido (sin distinguir mayúsculas) → ErrDuplicate.
func (r *SupplyRepo) CreateItem(ctx context.Context, item *entity.SupplyItem) error {
	query := `
		INSERT INTO supply_items (id, sku, name, unit_of_measure, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, item.ID, item.SKU, item.Name, item.UnitOfMeasure, item.IsActive, item.CreatedAt)
	if err != nil {
		return wrapWriteErr("insert supply item", err)
	}
	return nil
}

// GetItem obtiene un insumo por ID.
func (r *SupplyRepo) GetItem(ctx context.Context, id string) (*entity.SupplyItem, error) {
	query := `
		SELECT id, sku, name, unit_of_measure, is_active, created_at
		FROM supply_items WHERE id = $1`
	var s entity.SupplyItem
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.SKU, &s.Name, &s.UnitOfMeasure, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply item: %w", err)
	}
	return &s, nil
}

// ListItems lista insumos por nombre con paginación y devuelve el total.
func (r *SupplyRepo) ListItems(ctx context.Context, limit, offset int) ([]*entity.SupplyItem, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM supply_items`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count supply items: %w", err)
	}

	query := `
		SELECT id, sku, name, unit_of_measure, is_active, created_at
		FROM supply_items ORDER BY name, id LIMIT NULLIF($1, 0) OFFSET $2`
	rows, err := r.q.Query(ctx, query, max(limit, 0), max(offset, 0))
	if err != nil {
		return nil, 0, fmt.Errorf("list supply items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplyItem
	for rows.Next() {
		var s entity.SupplyItem
		if err := rows.Scan(&s.ID, &s.SKU, &s.Name, &s.UnitOfMeasure, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan supply item: %w", err)
		}
		list = append(list, &s)
	}
	return list, total, rows.Err()
}

// CreateBatch persiste un lote.
func (r *SupplyRepo) CreateBatch(ctx context.Context, b *entity.SupplyBatch) error {
	query := `
		INSERT INTO supply_batches (id, supply_item_id, batch_code, quantity, expiration_date, is_active, stock_entry_created, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.SupplyItemID, b.BatchCode, b.Quantity, b.ExpirationDate, b.IsActive, b.StockEntryCreated, b.CreatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert supply batch", err)
	}
	return nil
}

// GetBatch obtiene un lote con su insumo.
func (r *SupplyRepo) GetBatch(ctx context.Context, id string) (*entity.SupplyBatch, error) {
	return r.getBatch(ctx, id, false)
}

// GetBatchForUpdate como GetBatch bloqueando la fila del lote.
func (r *SupplyRepo) GetBatchForUpdate(ctx context.Context, id string) (*entity.SupplyBatch, error) {
	return r.getBatch(ctx, id, true)
}

func (r *SupplyRepo) getBatch(ctx context.Context, id string, forUpdate bool) (*entity.SupplyBatch, error) {
	query := `
		SELECT b.id, b.supply_item_id, b.batch_code, b.quantity, b.expiration_date, b.is_active,
		       b.stock_entry_created, b.created_at,
		       s.id, s.sku, s.name, s.unit_of_measure, s.is_active, s.created_at
		FROM supply_batches b
		JOIN supply_items s ON s.id = b.supply_item_id
		WHERE b.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF b`
	}
	var b entity.SupplyBatch
	var s entity.SupplyItem
	err := r.q.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.SupplyItemID, &b.BatchCode, &b.Quantity, &b.ExpirationDate, &b.IsActive,
		&b.StockEntryCreated, &b.CreatedAt,
		&s.ID, &s.SKU, &s.Name, &s.UnitOfMeasure, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supply batch: %w", err)
	}
	b.SupplyItem = &s
	return &b, nil
}

// UpdateBatch actualiza cantidad, vencimiento y estado. El cerrojo solo puede pasar a true.
func (r *SupplyRepo) UpdateBatch(ctx context.Context, b *entity.SupplyBatch) error {
	query := `
		UPDATE supply_batches
		SET quantity = $2, expiration_date = $3, is_active = $4,
		    stock_entry_created = stock_entry_created OR $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, b.ID, b.Quantity, b.ExpirationDate, b.IsActive, b.StockEntryCreated)
	if err != nil {
		return fmt.Errorf("update supply batch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("lote %s: %w", b.ID, domain.ErrNotFound)
	}
	return nil
}

// MarkStockEntryCreated pone el cerrojo del lote en true.
func (r *SupplyRepo) MarkStockEntryCreated(ctx context.Context, batchID string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE supply_batches SET stock_entry_created = true WHERE id = $1`, batchID)
	if err != nil {
		return fmt.Errorf("mark stock entry created: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("lote %s: %w", batchID, domain.ErrNotFound)
	}
	return nil
}
