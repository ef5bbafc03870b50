package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx).
// No expone borrado: los movimientos solo se editan.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `m.id, m.stock_item_id, m.movement_type, m.quantity, m.date, m.adjustment_reason,
	m.source_location_id, m.destination_location_id, m.reference, m.notes, m.production_order_id,
	m.transfer_id, m.before_quantity, m.after_quantity, m.created_by, m.created_at, m.updated_at`

// Create persiste un movimiento. El CHECK quantity > 0 y la FK al StockItem los hace cumplir la BD.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, stock_item_id, movement_type, quantity, date, adjustment_reason,
			source_location_id, destination_location_id, reference, notes, production_order_id,
			transfer_id, before_quantity, after_quantity, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.StockItemID, string(m.Type), m.Quantity, m.Date, reasonParam(m.AdjustmentReason),
		m.SourceLocationID, m.DestinationLocationID, m.Reference, m.Notes, m.ProductionOrderID,
		m.TransferID, m.BeforeQuantity, m.AfterQuantity, m.CreatedBy, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert stock movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate obtiene el movimiento bloqueando su fila.
func (r *StockMovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.get(ctx, id, true)
}

func (r *StockMovementRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements m WHERE m.id = $1` + lockClause(forUpdate)
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// GetPairedLeg devuelve la otra pata del traslado bloqueando su fila.
func (r *StockMovementRepo) GetPairedLeg(ctx context.Context, transferID, movementID string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements m
		WHERE m.transfer_id = $1 AND m.id <> $2 ORDER BY m.seq LIMIT 1 FOR UPDATE`
	m, err := scanMovement(r.q.QueryRow(ctx, query, transferID, movementID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get paired transfer leg: %w", err)
	}
	return m, nil
}

// Update reescribe los campos editables. before_quantity, after_quantity y transfer_id no se tocan.
func (r *StockMovementRepo) Update(ctx context.Context, m *entity.StockMovement) error {
	query := `
		UPDATE stock_movements SET
			stock_item_id = $2, movement_type = $3, quantity = $4, date = $5, adjustment_reason = $6,
			source_location_id = $7, destination_location_id = $8, reference = $9, notes = $10,
			production_order_id = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		m.ID, m.StockItemID, string(m.Type), m.Quantity, m.Date, reasonParam(m.AdjustmentReason),
		m.SourceLocationID, m.DestinationLocationID, m.Reference, m.Notes, m.ProductionOrderID, m.UpdatedAt,
	)
	if err != nil {
		return wrapWriteErr("update stock movement", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrNotFound)
	}
	return nil
}

// List historial filtrado, más recientes primero (fecha y luego orden de inserción).
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*repository.MovementView, int, error) {
	where, args := movementWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements m`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock movements: %w", err)
	}

	query := `
		SELECT ` + movementColumns + `,
			COALESCE(NULLIF(s.name, ''), NULLIF(b.batch_code, ''), i.id::text),
			COALESCE(b.batch_code, ''), COALESCE(ls.name, ''), COALESCE(ld.name, '')
		FROM stock_movements m
		JOIN stock_items i ON i.id = m.stock_item_id
		LEFT JOIN supply_batches b ON b.id = i.supply_batch_id
		LEFT JOIN supply_items s ON s.id = COALESCE(i.supply_item_id, b.supply_item_id)
		LEFT JOIN stock_locations ls ON ls.id = m.source_location_id
		LEFT JOIN stock_locations ld ON ld.id = m.destination_location_id` + where + `
		ORDER BY m.date DESC, m.seq DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, max(f.Offset, 0))
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*repository.MovementView
	for rows.Next() {
		var (
			m      entity.StockMovement
			v      repository.MovementView
			typ    string
			reason *string
		)
		err := rows.Scan(&m.ID, &m.StockItemID, &typ, &m.Quantity, &m.Date, &reason,
			&m.SourceLocationID, &m.DestinationLocationID, &m.Reference, &m.Notes, &m.ProductionOrderID,
			&m.TransferID, &m.BeforeQuantity, &m.AfterQuantity, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
			&v.SupplyItemName, &v.BatchCode, &v.SourceLocationName, &v.DestinationLocationName)
		if err != nil {
			return nil, 0, fmt.Errorf("scan stock movement: %w", err)
		}
		m.Type = entity.MovementType(typ)
		m.AdjustmentReason = reasonValue(reason)
		v.Movement = &m
		list = append(list, &v)
	}
	return list, total, rows.Err()
}

func movementWhere(f repository.MovementFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.StockItemID != "" {
		add("m.stock_item_id = $%d", f.StockItemID)
	}
	if f.Type != "" {
		add("m.movement_type = $%d", string(f.Type))
	}
	if f.AdjustmentReason != "" {
		add("m.adjustment_reason = $%d", string(f.AdjustmentReason))
	}
	if f.SourceLocationID != "" {
		add("m.source_location_id = $%d", f.SourceLocationID)
	}
	if f.DestinationLocationID != "" {
		add("m.destination_location_id = $%d", f.DestinationLocationID)
	}
	if f.Since != nil {
		add("m.date >= $%d", *f.Since)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Aggregate totales del libro del StockItem. Los ajustes cuentan como movimiento pero no
// suman a ninguna de las dos clases.
func (r *StockMovementRepo) Aggregate(ctx context.Context, stockItemID string, since, until time.Time) (*repository.MovementAggregate, error) {
	query := `
		SELECT
			COALESCE(SUM(quantity) FILTER (WHERE movement_type = ANY($2)), 0),
			COALESCE(SUM(quantity) FILTER (WHERE movement_type = ANY($3)), 0),
			COALESCE(SUM(quantity) FILTER (WHERE movement_type = ANY($3) AND date >= $4 AND date <= $5), 0),
			COUNT(*),
			COUNT(*) FILTER (WHERE date >= $4 AND date <= $5),
			MAX(date)
		FROM stock_movements WHERE stock_item_id = $1`
	var a repository.MovementAggregate
	err := r.q.QueryRow(ctx, query, stockItemID, inboundTypes(), outboundTypes(), since, until).Scan(
		&a.TotalIn, &a.TotalOut, &a.OutboundSince, &a.Count, &a.RecentCount, &a.LastMovementAt,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate stock movements: %w", err)
	}
	return &a, nil
}

// CreateRevision guarda la versión previa de un movimiento editado.
func (r *StockMovementRepo) CreateRevision(ctx context.Context, rev *entity.StockMovementRevision) error {
	query := `
		INSERT INTO stock_movement_revisions (id, movement_id, stock_item_id, movement_type, quantity,
			source_location_id, destination_location_id, changed_fields, reason, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	changed := rev.ChangedFields
	if changed == nil {
		changed = []string{}
	}
	_, err := r.q.Exec(ctx, query,
		rev.ID, rev.MovementID, rev.StockItemID, string(rev.Type), rev.Quantity,
		rev.SourceLocationID, rev.DestinationLocationID, changed, rev.Reason, rev.ChangedBy, rev.ChangedAt,
	)
	if err != nil {
		return wrapWriteErr("insert stock movement revision", err)
	}
	return nil
}

// ListRevisions versiones anteriores del movimiento, más recientes primero.
func (r *StockMovementRepo) ListRevisions(ctx context.Context, movementID string) ([]*entity.StockMovementRevision, error) {
	query := `
		SELECT id, movement_id, stock_item_id, movement_type, quantity, source_location_id,
			destination_location_id, changed_fields, reason, changed_by, changed_at
		FROM stock_movement_revisions WHERE movement_id = $1
		ORDER BY changed_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, movementID)
	if err != nil {
		return nil, fmt.Errorf("list stock movement revisions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovementRevision
	for rows.Next() {
		var (
			rev entity.StockMovementRevision
			typ string
		)
		err := rows.Scan(&rev.ID, &rev.MovementID, &rev.StockItemID, &typ, &rev.Quantity,
			&rev.SourceLocationID, &rev.DestinationLocationID, &rev.ChangedFields, &rev.Reason,
			&rev.ChangedBy, &rev.ChangedAt)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement revision: %w", err)
		}
		rev.Type = entity.MovementType(typ)
		list = append(list, &rev)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var (
		m      entity.StockMovement
		typ    string
		reason *string
	)
	err := row.Scan(&m.ID, &m.StockItemID, &typ, &m.Quantity, &m.Date, &reason,
		&m.SourceLocationID, &m.DestinationLocationID, &m.Reference, &m.Notes, &m.ProductionOrderID,
		&m.TransferID, &m.BeforeQuantity, &m.AfterQuantity, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(typ)
	m.AdjustmentReason = reasonValue(reason)
	return &m, nil
}

func reasonParam(r *entity.AdjustmentReason) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

func reasonValue(s *string) *entity.AdjustmentReason {
	if s == nil {
		return nil
	}
	r := entity.AdjustmentReason(*s)
	return &r
}
