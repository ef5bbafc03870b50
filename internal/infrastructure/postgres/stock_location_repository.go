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

var _ repository.StockLocationRepository = (*StockLocationRepo)(nil)

// StockLocationRepo implementación del puerto StockLocationRepository sobre PostgreSQL.
type StockLocationRepo struct {
	q Querier
}

// NewStockLocationRepository construye el adaptador de ubicaciones. Pasar pool o tx (Querier).
func NewStockLocationRepository(q Querier) *StockLocationRepo {
	return &StockLocationRepo{q: q}
}

const locationColumns = `id, name, description, is_active, created_at, updated_at`

// Create persiste una nueva ubicación.
func (r *StockLocationRepo) Create(ctx context.Context, loc *entity.StockLocation) error {
	query := `
		INSERT INTO stock_locations (` + locationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		loc.ID, loc.Name, loc.Description, loc.IsActive, loc.CreatedAt, loc.UpdatedAt,
	)
	if err != nil {
		return wrapWriteErr("insert stock location", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *StockLocationRepo) GetByID(ctx context.Context, id string) (*entity.StockLocation, error) {
	query := `SELECT ` + locationColumns + ` FROM stock_locations WHERE id = $1`
	loc, err := scanLocation(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock location: %w", err)
	}
	return loc, nil
}

// Update actualiza nombre, descripción y estado.
func (r *StockLocationRepo) Update(ctx context.Context, loc *entity.StockLocation) error {
	query := `
		UPDATE stock_locations SET name = $2, description = $3, is_active = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, loc.ID, loc.Name, loc.Description, loc.IsActive, loc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update stock location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("ubicación %s: %w", loc.ID, domain.ErrNotFound)
	}
	return nil
}

// List lista ubicaciones (más antiguas primero). limit <= 0 no pagina.
func (r *StockLocationRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.StockLocation, error) {
	query := `
		SELECT ` + locationColumns + ` FROM stock_locations
		WHERE ($1 = false OR is_active)
		ORDER BY created_at, id
		LIMIT NULLIF($2, 0) OFFSET $3`
	if limit < 0 {
		limit = 0
	}
	rows, err := r.q.Query(ctx, query, onlyActive, limit, max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list stock locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLocation
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock location: %w", err)
		}
		list = append(list, loc)
	}
	return list, rows.Err()
}

// FirstActive ubicación activa más antigua; desempata por id.
func (r *StockLocationRepo) FirstActive(ctx context.Context) (*entity.StockLocation, error) {
	query := `
		SELECT ` + locationColumns + ` FROM stock_locations
		WHERE is_active ORDER BY created_at, id LIMIT 1`
	loc, err := scanLocation(r.q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("first active location: %w", err)
	}
	return loc, nil
}

func scanLocation(row pgx.Row) (*entity.StockLocation, error) {
	var l entity.StockLocation
	if err := row.Scan(&l.ID, &l.Name, &l.Description, &l.IsActive, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
