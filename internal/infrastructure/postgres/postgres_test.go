package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
	domstock "github.com/jhoicas/bakery-stock-api/internal/domain/stock"
	"github.com/jhoicas/bakery-stock-api/pkg/config"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/bakery?sslmode=disable", pgx5URL("postgres://u:p@db:5432/bakery?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/bakery", pgx5URL("postgresql://u@db/bakery"))
	assert.Equal(t, "pgx5://ya", pgx5URL("pgx5://ya"))
}

func TestClasesDeTipo(t *testing.T) {
	assert.ElementsMatch(t, []string{"INBOUND", "PRODUCTION_OUTPUT"}, inboundTypes())
	assert.ElementsMatch(t, []string{"OUTBOUND", "PRODUCTION_INPUT", "TRANSFER"}, outboundTypes())
}

func TestExpirationCond(t *testing.T) {
	cond, err := expirationCond(domstock.BucketExpiring30, "$1")
	require.NoError(t, err)
	assert.Equal(t, "b.expiration_date BETWEEN $1::date AND $1::date + 30", cond)

	cond, err = expirationCond(domstock.BucketNoDate, "$1")
	require.NoError(t, err)
	assert.Equal(t, "b.expiration_date IS NULL", cond)

	_, err = expirationCond("pronto", "$1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementWhere(t *testing.T) {
	where, args := movementWhere(repository.MovementFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = movementWhere(repository.MovementFilter{StockItemID: "i", Type: "OUTBOUND", DestinationLocationID: "d"})
	assert.Equal(t, " WHERE m.stock_item_id = $1 AND m.movement_type = $2 AND m.destination_location_id = $3", where)
	assert.Equal(t, []any{"i", "OUTBOUND", "d"}, args)
}

func TestLockClause(t *testing.T) {
	assert.Equal(t, " FOR UPDATE", lockClause(true))
	assert.Empty(t, lockClause(false))
}

// ──────────────────────────────────────────────────────────────────────────────
// poolConfig
// ──────────────────────────────────────────────────────────────────────────────

func TestPoolConfig_TamañoYNombreDeAplicacion(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://app:secret@db:5432/stock?sslmode=disable", MaxConns: 4})
	require.NoError(t, err)
	assert.EqualValues(t, 4, pc.MaxConns)
	assert.Equal(t, applicationName, pc.ConnConfig.RuntimeParams["application_name"])
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
