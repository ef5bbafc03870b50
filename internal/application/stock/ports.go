package stock

import (
	"context"
	"time"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
)

// Repos conjunto de repositorios del libro de existencias. Dentro de TxRunner.Run todos
// comparten la misma transacción.
type Repos struct {
	Locations  repository.StockLocationRepository
	Items      repository.StockItemRepository
	Movements  repository.StockMovementRepository
	Thresholds repository.StockThresholdRepository
	Supplies   repository.SupplyRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}

// Clock fuente de la hora actual (inyectable en tests).
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// KardexPDFGenerator renderiza el kardex de un StockItem como PDF.
type KardexPDFGenerator interface {
	GenerateKardexPDF(ctx context.Context, k *dto.KardexResponse) ([]byte, error)
}
