package supplies

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/application/stock"
	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// BatchTrigger reacción a la alta de un lote, dentro de la misma transacción.
type BatchTrigger interface {
	AutoAddToStockInTx(ctx context.Context, r stock.Repos, batch *entity.SupplyBatch) (bool, error)
}

// UseCase insumos y lotes. La alta de un lote dispara la materialización en existencias
// en la misma transacción: si falla, el lote tampoco queda creado.
type UseCase struct {
	tx      stock.TxRunner
	repos   stock.Repos
	trigger BatchTrigger
	log     *logger.Logger
	now     stock.Clock
}

// NewUseCase construye el caso de uso. clock puede ser nil.
func NewUseCase(tx stock.TxRunner, repos stock.Repos, trigger BatchTrigger, log *logger.Logger, clock stock.Clock) *UseCase {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{tx: tx, repos: repos, trigger: trigger, log: log.Named("supplies"), now: clock}
}

// CreateItem da de alta un insumo activo.
func (uc *UseCase) CreateItem(ctx context.Context, in dto.CreateSupplyItemRequest) (*dto.SupplyItemResponse, error) {
	item := &entity.SupplyItem{
		ID:            uuid.New().String(),
		SKU:           strings.TrimSpace(in.SKU),
		Name:          strings.TrimSpace(in.Name),
		UnitOfMeasure: strings.TrimSpace(in.UnitOfMeasure),
		IsActive:      true,
		CreatedAt:     uc.now(),
	}
	if err := uc.repos.Supplies.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	resp := toSupplyItemResponse(item)
	return &resp, nil
}

// ListItems lista insumos con paginación.
func (uc *UseCase) ListItems(ctx context.Context, page dto.PageRequest) (*dto.SupplyItemListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repos.Supplies.ListItems(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplyItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, toSupplyItemResponse(it))
	}
	return &dto.SupplyItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// CreateBatch registra el lote y, en la misma transacción, lo lleva a existencias.
func (uc *UseCase) CreateBatch(ctx context.Context, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.Quantity.IsNegative() {
		verr := &domain.ValidationError{}
		verr.Add("quantity", domain.CodeInvalidQuantity, "la cantidad del lote no puede ser negativa")
		return nil, verr
	}
	exp, err := parseDate(in.ExpirationDate)
	if err != nil {
		return nil, err
	}
	batch := &entity.SupplyBatch{
		ID:             uuid.New().String(),
		SupplyItemID:   in.SupplyItemID,
		BatchCode:      strings.TrimSpace(in.BatchCode),
		Quantity:       in.Quantity,
		ExpirationDate: exp,
		IsActive:       true,
		CreatedAt:      uc.now(),
	}
	if in.IsActive != nil {
		batch.IsActive = *in.IsActive
	}

	var created bool
	err = uc.tx.Run(ctx, func(r stock.Repos) error {
		supply, err := r.Supplies.GetItem(ctx, in.SupplyItemID)
		if err != nil {
			return err
		}
		if supply == nil {
			return fmt.Errorf("insumo %s: %w", in.SupplyItemID, domain.ErrNotFound)
		}
		batch.SupplyItem = supply
		if err := r.Supplies.CreateBatch(ctx, batch); err != nil {
			return err
		}
		if uc.trigger == nil {
			return nil
		}
		created, err = uc.trigger.AutoAddToStockInTx(ctx, r, batch)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("batch_id", batch.ID).Str("batch_code", batch.BatchCode).Bool("stock_created", created).Msg("lote registrado")
	resp := toBatchResponse(batch)
	resp.StockCreated = created
	return &resp, nil
}

// GetBatch obtiene un lote por ID.
func (uc *UseCase) GetBatch(ctx context.Context, id string) (*dto.BatchResponse, error) {
	b, err := uc.repos.Supplies.GetBatch(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
	}
	resp := toBatchResponse(b)
	return &resp, nil
}

// UpdateBatch actualiza cantidad, vencimiento o estado. Nunca genera existencias: las
// diferencias se corrigen con la entrada forzada.
func (uc *UseCase) UpdateBatch(ctx context.Context, id string, in dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	var out *entity.SupplyBatch
	err := uc.tx.Run(ctx, func(r stock.Repos) error {
		b, err := r.Supplies.GetBatchForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return fmt.Errorf("lote %s: %w", id, domain.ErrNotFound)
		}
		if in.Quantity != nil {
			if in.Quantity.IsNegative() {
				verr := &domain.ValidationError{}
				verr.Add("quantity", domain.CodeInvalidQuantity, "la cantidad del lote no puede ser negativa")
				return verr
			}
			b.Quantity = *in.Quantity
		}
		if in.ExpirationDate != nil {
			exp, err := parseDate(in.ExpirationDate)
			if err != nil {
				return err
			}
			b.ExpirationDate = exp
		}
		if in.IsActive != nil {
			b.IsActive = *in.IsActive
		}
		if err := r.Supplies.UpdateBatch(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toBatchResponse(out)
	return &resp, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*s))
	if err != nil {
		verr := &domain.ValidationError{}
		verr.Add("expiration_date", domain.CodeInvalidDate, "use el formato AAAA-MM-DD")
		return nil, verr
	}
	return &t, nil
}

func toSupplyItemResponse(it *entity.SupplyItem) dto.SupplyItemResponse {
	return dto.SupplyItemResponse{
		ID:            it.ID,
		SKU:           it.SKU,
		Name:          it.Name,
		UnitOfMeasure: it.UnitOfMeasure,
		IsActive:      it.IsActive,
		CreatedAt:     it.CreatedAt,
	}
}

func toBatchResponse(b *entity.SupplyBatch) dto.BatchResponse {
	resp := dto.BatchResponse{
		ID:                b.ID,
		SupplyItemID:      b.SupplyItemID,
		BatchCode:         b.BatchCode,
		Quantity:          b.Quantity,
		IsActive:          b.IsActive,
		StockEntryCreated: b.StockEntryCreated,
		CreatedAt:         b.CreatedAt,
	}
	if b.SupplyItem != nil {
		resp.SupplyItemName = b.SupplyItem.Name
	}
	if b.ExpirationDate != nil {
		d := b.ExpirationDate.Format(dateLayout)
		resp.ExpirationDate = &d
	}
	return resp
}
