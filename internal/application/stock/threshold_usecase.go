package stock

import (
	"context"
	"fmt"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
)

// ThresholdUseCase umbrales de stock bajo por insumo.
type ThresholdUseCase struct {
	thresholds repository.StockThresholdRepository
	supplies   repository.SupplyRepository
}

// NewThresholdUseCase construye el caso de uso.
func NewThresholdUseCase(thresholds repository.StockThresholdRepository, supplies repository.SupplyRepository) *ThresholdUseCase {
	return &ThresholdUseCase{thresholds: thresholds, supplies: supplies}
}

// Upsert crea o reemplaza el umbral del insumo. alert_enabled por defecto es true.
func (uc *ThresholdUseCase) Upsert(ctx context.Context, supplyItemID string, in dto.UpsertThresholdRequest) (*dto.ThresholdResponse, error) {
	if in.MinQuantity.IsNegative() {
		verr := &domain.ValidationError{}
		verr.Add("min_quantity", domain.CodeInvalidQuantity, "el mínimo no puede ser negativo")
		return nil, verr
	}
	supply, err := uc.supplies.GetItem(ctx, supplyItemID)
	if err != nil {
		return nil, err
	}
	if supply == nil {
		return nil, fmt.Errorf("insumo %s: %w", supplyItemID, domain.ErrNotFound)
	}
	t := &entity.StockThreshold{SupplyItemID: supply.ID, MinQuantity: in.MinQuantity, AlertEnabled: true}
	if in.AlertEnabled != nil {
		t.AlertEnabled = *in.AlertEnabled
	}
	if err := uc.thresholds.Upsert(ctx, t); err != nil {
		return nil, err
	}
	resp := toThresholdResponse(t)
	return &resp, nil
}

// Get umbral del insumo.
func (uc *ThresholdUseCase) Get(ctx context.Context, supplyItemID string) (*dto.ThresholdResponse, error) {
	t, err := uc.thresholds.GetBySupplyItem(ctx, supplyItemID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("umbral de %s: %w", supplyItemID, domain.ErrNotFound)
	}
	resp := toThresholdResponse(t)
	return &resp, nil
}

// List todos los umbrales.
func (uc *ThresholdUseCase) List(ctx context.Context) ([]dto.ThresholdResponse, error) {
	list, err := uc.thresholds.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ThresholdResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toThresholdResponse(t))
	}
	return out, nil
}
