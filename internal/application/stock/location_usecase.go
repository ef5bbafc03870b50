package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
)

// LocationUseCase casos de uso de ubicaciones de almacenamiento. No hay borrado.
type LocationUseCase struct {
	repo repository.StockLocationRepository
	now  Clock
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.StockLocationRepository, clock Clock) *LocationUseCase {
	if clock == nil {
		clock = systemClock
	}
	return &LocationUseCase{repo: repo, now: clock}
}

// Create crea una ubicación activa.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("nombre vacío: %w", domain.ErrInvalidInput)
	}
	now := uc.now()
	loc := &entity.StockLocation{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	resp := toLocationResponse(loc)
	return &resp, nil
}

// GetByID obtiene una ubicación por ID.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	resp := toLocationResponse(loc)
	return &resp, nil
}

// Update actualiza nombre, descripción o estado.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("ubicación %s: %w", id, domain.ErrNotFound)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("nombre vacío: %w", domain.ErrInvalidInput)
		}
		loc.Name = name
	}
	if in.Description != nil {
		loc.Description = *in.Description
	}
	if in.IsActive != nil {
		loc.IsActive = *in.IsActive
	}
	loc.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, loc); err != nil {
		return nil, err
	}
	resp := toLocationResponse(loc)
	return &resp, nil
}

// List lista ubicaciones con paginación.
func (uc *LocationUseCase) List(ctx context.Context, onlyActive bool, page dto.PageRequest) (*dto.LocationListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, onlyActive, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, toLocationResponse(l))
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}
