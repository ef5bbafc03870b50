package stock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

// LocationPolicy decide en qué ubicación se materializa un lote nuevo.
// Devuelve nil si no hay ubicación disponible.
type LocationPolicy interface {
	ChooseLocation(ctx context.Context, locations repository.StockLocationRepository, batch *entity.SupplyBatch) (*entity.StockLocation, error)
}

// FirstActiveLocation elige la ubicación activa más antigua.
type FirstActiveLocation struct{}

// ChooseLocation implementa LocationPolicy.
func (FirstActiveLocation) ChooseLocation(ctx context.Context, locations repository.StockLocationRepository, _ *entity.SupplyBatch) (*entity.StockLocation, error) {
	return locations.FirstActive(ctx)
}

// PolicyByName resuelve la política configurada (STOCK_LOCATION_POLICY).
func PolicyByName(name string) (LocationPolicy, error) {
	switch name {
	case "", "first_active":
		return FirstActiveLocation{}, nil
	}
	return nil, fmt.Errorf("política de ubicación desconocida: %q", name)
}

// Orchestrator lleva los lotes de insumo al libro de existencias.
// Los casos sin efecto devuelven (false, nil); nunca son errores.
type Orchestrator struct {
	tx     TxRunner
	policy LocationPolicy
	log    *logger.Logger
	now    Clock
}

// NewOrchestrator construye el orquestador. policy nil usa FirstActiveLocation.
func NewOrchestrator(tx TxRunner, policy LocationPolicy, log *logger.Logger, clock Clock) *Orchestrator {
	if policy == nil {
		policy = FirstActiveLocation{}
	}
	if clock == nil {
		clock = systemClock
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{tx: tx, policy: policy, log: log.Named("orchestrator"), now: clock}
}

// AutoAddToStock materializa el lote en su propia transacción.
func (o *Orchestrator) AutoAddToStock(ctx context.Context, batchID string) (bool, error) {
	var created bool
	err := o.tx.Run(ctx, func(r Repos) error {
		batch, err := r.Supplies.GetBatchForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("lote %s: %w", batchID, domain.ErrNotFound)
		}
		created, err = o.AutoAddToStockInTx(ctx, r, batch)
		return err
	})
	return created, err
}

// AutoAddToStockInTx crea el StockItem del lote en la ubicación por defecto y registra la
// entrada, dentro de la transacción del llamador (misma tx que la creación del lote).
// El cerrojo stock_entry_created hace que una segunda llamada no tenga efecto.
func (o *Orchestrator) AutoAddToStockInTx(ctx context.Context, r Repos, batch *entity.SupplyBatch) (bool, error) {
	skip := func(reason string) (bool, error) {
		o.log.Debug().Str("batch_id", batch.ID).Msg(reason)
		return false, nil
	}
	switch {
	case !batch.IsActive:
		return skip("lote inactivo, sin entrada")
	case batch.StockEntryCreated:
		return skip("entrada ya creada")
	case !batch.Quantity.IsPositive():
		return skip("lote sin cantidad")
	}

	supply := batch.SupplyItem
	if supply == nil {
		var err error
		if supply, err = r.Supplies.GetItem(ctx, batch.SupplyItemID); err != nil {
			return false, err
		}
	}
	if supply == nil || !supply.IsActive {
		return skip("insumo inexistente o inactivo")
	}

	loc, err := o.policy.ChooseLocation(ctx, r.Locations, batch)
	if err != nil {
		return false, err
	}
	if loc == nil {
		return skip("no hay ubicación activa")
	}
	existing, err := r.Items.FindByBatchAndLocation(ctx, batch.ID, loc.ID, true)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return skip("ya existe stock del lote en la ubicación")
	}

	now := o.now()
	supplyID, batchID, locID := supply.ID, batch.ID, loc.ID
	item := &entity.StockItem{
		ID:            uuid.New().String(),
		SupplyItemID:  &supplyID,
		SupplyBatchID: &batchID,
		LocationID:    loc.ID,
		Quantity:      decimal.Zero,
		UnitOfMeasure: supply.UnitOfMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.Items.Create(ctx, item); err != nil {
		return false, err
	}
	if _, err := applyMovementOn(ctx, r, item, &entity.StockMovement{
		ID:                    uuid.New().String(),
		StockItemID:           item.ID,
		Type:                  entity.MovementTypeInbound,
		Quantity:              batch.Quantity,
		Date:                  now,
		DestinationLocationID: &locID,
		Reference:             "Lote " + batch.BatchCode,
		Notes:                 "Entrada automática al registrar el lote",
		CreatedAt:             now,
		UpdatedAt:             now,
	}); err != nil {
		return false, err
	}
	if err := r.Supplies.MarkStockEntryCreated(ctx, batch.ID); err != nil {
		return false, err
	}
	batch.StockEntryCreated = true

	o.log.Info().Str("batch_id", batch.ID).Str("batch_code", batch.BatchCode).
		Str("location", loc.Name).Str("quantity", batch.Quantity.String()).Msg("lote llevado a existencias")
	return true, nil
}

// ForceEntry corrección manual: lleva el saldo del lote en la ubicación (explícita o por
// defecto) a la cantidad actual del lote, registrando un ajuste. Si había StockItem siempre
// marca el lote como materializado, aunque no haya diferencia.
func (o *Orchestrator) ForceEntry(ctx context.Context, userID, batchID string, locationID *string) (bool, error) {
	var applied bool
	err := o.tx.Run(ctx, func(r Repos) error {
		batch, err := r.Supplies.GetBatchForUpdate(ctx, batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return fmt.Errorf("lote %s: %w", batchID, domain.ErrNotFound)
		}
		applied, err = o.forceEntryInTx(ctx, r, userID, batch, trimRef(locationID))
		return err
	})
	return applied, err
}

func (o *Orchestrator) forceEntryInTx(ctx context.Context, r Repos, userID string, batch *entity.SupplyBatch, locationID *string) (bool, error) {
	if !batch.IsActive {
		o.log.Debug().Str("batch_id", batch.ID).Msg("lote inactivo, no se fuerza la entrada")
		return false, nil
	}

	var loc *entity.StockLocation
	var err error
	if locationID != nil {
		loc, err = r.Locations.GetByID(ctx, *locationID)
		if err != nil {
			return false, err
		}
		if loc == nil {
			return false, fmt.Errorf("ubicación %s: %w", *locationID, domain.ErrNotFound)
		}
	} else {
		loc, err = o.policy.ChooseLocation(ctx, r.Locations, batch)
		if err != nil {
			return false, err
		}
		if loc == nil {
			o.log.Debug().Str("batch_id", batch.ID).Msg("no hay ubicación activa")
			return false, nil
		}
	}

	now := o.now()
	locID := loc.ID
	item, err := r.Items.FindByBatchAndLocation(ctx, batch.ID, loc.ID, true)
	if err != nil {
		return false, err
	}

	if item != nil {
		delta := batch.Quantity.Sub(item.Quantity)
		if !delta.IsZero() {
			reason := entity.AdjustmentReasonInventoryError
			m := &entity.StockMovement{
				ID:               uuid.New().String(),
				StockItemID:      item.ID,
				Type:             entity.MovementTypeAdjustment,
				Quantity:         delta.Abs(),
				Date:             now,
				AdjustmentReason: &reason,
				Reference:        "Ajuste del lote " + batch.BatchCode,
				Notes:            fmt.Sprintf("Corrección forzada: %s → %s", item.Quantity.String(), batch.Quantity.String()),
				CreatedBy:        userID,
				CreatedAt:        now,
				UpdatedAt:        now,
			}
			if delta.IsPositive() {
				m.DestinationLocationID = &locID
			} else {
				m.SourceLocationID = &locID
			}
			if _, err := applyMovementOn(ctx, r, item, m); err != nil {
				return false, err
			}
			o.log.Info().Str("batch_id", batch.ID).Str("delta", delta.String()).Msg("saldo del lote corregido")
		}
		if err := r.Supplies.MarkStockEntryCreated(ctx, batch.ID); err != nil {
			return false, err
		}
		batch.StockEntryCreated = true
		return true, nil
	}

	if !batch.Quantity.IsPositive() {
		o.log.Debug().Str("batch_id", batch.ID).Msg("lote sin cantidad, nada que forzar")
		return false, nil
	}

	supplyID, batchID := batch.SupplyItemID, batch.ID
	unit := ""
	if batch.SupplyItem != nil {
		unit = batch.SupplyItem.UnitOfMeasure
	} else if supply, err := r.Supplies.GetItem(ctx, batch.SupplyItemID); err != nil {
		return false, err
	} else if supply != nil {
		unit = supply.UnitOfMeasure
	}
	item = &entity.StockItem{
		ID:            uuid.New().String(),
		SupplyItemID:  &supplyID,
		SupplyBatchID: &batchID,
		LocationID:    loc.ID,
		Quantity:      decimal.Zero,
		UnitOfMeasure: unit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.Items.Create(ctx, item); err != nil {
		return false, err
	}
	reason := entity.AdjustmentReasonAdminEdit
	if _, err := applyMovementOn(ctx, r, item, &entity.StockMovement{
		ID:                    uuid.New().String(),
		StockItemID:           item.ID,
		Type:                  entity.MovementTypeAdjustment,
		Quantity:              batch.Quantity,
		Date:                  now,
		AdjustmentReason:      &reason,
		DestinationLocationID: &locID,
		Reference:             "Ajuste del lote " + batch.BatchCode,
		Notes:                 "Entrada forzada del lote sin existencias previas",
		CreatedBy:             userID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}); err != nil {
		return false, err
	}
	if err := r.Supplies.MarkStockEntryCreated(ctx, batch.ID); err != nil {
		return false, err
	}
	batch.StockEntryCreated = true
	o.log.Info().Str("batch_id", batch.ID).Str("location", loc.Name).Msg("entrada forzada del lote")
	return true, nil
}
