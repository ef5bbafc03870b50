package stock

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
	domstock "github.com/jhoicas/bakery-stock-api/internal/domain/stock"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

// LedgerUseCase registra movimientos de existencias de forma transaccional con bloqueo de fila
// (SELECT FOR UPDATE) sobre el StockItem afectado. Todo cambio de saldo del servicio pasa por
// applyMovement o reapplyMovement: saldo y movimiento se escriben en la misma transacción.
type LedgerUseCase struct {
	tx    TxRunner
	repos Repos
	log   *logger.Logger
	now   Clock
}

// NewLedgerUseCase construye el caso de uso. repos son los repositorios de lectura (pool);
// clock puede ser nil.
func NewLedgerUseCase(tx TxRunner, repos Repos, log *logger.Logger, clock Clock) *LedgerUseCase {
	if clock == nil {
		clock = systemClock
	}
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{tx: tx, repos: repos, log: log.Named("ledger"), now: clock}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

// RecordMovement valida y registra un movimiento manual.
// Bloquea el StockItem, valida contra el saldo bloqueado, toma la foto antes/después,
// actualiza el saldo e inserta el movimiento; todo o nada.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, userID string, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	now := uc.now()
	m := &entity.StockMovement{
		ID:                    uuid.New().String(),
		StockItemID:           in.StockItemID,
		Type:                  entity.MovementType(strings.ToUpper(strings.TrimSpace(in.MovementType))),
		Quantity:              in.Quantity,
		Date:                  dateOr(in.Date, now),
		AdjustmentReason:      reasonFrom(in.AdjustmentReason),
		SourceLocationID:      trimRef(in.SourceLocationID),
		DestinationLocationID: trimRef(in.DestinationLocationID),
		Reference:             in.Reference,
		Notes:                 in.Notes,
		ProductionOrderID:     trimRef(in.ProductionOrderID),
		CreatedBy:             userID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	err := uc.tx.Run(ctx, func(r Repos) error {
		if err := checkLocations(ctx, r, m); err != nil {
			return err
		}
		_, err := applyMovement(ctx, r, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Debug().Str("movement_id", m.ID).Str("stock_item_id", m.StockItemID).
		Str("type", string(m.Type)).Str("quantity", m.Quantity.String()).Msg("movimiento registrado")
	return uc.describe(ctx, m)
}

// applyMovement bloquea el StockItem de m, valida y escribe. Devuelve el item con el saldo nuevo.
func applyMovement(ctx context.Context, r Repos, m *entity.StockMovement) (*entity.StockItem, error) {
	item, err := lockItem(ctx, r, m.StockItemID)
	if err != nil {
		return nil, err
	}
	return applyMovementOn(ctx, r, item, m)
}

// applyMovementOn igual que applyMovement sobre un item ya bloqueado (o recién creado) en la tx.
func applyMovementOn(ctx context.Context, r Repos, item *entity.StockItem, m *entity.StockMovement) (*entity.StockItem, error) {
	if err := domstock.ValidateMovement(domstock.MovementCheck{Movement: m, Available: item.Quantity}); err != nil {
		return nil, err
	}
	if err := appendMovement(ctx, r, item, m); err != nil {
		return nil, err
	}
	return item, nil
}

// appendMovement fija before/after, actualiza el saldo e inserta el movimiento (una sola escritura).
// item debe estar bloqueado por la transacción actual.
func appendMovement(ctx context.Context, r Repos, item *entity.StockItem, m *entity.StockMovement) error {
	before := item.Quantity
	after := before.Add(domstock.SignedDelta(m))
	m.BeforeQuantity = &before
	m.AfterQuantity = &after
	if err := r.Items.UpdateQuantity(ctx, item.ID, after); err != nil {
		return err
	}
	item.Quantity = after
	return r.Movements.Create(ctx, m)
}

func lockItem(ctx context.Context, r Repos, id string) (*entity.StockItem, error) {
	item, err := r.Items.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("stock item %s: %w", id, domain.ErrNotFound)
	}
	return item, nil
}

// checkLocations rechaza ubicaciones inexistentes antes de validar el movimiento.
func checkLocations(ctx context.Context, r Repos, m *entity.StockMovement) error {
	verr := &domain.ValidationError{}
	refs := []struct {
		field string
		id    *string
	}{
		{domstock.FieldSourceLocation, m.SourceLocationID},
		{domstock.FieldDestinationLocation, m.DestinationLocationID},
	}
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		loc, err := r.Locations.GetByID(ctx, *ref.id)
		if err != nil {
			return err
		}
		if loc == nil {
			verr.Add(ref.field, domain.CodeUnknownLocation, "la ubicación no existe")
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

// Transfer mueve cantidad de un StockItem a otra ubicación: TRANSFER en el origen y entrada
// en el StockItem del mismo lote (o insumo) en el destino, creado si no existe.
func (uc *LedgerUseCase) Transfer(ctx context.Context, userID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	now := uc.now()
	date := dateOr(in.Date, now)
	transferID := uuid.New().String()
	var out, inb *entity.StockMovement

	err := uc.tx.Run(ctx, func(r Repos) error {
		src, err := lockItem(ctx, r, in.StockItemID)
		if err != nil {
			return err
		}
		if src.LocationID == in.DestinationLocationID {
			verr := &domain.ValidationError{}
			verr.Add(domstock.FieldDestinationLocation, domain.CodeSameLocation,
				"el destino debe ser distinto de la ubicación actual")
			return verr
		}
		srcLoc := src.LocationID
		dstLoc := in.DestinationLocationID
		out = &entity.StockMovement{
			ID:                    uuid.New().String(),
			StockItemID:           src.ID,
			Type:                  entity.MovementTypeTransfer,
			Quantity:              in.Quantity,
			Date:                  date,
			SourceLocationID:      &srcLoc,
			DestinationLocationID: &dstLoc,
			Reference:             in.Reference,
			Notes:                 in.Notes,
			TransferID:            &transferID,
			CreatedBy:             userID,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := checkLocations(ctx, r, out); err != nil {
			return err
		}
		if _, err := applyMovementOn(ctx, r, src, out); err != nil {
			return err
		}

		dst, err := destinationItem(ctx, r, src, dstLoc, now)
		if err != nil {
			return err
		}
		inb = &entity.StockMovement{
			ID:                    uuid.New().String(),
			StockItemID:           dst.ID,
			Type:                  entity.MovementTypeInbound,
			Quantity:              in.Quantity,
			Date:                  date,
			SourceLocationID:      &srcLoc,
			DestinationLocationID: &dstLoc,
			Reference:             in.Reference,
			Notes:                 in.Notes,
			TransferID:            &transferID,
			CreatedBy:             userID,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		_, err = applyMovementOn(ctx, r, dst, inb)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("from_item", out.StockItemID).Str("to_item", inb.StockItemID).
		Str("quantity", in.Quantity.String()).Msg("traslado registrado")
	outResp, err := uc.describe(ctx, out)
	if err != nil {
		return nil, err
	}
	inResp, err := uc.describe(ctx, inb)
	if err != nil {
		return nil, err
	}
	return &dto.TransferResponse{Outbound: *outResp, Inbound: *inResp}, nil
}

// destinationItem busca (con bloqueo) el StockItem gemelo de src en locationID o lo crea en cero.
func destinationItem(ctx context.Context, r Repos, src *entity.StockItem, locationID string, now time.Time) (*entity.StockItem, error) {
	var (
		dst *entity.StockItem
		err error
	)
	switch {
	case src.SupplyBatchID != nil:
		dst, err = r.Items.FindByBatchAndLocation(ctx, *src.SupplyBatchID, locationID, true)
	case src.SupplyItemID != nil:
		dst, err = r.Items.FindFreestanding(ctx, *src.SupplyItemID, locationID, true)
	}
	if err != nil {
		return nil, err
	}
	if dst != nil {
		return dst, nil
	}
	dst = &entity.StockItem{
		ID:                uuid.New().String(),
		SupplyItemID:      src.SupplyItemID,
		SupplyBatchID:     src.SupplyBatchID,
		LocationID:        locationID,
		Quantity:          decimal.Zero,
		UnitOfMeasure:     src.UnitOfMeasure,
		ProductionBatchID: src.ProductionBatchID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := r.Items.Create(ctx, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición
// ──────────────────────────────────────────────────────────────────────────────

// EditMovement reemplaza los campos de un movimiento existente. Cambiar cantidad, tipo,
// StockItem u ubicaciones exige notas. El saldo se compensa (se revierte el efecto anterior
// y se aplica el nuevo); before/after conservan la foto original. La versión previa queda
// como StockMovementRevision. Las dos patas de un traslado se editan juntas.
func (uc *LedgerUseCase) EditMovement(ctx context.Context, userID, movementID string, in dto.EditMovementRequest) (*dto.MovementResponse, error) {
	now := uc.now()
	var edited *entity.StockMovement

	err := uc.tx.Run(ctx, func(r Repos) error {
		orig, err := r.Movements.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if orig == nil {
			return fmt.Errorf("movimiento %s: %w", movementID, domain.ErrNotFound)
		}

		proposed := *orig
		if in.StockItemID != "" {
			proposed.StockItemID = in.StockItemID
		}
		proposed.Type = entity.MovementType(strings.ToUpper(strings.TrimSpace(in.MovementType)))
		proposed.Quantity = in.Quantity
		proposed.Date = dateOr(in.Date, orig.Date)
		proposed.AdjustmentReason = reasonFrom(in.AdjustmentReason)
		proposed.SourceLocationID = trimRef(in.SourceLocationID)
		proposed.DestinationLocationID = trimRef(in.DestinationLocationID)
		proposed.Reference = in.Reference
		proposed.Notes = in.Notes
		proposed.ProductionOrderID = trimRef(in.ProductionOrderID)
		proposed.UpdatedAt = now

		if orig.TransferID != nil {
			if err := editTransfer(ctx, r, userID, orig, &proposed); err != nil {
				return err
			}
			edited = &proposed
			return nil
		}

		if err := checkLocations(ctx, r, &proposed); err != nil {
			return err
		}
		if err := reapplyMovement(ctx, r, orig, &proposed); err != nil {
			return err
		}
		if err := saveEdit(ctx, r, userID, orig, &proposed); err != nil {
			return err
		}
		edited = &proposed
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("movement_id", edited.ID).Str("user_id", userID).Msg("movimiento editado")
	return uc.describe(ctx, edited)
}

// editTransfer aplica la edición a una pata de traslado y la replica en la otra.
// Solo cambian cantidad, fecha, referencia y notas; el resto exige un traslado compensatorio.
// Las patas se reaplican en el orden de Transfer (origen y luego destino).
func editTransfer(ctx context.Context, r Repos, userID string, orig, proposed *entity.StockMovement) error {
	verr := &domain.ValidationError{}
	for _, field := range domstock.ChangedCriticalFields(orig, proposed) {
		if field != domstock.FieldQuantity {
			verr.Add(field, domain.CodeTransferLeg,
				"no se puede cambiar en un traslado; registre un traslado compensatorio")
		}
	}
	if !verr.Empty() {
		return verr
	}

	pair, err := r.Movements.GetPairedLeg(ctx, *orig.TransferID, orig.ID)
	if err != nil {
		return err
	}
	if pair == nil {
		return fmt.Errorf("traslado %s sin pata gemela: %w", *orig.TransferID, domain.ErrConflict)
	}
	pairProposed := *pair
	pairProposed.Quantity = proposed.Quantity
	pairProposed.Date = proposed.Date
	pairProposed.Reference = proposed.Reference
	pairProposed.Notes = proposed.Notes
	pairProposed.UpdatedAt = proposed.UpdatedAt

	legs := [][2]*entity.StockMovement{{orig, proposed}, {pair, &pairProposed}}
	if orig.Type != entity.MovementTypeTransfer {
		legs[0], legs[1] = legs[1], legs[0]
	}
	for _, leg := range legs {
		if err := reapplyMovement(ctx, r, leg[0], leg[1]); err != nil {
			return err
		}
	}
	for _, leg := range legs {
		if err := saveEdit(ctx, r, userID, leg[0], leg[1]); err != nil {
			return err
		}
	}
	return nil
}

// saveEdit persiste la versión nueva y guarda la anterior como revisión.
func saveEdit(ctx context.Context, r Repos, userID string, orig, proposed *entity.StockMovement) error {
	if err := r.Movements.Update(ctx, proposed); err != nil {
		return err
	}
	return r.Movements.CreateRevision(ctx, &entity.StockMovementRevision{
		ID:                    uuid.New().String(),
		MovementID:            orig.ID,
		StockItemID:           orig.StockItemID,
		Type:                  orig.Type,
		Quantity:              orig.Quantity,
		SourceLocationID:      orig.SourceLocationID,
		DestinationLocationID: orig.DestinationLocationID,
		ChangedFields:         domstock.ChangedCriticalFields(orig, proposed),
		Reason:                proposed.Notes,
		ChangedBy:             userID,
		ChangedAt:             proposed.UpdatedAt,
	})
}

// reapplyMovement valida proposed como edición de orig y compensa los saldos afectados.
func reapplyMovement(ctx context.Context, r Repos, orig, proposed *entity.StockMovement) error {
	oldDelta := domstock.SignedDelta(orig)

	if orig.StockItemID == proposed.StockItemID {
		item, err := lockItem(ctx, r, orig.StockItemID)
		if err != nil {
			return err
		}
		available := item.Quantity.Sub(oldDelta)
		if err := domstock.ValidateMovement(domstock.MovementCheck{
			Movement: proposed, Available: available, Original: orig,
		}); err != nil {
			return err
		}
		return r.Items.UpdateQuantity(ctx, item.ID, available.Add(domstock.SignedDelta(proposed)))
	}

	oldItem, err := lockItem(ctx, r, orig.StockItemID)
	if err != nil {
		return err
	}
	newItem, err := lockItem(ctx, r, proposed.StockItemID)
	if err != nil {
		return err
	}
	verr := &domain.ValidationError{}
	if err := domstock.ValidateMovement(domstock.MovementCheck{
		Movement: proposed, Available: newItem.Quantity, Original: orig,
	}); err != nil {
		v, ok := domain.AsValidation(err)
		if !ok {
			return err
		}
		verr = v
	}
	reverted := oldItem.Quantity.Sub(oldDelta)
	if reverted.IsNegative() {
		verr.Add(domstock.FieldStockItem, domain.CodeInsufficientStock, fmt.Sprintf(
			"stock insuficiente: revertir el movimiento deja el item original en %s", reverted.String()))
	}
	if !verr.Empty() {
		return verr
	}
	if err := r.Items.UpdateQuantity(ctx, oldItem.ID, reverted); err != nil {
		return err
	}
	return r.Items.UpdateQuantity(ctx, newItem.ID, newItem.Quantity.Add(domstock.SignedDelta(proposed)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación
// ──────────────────────────────────────────────────────────────────────────────

// Recalculate reconstruye el saldo desde el libro:
// Σ(INBOUND, PRODUCTION_OUTPUT) − Σ(OUTBOUND, PRODUCTION_INPUT, TRANSFER).
// Los ajustes no forman parte del agregado. Idempotente; solo escribe la cantidad.
func (uc *LedgerUseCase) Recalculate(ctx context.Context, itemID string) (*dto.RecalculateResponse, error) {
	var resp dto.RecalculateResponse
	err := uc.tx.Run(ctx, func(r Repos) error {
		item, err := lockItem(ctx, r, itemID)
		if err != nil {
			return err
		}
		agg, err := r.Movements.Aggregate(ctx, item.ID, time.Time{}, uc.now())
		if err != nil {
			return err
		}
		qty := domstock.LedgerTotals{TotalIn: agg.TotalIn, TotalOut: agg.TotalOut}.Balance()
		if err := r.Items.UpdateQuantity(ctx, item.ID, qty); err != nil {
			return err
		}
		resp = dto.RecalculateResponse{StockItemID: item.ID, Previous: item.Quantity, Quantity: qty}
		return nil
	})
	if err != nil {
		return nil, err
	}
	switch {
	case resp.Quantity.IsNegative():
		// Típico de items creados por ForceEntry: su entrada es un ajuste y no cuenta.
		uc.log.Warn().Str("stock_item_id", itemID).Str("previous", resp.Previous.String()).
			Str("quantity", resp.Quantity.String()).Msg("saldo recalculado negativo")
	case !resp.Previous.Equal(resp.Quantity):
		uc.log.Info().Str("stock_item_id", itemID).Str("previous", resp.Previous.String()).
			Str("quantity", resp.Quantity.String()).Msg("saldo recalculado")
	}
	return &resp, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta manual
// ──────────────────────────────────────────────────────────────────────────────

// CreateManualItem da de alta un StockItem desde el back-office. Con cantidad positiva
// registra la entrada correspondiente; el saldo nunca se escribe sin movimiento.
func (uc *LedgerUseCase) CreateManualItem(ctx context.Context, userID string, in dto.CreateStockItemRequest) (*entity.StockItem, error) {
	if in.Quantity.IsNegative() {
		verr := &domain.ValidationError{}
		verr.Add(domstock.FieldQuantity, domain.CodeInvalidQuantity, "la cantidad no puede ser negativa")
		return nil, verr
	}
	now := uc.now()
	item := &entity.StockItem{
		ID:            uuid.New().String(),
		SupplyItemID:  trimRef(in.SupplyItemID),
		SupplyBatchID: trimRef(in.SupplyBatchID),
		LocationID:    in.LocationID,
		Quantity:      decimal.Zero,
		UnitOfMeasure: in.UnitOfMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := uc.tx.Run(ctx, func(r Repos) error {
		loc, err := r.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return fmt.Errorf("ubicación %s: %w", in.LocationID, domain.ErrNotFound)
		}
		if item.SupplyBatchID != nil {
			batch, err := r.Supplies.GetBatch(ctx, *item.SupplyBatchID)
			if err != nil {
				return err
			}
			if batch == nil {
				return fmt.Errorf("lote %s: %w", *item.SupplyBatchID, domain.ErrNotFound)
			}
			if item.SupplyItemID == nil {
				id := batch.SupplyItemID
				item.SupplyItemID = &id
			}
		}
		if item.SupplyItemID != nil {
			supply, err := r.Supplies.GetItem(ctx, *item.SupplyItemID)
			if err != nil {
				return err
			}
			if supply == nil {
				return fmt.Errorf("insumo %s: %w", *item.SupplyItemID, domain.ErrNotFound)
			}
			if item.UnitOfMeasure == "" {
				item.UnitOfMeasure = supply.UnitOfMeasure
			}
		}
		if err := r.Items.Create(ctx, item); err != nil {
			return err
		}
		if !in.Quantity.IsPositive() {
			return nil
		}
		ref := in.Reference
		if ref == "" {
			ref = "Alta manual"
		}
		locID := loc.ID
		_, err = applyMovementOn(ctx, r, item, &entity.StockMovement{
			ID:                    uuid.New().String(),
			StockItemID:           item.ID,
			Type:                  entity.MovementTypeInbound,
			Quantity:              in.Quantity,
			Date:                  now,
			DestinationLocationID: &locID,
			Reference:             ref,
			Notes:                 in.Notes,
			CreatedBy:             userID,
			CreatedAt:             now,
			UpdatedAt:             now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas del historial
// ──────────────────────────────────────────────────────────────────────────────

// ListMovements historial filtrado y paginado, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	q.DefaultPage()
	f := uc.movementFilter(q)
	views, total, err := uc.repos.Movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toMovementResponse(v))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// ExportMovements todos los movimientos que cumplen el filtro (sin paginar), para CSV.
func (uc *LedgerUseCase) ExportMovements(ctx context.Context, q dto.MovementListQuery) ([]dto.MovementResponse, error) {
	const pageSize = 500
	f := uc.movementFilter(q)
	f.Limit = pageSize
	f.Offset = 0
	var out []dto.MovementResponse
	for {
		views, total, err := uc.repos.Movements.List(ctx, f)
		if err != nil {
			return nil, err
		}
		for _, v := range views {
			out = append(out, toMovementResponse(v))
		}
		f.Offset += len(views)
		if len(views) == 0 || f.Offset >= total {
			return out, nil
		}
	}
}

func (uc *LedgerUseCase) movementFilter(q dto.MovementListQuery) repository.MovementFilter {
	f := repository.MovementFilter{
		StockItemID:           q.StockItemID,
		Type:                  entity.MovementType(strings.ToUpper(q.MovementType)),
		AdjustmentReason:      entity.AdjustmentReason(strings.ToUpper(q.AdjustmentReason)),
		SourceLocationID:      q.SourceLocationID,
		DestinationLocationID: q.DestinationLocationID,
		Limit:                 q.Limit,
		Offset:                q.Offset,
	}
	if q.RecentDays > 0 {
		since := uc.now().AddDate(0, 0, -q.RecentDays)
		f.Since = &since
	}
	return f
}

// GetMovement un movimiento con sus campos de presentación.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*dto.MovementResponse, error) {
	m, err := uc.repos.Movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
	}
	return uc.describe(ctx, m)
}

// MovementRevisions versiones anteriores de un movimiento, más recientes primero.
func (uc *LedgerUseCase) MovementRevisions(ctx context.Context, id string) ([]dto.MovementRevisionResponse, error) {
	m, err := uc.repos.Movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("movimiento %s: %w", id, domain.ErrNotFound)
	}
	revs, err := uc.repos.Movements.ListRevisions(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementRevisionResponse, 0, len(revs))
	for _, rev := range revs {
		out = append(out, toRevisionResponse(rev))
	}
	return out, nil
}

// describe completa el movimiento con nombres de insumo, lote y ubicaciones.
func (uc *LedgerUseCase) describe(ctx context.Context, m *entity.StockMovement) (*dto.MovementResponse, error) {
	view := &repository.MovementView{Movement: m}
	iv, err := uc.repos.Items.GetView(ctx, m.StockItemID)
	if err != nil {
		return nil, err
	}
	if iv != nil {
		view.SupplyItemName = iv.DisplayName()
		view.BatchCode = iv.BatchCode
	}
	if view.SourceLocationName, err = uc.locationName(ctx, m.SourceLocationID); err != nil {
		return nil, err
	}
	if view.DestinationLocationName, err = uc.locationName(ctx, m.DestinationLocationID); err != nil {
		return nil, err
	}
	resp := toMovementResponse(view)
	return &resp, nil
}

func (uc *LedgerUseCase) locationName(ctx context.Context, id *string) (string, error) {
	if id == nil {
		return "", nil
	}
	loc, err := uc.repos.Locations.GetByID(ctx, *id)
	if err != nil || loc == nil {
		return "", err
	}
	return loc.Name, nil
}

func dateOr(d *time.Time, def time.Time) time.Time {
	if d == nil || d.IsZero() {
		return def
	}
	return d.UTC()
}

func trimRef(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func reasonFrom(s *string) *entity.AdjustmentReason {
	v := trimRef(s)
	if v == nil {
		return nil
	}
	r := entity.AdjustmentReason(strings.ToUpper(*v))
	return &r
}
