package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
	domstock "github.com/jhoicas/bakery-stock-api/internal/domain/stock"
)

var (
	_ repository.StockLocationRepository  = (*LocationRepo)(nil)
	_ repository.StockItemRepository      = (*ItemRepo)(nil)
	_ repository.StockMovementRepository  = (*MovementRepo)(nil)
	_ repository.StockThresholdRepository = (*ThresholdRepo)(nil)
	_ repository.SupplyRepository         = (*SupplyRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Ubicaciones
// ──────────────────────────────────────────────────────────────────────────────

// LocationRepo StockLocationRepository en memoria.
type LocationRepo struct{ a accessor }

func (r *LocationRepo) Create(_ context.Context, loc *entity.StockLocation) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.locations[loc.ID]; ok {
			return fmt.Errorf("ubicación %s: %w", loc.ID, domain.ErrDuplicate)
		}
		st.locations[loc.ID] = *loc
		st.stamp(loc.ID)
		return nil
	})
}

func (r *LocationRepo) GetByID(_ context.Context, id string) (*entity.StockLocation, error) {
	var out *entity.StockLocation
	err := r.a.do(func(st *state) error {
		if l, ok := st.locations[id]; ok {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) Update(_ context.Context, loc *entity.StockLocation) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.locations[loc.ID]; !ok {
			return fmt.Errorf("ubicación %s: %w", loc.ID, domain.ErrNotFound)
		}
		st.locations[loc.ID] = *loc
		return nil
	})
}

func (r *LocationRepo) List(_ context.Context, onlyActive bool, limit, offset int) ([]*entity.StockLocation, error) {
	var out []*entity.StockLocation
	err := r.a.do(func(st *state) error {
		for _, l := range sortedLocations(st) {
			if onlyActive && !l.IsActive {
				continue
			}
			out = append(out, l)
		}
		return nil
	})
	return paginate(out, limit, offset), err
}

func (r *LocationRepo) FirstActive(_ context.Context) (*entity.StockLocation, error) {
	var out *entity.StockLocation
	err := r.a.do(func(st *state) error {
		for _, l := range sortedLocations(st) {
			if l.IsActive {
				out = l
				return nil
			}
		}
		return nil
	})
	return out, err
}

func sortedLocations(st *state) []*entity.StockLocation {
	list := make([]*entity.StockLocation, 0, len(st.locations))
	for _, l := range st.locations {
		l := l
		list = append(list, &l)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list
}

// ──────────────────────────────────────────────────────────────────────────────
// StockItems
// ──────────────────────────────────────────────────────────────────────────────

// ItemRepo StockItemRepository en memoria. Los bloqueos los da la transacción del Store.
type ItemRepo struct{ a accessor }

func (r *ItemRepo) Create(_ context.Context, item *entity.StockItem) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return fmt.Errorf("stock item %s: %w", item.ID, domain.ErrDuplicate)
		}
		if _, ok := st.locations[item.LocationID]; !ok {
			return fmt.Errorf("ubicación %s: %w", item.LocationID, domain.ErrNotFound)
		}
		if item.SupplyBatchID != nil {
			for _, other := range st.items {
				if other.SupplyBatchID != nil && *other.SupplyBatchID == *item.SupplyBatchID && other.LocationID == item.LocationID {
					return fmt.Errorf("lote %s ya tiene stock en la ubicación: %w", *item.SupplyBatchID, domain.ErrDuplicate)
				}
			}
		}
		st.items[item.ID] = *item
		st.stamp(item.ID)
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.a.do(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockItem, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) FindByBatchAndLocation(_ context.Context, batchID, locationID string, _ bool) (*entity.StockItem, error) {
	return r.find(func(it entity.StockItem) bool {
		return it.SupplyBatchID != nil && *it.SupplyBatchID == batchID && it.LocationID == locationID
	})
}

func (r *ItemRepo) FindByBatch(_ context.Context, batchID string, _ bool) (*entity.StockItem, error) {
	return r.find(func(it entity.StockItem) bool {
		return it.SupplyBatchID != nil && *it.SupplyBatchID == batchID
	})
}

func (r *ItemRepo) FindFreestanding(_ context.Context, supplyItemID, locationID string, _ bool) (*entity.StockItem, error) {
	return r.find(func(it entity.StockItem) bool {
		return it.SupplyBatchID == nil && it.SupplyItemID != nil && *it.SupplyItemID == supplyItemID && it.LocationID == locationID
	})
}

// find primer item (por orden de inserción) que cumple match.
func (r *ItemRepo) find(match func(entity.StockItem) bool) (*entity.StockItem, error) {
	var out *entity.StockItem
	err := r.a.do(func(st *state) error {
		for _, it := range st.items {
			if !match(it) {
				continue
			}
			if out == nil || st.seq[it.ID] < st.seq[out.ID] {
				it := it
				out = &it
			}
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) UpdateQuantity(_ context.Context, id string, qty decimal.Decimal) error {
	return r.a.do(func(st *state) error {
		it, ok := st.items[id]
		if !ok {
			return fmt.Errorf("stock item %s: %w", id, domain.ErrNotFound)
		}
		it.Quantity = qty
		it.UpdatedAt = time.Now().UTC()
		st.items[id] = it
		return nil
	})
}

func (r *ItemRepo) GetView(_ context.Context, id string) (*repository.StockItemView, error) {
	var out *repository.StockItemView
	err := r.a.do(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = itemView(st, it)
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) ListViews(_ context.Context, f repository.StockItemFilter) ([]*repository.StockItemView, error) {
	var out []*repository.StockItemView
	err := r.a.do(func(st *state) error {
		for _, it := range st.items {
			v := itemView(st, it)
			if f.LocationID != "" && it.LocationID != f.LocationID {
				continue
			}
			if f.SupplyItemID != "" && (it.SupplyItemID == nil || *it.SupplyItemID != f.SupplyItemID) {
				continue
			}
			if !domstock.MatchesExpirationFilter(f.Expiration, domstock.DaysToExpire(v.ExpirationDate, f.Today)) {
				continue
			}
			out = append(out, v)
		}
		sort.Slice(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.SupplyItemName != b.SupplyItemName {
				return a.SupplyItemName < b.SupplyItemName
			}
			if ea, eb := a.ExpirationDate, b.ExpirationDate; ea != nil && eb != nil && !ea.Equal(*eb) {
				return ea.Before(*eb)
			} else if (ea == nil) != (eb == nil) {
				return ea != nil
			}
			return st.seq[a.Item.ID] < st.seq[b.Item.ID]
		})
		return nil
	})
	return out, err
}

func (r *ItemRepo) Drifted(_ context.Context) ([]*repository.DriftRow, error) {
	var out []*repository.DriftRow
	err := r.a.do(func(st *state) error {
		byItem := make(map[string][]*entity.StockMovement, len(st.items))
		for _, m := range st.movements {
			byItem[m.StockItemID] = append(byItem[m.StockItemID], &m)
		}
		for id, it := range st.items {
			t := domstock.Totals(byItem[id])
			if it.Quantity.Equal(t.Balance()) {
				continue
			}
			out = append(out, &repository.DriftRow{StockItemID: id, Stored: it.Quantity, TotalIn: t.TotalIn, TotalOut: t.TotalOut})
		}
		return nil
	})
	return out, err
}

// itemView arma la vista uniendo lote, insumo, ubicación y umbral.
func itemView(st *state, it entity.StockItem) *repository.StockItemView {
	item := it
	v := &repository.StockItemView{Item: &item}
	supplyID := ""
	if it.SupplyItemID != nil {
		supplyID = *it.SupplyItemID
	}
	if it.SupplyBatchID != nil {
		if b, ok := st.batches[*it.SupplyBatchID]; ok {
			v.BatchCode = b.BatchCode
			v.ExpirationDate = b.ExpirationDate
			if supplyID == "" {
				supplyID = b.SupplyItemID
			}
		}
	}
	if s, ok := st.supplyItems[supplyID]; ok {
		v.SupplyItemName = s.Name
		v.SupplyItemSKU = s.SKU
	}
	if l, ok := st.locations[it.LocationID]; ok {
		v.LocationName = l.Name
	}
	if t, ok := st.thresholds[supplyID]; ok {
		v.Threshold = &t
	}
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

// MovementRepo StockMovementRepository en memoria. No hay borrado.
type MovementRepo struct{ a accessor }

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.items[m.StockItemID]; !ok {
			return fmt.Errorf("stock item %s: %w", m.StockItemID, domain.ErrNotFound)
		}
		if !m.Quantity.IsPositive() {
			return fmt.Errorf("movimiento con cantidad %s: %w", m.Quantity, domain.ErrInvalidInput)
		}
		if _, ok := st.movements[m.ID]; ok {
			return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrDuplicate)
		}
		st.movements[m.ID] = *m
		st.stamp(m.ID)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	err := r.a.do(func(st *state) error {
		if m, ok := st.movements[id]; ok {
			out = &m
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockMovement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepo) GetPairedLeg(_ context.Context, transferID, movementID string) (*entity.StockMovement, error) {
	var out *entity.StockMovement
	err := r.a.do(func(st *state) error {
		for _, m := range st.movements {
			if m.ID != movementID && m.TransferID != nil && *m.TransferID == transferID {
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) Update(_ context.Context, m *entity.StockMovement) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.movements[m.ID]
		if !ok {
			return fmt.Errorf("movimiento %s: %w", m.ID, domain.ErrNotFound)
		}
		if !m.Quantity.IsPositive() {
			return fmt.Errorf("movimiento con cantidad %s: %w", m.Quantity, domain.ErrInvalidInput)
		}
		upd := *m
		upd.BeforeQuantity = cur.BeforeQuantity
		upd.AfterQuantity = cur.AfterQuantity
		upd.CreatedAt = cur.CreatedAt
		upd.CreatedBy = cur.CreatedBy
		upd.TransferID = cur.TransferID
		st.movements[m.ID] = upd
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*repository.MovementView, int, error) {
	var out []*repository.MovementView
	err := r.a.do(func(st *state) error {
		for _, m := range sortedMovements(st) {
			if !matchesMovement(m, f) {
				continue
			}
			v := &repository.MovementView{Movement: m}
			if it, ok := st.items[m.StockItemID]; ok {
				iv := itemView(st, it)
				v.SupplyItemName = iv.DisplayName()
				v.BatchCode = iv.BatchCode
			}
			v.SourceLocationName = locationName(st, m.SourceLocationID)
			v.DestinationLocationName = locationName(st, m.DestinationLocationID)
			out = append(out, v)
		}
		return nil
	})
	return paginate(out, f.Limit, f.Offset), len(out), err
}

func (r *MovementRepo) Aggregate(_ context.Context, stockItemID string, since, until time.Time) (*repository.MovementAggregate, error) {
	agg := &repository.MovementAggregate{}
	err := r.a.do(func(st *state) error {
		var movs []*entity.StockMovement
		for _, m := range st.movements {
			if m.StockItemID != stockItemID {
				continue
			}
			movs = append(movs, &m)
			if domstock.InWindow(m.Date, since, until) {
				agg.RecentCount++
			}
			if agg.LastMovementAt == nil || m.Date.After(*agg.LastMovementAt) {
				d := m.Date
				agg.LastMovementAt = &d
			}
		}
		totals := domstock.Totals(movs)
		agg.TotalIn, agg.TotalOut = totals.TotalIn, totals.TotalOut
		agg.OutboundSince = domstock.OutboundInWindow(movs, since, until)
		agg.Count = len(movs)
		return nil
	})
	return agg, err
}

func (r *MovementRepo) CreateRevision(_ context.Context, rev *entity.StockMovementRevision) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.movements[rev.MovementID]; !ok {
			return fmt.Errorf("movimiento %s: %w", rev.MovementID, domain.ErrNotFound)
		}
		cp := *rev
		cp.ChangedFields = append([]string(nil), rev.ChangedFields...)
		st.revisions = append(st.revisions, cp)
		return nil
	})
}

func (r *MovementRepo) ListRevisions(_ context.Context, movementID string) ([]*entity.StockMovementRevision, error) {
	var out []*entity.StockMovementRevision
	err := r.a.do(func(st *state) error {
		for i := len(st.revisions) - 1; i >= 0; i-- {
			if st.revisions[i].MovementID == movementID {
				rev := st.revisions[i]
				out = append(out, &rev)
			}
		}
		return nil
	})
	return out, err
}

func sortedMovements(st *state) []*entity.StockMovement {
	list := make([]*entity.StockMovement, 0, len(st.movements))
	for _, m := range st.movements {
		m := m
		list = append(list, &m)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return st.seq[list[i].ID] > st.seq[list[j].ID]
	})
	return list
}

func matchesMovement(m *entity.StockMovement, f repository.MovementFilter) bool {
	switch {
	case f.StockItemID != "" && m.StockItemID != f.StockItemID:
		return false
	case f.Type != "" && m.Type != f.Type:
		return false
	case f.AdjustmentReason != "" && (m.AdjustmentReason == nil || *m.AdjustmentReason != f.AdjustmentReason):
		return false
	case f.SourceLocationID != "" && (m.SourceLocationID == nil || *m.SourceLocationID != f.SourceLocationID):
		return false
	case f.DestinationLocationID != "" && (m.DestinationLocationID == nil || *m.DestinationLocationID != f.DestinationLocationID):
		return false
	case f.Since != nil && m.Date.Before(*f.Since):
		return false
	}
	return true
}

func locationName(st *state, id *string) string {
	if id == nil {
		return ""
	}
	return st.locations[*id].Name
}

// ──────────────────────────────────────────────────────────────────────────────
// Umbrales
// ──────────────────────────────────────────────────────────────────────────────

// ThresholdRepo StockThresholdRepository en memoria.
type ThresholdRepo struct{ a accessor }

func (r *ThresholdRepo) GetBySupplyItem(_ context.Context, supplyItemID string) (*entity.StockThreshold, error) {
	var out *entity.StockThreshold
	err := r.a.do(func(st *state) error {
		if t, ok := st.thresholds[supplyItemID]; ok {
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *ThresholdRepo) Upsert(_ context.Context, t *entity.StockThreshold) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.supplyItems[t.SupplyItemID]; !ok {
			return fmt.Errorf("insumo %s: %w", t.SupplyItemID, domain.ErrNotFound)
		}
		st.thresholds[t.SupplyItemID] = *t
		return nil
	})
}

func (r *ThresholdRepo) List(_ context.Context) ([]*entity.StockThreshold, error) {
	var out []*entity.StockThreshold
	err := r.a.do(func(st *state) error {
		for _, t := range st.thresholds {
			t := t
			out = append(out, &t)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].SupplyItemID < out[j].SupplyItemID })
	return out, err
}

// ──────────────────────────────────────────────────────────────────────────────
// Insumos y lotes
// ──────────────────────────────────────────────────────────────────────────────

// SupplyRepo SupplyRepository en memoria.
type SupplyRepo struct{ a accessor }

func (r *SupplyRepo) CreateItem(_ context.Context, item *entity.SupplyItem) error {
	return r.a.do(func(st *state) error {
		for _, other := range st.supplyItems {
			if strings.EqualFold(other.SKU, item.SKU) {
				return fmt.Errorf("sku %s: %w", item.SKU, domain.ErrDuplicate)
			}
		}
		st.supplyItems[item.ID] = *item
		st.stamp(item.ID)
		return nil
	})
}

func (r *SupplyRepo) GetItem(_ context.Context, id string) (*entity.SupplyItem, error) {
	var out *entity.SupplyItem
	err := r.a.do(func(st *state) error {
		if s, ok := st.supplyItems[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplyRepo) ListItems(_ context.Context, limit, offset int) ([]*entity.SupplyItem, int, error) {
	var out []*entity.SupplyItem
	err := r.a.do(func(st *state) error {
		for _, s := range st.supplyItems {
			s := s
			out = append(out, &s)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, limit, offset), len(out), err
}

func (r *SupplyRepo) CreateBatch(_ context.Context, b *entity.SupplyBatch) error {
	return r.a.do(func(st *state) error {
		if _, ok := st.supplyItems[b.SupplyItemID]; !ok {
			return fmt.Errorf("insumo %s: %w", b.SupplyItemID, domain.ErrNotFound)
		}
		cp := *b
		cp.SupplyItem = nil
		st.batches[b.ID] = cp
		st.stamp(b.ID)
		return nil
	})
}

func (r *SupplyRepo) GetBatch(_ context.Context, id string) (*entity.SupplyBatch, error) {
	var out *entity.SupplyBatch
	err := r.a.do(func(st *state) error {
		b, ok := st.batches[id]
		if !ok {
			return nil
		}
		if s, ok := st.supplyItems[b.SupplyItemID]; ok {
			b.SupplyItem = &s
		}
		out = &b
		return nil
	})
	return out, err
}

func (r *SupplyRepo) GetBatchForUpdate(ctx context.Context, id string) (*entity.SupplyBatch, error) {
	return r.GetBatch(ctx, id)
}

func (r *SupplyRepo) UpdateBatch(_ context.Context, b *entity.SupplyBatch) error {
	return r.a.do(func(st *state) error {
		cur, ok := st.batches[b.ID]
		if !ok {
			return fmt.Errorf("lote %s: %w", b.ID, domain.ErrNotFound)
		}
		cp := *b
		cp.SupplyItem = nil
		cp.StockEntryCreated = cur.StockEntryCreated || b.StockEntryCreated
		st.batches[b.ID] = cp
		return nil
	})
}

func (r *SupplyRepo) MarkStockEntryCreated(_ context.Context, batchID string) error {
	return r.a.do(func(st *state) error {
		b, ok := st.batches[batchID]
		if !ok {
			return fmt.Errorf("lote %s: %w", batchID, domain.ErrNotFound)
		}
		b.StockEntryCreated = true
		st.batches[batchID] = b
		return nil
	})
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
