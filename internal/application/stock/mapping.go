package stock

import (
	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/domain/entity"
	"github.com/jhoicas/bakery-stock-api/internal/domain/repository"
)

// LocationSummary resumen origen → destino del historial.
func LocationSummary(source, destination string) string {
	switch {
	case source != "" && destination != "":
		return source + " → " + destination
	case source != "":
		return source + " → [Salida]"
	case destination != "":
		return "[Entrada] → " + destination
	default:
		return "-"
	}
}

func toMovementResponse(v *repository.MovementView) dto.MovementResponse {
	m := v.Movement
	resp := dto.MovementResponse{
		ID:                      m.ID,
		StockItemID:             m.StockItemID,
		ItemName:                v.SupplyItemName,
		BatchCode:               v.BatchCode,
		MovementType:            string(m.Type),
		MovementTypeLabel:       m.Type.Label(),
		Quantity:                m.Quantity,
		Date:                    m.Date,
		SourceLocationID:        m.SourceLocationID,
		SourceLocationName:      v.SourceLocationName,
		DestinationLocationID:   m.DestinationLocationID,
		DestinationLocationName: v.DestinationLocationName,
		LocationSummary:         LocationSummary(v.SourceLocationName, v.DestinationLocationName),
		BeforeQuantity:          m.BeforeQuantity,
		AfterQuantity:           m.AfterQuantity,
		BalanceChange:           "-",
		Reference:               m.Reference,
		Notes:                   m.Notes,
		ProductionOrderID:       m.ProductionOrderID,
		TransferID:              m.TransferID,
		CreatedBy:               m.CreatedBy,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
	if m.AdjustmentReason != nil {
		r := string(*m.AdjustmentReason)
		resp.AdjustmentReason = &r
		resp.AdjustmentReasonLabel = m.AdjustmentReason.Label()
	}
	if m.BeforeQuantity != nil && m.AfterQuantity != nil {
		resp.BalanceChange = m.BeforeQuantity.String() + " → " + m.AfterQuantity.String()
	}
	return resp
}

func toRevisionResponse(rev *entity.StockMovementRevision) dto.MovementRevisionResponse {
	fields := rev.ChangedFields
	if fields == nil {
		fields = []string{}
	}
	return dto.MovementRevisionResponse{
		ID:                    rev.ID,
		MovementID:            rev.MovementID,
		StockItemID:           rev.StockItemID,
		MovementType:          string(rev.Type),
		Quantity:              rev.Quantity,
		SourceLocationID:      rev.SourceLocationID,
		DestinationLocationID: rev.DestinationLocationID,
		ChangedFields:         fields,
		Reason:                rev.Reason,
		ChangedBy:             rev.ChangedBy,
		ChangedAt:             rev.ChangedAt,
	}
}

func toLocationResponse(l *entity.StockLocation) dto.LocationResponse {
	return dto.LocationResponse{
		ID:          l.ID,
		Name:        l.Name,
		Description: l.Description,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func toThresholdResponse(t *entity.StockThreshold) dto.ThresholdResponse {
	return dto.ThresholdResponse{
		SupplyItemID: t.SupplyItemID,
		MinQuantity:  t.MinQuantity,
		AlertEnabled: t.AlertEnabled,
	}
}
