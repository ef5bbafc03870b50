package stock

import "context"

// RecalculateMany recalcula cada StockItem en su propia transacción. Los que fallan se
// registran en el log y se omiten; devuelve cuántos se recalcularon.
func (uc *LedgerUseCase) RecalculateMany(ctx context.Context, ids []string) int {
	done := 0
	for _, id := range ids {
		if _, err := uc.Recalculate(ctx, id); err != nil {
			uc.log.Warn().Err(err).Str("stock_item_id", id).Msg("recalculo omitido")
			continue
		}
		done++
	}
	return done
}

// ForceEntryMany fuerza la entrada de cada lote (ubicación por defecto) en su propia
// transacción. Cuenta solo los lotes a los que se aplicó.
func (o *Orchestrator) ForceEntryMany(ctx context.Context, userID string, batchIDs []string) int {
	done := 0
	for _, id := range batchIDs {
		applied, err := o.ForceEntry(ctx, userID, id, nil)
		if err != nil {
			o.log.Warn().Err(err).Str("batch_id", id).Msg("entrada forzada omitida")
			continue
		}
		if applied {
			done++
		}
	}
	return done
}
