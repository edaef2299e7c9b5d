package repository

import "context"

// ItemExitTotal total de salidas (OUT) de un ítem.
type ItemExitTotal struct {
	ItemID int64
	Total  int64
}

// AnalyticsRepository define las consultas de lectura agregadas sobre el libro.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// ExitTotalsByItem suma las salidas por ítem. Solo incluye ítems con al menos una salida.
	ExitTotalsByItem(ctx context.Context, restaurantID string) ([]ItemExitTotal, error)
}
