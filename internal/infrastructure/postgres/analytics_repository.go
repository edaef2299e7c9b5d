package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre el libro de movimientos.
type AnalyticsRepo struct {
	q       Querier
	timeout time.Duration
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier, timeout time.Duration) *AnalyticsRepo {
	return &AnalyticsRepo{q: q, timeout: timeout}
}

// ExitTotalsByItem suma las salidas (OUT) por ítem, ordenado por item_id.
func (r *AnalyticsRepo) ExitTotalsByItem(ctx context.Context, restaurantID string) ([]repository.ItemExitTotal, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	sql, args, err := SelectQuery{
		Table:   "inventory_movements",
		Columns: []string{"item_id", "SUM(quantity)::BIGINT AS total"},
		Predicates: []Predicate{
			Eq("restaurant_id", restaurantID),
			Eq("type", string(entity.MovementTypeOUT)),
		},
		GroupBy: []string{"item_id"},
		OrderBy: []string{"item_id"},
	}.Build()
	if err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "exit totals by item")
	}
	defer rows.Close()

	var out []repository.ItemExitTotal
	for rows.Next() {
		var t repository.ItemExitTotal
		if err := rows.Scan(&t.ItemID, &t.Total); err != nil {
			return nil, mapError(err, "scan exit total")
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "exit totals by item")
	}
	return out, nil
}
