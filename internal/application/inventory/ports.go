package inventory

import (
	"context"

	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y nada de lo escrito persiste.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		itemRepo repository.InventoryItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// MetricsInvalidator descarta las métricas cacheadas de un restaurante tras una mutación.
type MetricsInvalidator interface {
	Invalidate(restaurantID string)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(string) {}
