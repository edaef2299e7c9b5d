package repository

import (
	"context"

	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
)

// ItemFilter filtros opcionales (AND) para listar ítems de un restaurante.
type ItemFilter struct {
	ID       *int64
	Name     string          // subcadena, sin distinguir mayúsculas
	Category entity.Category // exacta
}

// InventoryItemRepository define el puerto de persistencia para ítems de inventario (DIP).
// Todas las operaciones están acotadas por restaurantID (aislamiento multi-tenant).
// Las lecturas devuelven (nil, nil) si el ítem no existe en el restaurante.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, restaurantID string, id int64) (*entity.InventoryItem, error)
	GetByNameKey(ctx context.Context, restaurantID, nameKey string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del ítem hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, restaurantID string, id int64) (*entity.InventoryItem, error)
	// UpdateQuantity solo lo usa el motor de movimientos, dentro de su transacción.
	UpdateQuantity(ctx context.Context, restaurantID string, id int64, quantity int64) error
	// UpdateMeta actualiza nombre y categoría; nunca la cantidad.
	UpdateMeta(ctx context.Context, item *entity.InventoryItem) error
	List(ctx context.Context, restaurantID string, filter ItemFilter) ([]*entity.InventoryItem, error)
}
