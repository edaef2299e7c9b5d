package entity

import "time"

// InventoryItem representa un ítem del inventario de un restaurante.
// Quantity solo cambia a través del motor de movimientos; nunca se edita directamente.
type InventoryItem struct {
	ID           int64
	RestaurantID string
	Name         string
	NameKey      string // nombre normalizado (trim + case folding), único por restaurante
	Category     Category
	Quantity     int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
