package repository

import (
	"context"
	"time"

	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
)

// MovementFilter filtros opcionales (AND) sobre el libro de movimientos.
// From/To se aplican sobre EntryDate y son inclusivos.
type MovementFilter struct {
	ItemID *int64
	Type   entity.MovementType
	From   *time.Time
	To     *time.Time
}

// MovementRepository define el puerto de persistencia del libro de movimientos.
// Solo inserta y lee: los movimientos son inmutables.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	// List devuelve los movimientos ordenados por EntryDate descendente y, en empate, ID descendente.
	List(ctx context.Context, restaurantID string, filter MovementFilter) ([]*entity.Movement, error)
}
