package inventory

import (
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
)

// ApplyMovement calcula la nueva cantidad de un ítem tras un movimiento.
// Una salida que deja el stock negativo devuelve domain.ErrInsufficientStock.
func ApplyMovement(current int64, movType entity.MovementType, quantity int64) (int64, error) {
	if quantity <= 0 {
		return current, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	switch movType {
	case entity.MovementTypeIN:
		return current + quantity, nil
	case entity.MovementTypeOUT:
		next := current - quantity
		if next < 0 {
			return current, domain.ErrInsufficientStock
		}
		return next, nil
	}
	return current, domain.NewValidationError("type", "debe ser IN u OUT")
}

// Reconcile suma el libro de movimientos de un ítem (Σ IN − Σ OUT).
func Reconcile(movements []*entity.Movement) int64 {
	var total int64
	for _, m := range movements {
		total += m.Delta()
	}
	return total
}
