package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db      TxBeginner
	timeout time.Duration
}

// NewTxRunner construye el runner. timeout acota la transacción completa.
func NewTxRunner(db TxBeginner, timeout time.Duration) *TxRunner {
	return &TxRunner{db: db, timeout: timeout}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	itemRepo repository.InventoryItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return mapError(err, "begin transaction")
	}
	// Rollback tras Commit es un no-op; con ctx vencido igual debe liberar la conexión
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(ctx, NewInventoryItemRepository(tx, 0), NewMovementRepository(tx, 0)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}
