package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

var movementColumns = []string{
	"id", "item_id", "restaurant_id", "type", "quantity", "entry_date",
	"off_date", "price", "invoice_url", "destination", "created_by",
}

// MovementRepo libro de movimientos sobre PostgreSQL (solo inserción y lectura).
type MovementRepo struct {
	q       Querier
	timeout time.Duration
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier, timeout time.Duration) *MovementRepo {
	return &MovementRepo{q: q, timeout: timeout}
}

// Create persiste un movimiento y asigna su ID.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	const query = `
		INSERT INTO inventory_movements
			(item_id, restaurant_id, type, quantity, entry_date, off_date, price, invoice_url, destination, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	var destination, createdBy *string
	if m.Destination != nil {
		d := string(*m.Destination)
		destination = &d
	}
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	err := r.q.QueryRow(ctx, query,
		m.ItemID, m.RestaurantID, string(m.Type), m.Quantity, m.EntryDate,
		m.OffDate, m.Price, m.InvoiceURL, destination, createdBy,
	).Scan(&m.ID)
	return mapError(err, "create inventory movement")
}

// List devuelve los movimientos del restaurante que cumplen el filtro,
// ordenados por entry_date DESC e id DESC.
func (r *MovementRepo) List(ctx context.Context, restaurantID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	sql, args, err := movementListQuery(restaurantID, f).Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "list inventory movements")
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, mapError(err, "scan inventory movement")
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list inventory movements")
	}
	return list, nil
}

// movementListQuery traduce el filtro a predicados.
func movementListQuery(restaurantID string, f repository.MovementFilter) SelectQuery {
	q := SelectQuery{
		Table:      "inventory_movements",
		Columns:    movementColumns,
		Predicates: []Predicate{Eq("restaurant_id", restaurantID)},
		OrderBy:    []string{"entry_date DESC", "id DESC"},
	}
	if f.ItemID != nil {
		q.Predicates = append(q.Predicates, Eq("item_id", *f.ItemID))
	}
	if f.Type != "" {
		q.Predicates = append(q.Predicates, Eq("type", string(f.Type)))
	}
	if f.From != nil {
		q.Predicates = append(q.Predicates, Gte("entry_date", *f.From))
	}
	if f.To != nil {
		q.Predicates = append(q.Predicates, Lte("entry_date", *f.To))
	}
	return q
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var movType string
	var price decimal.NullDecimal
	var destination, createdBy *string
	if err := row.Scan(
		&m.ID, &m.ItemID, &m.RestaurantID, &movType, &m.Quantity, &m.EntryDate,
		&m.OffDate, &price, &m.InvoiceURL, &destination, &createdBy,
	); err != nil {
		return nil, err
	}
	m.Type = entity.MovementType(movType)
	if price.Valid {
		p := price.Decimal
		m.Price = &p
	}
	if destination != nil {
		d := entity.Destination(*destination)
		m.Destination = &d
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
