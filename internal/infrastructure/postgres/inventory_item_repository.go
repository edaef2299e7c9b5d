package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

const itemsTable = "inventory_items"

var itemColumns = []string{"id", "restaurant_id", "name", "name_key", "category", "quantity", "created_at", "updated_at"}

// InventoryItemRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryItemRepo struct {
	q       Querier
	timeout time.Duration
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
// timeout acota cada operación; dentro de una tx se pasa 0 porque el runner ya la acota.
func NewInventoryItemRepository(q Querier, timeout time.Duration) *InventoryItemRepo {
	return &InventoryItemRepo{q: q, timeout: timeout}
}

// Create inserta el ítem y asigna su ID.
func (r *InventoryItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	const query = `
		INSERT INTO inventory_items (restaurant_id, name, name_key, category, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		item.RestaurantID, item.Name, item.NameKey, string(item.Category),
		item.Quantity, item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)
	return mapError(err, "create inventory item")
}

// GetByID obtiene un ítem del restaurante; (nil, nil) si no existe.
func (r *InventoryItemRepo) GetByID(ctx context.Context, restaurantID string, id int64) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item", SelectQuery{
		Predicates: []Predicate{Eq("restaurant_id", restaurantID), Eq("id", id)},
	})
}

// GetByNameKey busca por nombre normalizado.
func (r *InventoryItemRepo) GetByNameKey(ctx context.Context, restaurantID, nameKey string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item by name", SelectQuery{
		Predicates: []Predicate{Eq("restaurant_id", restaurantID), Eq("name_key", nameKey)},
	})
}

// GetForUpdate obtiene el ítem y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, restaurantID string, id int64) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get inventory item for update", SelectQuery{
		Predicates: []Predicate{Eq("restaurant_id", restaurantID), Eq("id", id)},
		ForUpdate:  true,
	})
}

func (r *InventoryItemRepo) getOne(ctx context.Context, op string, q SelectQuery) (*entity.InventoryItem, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	q.Table, q.Columns = itemsTable, itemColumns
	sql, args, err := q.Build()
	if err != nil {
		return nil, err
	}
	item, err := scanItem(r.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(err, op)
	}
	return item, nil
}

// UpdateQuantity fija la cantidad. Solo la usa el motor de movimientos dentro de su transacción.
func (r *InventoryItemRepo) UpdateQuantity(ctx context.Context, restaurantID string, id int64, quantity int64) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	const query = `
		UPDATE inventory_items SET quantity = $3, updated_at = now()
		WHERE restaurant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query, restaurantID, id, quantity)
	if err != nil {
		return mapError(err, "update inventory quantity")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateMeta actualiza nombre y categoría.
func (r *InventoryItemRepo) UpdateMeta(ctx context.Context, item *entity.InventoryItem) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	const query = `
		UPDATE inventory_items SET name = $3, name_key = $4, category = $5, updated_at = $6
		WHERE restaurant_id = $1 AND id = $2`
	tag, err := r.q.Exec(ctx, query,
		item.RestaurantID, item.ID, item.Name, item.NameKey, string(item.Category), item.UpdatedAt)
	if err != nil {
		return mapError(err, "update inventory item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista los ítems del restaurante por nombre.
func (r *InventoryItemRepo) List(ctx context.Context, restaurantID string, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()
	q := SelectQuery{
		Table:      itemsTable,
		Columns:    itemColumns,
		Predicates: []Predicate{Eq("restaurant_id", restaurantID)},
		OrderBy:    []string{"name_key", "id"},
	}
	if f.ID != nil {
		q.Predicates = append(q.Predicates, Eq("id", *f.ID))
	}
	if key := inventory.NameKey(f.Name); key != "" {
		q.Predicates = append(q.Predicates, Contains("name_key", key))
	}
	if f.Category != "" {
		q.Predicates = append(q.Predicates, Eq("category", string(f.Category)))
	}
	sql, args, err := q.Build()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "list inventory items")
	}
	defer rows.Close()

	var list []*entity.InventoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, mapError(err, "scan inventory item")
		}
		list = append(list, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "list inventory items")
	}
	return list, nil
}

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	var category string
	if err := row.Scan(
		&it.ID, &it.RestaurantID, &it.Name, &it.NameKey, &category,
		&it.Quantity, &it.CreatedAt, &it.UpdatedAt,
	); err != nil {
		return nil, err
	}
	it.Category = entity.Category(category)
	return &it, nil
}
