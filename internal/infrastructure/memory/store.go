// Package memory implementa los puertos de persistencia en memoria de proceso.
// Sirve para desarrollo local sin PostgreSQL (DB_DRIVER=memory) y como doble en tests.
// Una transacción toma el candado global del Store: es más estricto que el bloqueo de
// fila de PostgreSQL pero preserva la misma garantía (lectura-verificación-escritura atómica).
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	domaininv "github.com/jhoicas/restaurant-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	items          map[int64]entity.InventoryItem
	movements      []entity.Movement
	nextItemID     int64
	nextMovementID int64
}

func (s *state) clone() *state {
	c := &state{
		items:          make(map[int64]entity.InventoryItem, len(s.items)),
		movements:      make([]entity.Movement, len(s.movements)),
		nextItemID:     s.nextItemID,
		nextMovementID: s.nextMovementID,
	}
	for id, it := range s.items {
		c.items[id] = it
	}
	copy(c.movements, s.movements)
	return c
}

// Store almacén en memoria con semántica transaccional (todo o nada).
type Store struct {
	mu sync.Mutex
	st *state

	failMovementInsert error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: &state{items: map[int64]entity.InventoryItem{}}}
}

// ItemRepository repositorio de ítems fuera de transacción.
func (s *Store) ItemRepository() repository.InventoryItemRepository {
	return &itemRepo{store: s}
}

// MovementRepository repositorio de movimientos fuera de transacción.
func (s *Store) MovementRepository() repository.MovementRepository {
	return &movementRepo{store: s}
}

// AnalyticsRepository consultas agregadas de solo lectura.
func (s *Store) AnalyticsRepository() repository.AnalyticsRepository {
	return &analyticsRepo{store: s}
}

// FailNextMovementInsert hace fallar la próxima inserción de movimiento con err.
// Permite comprobar que la cantidad ya actualizada se revierte.
func (s *Store) FailNextMovementInsert(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failMovementInsert = err
}

// Run ejecuta fn con el candado tomado; si fn falla se restaura el estado previo.
func (s *Store) Run(ctx context.Context, fn func(
	ctx context.Context,
	itemRepo repository.InventoryItemRepository,
	movRepo repository.MovementRepository,
) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.st.clone()
	if err := fn(ctx, &itemRepo{store: s, inTx: true}, &movementRepo{store: s, inTx: true}); err != nil {
		s.st = backup
		return err
	}
	if err := ctxErr(ctx); err != nil {
		s.st = backup
		return err
	}
	return nil
}

func (s *Store) with(inTx bool, fn func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.st)
}

func ctxErr(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Ítems
// ──────────────────────────────────────────────────────────────────────────────

type itemRepo struct {
	store *Store
	inTx  bool
}

func (r *itemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	return r.store.with(r.inTx, func(st *state) error {
		for _, it := range st.items {
			if it.RestaurantID == item.RestaurantID && it.NameKey == item.NameKey {
				return domain.ErrDuplicate
			}
		}
		if item.Quantity < 0 {
			return domain.ErrInsufficientStock
		}
		st.nextItemID++
		item.ID = st.nextItemID
		st.items[item.ID] = *item
		return nil
	})
}

func (r *itemRepo) GetByID(ctx context.Context, restaurantID string, id int64) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.store.with(r.inTx, func(st *state) error {
		if it, ok := st.items[id]; ok && it.RestaurantID == restaurantID {
			out = &it
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) GetByNameKey(ctx context.Context, restaurantID, nameKey string) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.store.with(r.inTx, func(st *state) error {
		for _, it := range st.items {
			if it.RestaurantID == restaurantID && it.NameKey == nameKey {
				it := it
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) GetForUpdate(ctx context.Context, restaurantID string, id int64) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, restaurantID, id)
}

func (r *itemRepo) UpdateQuantity(ctx context.Context, restaurantID string, id int64, quantity int64) error {
	return r.store.with(r.inTx, func(st *state) error {
		it, ok := st.items[id]
		if !ok || it.RestaurantID != restaurantID {
			return domain.ErrNotFound
		}
		if quantity < 0 {
			return domain.ErrInsufficientStock
		}
		it.Quantity = quantity
		st.items[id] = it
		return nil
	})
}

func (r *itemRepo) UpdateMeta(ctx context.Context, item *entity.InventoryItem) error {
	return r.store.with(r.inTx, func(st *state) error {
		it, ok := st.items[item.ID]
		if !ok || it.RestaurantID != item.RestaurantID {
			return domain.ErrNotFound
		}
		for id, other := range st.items {
			if id != item.ID && other.RestaurantID == item.RestaurantID && other.NameKey == item.NameKey {
				return domain.ErrDuplicate
			}
		}
		it.Name = item.Name
		it.NameKey = item.NameKey
		it.Category = item.Category
		it.UpdatedAt = item.UpdatedAt
		st.items[item.ID] = it
		return nil
	})
}

func (r *itemRepo) List(ctx context.Context, restaurantID string, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	needle := domaininv.NameKey(f.Name)
	err := r.store.with(r.inTx, func(st *state) error {
		for _, it := range st.items {
			if it.RestaurantID != restaurantID {
				continue
			}
			if f.ID != nil && it.ID != *f.ID {
				continue
			}
			if f.Category != "" && it.Category != f.Category {
				continue
			}
			if needle != "" && !strings.Contains(it.NameKey, needle) {
				continue
			}
			it := it
			out = append(out, &it)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].NameKey != out[j].NameKey {
			return out[i].NameKey < out[j].NameKey
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

type movementRepo struct {
	store *Store
	inTx  bool
}

func (r *movementRepo) Create(ctx context.Context, m *entity.Movement) error {
	return r.store.with(r.inTx, func(st *state) error {
		if err := r.store.failMovementInsert; err != nil {
			r.store.failMovementInsert = nil
			return err
		}
		st.nextMovementID++
		m.ID = st.nextMovementID
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *movementRepo) List(ctx context.Context, restaurantID string, f repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.store.with(r.inTx, func(st *state) error {
		for _, m := range st.movements {
			if m.RestaurantID != restaurantID {
				continue
			}
			if f.ItemID != nil && m.ItemID != *f.ItemID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if f.From != nil && m.EntryDate.Before(*f.From) {
				continue
			}
			if f.To != nil && m.EntryDate.After(*f.To) {
				continue
			}
			m := m
			out = append(out, &m)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.After(out[j].EntryDate)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

// ──────────────────────────────────────────────────────────────────────────────
// Analítica
// ──────────────────────────────────────────────────────────────────────────────

type analyticsRepo struct {
	store *Store
}

func (r *analyticsRepo) ExitTotalsByItem(ctx context.Context, restaurantID string) ([]repository.ItemExitTotal, error) {
	totals := map[int64]int64{}
	err := r.store.with(false, func(st *state) error {
		for _, m := range st.movements {
			if m.RestaurantID == restaurantID && m.Type == entity.MovementTypeOUT {
				totals[m.ItemID] += m.Quantity
			}
		}
		return nil
	})
	out := make([]repository.ItemExitTotal, 0, len(totals))
	for id, total := range totals {
		out = append(out, repository.ItemExitTotal{ItemID: id, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, err
}
