package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
	"github.com/jhoicas/restaurant-inventory-api/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	itemCols = []string{"id", "restaurant_id", "name", "name_key", "category", "quantity", "created_at", "updated_at"}
	created  = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	tenant   = domain.Tenant{RestaurantID: "rest-a", UserID: "user-1"}
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func itemRows(id int64, qty int64) *pgxmock.Rows {
	return pgxmock.NewRows(itemCols).
		AddRow(id, "rest-a", "Tomato", "tomato", "Vegetable", qty, created, created)
}

// ──────────────────────────────────────────────────────────────────────────────
// InventoryItemRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestItemRepo_GetByID(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewInventoryItemRepository(mock, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta("FROM inventory_items WHERE restaurant_id = $1 AND id = $2")).
		WithArgs("rest-a", int64(7)).
		WillReturnRows(itemRows(7, 20))

	item, err := repo.GetByID(context.Background(), "rest-a", 7)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, int64(7), item.ID)
	assert.Equal(t, entity.CategoryVegetable, item.Category)
	assert.Equal(t, int64(20), item.Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_GetByIDNoExiste(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewInventoryItemRepository(mock, time.Second)

	mock.ExpectQuery("FROM inventory_items").
		WithArgs("rest-a", int64(9)).
		WillReturnRows(pgxmock.NewRows(itemCols))

	item, err := repo.GetByID(context.Background(), "rest-a", 9)
	require.NoError(t, err)
	assert.Nil(t, item)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_CreateDuplicado(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewInventoryItemRepository(mock, time.Second)

	mock.ExpectQuery("INSERT INTO inventory_items").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &entity.InventoryItem{RestaurantID: "rest-a", Name: "Tomato", NameKey: "tomato"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_ListConFiltros(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewInventoryItemRepository(mock, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM inventory_items WHERE restaurant_id = $1 AND name_key ILIKE $2 AND category = $3 ORDER BY name_key, id")).
		WithArgs("rest-a", "%tomato%", "Vegetable").
		WillReturnRows(itemRows(1, 5).AddRow(int64(2), "rest-a", "Cherry Tomato", "cherry tomato", "Vegetable", int64(0), created, created))

	list, err := repo.List(context.Background(), "rest-a", repository.ItemFilter{Name: " TOMATO ", Category: entity.CategoryVegetable})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cherry Tomato", list[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepo_UpdateQuantitySinFilas(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewInventoryItemRepository(mock, time.Second)

	mock.ExpectExec("UPDATE inventory_items SET quantity").
		WithArgs("rest-a", int64(3), int64(10)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateQuantity(context.Background(), "rest-a", 3, 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementRepo / AnalyticsRepo
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementRepo_Create(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewMovementRepository(mock, time.Second)

	dest := entity.DestinationKitchen
	m := &entity.Movement{
		ItemID: 7, RestaurantID: "rest-a", Type: entity.MovementTypeOUT, Quantity: 3,
		EntryDate: created, Destination: &dest, CreatedBy: "user-1",
	}
	mock.ExpectQuery("INSERT INTO inventory_movements").
		WithArgs(int64(7), "rest-a", "OUT", int64(3), created,
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))

	require.NoError(t, repo.Create(context.Background(), m))
	assert.Equal(t, int64(42), m.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepo_ListErrorDeConexion(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewMovementRepository(mock, time.Second)
	from := created

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM inventory_movements WHERE restaurant_id = $1 AND type = $2 AND entry_date >= $3 ORDER BY entry_date DESC, id DESC")).
		WithArgs("rest-a", "IN", from).
		WillReturnError(context.DeadlineExceeded)

	_, err := repo.List(context.Background(), "rest-a", repository.MovementFilter{Type: entity.MovementTypeIN, From: &from})
	assert.ErrorIs(t, err, domain.ErrTimeout)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalyticsRepo_ExitTotalsByItem(t *testing.T) {
	mock := newMock(t)
	repo := postgres.NewAnalyticsRepository(mock, time.Second)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE restaurant_id = $1 AND type = $2 GROUP BY item_id ORDER BY item_id")).
		WithArgs("rest-a", "OUT").
		WillReturnRows(pgxmock.NewRows([]string{"item_id", "total"}).
			AddRow(int64(1), int64(30)).
			AddRow(int64(4), int64(12)))

	totals, err := repo.ExitTotalsByItem(context.Background(), "rest-a")
	require.NoError(t, err)
	assert.Equal(t, []repository.ItemExitTotal{{ItemID: 1, Total: 30}, {ItemID: 4, Total: 12}}, totals)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner + motor de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_MovimientoConfirmado(t *testing.T) {
	mock := newMock(t)
	engine := inventory.NewRegisterMovementUseCase(postgres.NewTxRunner(mock, time.Second), inventory.DefaultMovementPolicy())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE restaurant_id = $1 AND id = $2 FOR UPDATE")).
		WithArgs("rest-a", int64(7)).
		WillReturnRows(itemRows(7, 50))
	mock.ExpectExec("UPDATE inventory_items SET quantity").
		WithArgs("rest-a", int64(7), int64(20)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO inventory_movements").
		WithArgs(int64(7), "rest-a", "OUT", int64(30), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(100)))
	mock.ExpectCommit()

	mov, err := engine.RegisterMovement(context.Background(), tenant, inventory.MovementInputDTO{
		ItemID: 7, Type: "OUT", Quantity: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), mov.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_StockInsuficienteHaceRollback(t *testing.T) {
	mock := newMock(t)
	engine := inventory.NewRegisterMovementUseCase(postgres.NewTxRunner(mock, time.Second), inventory.DefaultMovementPolicy())

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs("rest-a", int64(7)).
		WillReturnRows(itemRows(7, 20))
	mock.ExpectRollback()

	_, err := engine.RegisterMovement(context.Background(), tenant, inventory.MovementInputDTO{
		ItemID: 7, Type: "OUT", Quantity: decimal.NewFromInt(25),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_FallaDeInsercionHaceRollback(t *testing.T) {
	mock := newMock(t)
	engine := inventory.NewRegisterMovementUseCase(postgres.NewTxRunner(mock, time.Second), inventory.DefaultMovementPolicy())

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(itemRows(7, 20))
	mock.ExpectExec("UPDATE inventory_items SET quantity").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("INSERT INTO inventory_movements").
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	_, err := engine.RegisterMovement(context.Background(), tenant, inventory.MovementInputDTO{
		ItemID: 7, Type: "IN", Quantity: decimal.NewFromInt(5),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunner_BeginFalla(t *testing.T) {
	mock := newMock(t)
	runner := postgres.NewTxRunner(mock, time.Second)

	mock.ExpectBegin().WillReturnError(context.DeadlineExceeded)
	err := runner.Run(context.Background(), func(context.Context, repository.InventoryItemRepository, repository.MovementRepository) error {
		t.Fatal("no debe ejecutarse")
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

// ──────────────────────────────────────────────────────────────────────────────
// Migraciones
// ──────────────────────────────────────────────────────────────────────────────

func TestMigrations_Embebidas(t *testing.T) {
	migrations, err := postgres.Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "001_init.sql", migrations[0].Version)
	assert.Contains(t, migrations[0].SQL, "CHECK (quantity >= 0)")
	assert.Contains(t, migrations[0].SQL, "UNIQUE (restaurant_id, name_key)")
}

func TestMigrate_OmiteAplicadas(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("001_init.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	applied, err := postgres.Migrate(context.Background(), mock)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
