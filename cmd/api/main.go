package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/restaurant-inventory-api/internal/application/analytics"
	"github.com/jhoicas/restaurant-inventory-api/internal/application/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/entity"
	domaininv "github.com/jhoicas/restaurant-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/restaurant-inventory-api/internal/domain/repository"
	"github.com/jhoicas/restaurant-inventory-api/internal/infrastructure/cache"
	"github.com/jhoicas/restaurant-inventory-api/internal/infrastructure/memory"
	"github.com/jhoicas/restaurant-inventory-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/restaurant-inventory-api/internal/interfaces/http"
	"github.com/jhoicas/restaurant-inventory-api/pkg/config"
	"github.com/jhoicas/restaurant-inventory-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// backend repositorios y runner transaccional de un driver concreto.
type backend struct {
	txRunner      inventory.TxRunner
	itemRepo      repository.InventoryItemRepository
	movementRepo  repository.MovementRepository
	analyticsRepo repository.AnalyticsRepository
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be, err := newBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a persistencia")
	}
	defer be.close()

	metricsCache := cache.NewMetricsCache(cfg.Inventory.MetricsCacheSize, cfg.Inventory.MetricsCacheTTL)
	availability := domaininv.NewAvailabilityPolicy(cfg.Inventory.LowStockThreshold)
	movementPolicy := inventory.MovementPolicy{
		DefaultDestination: entity.Destination(cfg.Inventory.DefaultDestination),
		RequireDestination: cfg.Inventory.RequireDestination,
	}

	registerMovementUC := inventory.NewRegisterMovementUseCase(be.txRunner, movementPolicy,
		inventory.WithInvalidator(metricsCache),
		inventory.WithLogger(log),
	)
	itemUC := inventory.NewItemUseCase(be.txRunner, be.itemRepo,
		inventory.WithInvalidator(metricsCache),
		inventory.WithLogger(log),
	)
	reportUC := analytics.NewReportUseCase(be.itemRepo, be.movementRepo, availability)
	metricsUC := analytics.NewMetricsUseCase(be.itemRepo, be.analyticsRepo, availability, metricsCache, log)

	deps := httpRouter.RouterDeps{
		AppName:   cfg.App.Name,
		Movements: registerMovementUC,
		Reports:   reportUC,
		Items:     itemUC,
		Metrics:   metricsUC,
		Validate:  httpRouter.NewValidator(),
		Logger:    log,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
	}
	if _, err := os.Stat(swaggerFile); err == nil {
		deps.SwaggerFile = swaggerFile
	}
	app := httpRouter.NewApp(deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newBackend elige el driver: memory para desarrollo y pruebas, postgres en el resto.
func newBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.DB.Driver == config.DriverMemory {
		store := memory.NewStore()
		return &backend{
			txRunner:      store,
			itemRepo:      store.ItemRepository(),
			movementRepo:  store.MovementRepository(),
			analyticsRepo: store.AnalyticsRepository(),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	timeout := cfg.DB.QueryTimeout
	return &backend{
		txRunner:      postgres.NewTxRunner(pool, timeout),
		itemRepo:      postgres.NewInventoryItemRepository(pool, timeout),
		movementRepo:  postgres.NewMovementRepository(pool, timeout),
		analyticsRepo: postgres.NewAnalyticsRepository(pool, timeout),
		close:         pool.Close,
	}, nil
}
