package main

import (
	"context"

	"github.com/jhoicas/restaurant-inventory-api/internal/infrastructure/postgres"
	"github.com/jhoicas/restaurant-inventory-api/pkg/config"
	"github.com/jhoicas/restaurant-inventory-api/pkg/logger"
)

// Aplica las migraciones embebidas pendientes. Uso: go run ./cmd/migrate
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	if cfg.DB.Driver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.DB.Driver).Msg("las migraciones solo aplican a postgres")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	if len(applied) == 0 {
		log.Info().Msg("base de datos al día")
		return
	}
	for _, version := range applied {
		log.Info().Str("version", version).Msg("migración aplicada")
	}
}
