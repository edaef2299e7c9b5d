package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration script SQL versionado por nombre de archivo (001_init.sql, ...).
type Migration struct {
	Version string
	SQL     string
}

// Migrations devuelve los scripts embebidos en orden.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	out := make([]Migration, 0, len(names))
	for _, name := range names {
		body, err := migrationsFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", name, err)
		}
		out = append(out, Migration{Version: name[len("migrations/"):], SQL: string(body)})
	}
	return out, nil
}

// Migrate aplica los scripts pendientes, cada uno en su propia transacción,
// y registra la versión en schema_migrations. Devuelve las versiones aplicadas.
func Migrate(ctx context.Context, db TxBeginner) ([]string, error) {
	const ensure = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT        PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := db.Exec(ctx, ensure); err != nil {
		return nil, mapError(err, "crear schema_migrations")
	}
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range migrations {
		var exists bool
		err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version).Scan(&exists)
		if err != nil {
			return applied, mapError(err, "consultar migración "+m.Version)
		}
		if exists {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return applied, err
		}
		applied = append(applied, m.Version)
	}
	return applied, nil
}

func applyMigration(ctx context.Context, db TxBeginner, m Migration) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return mapError(err, "begin migración "+m.Version)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return mapError(err, "aplicar migración "+m.Version)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
		return mapError(err, "registrar migración "+m.Version)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "commit migración "+m.Version)
	}
	return nil
}
