package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

type migrator struct {
	db *sqlx.DB

	logger *slog.Logger
}

// NewDatabaseMigrator returns a migrator applying the embedded migrations to a schema in db
func NewDatabaseMigrator(db *sqlx.DB, logger *slog.Logger) *migrator {
	return &migrator{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the schema if needed and applies every pending migration to it
func (m *migrator) Migrate(ctx context.Context, schemaName string) error {
	return m.withMigrate(ctx, schemaName, func(instance *migrate.Migrate) error {
		m.logger.InfoContext(ctx, "Applying skill snapshot migrations", "schema", schemaName)
		err := instance.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.InfoContext(ctx, "Schema already up to date", "schema", schemaName)
			return nil
		}
		if err != nil {
			return fmt.Errorf("migrate: failed to apply migrations: %w", err)
		}

		version, dirty, err := instance.Version()
		if err != nil {
			return fmt.Errorf("migrate: failed to read version: %w", err)
		}
		m.logger.InfoContext(ctx, "Applied skill snapshot migrations", "schema", schemaName, "version", version, "dirty", dirty)
		return nil
	})
}

// rollback reverts every migration in the schema
func (m *migrator) rollback(ctx context.Context, schemaName string) error {
	return m.withMigrate(ctx, schemaName, func(instance *migrate.Migrate) error {
		if err := instance.Down(); err != nil {
			return fmt.Errorf("migrate: failed to roll back: %w", err)
		}
		return nil
	})
}

// withMigrate pins a single connection to the schema and runs fn with a migrate instance bound to it
func (m *migrator) withMigrate(ctx context.Context, schemaName string, fn func(*migrate.Migrate) error) error {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("migrate: failed to connect to db: %w", err)
	}
	defer conn.Close()

	if err := useSchema(ctx, conn, schemaName); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	source, err := iofs.New(embeddedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrate: failed to read embedded migrations: %w", err)
	}
	defer source.Close()

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{
		DatabaseName: DB_NAME,
		SchemaName:   schemaName,
	})
	if err != nil {
		return fmt.Errorf("migrate: failed to create postgres driver: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate: failed to create migration instance: %w", err)
	}
	defer instance.Close()

	return fn(instance)
}

func useSchema(ctx context.Context, conn *sql.Conn, schemaName string) error {
	quoted := pq.QuoteIdentifier(schemaName)

	if _, err := conn.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+quoted); err != nil {
		return fmt.Errorf("failed to create schema %s: %w", schemaName, err)
	}
	if _, err := conn.ExecContext(ctx, "SET search_path TO "+quoted); err != nil {
		return fmt.Errorf("failed to set search path to %s: %w", schemaName, err)
	}
	return nil
}
