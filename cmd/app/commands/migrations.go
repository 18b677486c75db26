package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migrateDatabase "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/custodia-labs/custodia/internal/database"
)

// migrationsDir is the directory holding one subdirectory of migrations per engine.
var migrationsDir = "migrations"

// migrationSubdirs maps document store drivers to their migrations subdirectory.
var migrationSubdirs = map[string]string{
	"postgres": "postgresql",
	"mysql":    "mysql",
	"sqlite":   "sqlite",
}

// RunMigrations creates the documents table for a SQL document store.
//
// The connection is opened with the same DSN the server uses, so MySQL and SQLite
// connection strings need no migrate-specific scheme. The mongo and memory drivers
// have no schema and are skipped. Returns nil when there is nothing to apply.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	if driver == "mongo" || driver == "memory" {
		logger.Info("document store has no schema, skipping migrations", slog.String("driver", driver))
		return nil
	}

	subdir, ok := migrationSubdirs[driver]
	if !ok {
		return fmt.Errorf("unsupported document store driver: %s", driver)
	}

	logger.Info("running database migrations", slog.String("driver", driver))

	db, err := database.Connect(database.Config{
		Driver:             driver,
		ConnectionString:   connectionString,
		MaxOpenConnections: 1,
		MaxIdleConnections: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	var instance migrateDatabase.Driver
	switch driver {
	case "postgres":
		instance, err = postgres.WithInstance(db, &postgres.Config{})
	case "mysql":
		instance, err = mysql.WithInstance(db, &mysql.Config{})
	case "sqlite":
		instance, err = sqlite.WithInstance(db, &sqlite.Config{})
	}
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s/%s", migrationsDir, subdir),
		driver,
		instance,
	)
	if err != nil {
		_ = instance.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
