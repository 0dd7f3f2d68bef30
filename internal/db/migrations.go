package db

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations executes database migrations from the specified path.
// It uses golang-migrate to apply migrations to the provided database connection.
//
// Parameters:
//   - db: An open database connection
//   - dialect: DialectSQLite or DialectPostgres
//   - migrationsPath: Source URL of the migration files (e.g., "file://./migrations/sqlite")
//
// Returns:
//   - error: nil if migrations succeed or if there are no changes to apply
func RunMigrations(db *sql.DB, dialect, migrationsPath string) error {
	var (
		driver database.Driver
		err    error
	)
	switch dialect {
	case DialectSQLite:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case DialectPostgres:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return fmt.Errorf("unsupported migration dialect: %s", dialect)
	}
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, dialect, driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Migrate applies the migrations for this database's dialect.
// migrationsDir holds one subdirectory per dialect, e.g. ./migrations/sqlite and ./migrations/postgres.
func (db *DB) Migrate(migrationsDir string) error {
	sqlDB, err := db.GetSQLDB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	dir, err := filepath.Abs(filepath.Join(migrationsDir, db.Dialect))
	if err != nil {
		return fmt.Errorf("failed to resolve migrations directory: %w", err)
	}

	return RunMigrations(sqlDB, db.Dialect, "file://"+filepath.ToSlash(dir))
}
