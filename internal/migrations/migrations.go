package migrations

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/antonio-alexander/go-employee-manager/internal/utilities"

	"github.com/pkg/errors"
)

const tableMigrations = "schema_migrations"

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS ` + tableMigrations + ` (
	version BIGINT NOT NULL,
	start_time DATETIME NOT NULL,
	duration_ms BIGINT,
	PRIMARY KEY (version)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

// Migrate describes a single schema version; UP applies it.
type Migrate struct {
	UP func(ctx context.Context, tx *sql.Tx) error
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, createMigrationsTable)
	return err
}

func lastMigration(ctx context.Context, db *sql.DB) (int64, error) {
	var version int64

	row := db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM "+tableMigrations+";")
	if err := row.Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// Run applies every pending migration in ascending version order, each in
// its own transaction, and records the applied version.
func Run(ctx context.Context, db *sql.DB, logger utilities.Logger, migrationsMap map[int64]Migrate) error {
	var versions []int64

	for version, migration := range migrationsMap {
		if version <= 0 {
			return errors.Errorf("migration version must be positive: %d", version)
		}
		if migration.UP == nil {
			return errors.Errorf("migration %d has no UP defined", version)
		}
		versions = append(versions, version)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })
	if err := ensureMigrationsTable(ctx, db); err != nil {
		return err
	}
	appliedVersion, err := lastMigration(ctx, db)
	if err != nil {
		return err
	}
	for _, version := range versions {
		if version <= appliedVersion {
			continue
		}
		startTime := time.Now()
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := migrationsMap[version].UP(ctx, tx); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "migration %d failed", version)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+tableMigrations+
			" (version, start_time, duration_ms) VALUES (?, ?, ?);",
			version, startTime, time.Since(startTime).Milliseconds()); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "unable to record migration %d", version)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		if logger != nil {
			logger.Info(ctx, "applied migration %d in %s", version, time.Since(startTime))
		}
	}
	return nil
}
