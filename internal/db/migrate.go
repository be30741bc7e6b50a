package db

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
)

// Versioned .sql files per dialect following the golang-migrate pattern:
//
//	0001_name.up.sql / 0001_name.down.sql
//
//go:embed migrations
var migrationsFS embed.FS

// baselineVersion is the migration whose schema matches databases created before
// migrations were tracked. Databases that already contain its tables are stamped
// with this version instead of being migrated from scratch.
const baselineVersion = 1

// Bootstrap creates the schema and seeds the demonstration users on first run.
// It is idempotent and safe to call on every startup.
func (d *DB) Bootstrap(ctx context.Context) error {
	existing, err := d.tableExists(ctx, "users")
	if err != nil {
		return fmt.Errorf("check users table: %w", err)
	}

	m, release, err := d.migrator()
	if err != nil {
		return err
	}
	defer release()

	if existing {
		_, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			d.logs.Infow("baselining existing schema", "version", baselineVersion)
			if err := m.Force(baselineVersion); err != nil {
				return fmt.Errorf("force baseline version: %w", err)
			}
		case err != nil:
			return fmt.Errorf("read migration version: %w", err)
		case dirty:
			return errors.New("schema is in a dirty migration state")
		}
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		d.logs.Infow("no new migrations to apply", "dialect", d.dialect)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	d.logs.Infow("migrations applied", "dialect", d.dialect)
	return nil
}

// RollbackLast rolls back the most recently applied migration.
// It is a no-op when nothing has been applied.
func RollbackLast(d *DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	m, release, err := d.migrator()
	if err != nil {
		return err
	}
	defer release()
	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read migration version: %w", err)
	}
	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("rollback version %04d: %w", version, err)
	}
	d.logs.Infow("migration rolled back", "version", version)
	return nil
}

// migrator builds a migrate instance for the dialect. The returned release
// func frees what the instance holds without closing the shared *sql.DB.
func (d *DB) migrator() (*migrate.Migrate, func(), error) {
	var (
		dir     string
		driver  database.Driver
		release = func() {}
		err     error
	)
	switch d.dialect {
	case DialectSQLite:
		// the sqlite driver's Close would close the shared handle; it pins nothing else
		dir = "migrations/sqlite"
		driver, err = migratesqlite.WithInstance(d.DB, &migratesqlite.Config{})
	case DialectPostgres:
		// the pgx driver pins a *sql.Conn for its lifetime, so it gets its own handle
		dir = "migrations/postgres"
		handle := d.DB
		if d.pgxConfig != nil {
			handle = stdlib.OpenDB(*d.pgxConfig)
		}
		driver, err = migratepgx.WithInstance(handle, &migratepgx.Config{})
		if err != nil && handle != d.DB {
			_ = handle.Close()
		}
		if err == nil && handle != d.DB {
			release = func() {
				if cerr := driver.Close(); cerr != nil {
					d.logs.Debugw("close migration driver", "error", cerr)
				}
				_ = handle.Close()
			}
		}
	default:
		return nil, nil, fmt.Errorf("unsupported dialect %q", d.dialect)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create migrate driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, string(d.dialect), driver)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, release, nil
}

func (d *DB) tableExists(ctx context.Context, table string) (bool, error) {
	var query string
	switch d.dialect {
	case DialectPostgres:
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?`
	default:
		query = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	}
	var n int
	if err := d.QueryRowContext(ctx, query, table).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}
