package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Dialect names the SQL flavour of the underlying store.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "pgx"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "pgx", "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", s)
	}
}

// DB is the single choke point for statements sent to the store.
// Queries are written with `?` placeholders and rebound for the dialect;
// every statement is logged together with its bound parameters.
type DB struct {
	*sql.DB
	dialect Dialect
	logs    *zap.SugaredLogger
	// pgxConfig is kept so migrations can run on a short-lived handle of their own.
	pgxConfig *pgx.ConnConfig
}

// New wraps an already opened *sql.DB. It does not bootstrap the schema.
func New(sqlDB *sql.DB, dialect Dialect, logger *zap.SugaredLogger) *DB {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DB{DB: sqlDB, dialect: dialect, logs: logger}
}

// Open connects to the store, verifies the connection and bootstraps the schema.
//
// For SQLite the DSN is a file path or a `file:` URI; foreign keys and a busy
// timeout are enabled through DSN parameters so every pooled connection gets them.
// For Postgres the DSN is a pgx connection string.
func Open(ctx context.Context, dialect Dialect, dsn string, logger *zap.SugaredLogger) (*DB, error) {
	var (
		sqlDB  *sql.DB
		pgxCfg *pgx.ConnConfig
		err    error
	)
	switch dialect {
	case DialectSQLite:
		if dsn == "" {
			dsn = "forum.db"
		}
		sqlDB, err = sql.Open(string(DialectSQLite), withSQLiteParams(dsn))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// single writer; also keeps shared-cache in-memory databases alive
		sqlDB.SetMaxOpenConns(1)
	case DialectPostgres:
		pgxCfg, err = pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		pgxCfg.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
		pgxCfg.StatementCacheCapacity = 256
		sqlDB = stdlib.OpenDB(*pgxCfg)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// journal_mode may not be supported in some contexts (e.g., in-memory). Ignore errors.
		_, _ = sqlDB.ExecContext(ctx, `PRAGMA journal_mode=WAL`)
	}

	d := New(sqlDB, dialect, logger)
	d.pgxConfig = pgxCfg
	if err := d.Bootstrap(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return d, nil
}

func withSQLiteParams(dsn string) string {
	params := []string{"_foreign_keys=1", "_busy_timeout=5000"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// Dialect reports the SQL flavour of the store.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// Rebind converts `?` placeholders to the dialect's positional form.
func (d *DB) Rebind(query string) string {
	if d.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = d.prepare(query, args)
	return d.DB.ExecContext(ctx, query, args...)
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = d.prepare(query, args)
	return d.DB.QueryContext(ctx, query, args...)
}

func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	query = d.prepare(query, args)
	return d.DB.QueryRowContext(ctx, query, args...)
}

func (d *DB) prepare(query string, args []any) string {
	query = d.Rebind(query)
	if len(args) == 0 {
		d.logs.Debugw("query", "statement", compact(query))
	} else {
		d.logs.Debugw("query", "statement", compact(query), "params", args)
	}
	return query
}

// compact folds a multi-line statement onto one line for logging.
func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
