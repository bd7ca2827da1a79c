// Package store is the store adapter: typed access to the relations
// backing the block tree, plus connection setup and a process-global,
// immutable prepared-statement cache.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgx_migrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlite_migrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/blocktreedb/chainvalidator/internal/metrics"
	"github.com/blocktreedb/chainvalidator/internal/model"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 10
	defaultConnMaxLifetime = 10 * time.Minute
)

// Backend names the database/sql driver a Config was opened against.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// Config describes how to connect to the backing store. Exactly one
// backend is active per process; BackendPostgres is the default and the
// one the store's integration tests open, BackendSQLite is pure Go (no cgo).
type Config struct {
	Backend            Backend       `long:"backend" env:"BACKEND" description:"store backend: postgres or sqlite" default:"postgres"`
	DSN                string        `long:"dsn" env:"DSN" description:"data source name for the chosen backend"`
	MaxOpenConnections int           `long:"max-open-connections" env:"MAX_OPEN_CONNECTIONS" default:"25"`
	MaxIdleConnections  int           `long:"max-idle-connections" env:"MAX_IDLE_CONNECTIONS" default:"10"`
	ConnMaxLifetime     time.Duration `long:"conn-max-lifetime" env:"CONN_MAX_LIFETIME" default:"10m"`
}

// BaseDB wraps the raw *sql.DB with the prepared-statement cache. It
// implements BatchedQuerier so it can be handed directly to a
// TransactionExecutor.
type BaseDB struct {
	*sql.DB

	Backend Backend
	Stmts   *PreparedStatements
}

// Queries returns a Queries bound directly to the pool, for reads that
// don't need to run inside the organizer's or validator's transaction.
func (b *BaseDB) Queries() *Queries {
	return New(b.DB, b.Backend)
}

// GetAncestorAtDepth answers the ancestor-range predicate from the
// prepared-statement cache, the validator's hottest read.
func (b *BaseDB) GetAncestorAtDepth(ctx context.Context, spanLeft, spanRight, depth int64) (model.Position, error) {
	started := time.Now()
	row := b.Stmts.GetAncestor.QueryRowContext(ctx, depth, spanLeft, spanRight)
	pos, err := scanPosition(row)
	metrics.Store("get_ancestor_at_depth", err, started)
	return pos, err
}

// BeginTx opens a new transaction at SERIALIZABLE isolation, so the
// organizer's re-parent step and the validator's finalize step each run
// as one atomic unit.
func (b *BaseDB) BeginTx(ctx context.Context, opts TxOptions) (*sql.Tx, error) {
	return b.DB.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
		ReadOnly:  opts.ReadOnly(),
	})
}

// Open connects to the configured backend, applies pending migrations,
// and prepares the statement cache. The returned BaseDB is safe for
// concurrent use; Stmts is immutable after Open returns.
func Open(ctx context.Context, cfg Config) (*BaseDB, error) {
	driverName, migrateDriver, err := driverNames(cfg.Backend)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Backend, err)
	}

	maxOpen := cfg.MaxOpenConnections
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := cfg.MaxIdleConnections
	if maxIdle <= 0 {
		maxIdle = defaultMaxIdleConns
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = defaultConnMaxLifetime
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(lifetime)

	if err := pingWithContext(ctx, db); err != nil {
		return nil, fmt.Errorf("ping %s: %w", cfg.Backend, err)
	}

	if err := applyMigrations(db, migrateDriver, string(cfg.Backend)); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	stmts, err := prepareStatements(ctx, db, cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return &BaseDB{DB: db, Backend: cfg.Backend, Stmts: stmts}, nil
}

// Migrate connects to the configured backend and applies pending
// migrations without preparing the statement cache, for standalone use
// by a migration-runner command.
func Migrate(ctx context.Context, cfg Config) error {
	driverName, migrateDriver, err := driverNames(cfg.Backend)
	if err != nil {
		return err
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := pingWithContext(ctx, db); err != nil {
		return fmt.Errorf("ping %s: %w", cfg.Backend, err)
	}

	return applyMigrations(db, migrateDriver, string(cfg.Backend))
}

func pingWithContext(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func driverNames(backend Backend) (sqlDriver, migrateDriver string, err error) {
	switch backend {
	case BackendPostgres:
		return "pgx", "pgx5", nil
	case BackendSQLite:
		return "sqlite", "sqlite3", nil
	default:
		return "", "", fmt.Errorf("unknown store backend %q", backend)
	}
}

func applyMigrations(db *sql.DB, migrateDriverName, backend string) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations/"+backend)
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	var dbDriver database.Driver
	switch migrateDriverName {
	case "pgx5":
		dbDriver, err = pgx_migrate.WithInstance(db, &pgx_migrate.Config{})
	case "sqlite3":
		dbDriver, err = sqlite_migrate.WithInstance(db, &sqlite_migrate.Config{})
	default:
		return fmt.Errorf("unknown migration driver %q", migrateDriverName)
	}
	if err != nil {
		return fmt.Errorf("build migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, migrateDriverName, dbDriver)
	if err != nil {
		return fmt.Errorf("build migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
