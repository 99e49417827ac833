package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"ms-events/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

//go:embed sql/*.sql
var files embed.FS

// Runner applies the embedded schema migrations to a bun handle. The handle
// is shared with the rest of the process, so closing the runner never closes
// it.
type Runner struct {
	bunDB    *bun.DB
	logger   *logger.Logger
	migrator *migrate.Migrate
	src      source.Driver
	conn     *sql.Conn
}

func NewRunner(bunDB *bun.DB, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{bunDB: bunDB, logger: log}
}

// Initialize prepares the migration system
func (r *Runner) Initialize(ctx context.Context) error {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	var (
		driver database.Driver
		name   string
	)
	switch r.bunDB.Dialect().Name() {
	case dialect.PG:
		// A dedicated connection keeps the advisory lock on one session and
		// can be released without closing the pool.
		conn, err := r.bunDB.DB.Conn(ctx)
		if err != nil {
			src.Close()
			return fmt.Errorf("failed to acquire migration connection: %w", err)
		}
		driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{MultiStatementEnabled: true})
		if err != nil {
			conn.Close()
			src.Close()
			return fmt.Errorf("failed to create postgres migration driver: %w", err)
		}
		r.conn = conn
		name = "postgres"
	case dialect.SQLite:
		driver, err = sqlite.WithInstance(r.bunDB.DB, &sqlite.Config{})
		if err != nil {
			src.Close()
			return fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
		name = "sqlite"
	default:
		src.Close()
		return fmt.Errorf("migrations are not supported for dialect %s", r.bunDB.Dialect().Name())
	}

	migrator, err := migrate.NewWithInstance("iofs", src, name, driver)
	if err != nil {
		r.Close()
		src.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	r.src = src
	r.migrator = migrator
	return nil
}

func (r *Runner) ensure(ctx context.Context) error {
	if r.migrator != nil {
		return nil
	}
	return r.Initialize(ctx)
}

// RunMigrations brings the schema to the latest version. A migration left
// dirty by an interrupted run is forced to its recorded version first.
func (r *Runner) RunMigrations(ctx context.Context) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}

	version, dirty, err := r.migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		r.logger.Warn("MIGRATE", fmt.Sprintf("Detected dirty migration at version %d, forcing", version))
		if err := r.migrator.Force(int(version)); err != nil {
			return fmt.Errorf("failed to fix dirty migration: %w", err)
		}
	}

	r.logger.Info("MIGRATE", "Running schema migrations...")
	if err := r.migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, err = r.migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	r.logger.Info("MIGRATE", fmt.Sprintf("Current schema version: %d", version))
	return nil
}

// MigrateDown rolls back all migrations
func (r *Runner) MigrateDown(ctx context.Context) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}

	if err := r.migrator.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// MigrateTo migrates up or down to a specific version
func (r *Runner) MigrateTo(ctx context.Context, version uint) error {
	if err := r.ensure(ctx); err != nil {
		return err
	}

	if err := r.migrator.Migrate(version); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration to version %d failed: %w", version, err)
	}
	return nil
}

// Version reports the applied version; zero means nothing has run yet.
func (r *Runner) Version(ctx context.Context) (uint, bool, error) {
	if err := r.ensure(ctx); err != nil {
		return 0, false, err
	}

	version, dirty, err := r.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close releases the embedded source and the dedicated postgres connection.
func (r *Runner) Close() error {
	var errs []error
	if r.src != nil {
		errs = append(errs, r.src.Close())
		r.src = nil
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			errs = append(errs, err)
		}
		r.conn = nil
	}
	r.migrator = nil
	return errors.Join(errs...)
}
