// Package sqlstore implements the ledger store over a relational database.
// It supports PostgreSQL (the original deployment target) and embedded
// SQLite for single-binary and test use, selected by configuration.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/lib/pq"       // PostgreSQL driver
	_ "modernc.org/sqlite"      // Pure Go SQLite driver

	"github.com/avendall/stockfolio/internal/domain"
)

// Driver names accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds store configuration. DSN is a PostgreSQL connection string
// ("host=... dbname=... sslmode=disable") or a SQLite path such as
// "stockfolio.db" or ":memory:".
type Config struct {
	Driver string
	DSN    string
}

// Store wraps the database connection and implements domain.Ledger.
type Store struct {
	db     *sql.DB
	driver string
	log    zerolog.Logger
}

// Open connects to the configured database, verifies the connection and
// creates the ledger tables when they do not exist yet.
func Open(cfg Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// One connection: SQLite is single-writer, and this keeps an
		// in-memory database on the same connection across statements.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetConnMaxLifetime(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{
		db:     db,
		driver: cfg.Driver,
		log:    log.With().Str("component", "sqlstore").Str("driver", cfg.Driver).Logger(),
	}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	store.log.Debug().Msg("ledger store ready")
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx implements domain.Ledger: fn runs inside one database transaction,
// committed when it returns nil and rolled back in full otherwise.
func (s *Store) Tx(ctx context.Context, fn func(tx domain.LedgerTx) error) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", domain.ErrPersistence, err)
	}
	defer dbTx.Rollback()

	if err := fn(&ledgerTx{tx: dbTx, driver: s.driver}); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("%w: commit transaction: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (s *Store) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: init schema: %v", domain.ErrPersistence, err)
		}
	}
	return nil
}
