// Package sqlite persists products and tasks in a SQLite database using
// modernc.org/sqlite. The schema is created on open.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		text         TEXT NOT NULL,
		is_completed INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id                 TEXT PRIMARY KEY,
		sku                TEXT NOT NULL,
		upc                TEXT,
		title              TEXT NOT NULL,
		description        TEXT,
		product_type       TEXT NOT NULL,
		weight             REAL NOT NULL,
		weight_unit        TEXT NOT NULL,
		length             REAL NOT NULL,
		width              REAL NOT NULL,
		height             REAL NOT NULL,
		dimension_unit     TEXT NOT NULL,
		country_of_origin  TEXT,
		hs_tariff_code     TEXT,
		lot_tracked        INTEGER NOT NULL DEFAULT 0,
		serial_tracked     INTEGER NOT NULL DEFAULT 0,
		expiration_tracked INTEGER NOT NULL DEFAULT 0,
		min_stock_level    INTEGER,
		max_stock_level    INTEGER,
		active             INTEGER NOT NULL DEFAULT 1,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,

		CHECK (product_type IN ('rigid', 'textile', 'fragile', 'perishable', 'hazmat', 'liquid', 'other')),
		CHECK (weight_unit IN ('oz', 'lb', 'g', 'kg')),
		CHECK (dimension_unit IN ('in', 'ft', 'cm', 'mm', 'm'))
	);

	CREATE UNIQUE INDEX IF NOT EXISTS by_sku ON products(sku);
	CREATE INDEX IF NOT EXISTS by_upc ON products(upc);
	CREATE INDEX IF NOT EXISTS by_type ON products(product_type);
	CREATE INDEX IF NOT EXISTS by_active ON products(active);
`

// DB is an open SQLite database holding the warehouse schema
type DB struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path.
// Parent directories are created if needed.
func Open(path string, logger *slog.Logger) (*DB, error) {
	logger = logger.With("component", "sqlite")

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Serialise writers; SQLite allows only one at a time anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return &DB{db: db, logger: logger}, nil
}

// Ping checks that the database is reachable
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the database
func (d *DB) Close() error {
	d.logger.Info("closing SQLite store")
	return d.db.Close()
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// timeLayout is fixed width so stored timestamps sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}
