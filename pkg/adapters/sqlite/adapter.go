// Package sqlite provides a SQLite database adapter that loads the
// SpatiaLite extension on every connection.
package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapgeo/pkg/adapter"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/spatialite"
	"github.com/mattn/go-sqlite3"
)

// Params holds SQLite-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// Extension is the SpatiaLite library to load (name or path).
	Extension string `mapstructure:"extension"`

	// InitMetadata creates the spatial metadata tables on connect when
	// they are missing.
	InitMetadata bool `mapstructure:"init_metadata"`
}

// DefaultExtension is the SpatiaLite module name resolved by the dynamic loader.
const DefaultExtension = "mod_spatialite"

// ParseParams decodes the adapter params, applying defaults.
func ParseParams(cfg adapter.Config) (*Params, error) {
	p := &Params{Extension: DefaultExtension}
	if err := adapter.Params(cfg, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Adapter implements the adapter.Adapter interface for SQLite + SpatiaLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, SpatialDialect: spatialite.SpatiaLite},
	}
}

// Connect opens the database file and loads SpatiaLite.
// Use ":memory:" as the path for an in-memory database.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg)
	if err != nil {
		return err
	}
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path), slog.String("extension", params.Extension))

	db := sql.OpenDB(&connector{
		dsn:    path,
		driver: &sqlite3.SQLiteDriver{Extensions: []string{params.Extension}},
	})
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to open sqlite database with %s: %w", params.Extension, err)
	}

	if params.InitMetadata {
		if err := initMetadata(ctx, db); err != nil {
			_ = db.Close()
			return err
		}
	}

	a.Attach(db, cfg)
	return nil
}

func initMetadata(ctx context.Context, db *sql.DB) error {
	var n int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'geometry_columns'").Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to inspect spatial metadata: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := db.ExecContext(ctx, "SELECT InitSpatialMetadata(1)"); err != nil {
		return fmt.Errorf("failed to initialize spatial metadata: %w", err)
	}
	return nil
}

// connector binds a DSN to a driver configured with the extension list,
// so different adapters can load different libraries.
type connector struct {
	dsn    string
	driver *sqlite3.SQLiteDriver
}

func (c *connector) Connect(_ context.Context) (driver.Conn, error) {
	return c.driver.Open(c.dsn)
}

func (c *connector) Driver() driver.Driver {
	return c.driver
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
