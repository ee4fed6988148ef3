// Package postgres provides a PostgreSQL/PostGIS database adapter for leapgeo.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/leapgeo/pkg/adapter"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/postgis"
)

// Params holds PostgreSQL-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// CreateExtension runs CREATE EXTENSION IF NOT EXISTS postgis on connect.
	CreateExtension bool `mapstructure:"create_extension"`

	// SearchPath is sent as the search_path runtime parameter.
	SearchPath string `mapstructure:"search_path"`

	// ApplicationName is sent as the application_name runtime parameter.
	ApplicationName string `mapstructure:"application_name"`
}

// ParseParams decodes the adapter params, applying defaults.
func ParseParams(cfg adapter.Config) (*Params, error) {
	p := &Params{ApplicationName: "leapgeo"}
	if err := adapter.Params(cfg, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger, SpatialDialect: postgis.PostGIS},
	}
}

// Connect establishes a connection to PostgreSQL.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg)
	if err != nil {
		return err
	}

	connCfg, err := connConfig(cfg, params)
	if err != nil {
		return err
	}

	a.Logger.Debug("connecting to postgres", slog.String("host", connCfg.Host), slog.String("database", connCfg.Database))

	db := stdlib.OpenDB(*connCfg)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	if params.CreateExtension {
		if _, err := db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS postgis"); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to create postgis extension: %w", err)
		}
	}

	a.Attach(db, cfg)
	return nil
}

// PostGISVersion reports the version of the installed PostGIS extension.
func (a *Adapter) PostGISVersion(ctx context.Context) (string, error) {
	if a.DB == nil {
		return "", fmt.Errorf("database connection not established")
	}
	var v string
	if err := a.DB.QueryRowContext(ctx, "SELECT PostGIS_Lib_Version()").Scan(&v); err != nil {
		return "", fmt.Errorf("failed to query postgis version: %w", err)
	}
	return v, nil
}

func connConfig(cfg adapter.Config, params *Params) (*pgx.ConnConfig, error) {
	connCfg, err := pgx.ParseConfig(buildPostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("invalid postgres connection settings: %w", err)
	}
	if params.SearchPath != "" {
		connCfg.RuntimeParams["search_path"] = params.SearchPath
	}
	if params.ApplicationName != "" {
		connCfg.RuntimeParams["application_name"] = params.ApplicationName
	}
	return connCfg, nil
}

// buildPostgresDSN constructs a PostgreSQL connection string.
func buildPostgresDSN(cfg adapter.Config) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if cfg.Options != nil {
		if mode, ok := cfg.Options["sslmode"]; ok {
			sslmode = mode
		}
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, cfg.Database, sslmode)

	if cfg.Username != "" {
		dsn += fmt.Sprintf(" user=%s", cfg.Username)
	}
	if cfg.Password != "" {
		dsn += fmt.Sprintf(" password=%s", cfg.Password)
	}

	return dsn
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
