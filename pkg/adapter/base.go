package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/schema"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query and ServerVersion implementations.
type BaseSQLAdapter struct {
	DB             *sql.DB
	Cfg            core.AdapterConfig
	Logger         *slog.Logger
	SpatialDialect *dialect.Dialect

	mu      sync.Mutex
	version *core.Version
}

// Attach stores an open pool and forgets any cached server version.
func (b *BaseSQLAdapter) Attach(db *sql.DB, cfg core.AdapterConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.DB = db
	b.Cfg = cfg
	b.version = nil
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	b.mu.Lock()
	b.version = nil
	b.mu.Unlock()
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.Rows, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// ServerVersion runs the dialect's version query once per connection.
// Failures are not cached.
func (b *BaseSQLAdapter) ServerVersion(ctx context.Context) (core.Version, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.version != nil {
		return *b.version, nil
	}
	if b.SpatialDialect == nil {
		return core.Version{}, dialect.ErrDialectRequired
	}
	v, err := schema.QueryVersion(ctx, b.DB, b.SpatialDialect)
	if err != nil {
		return core.Version{}, err
	}
	if b.Logger != nil {
		b.Logger.Debug("detected server version", "dialect", b.SpatialDialect.Name, "version", v.String())
	}
	b.version = &v
	return v, nil
}

// Dialect returns the adapter's spatial dialect.
func (b *BaseSQLAdapter) Dialect() *dialect.Dialect {
	return b.SpatialDialect
}

// SQLDB returns the underlying pool.
func (b *BaseSQLAdapter) SQLDB() *sql.DB {
	return b.DB
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// Params decodes cfg.Params into out with mapstructure. Missing params
// leave out untouched.
func Params(cfg core.AdapterConfig, out any) error {
	if len(cfg.Params) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("failed to create params decoder: %w", err)
	}
	if err := dec.Decode(cfg.Params); err != nil {
		return fmt.Errorf("invalid %s params: %w", cfg.Type, err)
	}
	return nil
}
