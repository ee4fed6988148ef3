// Package adapter provides the database connection contract used by
// leapgeo's lifecycle hooks and CLI.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories and
// register themselves by type name from init().
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
)

type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all database adapters must implement.
// An Adapter satisfies schema.Conn, so hooks can run on it directly.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// ServerVersion reports the engine version. The first successful
	// answer is cached for the lifetime of the connection.
	ServerVersion(ctx context.Context) (core.Version, error)

	// Dialect returns the spatial dialect spoken by this adapter.
	Dialect() *dialect.Dialect

	// SQLDB exposes the underlying pool for goose migrations.
	SQLDB() *sql.DB
}
