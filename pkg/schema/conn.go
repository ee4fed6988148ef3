package schema

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
)

// Conn is the connection a hook runs on.
type Conn interface {
	// Exec executes a statement that returns no rows.
	Exec(ctx context.Context, sql string) error
	// ServerVersion reports the engine version of this connection.
	ServerVersion(ctx context.Context) (core.Version, error)
}

// DBConn adapts a *sql.DB to Conn using the dialect's version query.
// The version is queried once per DBConn; failed lookups are retried.
type DBConn struct {
	DB      *sql.DB
	Dialect *dialect.Dialect

	mu      sync.Mutex
	version *core.Version
}

// NewDBConn wraps db for dialect d.
func NewDBConn(db *sql.DB, d *dialect.Dialect) *DBConn {
	return &DBConn{DB: db, Dialect: d}
}

// Exec implements Conn.
func (c *DBConn) Exec(ctx context.Context, sqlStr string) error {
	if c.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	if _, err := c.DB.ExecContext(ctx, sqlStr); err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// ServerVersion implements Conn.
func (c *DBConn) ServerVersion(ctx context.Context) (core.Version, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.version != nil {
		return *c.version, nil
	}
	if c.Dialect == nil {
		return core.Version{}, dialect.ErrDialectRequired
	}
	v, err := QueryVersion(ctx, c.DB, c.Dialect)
	if err != nil {
		return core.Version{}, err
	}
	c.version = &v
	return v, nil
}

// QueryVersion runs the dialect's version query on db and parses the result.
func QueryVersion(ctx context.Context, db *sql.DB, d *dialect.Dialect) (core.Version, error) {
	if db == nil {
		return core.Version{}, fmt.Errorf("database connection not established")
	}
	q := d.VersionQuery()
	if q == "" {
		return core.Version{}, fmt.Errorf("dialect %s has no version query", d.Name)
	}
	var raw string
	if err := db.QueryRowContext(ctx, q).Scan(&raw); err != nil {
		return core.Version{}, fmt.Errorf("failed to query server version: %w", err)
	}
	return core.ParseVersion(raw)
}
