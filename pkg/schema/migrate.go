package schema

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/pressly/goose/v3"
)

// VersionTable is the goose version table used for spatial column migrations.
const VersionTable = "leapgeo_db_version"

// Migration builds a goose migration that creates cols on up and drops them,
// in reverse order, on down. Both directions run with the transaction
// disabled so every lifecycle statement commits independently.
func (h *Hooks) Migration(version int64, cols ...core.SpatialColumn) *goose.Migration {
	up := &goose.GoFunc{RunDB: func(ctx context.Context, db *sql.DB) error {
		conn := NewDBConn(db, h.Dialect)
		for _, col := range cols {
			if err := h.OnColumnCreate(ctx, conn, col); err != nil {
				return err
			}
		}
		return nil
	}}
	down := &goose.GoFunc{RunDB: func(ctx context.Context, db *sql.DB) error {
		conn := NewDBConn(db, h.Dialect)
		for i := len(cols) - 1; i >= 0; i-- {
			if err := h.OnColumnDrop(ctx, conn, cols[i]); err != nil {
				return err
			}
		}
		return nil
	}}
	return goose.NewGoMigration(version, up, down)
}

// NewMigrator creates a goose provider running the given migrations against
// db. The dialect must name a goose store.
func (h *Hooks) NewMigrator(db *sql.DB, migrations ...*goose.Migration) (*goose.Provider, error) {
	if h.Dialect == nil {
		return nil, fmt.Errorf("failed to create migrator: dialect is required")
	}
	store := h.Dialect.GooseDialect()
	if store == "" {
		return nil, fmt.Errorf("dialect %s does not support migrations", h.Dialect.Name)
	}
	p, err := goose.NewProvider(goose.Dialect(store), db, nil,
		goose.WithGoMigrations(migrations...),
		goose.WithDisableGlobalRegistry(true),
		goose.WithTableName(VersionTable),
		goose.WithSlog(h.logger()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return p, nil
}

// ColumnMigrations turns a columns list into one migration per column,
// numbered from 1 in file order.
func (h *Hooks) ColumnMigrations(cols []core.SpatialColumn) []*goose.Migration {
	ms := make([]*goose.Migration, 0, len(cols))
	for i, col := range cols {
		ms = append(ms, h.Migration(int64(i+1), col))
	}
	return ms
}
