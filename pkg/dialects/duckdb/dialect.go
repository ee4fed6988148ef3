// Package duckdb provides the DuckDB spatial extension dialect definition.
// This package is pure Go with no database driver dependencies.
package duckdb

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/postgis"
	"github.com/leapstack-labs/leapgeo/pkg/format"
)

// RTreeFloor is the first DuckDB release whose spatial extension ships
// RTREE indexes.
var RTreeFloor = core.Version{Major: 1, Minor: 1, Patch: 0}

// DuckDB is the DuckDB spatial dialect. It follows PostGIS naming; the
// renderers the extension lacks are marked unsupported.
var DuckDB = dialect.NewDialect("duckdb").
	Extends(postgis.PostGIS).
	Identifiers(`"`, `"`, `""`, core.NormCaseInsensitive).
	PlaceholderStyle(core.PlaceholderQuestion).
	Unsupported(dialect.SVG, dialect.KML, dialect.GML).
	Gate(dialect.VersionGate{Floor: RTreeFloor}).
	Lifecycle(dialect.Lifecycle{Create: planCreate, Drop: planDrop}).
	VersionQuery("SELECT version()").
	Build()

func quote(name string) string {
	return format.QuoteIfNeeded(name, core.DefaultIdentifiers)
}

// planCreate builds an RTREE index. DuckDB has no geometry catalog; the
// GEOMETRY column type is the registration.
func planCreate(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
	if !dialect.WantsIndex(col, caps) {
		return nil
	}
	return []core.Statement{
		dialect.ColumnStatement(core.StmtCreateIndex, col,
			"CREATE INDEX "+quote(col.IndexName())+" ON "+quote(col.Table)+" USING RTREE ("+quote(col.Column)+")"),
		dialect.TableStatement(core.StmtCompact, col.Table, "CHECKPOINT"),
	}
}

func planDrop(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
	if !dialect.WantsIndex(col, caps) {
		return nil
	}
	return []core.Statement{
		dialect.ColumnStatement(core.StmtDropIndexStorage, col, "DROP INDEX IF EXISTS "+quote(col.IndexName())),
	}
}
