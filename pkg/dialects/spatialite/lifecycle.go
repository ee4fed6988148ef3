package spatialite

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/format"
)

// planCreate registers the column in geometry_columns and, when indexed,
// builds its R*Tree and compacts the database.
//
//	SELECT AddGeometryColumn('roads', 'geom', 4326, 'LINESTRING', 2, 1)
//	SELECT CreateSpatialIndex('roads', 'geom')
//	VACUUM
func planCreate(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
	stmts := []core.Statement{
		dialect.ColumnStatement(core.StmtRegister, col, dialect.SelectFunc(core.DefaultIdentifiers, "AddGeometryColumn",
			core.String(col.Table),
			core.String(col.Column),
			core.Int(col.SRID),
			core.String(col.NormalizedType()),
			core.Int(col.EffectiveDimension()),
			core.Int(col.NotNullFlag()),
		)),
	}
	if dialect.WantsIndex(col, caps) {
		stmts = append(stmts,
			dialect.ColumnStatement(core.StmtCreateIndex, col, dialect.SelectFunc(core.DefaultIdentifiers, "CreateSpatialIndex",
				core.String(col.Table), core.String(col.Column))),
			// SQLite's VACUUM rebuilds the whole database file; it takes a
			// schema name, never a table.
			dialect.TableStatement(core.StmtCompact, col.Table, "VACUUM"),
		)
	}
	return stmts
}

// planDrop removes the R*Tree (when indexed) before the catalog row.
//
//	SELECT DisableSpatialIndex('roads', 'geom')
//	DROP TABLE idx_roads_geom
//	SELECT DiscardGeometryColumn('roads', 'geom')
func planDrop(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
	var stmts []core.Statement
	if dialect.WantsIndex(col, caps) {
		stmts = append(stmts,
			dialect.ColumnStatement(core.StmtDisableIndex, col, dialect.SelectFunc(core.DefaultIdentifiers, "DisableSpatialIndex",
				core.String(col.Table), core.String(col.Column))),
			dialect.ColumnStatement(core.StmtDropIndexStorage, col,
				"DROP TABLE "+format.QuoteIfNeeded(col.IndexName(), core.DefaultIdentifiers)),
		)
	}
	return append(stmts,
		dialect.ColumnStatement(core.StmtDeregister, col, dialect.SelectFunc(core.DefaultIdentifiers, "DiscardGeometryColumn",
			core.String(col.Table), core.String(col.Column))),
	)
}
