package dialect

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/format"
)

// SelectFunc renders "SELECT name(args...)", the form spatial catalogs use
// for their management functions.
func SelectFunc(ids core.IdentifierConfig, name string, args ...core.Expr) string {
	return format.Select(&core.SelectStmt{
		Columns: []core.Expr{core.Func(name, args...)},
	}, ids)
}

// ColumnStatement builds a statement scoped to a table and column.
func ColumnStatement(kind core.StatementKind, col core.SpatialColumn, sql string) core.Statement {
	return core.Statement{Kind: kind, Table: col.Table, Column: col.Column, SQL: sql}
}

// TableStatement builds a statement scoped to a whole table.
func TableStatement(kind core.StatementKind, table, sql string) core.Statement {
	return core.Statement{Kind: kind, Table: table, SQL: sql}
}

// WantsIndex reports whether index statements apply: the column declares a
// secondary index and the connection supports the mechanism.
func WantsIndex(col core.SpatialColumn, caps Capabilities) bool {
	return col.SpatialIndex && caps.SpatialIndex
}
