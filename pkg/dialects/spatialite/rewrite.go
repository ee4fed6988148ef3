package spatialite

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/ogc"
)

// WithinDistance rewrites within_distance(g1, g2, d).
//
// When g1 is a column reference declared with a spatial index and the
// connection supports R*Tree, the exact check is paired with a bounding-box
// pre-filter on the column's index table:
//
//	Distance(g1, g2) <= d AND t.rowid IN (
//	  SELECT pkid FROM idx_t_c
//	  WHERE xmin >= MbrMinX(g2) - d AND xmax <= MbrMaxX(g2) + d
//	    AND ymin >= MbrMinY(g2) - d AND ymax <= MbrMaxY(g2) + d)
//
// Otherwise only the exact check is emitted. The pre-filter expands the
// query box by d on every side, so it never drops a row the exact check
// would keep.
func WithinDistance(c *dialect.Compiler, args []core.Expr) (core.Expr, error) {
	exact, err := ogc.WithinDistance(c, args)
	if err != nil {
		return nil, err
	}
	g1, g2, d := args[0], args[1], args[2]

	col, ok := g1.(*core.ColumnRef)
	if !ok || !col.Indexed() || !c.Caps.SpatialIndex {
		return exact, nil
	}

	bounds, ok := bboxBounds(c, g2)
	if !ok {
		return exact, nil
	}

	table := col.Table
	if table == "" {
		table = col.Spatial.Table
	}

	expand := func(bound core.Expr, op core.BinaryOp) core.Expr {
		return core.Binary(bound, op, d)
	}
	filter := &core.InExpr{
		Expr: core.Col(table, "rowid"),
		Query: &core.SelectStmt{
			Columns: []core.Expr{core.Col("", "pkid")},
			From:    &core.TableName{Name: col.Spatial.IndexName()},
			Where: core.And(
				core.Binary(core.Col("", "xmin"), core.OpGtEq, expand(bounds[0], core.OpMinus)),
				core.Binary(core.Col("", "xmax"), core.OpLtEq, expand(bounds[1], core.OpPlus)),
				core.Binary(core.Col("", "ymin"), core.OpGtEq, expand(bounds[2], core.OpMinus)),
				core.Binary(core.Col("", "ymax"), core.OpLtEq, expand(bounds[3], core.OpPlus)),
			),
		},
	}
	return core.And(exact, filter), nil
}

// bboxBounds resolves MbrMinX, MbrMaxX, MbrMinY, MbrMaxY of g through the
// catalog. ok is false if any accessor is unavailable.
func bboxBounds(c *dialect.Compiler, g core.Expr) ([4]core.Expr, bool) {
	var out [4]core.Expr
	for i, op := range []dialect.Operation{dialect.MbrMinX, dialect.MbrMaxX, dialect.MbrMinY, dialect.MbrMaxY} {
		e, err := c.Call(op, g)
		if err != nil {
			return out, false
		}
		out[i] = e
	}
	return out, true
}
