// Package postgis provides the PostGIS (PostgreSQL) spatial dialect.
package postgis

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/ogc"
	"github.com/leapstack-labs/leapgeo/pkg/format"
)

// IsValid is the PostGIS validity check (ST_IsValid).
var IsValid = dialect.Register("is_valid", dialect.KindPredicate)

// PostGIS is the PostGIS dialect. GiST indexes are always available.
var PostGIS = dialect.NewDialect("postgis").
	Extends(ogc.OGC).
	Identifiers(`"`, `"`, `""`, core.NormLowercase).
	PlaceholderStyle(core.PlaceholderDollar).
	Funcs(map[dialect.Operation]string{
		dialect.GeomFromText: "ST_GeomFromText",
		dialect.GeomFromWKB:  "ST_GeomFromWKB",
		dialect.WKT:          "ST_AsText",
		dialect.WKB:          "ST_AsBinary",
		dialect.SVG:          "ST_AsSVG",
		dialect.KML:          "ST_AsKML",
		dialect.GML:          "ST_AsGML",
		dialect.GeoJSON:      "ST_AsGeoJSON",
		IsValid:              "ST_IsValid",

		dialect.Dimension:    "ST_Dimension",
		dialect.SRID:         "ST_SRID",
		dialect.GeometryType: "ST_GeometryType",
		dialect.IsEmpty:      "ST_IsEmpty",
		dialect.IsSimple:     "ST_IsSimple",
		dialect.IsClosed:     "ST_IsClosed",
		dialect.IsRing:       "ST_IsRing",
		dialect.X:            "ST_X",
		dialect.Y:            "ST_Y",
		dialect.NumPoints:    "ST_NPoints",
		dialect.PointN:       "ST_PointN",
		dialect.StartPoint:   "ST_StartPoint",
		dialect.EndPoint:     "ST_EndPoint",
		dialect.Length:       "ST_Length",
		dialect.Area:         "ST_Area",
		dialect.Centroid:     "ST_Centroid",
		dialect.Envelope:     "ST_Envelope",
		dialect.Boundary:     "ST_Boundary",
		dialect.Buffer:       "ST_Buffer",
		dialect.ConvexHull:   "ST_ConvexHull",
		dialect.Transform:    "ST_Transform",

		dialect.MbrMinX: "ST_XMin",
		dialect.MbrMaxX: "ST_XMax",
		dialect.MbrMinY: "ST_YMin",
		dialect.MbrMaxY: "ST_YMax",

		dialect.Equals:     "ST_Equals",
		dialect.Disjoint:   "ST_Disjoint",
		dialect.Intersects: "ST_Intersects",
		dialect.Touches:    "ST_Touches",
		dialect.Crosses:    "ST_Crosses",
		dialect.Within:     "ST_Within",
		dialect.Overlaps:   "ST_Overlaps",
		dialect.Contains:   "ST_Contains",
		dialect.Relate:     "ST_Relate",

		dialect.Intersection:  "ST_Intersection",
		dialect.Difference:    "ST_Difference",
		dialect.Union:         "ST_Union",
		dialect.SymDifference: "ST_SymDifference",

		dialect.Distance: "ST_Distance",
		// ST_DWithin uses the GiST index on its own.
		dialect.WithinDistance: "ST_DWithin",
	}).
	Rewrite(dialect.MbrEqual, envelopeRelation(dialect.MbrEqual, dialect.Equals)).
	Rewrite(dialect.MbrDisjoint, envelopeRelation(dialect.MbrDisjoint, dialect.Disjoint)).
	Rewrite(dialect.MbrIntersects, envelopeRelation(dialect.MbrIntersects, dialect.Intersects)).
	Rewrite(dialect.MbrTouches, envelopeRelation(dialect.MbrTouches, dialect.Touches)).
	Rewrite(dialect.MbrWithin, envelopeRelation(dialect.MbrWithin, dialect.Within)).
	Rewrite(dialect.MbrOverlaps, envelopeRelation(dialect.MbrOverlaps, dialect.Overlaps)).
	Rewrite(dialect.MbrContains, envelopeRelation(dialect.MbrContains, dialect.Contains)).
	Unsupported(dialect.FGF).
	Gate(dialect.Always).
	Lifecycle(dialect.Lifecycle{Create: planCreate, Drop: planDrop}).
	VersionQuery("SHOW server_version").
	GooseDialect("postgres").
	Build()

// envelopeRelation expresses an MBR relation as the OGC relation applied to
// both operands' envelopes.
func envelopeRelation(op, rel dialect.Operation) dialect.RewriteFunc {
	return func(c *dialect.Compiler, args []core.Expr) (core.Expr, error) {
		if err := dialect.CheckArity(op, args, 2); err != nil {
			return nil, err
		}
		a, err := c.Call(dialect.Envelope, args[0])
		if err != nil {
			return nil, err
		}
		b, err := c.Call(dialect.Envelope, args[1])
		if err != nil {
			return nil, err
		}
		return c.Call(rel, a, b)
	}
}

func quote(name string) string {
	return format.QuoteIfNeeded(name, core.DefaultIdentifiers)
}

// planCreate registers the column through AddGeometryColumn, enforces NOT
// NULL, and when indexed builds a GiST index and refreshes statistics.
func planCreate(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
	stmts := []core.Statement{
		dialect.ColumnStatement(core.StmtRegister, col, dialect.SelectFunc(core.DefaultIdentifiers, "AddGeometryColumn",
			core.String(col.Table),
			core.String(col.Column),
			core.Int(col.SRID),
			core.String(col.NormalizedType()),
			core.Int(col.EffectiveDimension()),
		)),
	}
	if !col.Nullable {
		stmts = append(stmts, dialect.ColumnStatement(core.StmtRegister, col,
			"ALTER TABLE "+quote(col.Table)+" ALTER COLUMN "+quote(col.Column)+" SET NOT NULL"))
	}
	if dialect.WantsIndex(col, caps) {
		stmts = append(stmts,
			dialect.ColumnStatement(core.StmtCreateIndex, col,
				"CREATE INDEX "+quote(col.IndexName())+" ON "+quote(col.Table)+" USING GIST ("+quote(col.Column)+")"),
			dialect.TableStatement(core.StmtCompact, col.Table, "VACUUM ANALYZE "+quote(col.Table)),
		)
	}
	return stmts
}

func planDrop(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
	var stmts []core.Statement
	if dialect.WantsIndex(col, caps) {
		stmts = append(stmts, dialect.ColumnStatement(core.StmtDropIndexStorage, col,
			"DROP INDEX IF EXISTS "+quote(col.IndexName())))
	}
	return append(stmts,
		dialect.ColumnStatement(core.StmtDeregister, col, dialect.SelectFunc(core.DefaultIdentifiers, "DropGeometryColumn",
			core.String(col.Table), core.String(col.Column))),
	)
}
