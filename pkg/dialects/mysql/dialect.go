// Package mysql provides the MySQL spatial dialect definition.
// This package is pure Go with no database driver dependencies.
package mysql

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/ogc"
	"github.com/leapstack-labs/leapgeo/pkg/format"
)

// IndexFloor is the first release with InnoDB spatial indexes.
var IndexFloor = core.Version{Major: 5, Minor: 7, Patch: 5}

// MySQL is the MySQL dialect. Function names follow the ST_ spelling that
// replaced the unprefixed OGC names in 5.7; bounding-rectangle relations use
// the MBR* family.
var MySQL = dialect.NewDialect("mysql").
	Extends(ogc.OGC).
	Identifiers("`", "`", "``", core.NormCaseSensitive).
	PlaceholderStyle(core.PlaceholderQuestion).
	Funcs(map[dialect.Operation]string{
		dialect.GeomFromText: "ST_GeomFromText",
		dialect.GeomFromWKB:  "ST_GeomFromWKB",
		dialect.WKT:          "ST_AsText",
		dialect.WKB:          "ST_AsBinary",
		dialect.GeoJSON:      "ST_AsGeoJSON",

		dialect.Dimension:    "ST_Dimension",
		dialect.SRID:         "ST_SRID",
		dialect.GeometryType: "ST_GeometryType",
		dialect.IsEmpty:      "ST_IsEmpty",
		dialect.IsSimple:     "ST_IsSimple",
		dialect.IsClosed:     "ST_IsClosed",
		dialect.X:            "ST_X",
		dialect.Y:            "ST_Y",
		dialect.NumPoints:    "ST_NumPoints",
		dialect.PointN:       "ST_PointN",
		dialect.StartPoint:   "ST_StartPoint",
		dialect.EndPoint:     "ST_EndPoint",
		dialect.Length:       "ST_Length",
		dialect.Area:         "ST_Area",
		dialect.Centroid:     "ST_Centroid",
		dialect.Envelope:     "ST_Envelope",
		dialect.Buffer:       "ST_Buffer",
		dialect.ConvexHull:   "ST_ConvexHull",
		dialect.Transform:    "ST_Transform",

		dialect.Equals:     "ST_Equals",
		dialect.Disjoint:   "ST_Disjoint",
		dialect.Intersects: "ST_Intersects",
		dialect.Touches:    "ST_Touches",
		dialect.Crosses:    "ST_Crosses",
		dialect.Within:     "ST_Within",
		dialect.Overlaps:   "ST_Overlaps",
		dialect.Contains:   "ST_Contains",

		dialect.MbrEqual:      "MBREquals",
		dialect.MbrDisjoint:   "MBRDisjoint",
		dialect.MbrIntersects: "MBRIntersects",
		dialect.MbrTouches:    "MBRTouches",
		dialect.MbrWithin:     "MBRWithin",
		dialect.MbrOverlaps:   "MBROverlaps",
		dialect.MbrContains:   "MBRContains",

		dialect.Intersection:  "ST_Intersection",
		dialect.Difference:    "ST_Difference",
		dialect.Union:         "ST_Union",
		dialect.SymDifference: "ST_SymDifference",

		dialect.Distance: "ST_Distance",
	}).
	// No equivalents in MySQL 8.
	Unsupported(dialect.IsRing, dialect.Boundary, dialect.Relate).
	Gate(dialect.VersionGate{Floor: IndexFloor}).
	Lifecycle(dialect.Lifecycle{Create: planCreate, Drop: planDrop}).
	VersionQuery("SELECT VERSION()").
	GooseDialect("mysql").
	Build()

var ids = core.IdentifierConfig{Quote: "`", QuoteEnd: "`", Escape: "``", Normalization: core.NormCaseSensitive}

func quote(name string) string {
	return format.QuoteIfNeeded(name, ids)
}

// planCreate builds the index for a spatial column. MySQL keeps no separate
// geometry catalog; the column's type is its registration.
func planCreate(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
	if !dialect.WantsIndex(col, caps) {
		return nil
	}
	return []core.Statement{
		dialect.ColumnStatement(core.StmtCreateIndex, col,
			"CREATE SPATIAL INDEX "+quote(col.IndexName())+" ON "+quote(col.Table)+" ("+quote(col.Column)+")"),
		dialect.TableStatement(core.StmtCompact, col.Table,
			"OPTIMIZE TABLE "+quote(col.Table)),
	}
}

func planDrop(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
	if !dialect.WantsIndex(col, caps) {
		return nil
	}
	return []core.Statement{
		dialect.ColumnStatement(core.StmtDropIndexStorage, col,
			"DROP INDEX "+quote(col.IndexName())+" ON "+quote(col.Table)),
	}
}
