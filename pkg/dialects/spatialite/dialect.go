// Package spatialite provides the SpatiaLite (SQLite) spatial dialect.
//
// SpatiaLite extends the MySQL function set with its own renderers, the
// GLength spelling of length, and an index-aware within-distance rewrite
// that pre-filters candidates through the column's R*Tree table.
package spatialite

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/mysql"
)

// IsValid is SpatiaLite's validity check. It is distinct from any other
// dialect's is_valid operation.
var IsValid = dialect.Register("is_valid", dialect.KindPredicate)

// RTreeFloor is the SQLite release that introduced the R*Tree module.
var RTreeFloor = core.Version{Major: 3, Minor: 6, Patch: 0}

// SpatiaLite is the SpatiaLite dialect.
var SpatiaLite = dialect.NewDialect("spatialite").
	Extends(mysql.MySQL).
	Identifiers(`"`, `"`, `""`, core.NormCaseInsensitive).
	PlaceholderStyle(core.PlaceholderQuestion).
	Funcs(map[dialect.Operation]string{
		dialect.GeomFromText: "GeomFromText",
		dialect.GeomFromWKB:  "GeomFromWKB",
		dialect.WKT:          "AsText",
		dialect.WKB:          "AsBinary",

		dialect.SVG:     "AsSVG",
		dialect.FGF:     "AsFGF",
		dialect.KML:     "AsKml",
		dialect.GML:     "AsGml",
		dialect.GeoJSON: "AsGeoJSON",
		IsValid:         "IsValid",

		dialect.Length:   "GLength",
		dialect.IsRing:   "IsRing",
		dialect.Boundary: "Boundary",
		dialect.Relate:   "Relate",

		dialect.MbrMinX: "MbrMinX",
		dialect.MbrMaxX: "MbrMaxX",
		dialect.MbrMinY: "MbrMinY",
		dialect.MbrMaxY: "MbrMaxY",

		dialect.MbrEqual:      "MBREqual",
		dialect.MbrDisjoint:   "MBRDisjoint",
		dialect.MbrIntersects: "MBRIntersects",
		dialect.MbrTouches:    "MBRTouches",
		dialect.MbrWithin:     "MBRWithin",
		dialect.MbrOverlaps:   "MBROverlaps",
		dialect.MbrContains:   "MBRContains",

		dialect.Distance: "Distance",
	}).
	Rewrite(dialect.WithinDistance, WithinDistance).
	Gate(dialect.VersionGate{Floor: RTreeFloor}).
	Lifecycle(dialect.Lifecycle{Create: planCreate, Drop: planDrop}).
	VersionQuery("SELECT sqlite_version()").
	GooseDialect("sqlite3").
	Build()
