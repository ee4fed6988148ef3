// Package dialects assembles the shipped spatial dialects.
package dialects

import (
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/duckdb"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/mysql"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/ogc"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/postgis"
	"github.com/leapstack-labs/leapgeo/pkg/dialects/spatialite"
)

// Registry returns a registry of every shipped dialect.
func Registry() *dialect.Registry {
	return dialect.NewRegistry(
		ogc.OGC,
		mysql.MySQL,
		spatialite.SpatiaLite,
		postgis.PostGIS,
		duckdb.DuckDB,
	)
}

// ForAdapter returns the dialect matching an adapter type
// (sqlite, postgres, mysql, duckdb).
func ForAdapter(adapterType string) (*dialect.Dialect, bool) {
	switch adapterType {
	case "sqlite", "sqlite3", "spatialite":
		return spatialite.SpatiaLite, true
	case "postgres", "postgresql", "postgis":
		return postgis.PostGIS, true
	case "mysql", "mariadb":
		return mysql.MySQL, true
	case "duckdb":
		return duckdb.DuckDB, true
	default:
		return nil, false
	}
}
