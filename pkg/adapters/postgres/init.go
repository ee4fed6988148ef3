// Package postgres provides a PostgreSQL/PostGIS database adapter for leapgeo.
//
// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/leapgeo/pkg/adapters/postgres"
package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/leapgeo/pkg/adapter"
)

func init() {
	factory := func(logger *slog.Logger) adapter.Adapter { return New(logger) }
	adapter.Register("postgres", factory)
	adapter.Register("postgis", factory)
}
