package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/leapgeo/pkg/adapter"
)

func init() {
	factory := func(logger *slog.Logger) adapter.Adapter { return New(logger) }
	adapter.Register("sqlite", factory)
	adapter.Register("spatialite", factory)
}
