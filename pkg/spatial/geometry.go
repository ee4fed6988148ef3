package spatial

import (
	"fmt"

	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

// Geometry builds a query-side geometry literal from g using the
// dialect's WKT constructor.
func Geometry(c *dialect.Compiler, g geom.T) (core.Expr, error) {
	text, err := wkt.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to encode geometry: %w", err)
	}
	return c.Call(dialect.GeomFromText, core.String(text), core.Int(g.SRID()))
}
