// Package ogc provides the shared base set of spatial functions: the
// OpenGIS Simple Features SQL names understood by every supported engine.
//
// Every shipped dialect extends OGC directly or indirectly, and compilers
// fall back to it for operations a dialect chain does not bind.
package ogc

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
)

// OGC is the shared base dialect.
var OGC = dialect.NewDialect("ogc").
	Funcs(map[dialect.Operation]string{
		dialect.GeomFromText: "GeomFromText",
		dialect.GeomFromWKB:  "GeomFromWKB",

		dialect.WKT: "AsText",
		dialect.WKB: "AsBinary",

		dialect.Dimension:    "Dimension",
		dialect.SRID:         "SRID",
		dialect.GeometryType: "GeometryType",
		dialect.IsEmpty:      "IsEmpty",
		dialect.IsSimple:     "IsSimple",
		dialect.IsClosed:     "IsClosed",
		dialect.IsRing:       "IsRing",
		dialect.X:            "X",
		dialect.Y:            "Y",
		dialect.NumPoints:    "NumPoints",
		dialect.PointN:       "PointN",
		dialect.StartPoint:   "StartPoint",
		dialect.EndPoint:     "EndPoint",
		dialect.Length:       "Length",
		dialect.Area:         "Area",
		dialect.Centroid:     "Centroid",
		dialect.Envelope:     "Envelope",
		dialect.Boundary:     "Boundary",
		dialect.Buffer:       "Buffer",
		dialect.ConvexHull:   "ConvexHull",
		dialect.Transform:    "Transform",

		dialect.Equals:     "Equals",
		dialect.Disjoint:   "Disjoint",
		dialect.Intersects: "Intersects",
		dialect.Touches:    "Touches",
		dialect.Crosses:    "Crosses",
		dialect.Within:     "Within",
		dialect.Overlaps:   "Overlaps",
		dialect.Contains:   "Contains",
		dialect.Relate:     "Relate",

		dialect.Intersection:  "Intersection",
		dialect.Difference:    "Difference",
		dialect.Union:         "GUnion",
		dialect.SymDifference: "SymDifference",

		dialect.Distance: "Distance",
	}).
	Rewrite(dialect.WithinDistance, WithinDistance).
	Build()

// WithinDistance is the generic within-distance predicate:
//
//	distance(g1, g2) <= d
//
// The distance function is resolved through the compiler, so dialects that
// rename it get their own spelling.
func WithinDistance(c *dialect.Compiler, args []core.Expr) (core.Expr, error) {
	if err := dialect.CheckArity(dialect.WithinDistance, args, 3); err != nil {
		return nil, err
	}
	dist, err := c.Call(dialect.Distance, args[0], args[1])
	if err != nil {
		return nil, err
	}
	return core.Binary(dist, core.OpLtEq, args[2]), nil
}
