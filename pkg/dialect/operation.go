package dialect

import (
	"fmt"
	"strings"
	"sync"
)

// Operation identifies an abstract spatial operation.
//
// Identity is the value, not the name: two dialect-specific operations
// registered under the same name are distinct operations, and a dialect
// binding one of them does not bind the other.
type Operation int

// Kind classifies what an operation returns.
type Kind int

const (
	// KindScalar operations return a value (geometry, number, text, blob).
	KindScalar Kind = iota
	// KindPredicate operations return a boolean and may appear in WHERE.
	KindPredicate
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindPredicate:
		return "predicate"
	default:
		return "unknown"
	}
}

// Builtin operations shared by every dialect's vocabulary.
const (
	opInvalid Operation = iota

	// Construction
	GeomFromText
	GeomFromWKB

	// Serialization
	WKT
	WKB
	SVG
	FGF
	KML
	GML
	GeoJSON

	// Accessors
	Dimension
	SRID
	GeometryType
	IsEmpty
	IsSimple
	IsClosed
	IsRing
	X
	Y
	NumPoints
	PointN
	StartPoint
	EndPoint
	Length
	Area
	Centroid
	Envelope
	Boundary
	Buffer
	ConvexHull
	Transform

	// Bounding box accessors
	MbrMinX
	MbrMaxX
	MbrMinY
	MbrMaxY

	// OGC relations
	Equals
	Disjoint
	Intersects
	Touches
	Crosses
	Within
	Overlaps
	Contains
	Relate

	// MBR relations
	MbrEqual
	MbrDisjoint
	MbrIntersects
	MbrTouches
	MbrWithin
	MbrOverlaps
	MbrContains

	// Set operations
	Intersection
	Difference
	Union
	SymDifference

	Distance
	WithinDistance

	maxBuiltin
)

type opInfo struct {
	name string
	kind Kind
}

var builtins = [maxBuiltin]opInfo{
	GeomFromText: {"geom_from_text", KindScalar},
	GeomFromWKB:  {"geom_from_wkb", KindScalar},

	WKT:     {"wkt", KindScalar},
	WKB:     {"wkb", KindScalar},
	SVG:     {"svg", KindScalar},
	FGF:     {"fgf", KindScalar},
	KML:     {"kml", KindScalar},
	GML:     {"gml", KindScalar},
	GeoJSON: {"geojson", KindScalar},

	Dimension:    {"dimension", KindScalar},
	SRID:         {"srid", KindScalar},
	GeometryType: {"geometry_type", KindScalar},
	IsEmpty:      {"is_empty", KindPredicate},
	IsSimple:     {"is_simple", KindPredicate},
	IsClosed:     {"is_closed", KindPredicate},
	IsRing:       {"is_ring", KindPredicate},
	X:            {"x", KindScalar},
	Y:            {"y", KindScalar},
	NumPoints:    {"num_points", KindScalar},
	PointN:       {"point_n", KindScalar},
	StartPoint:   {"start_point", KindScalar},
	EndPoint:     {"end_point", KindScalar},
	Length:       {"length", KindScalar},
	Area:         {"area", KindScalar},
	Centroid:     {"centroid", KindScalar},
	Envelope:     {"envelope", KindScalar},
	Boundary:     {"boundary", KindScalar},
	Buffer:       {"buffer", KindScalar},
	ConvexHull:   {"convex_hull", KindScalar},
	Transform:    {"transform", KindScalar},

	MbrMinX: {"mbr_min_x", KindScalar},
	MbrMaxX: {"mbr_max_x", KindScalar},
	MbrMinY: {"mbr_min_y", KindScalar},
	MbrMaxY: {"mbr_max_y", KindScalar},

	Equals:     {"equals", KindPredicate},
	Disjoint:   {"disjoint", KindPredicate},
	Intersects: {"intersects", KindPredicate},
	Touches:    {"touches", KindPredicate},
	Crosses:    {"crosses", KindPredicate},
	Within:     {"within", KindPredicate},
	Overlaps:   {"overlaps", KindPredicate},
	Contains:   {"contains", KindPredicate},
	Relate:     {"relate", KindPredicate},

	MbrEqual:      {"mbr_equal", KindPredicate},
	MbrDisjoint:   {"mbr_disjoint", KindPredicate},
	MbrIntersects: {"mbr_intersects", KindPredicate},
	MbrTouches:    {"mbr_touches", KindPredicate},
	MbrWithin:     {"mbr_within", KindPredicate},
	MbrOverlaps:   {"mbr_overlaps", KindPredicate},
	MbrContains:   {"mbr_contains", KindPredicate},

	Intersection:  {"intersection", KindScalar},
	Difference:    {"difference", KindScalar},
	Union:         {"union", KindScalar},
	SymDifference: {"sym_difference", KindScalar},

	Distance:       {"distance", KindScalar},
	WithinDistance: {"within_distance", KindPredicate},
}

var builtinByName = func() map[string]Operation {
	m := make(map[string]Operation, maxBuiltin)
	for op := opInvalid + 1; op < maxBuiltin; op++ {
		m[nameKey(builtins[op].name)] = op
	}
	return m
}()

// Dynamic operations are numbered after the builtins.
var (
	dynamicMu  sync.RWMutex
	nextOpID   = maxBuiltin
	dynamicOps = make(map[Operation]opInfo)
)

// Register creates a new dialect-specific operation.
//
// Each call returns a distinct Operation even when the name repeats, so
// dialects can introduce same-named concepts without colliding. Call it
// from package-level var declarations.
func Register(name string, kind Kind) Operation {
	dynamicMu.Lock()
	defer dynamicMu.Unlock()
	nextOpID++
	op := nextOpID
	dynamicOps[op] = opInfo{name: strings.ToLower(strings.TrimSpace(name)), kind: kind}
	return op
}

func (o Operation) info() (opInfo, bool) {
	if o > opInvalid && o < maxBuiltin {
		return builtins[o], true
	}
	dynamicMu.RLock()
	defer dynamicMu.RUnlock()
	info, ok := dynamicOps[o]
	return info, ok
}

// String returns the canonical snake_case name of the operation.
func (o Operation) String() string {
	if info, ok := o.info(); ok {
		return info.name
	}
	return fmt.Sprintf("operation(%d)", int(o))
}

// Kind returns the operation's result classification.
func (o Operation) Kind() Kind {
	info, _ := o.info()
	return info.kind
}

// Valid reports whether o is a builtin or a registered operation.
func (o Operation) Valid() bool {
	_, ok := o.info()
	return ok
}

// IsBuiltin reports whether o belongs to the shared builtin vocabulary.
func (o Operation) IsBuiltin() bool {
	return o > opInvalid && o < maxBuiltin
}

// ParseOperation looks up a builtin operation by name.
// Names are matched case-insensitively; "WithinDistance" and
// "within-distance" both resolve to WithinDistance.
// Dialect-specific operations are found through Dialect.LookupName.
func ParseOperation(name string) (Operation, bool) {
	op, ok := builtinByName[nameKey(name)]
	return op, ok
}

// Builtins returns all builtin operations in declaration order.
func Builtins() []Operation {
	ops := make([]Operation, 0, maxBuiltin-1)
	for op := opInvalid + 1; op < maxBuiltin; op++ {
		ops = append(ops, op)
	}
	return ops
}

// nameKey folds an operation name for lookup: case and word separators are
// ignored, so "WithinDistance", "within-distance" and "within_distance"
// share a key.
func nameKey(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '_' || r == '-' || r == ' ':
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
