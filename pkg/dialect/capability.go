package dialect

import "github.com/leapstack-labs/leapgeo/pkg/core"

// Gate decides whether the secondary spatial index mechanism is available
// on an engine reporting the given version.
type Gate interface {
	Supports(v core.Version) bool
}

// VersionGate allows the index mechanism from Floor onward (v >= Floor).
type VersionGate struct {
	Floor core.Version
}

// Supports implements Gate.
func (g VersionGate) Supports(v core.Version) bool {
	return v.AtLeast(g.Floor)
}

type constGate bool

func (g constGate) Supports(core.Version) bool { return bool(g) }

var (
	// Always allows the index mechanism on every version.
	Always Gate = constGate(true)
	// Never disables the index mechanism.
	Never Gate = constGate(false)
)

// Capabilities describes what a connected engine instance supports.
// Compute it per connection; never share it across connections that may
// report different versions.
type Capabilities struct {
	Version      core.Version
	SpatialIndex bool
}
