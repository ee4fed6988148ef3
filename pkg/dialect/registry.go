package dialect

import (
	"sort"
	"strings"
)

// Registry is an explicitly built, read-only set of dialects keyed by name.
// Build it once during process setup and pass it to consumers.
type Registry struct {
	dialects map[string]*Dialect
}

// NewRegistry creates a registry holding the given dialects.
// A later dialect with the same name replaces an earlier one.
func NewRegistry(ds ...*Dialect) *Registry {
	r := &Registry{dialects: make(map[string]*Dialect, len(ds))}
	for _, d := range ds {
		r.dialects[strings.ToLower(d.Name)] = d
	}
	return r
}

// Get returns a dialect by name.
func (r *Registry) Get(name string) (*Dialect, bool) {
	d, ok := r.dialects[strings.ToLower(name)]
	return d, ok
}

// List returns all registered dialect names (sorted).
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.dialects))
	for name := range r.dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
