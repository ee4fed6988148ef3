// Package dialect maps abstract spatial operations onto the SQL vocabulary
// of a spatial database dialect.
//
// A Dialect is an immutable value built once with a Builder. Derived
// dialects name their base explicitly with Builder.Extends; Resolve looks
// an operation up in the dialect's own map and then walks the base chain.
// Concrete dialects live in pkg/dialects/*/ and are passed explicitly to
// consumers, either directly or through a Registry.
package dialect

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/leapgeo/pkg/core"
)

// PlanFunc plans the statements for one spatial column given the
// capabilities of the connection they will run on.
type PlanFunc func(col core.SpatialColumn, caps Capabilities) []core.Statement

// Lifecycle holds the create and drop planners of a dialect.
type Lifecycle struct {
	Create PlanFunc
	Drop   PlanFunc
}

// Dialect represents a spatial SQL dialect.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig
	Placeholder core.PlaceholderStyle // How to format query parameters

	base     *Dialect
	bindings map[Operation]Binding
	names    map[string]Operation // dialect-specific operations by name key

	gate         Gate
	lifecycle    Lifecycle
	versionQuery string
	gooseDialect string
}

// Base returns the dialect this one extends, or nil.
func (d *Dialect) Base() *Dialect {
	return d.base
}

// Root returns the first dialect of the chain (the shared base set).
func (d *Dialect) Root() *Dialect {
	r := d
	for r.base != nil {
		r = r.base
	}
	return r
}

// Chain returns the dialect names from d to its root.
func (d *Dialect) Chain() []string {
	var names []string
	for cur := d; cur != nil; cur = cur.base {
		names = append(names, cur.Name)
	}
	return names
}

// lookup walks the chain and returns the first entry for op, including
// unsupported markers, along with the dialect that supplied it.
func (d *Dialect) lookup(op Operation) (Binding, *Dialect, bool) {
	for cur := d; cur != nil; cur = cur.base {
		if b, ok := cur.bindings[op]; ok {
			return b, cur, true
		}
	}
	return Binding{}, nil, false
}

// Resolve returns the binding for op: the dialect's own entry if present,
// otherwise the nearest base dialect's entry. An entry marked unsupported
// stops the walk. Operations with no entry anywhere in the chain, and
// values outside the operation enum, yield *UnsupportedError.
func (d *Dialect) Resolve(op Operation) (Binding, error) {
	if !op.Valid() {
		return Binding{}, &UnsupportedError{Dialect: d.Name, Op: op}
	}
	b, _, ok := d.lookup(op)
	if !ok || b.IsUnsupported() {
		return Binding{}, &UnsupportedError{Dialect: d.Name, Op: op}
	}
	return b, nil
}

// Supports reports whether op resolves to a usable binding.
func (d *Dialect) Supports(op Operation) bool {
	_, err := d.Resolve(op)
	return err == nil
}

// LookupName finds an operation by name: dialect-specific operations
// registered anywhere in the chain first (nearest dialect wins), then the
// builtin vocabulary.
func (d *Dialect) LookupName(name string) (Operation, bool) {
	key := nameKey(name)
	for cur := d; cur != nil; cur = cur.base {
		if op, ok := cur.names[key]; ok {
			return op, true
		}
	}
	return ParseOperation(name)
}

// FunctionEntry is one row of a dialect's effective catalog.
type FunctionEntry struct {
	Op      Operation
	Binding Binding
	Source  string // name of the dialect that supplied the binding
}

// Functions returns the effective (flattened) catalog: every operation the
// chain has an entry for, resolved as Resolve would, sorted by operation name.
// Unsupported markers are included so listings can show them.
func (d *Dialect) Functions() []FunctionEntry {
	seen := make(map[Operation]struct{})
	var entries []FunctionEntry
	for cur := d; cur != nil; cur = cur.base {
		for op := range cur.bindings {
			if _, ok := seen[op]; ok {
				continue
			}
			seen[op] = struct{}{}
			b, src, _ := d.lookup(op)
			entries = append(entries, FunctionEntry{Op: op, Binding: b, Source: src.Name})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Op.String() != entries[j].Op.String() {
			return entries[i].Op.String() < entries[j].Op.String()
		}
		return entries[i].Op < entries[j].Op
	})
	return entries
}

// Capabilities computes what an engine reporting v supports.
func (d *Dialect) Capabilities(v core.Version) Capabilities {
	gate := d.Gate()
	return Capabilities{Version: v, SpatialIndex: gate.Supports(v)}
}

// Gate returns the nearest capability gate in the chain, Never if none.
func (d *Dialect) Gate() Gate {
	for cur := d; cur != nil; cur = cur.base {
		if cur.gate != nil {
			return cur.gate
		}
	}
	return Never
}

// PlanCreate plans the statements run after a spatial column is created.
func (d *Dialect) PlanCreate(col core.SpatialColumn, caps Capabilities) []core.Statement {
	for cur := d; cur != nil; cur = cur.base {
		if cur.lifecycle.Create != nil {
			return cur.lifecycle.Create(col, caps)
		}
	}
	return nil
}

// PlanDrop plans the statements run before a spatial column is dropped.
func (d *Dialect) PlanDrop(col core.SpatialColumn, caps Capabilities) []core.Statement {
	for cur := d; cur != nil; cur = cur.base {
		if cur.lifecycle.Drop != nil {
			return cur.lifecycle.Drop(col, caps)
		}
	}
	return nil
}

// VersionQuery returns the statement that reports the engine version.
func (d *Dialect) VersionQuery() string {
	for cur := d; cur != nil; cur = cur.base {
		if cur.versionQuery != "" {
			return cur.versionQuery
		}
	}
	return ""
}

// GooseDialect returns the migration store dialect name, empty if the
// engine has no goose store.
func (d *Dialect) GooseDialect() string {
	return d.gooseDialect
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:        name,
			Identifiers: core.DefaultIdentifiers,
			bindings:    make(map[Operation]Binding),
			names:       make(map[string]Operation),
		},
	}
}

// Extends sets the base dialect. Identifier and placeholder settings are
// inherited and can be overridden afterwards.
func (b *Builder) Extends(base *Dialect) *Builder {
	b.dialect.base = base
	if base != nil {
		b.dialect.Identifiers = base.Identifiers
		b.dialect.Placeholder = base.Placeholder
	}
	return b
}

// Identifiers configures identifier quoting and normalization.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

func (b *Builder) bind(op Operation, binding Binding) {
	b.dialect.bindings[op] = binding
	if !op.IsBuiltin() {
		b.dialect.names[nameKey(op.String())] = op
	}
}

// Func binds op to a plain SQL function.
func (b *Builder) Func(op Operation, name string) *Builder {
	b.bind(op, FuncBinding(name))
	return b
}

// Funcs binds several operations to plain SQL functions.
func (b *Builder) Funcs(m map[Operation]string) *Builder {
	for op, name := range m {
		b.bind(op, FuncBinding(name))
	}
	return b
}

// Rewrite binds op to a rewrite routine.
func (b *Builder) Rewrite(op Operation, fn RewriteFunc) *Builder {
	b.bind(op, RewriteBinding(fn))
	return b
}

// Unsupported marks operations as unavailable, hiding any base binding.
func (b *Builder) Unsupported(ops ...Operation) *Builder {
	for _, op := range ops {
		b.bind(op, UnsupportedBinding())
	}
	return b
}

// Gate sets the secondary spatial index capability gate.
func (b *Builder) Gate(g Gate) *Builder {
	b.dialect.gate = g
	return b
}

// Lifecycle sets the column create/drop planners.
func (b *Builder) Lifecycle(l Lifecycle) *Builder {
	b.dialect.lifecycle = l
	return b
}

// VersionQuery sets the statement that reports the engine version.
func (b *Builder) VersionQuery(q string) *Builder {
	b.dialect.versionQuery = q
	return b
}

// GooseDialect sets the migration store dialect (goose dialect name).
func (b *Builder) GooseDialect(name string) *Builder {
	b.dialect.gooseDialect = name
	return b
}

// Build returns the dialect. The result is a snapshot: later calls on the
// builder do not affect it.
func (b *Builder) Build() *Dialect {
	d := *b.dialect
	d.bindings = make(map[Operation]Binding, len(b.dialect.bindings))
	for op, binding := range b.dialect.bindings {
		d.bindings[op] = binding
	}
	d.names = make(map[string]Operation, len(b.dialect.names))
	for k, op := range b.dialect.names {
		d.names[k] = op
	}
	return &d
}
