package dialect

import "github.com/leapstack-labs/leapgeo/pkg/core"

// RewriteFunc builds the SQL for an operation that is not a plain function
// call. It receives the compiler for the current connection and the raw
// operands as passed by the caller.
type RewriteFunc func(c *Compiler, args []core.Expr) (core.Expr, error)

type bindingKind int

const (
	bindFunc bindingKind = iota + 1
	bindRewrite
	bindUnsupported
)

// Binding is what a dialect maps an Operation to: a SQL function name, a
// rewrite routine, or an explicit "unsupported" marker that stops lookup
// from falling through to the base dialect.
type Binding struct {
	kind    bindingKind
	name    string
	rewrite RewriteFunc
}

// FuncBinding binds an operation to a plain SQL function.
func FuncBinding(name string) Binding {
	return Binding{kind: bindFunc, name: name}
}

// RewriteBinding binds an operation to a rewrite routine.
func RewriteBinding(fn RewriteFunc) Binding {
	return Binding{kind: bindRewrite, rewrite: fn}
}

// UnsupportedBinding marks an operation as unavailable in a dialect.
func UnsupportedBinding() Binding {
	return Binding{kind: bindUnsupported}
}

// FuncName returns the SQL function name; empty for rewrites.
func (b Binding) FuncName() string { return b.name }

// Rewrite returns the rewrite routine; nil for plain functions.
func (b Binding) Rewrite() RewriteFunc { return b.rewrite }

// IsRewrite reports whether the binding is a rewrite routine.
func (b Binding) IsRewrite() bool { return b.kind == bindRewrite }

// IsUnsupported reports whether the binding is the unsupported marker.
func (b Binding) IsUnsupported() bool { return b.kind == bindUnsupported }

// String describes the binding for listings.
func (b Binding) String() string {
	switch b.kind {
	case bindFunc:
		return b.name
	case bindRewrite:
		return "<rewrite>"
	case bindUnsupported:
		return "<unsupported>"
	default:
		return "<none>"
	}
}
