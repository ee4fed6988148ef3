package dialect

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/format"
)

// Compiler turns abstract operations into SQL expressions for one
// connection: a dialect plus the capabilities the connection reported.
type Compiler struct {
	Dialect *Dialect
	Caps    Capabilities

	// Fallback is consulted when the dialect chain has no entry for an
	// operation or name. NewCompiler sets it to the chain's root.
	Fallback *Dialect
}

// NewCompiler creates a compiler for d with the shared base set as fallback.
func NewCompiler(d *Dialect, caps Capabilities) *Compiler {
	return &Compiler{Dialect: d, Caps: caps, Fallback: d.Root()}
}

func (c *Compiler) binding(op Operation) (Binding, error) {
	if !op.Valid() {
		return Binding{}, &UnsupportedError{Dialect: c.Dialect.Name, Op: op}
	}
	b, _, ok := c.Dialect.lookup(op)
	if !ok && c.Fallback != nil {
		b, _, ok = c.Fallback.lookup(op)
	}
	if !ok || b.IsUnsupported() {
		return Binding{}, &UnsupportedError{Dialect: c.Dialect.Name, Op: op}
	}
	return b, nil
}

// Call builds the expression for op applied to args.
// Plain functions become NAME(args...); rewrites run their routine.
func (c *Compiler) Call(op Operation, args ...core.Expr) (core.Expr, error) {
	b, err := c.binding(op)
	if err != nil {
		return nil, err
	}
	if b.IsRewrite() {
		return b.Rewrite()(c, args)
	}
	return core.Func(b.FuncName(), args...), nil
}

// CallName dispatches by operation name: the dialect chain's vocabulary
// first, then the fallback set. A name neither knows yields *AttributeError.
func (c *Compiler) CallName(name string, args ...core.Expr) (core.Expr, error) {
	op, ok := c.Dialect.LookupName(name)
	if !ok && c.Fallback != nil {
		op, ok = c.Fallback.LookupName(name)
	}
	if !ok {
		return nil, &AttributeError{Dialect: c.Dialect.Name, Name: name}
	}
	return c.Call(op, args...)
}

// CheckArity returns an ErrArity error unless len(args) == want.
func CheckArity(op Operation, args []core.Expr, want int) error {
	if len(args) != want {
		return arityError(op, want, len(args))
	}
	return nil
}

// SQL renders an expression with the dialect's identifier quoting.
func (c *Compiler) SQL(e core.Expr) string {
	return format.SQL(e, c.Dialect.Identifiers)
}
