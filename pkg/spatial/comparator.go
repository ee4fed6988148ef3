package spatial

import (
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
)

// Comparator binds a geometry expression to a compiler. Operations called
// on it receive the expression as their first argument.
type Comparator struct {
	expr     core.Expr
	compiler *dialect.Compiler
}

// NewComparator wraps expr for c.
func NewComparator(c *dialect.Compiler, expr core.Expr) *Comparator {
	return &Comparator{expr: expr, compiler: c}
}

// Column wraps a declared spatial column. The column reference keeps its
// descriptor so index-aware rewrites can see it.
func Column(c *dialect.Compiler, col core.SpatialColumn) *Comparator {
	return NewComparator(c, core.SpatialCol(col))
}

// Expr returns the wrapped expression.
func (cmp *Comparator) Expr() core.Expr { return cmp.expr }

// Call applies op with the wrapped expression first.
func (cmp *Comparator) Call(op dialect.Operation, args ...core.Expr) (core.Expr, error) {
	return cmp.compiler.Call(op, prepend(cmp.expr, args)...)
}

// CallName applies the operation called name.
func (cmp *Comparator) CallName(name string, args ...core.Expr) (core.Expr, error) {
	return cmp.compiler.CallName(name, prepend(cmp.expr, args)...)
}

// WithinDistance is shorthand for Call(dialect.WithinDistance, other, distance).
func (cmp *Comparator) WithinDistance(other core.Expr, distance float64) (core.Expr, error) {
	return cmp.Call(dialect.WithinDistance, other, core.Number(distance))
}

func prepend(first core.Expr, rest []core.Expr) []core.Expr {
	args := make([]core.Expr, 0, len(rest)+1)
	args = append(args, first)
	return append(args, rest...)
}
