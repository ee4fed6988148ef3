package format

import (
	"strings"

	"github.com/leapstack-labs/leapgeo/pkg/core"
)

const complexityThreshold = 5

// Operator binding strength; higher binds tighter. A raw fragment may hide
// any operator, so it binds loosest and is parenthesized as an operand.
const (
	precRaw = iota
	precOr
	precAnd
	precNot
	precComparison
	precAdditive
	precPrimary
)

func precedence(e core.Expr) int {
	switch expr := e.(type) {
	case *core.BinaryExpr:
		return binaryPrecedence(expr.Op)
	case *core.UnaryExpr:
		if strings.EqualFold(expr.Op, "NOT") {
			return precNot
		}
		return precPrimary
	case *core.InExpr:
		return precComparison
	case *core.Raw:
		return precRaw
	default:
		return precPrimary
	}
}

func binaryPrecedence(op core.BinaryOp) int {
	switch op {
	case core.OpOr:
		return precOr
	case core.OpAnd:
		return precAnd
	case core.OpPlus, core.OpMinus:
		return precAdditive
	default:
		return precComparison
	}
}

// associative reports whether a right operand of equal precedence can be
// printed without parentheses.
func associative(op core.BinaryOp) bool {
	return op == core.OpAnd || op == core.OpOr || op == core.OpPlus
}

func (p *Printer) formatExpr(e core.Expr) {
	if e == nil {
		return
	}

	switch expr := e.(type) {
	case *core.Literal:
		p.formatLiteral(expr)
	case *core.ColumnRef:
		p.formatColumnRef(expr)
	case *core.BinaryExpr:
		p.formatBinaryExpr(expr)
	case *core.UnaryExpr:
		p.formatUnaryExpr(expr)
	case *core.FuncCall:
		p.formatFuncCall(expr)
	case *core.InExpr:
		p.formatInExpr(expr)
	case *core.ParenExpr:
		p.write("(")
		p.formatExpr(expr.Expr)
		p.write(")")
	case *core.Raw:
		p.write(expr.SQL)
	}
}

func (p *Printer) exprComplexity(e core.Expr) int {
	if e == nil {
		return 0
	}

	switch expr := e.(type) {
	case *core.Literal, *core.ColumnRef, *core.Raw:
		return 1
	case *core.BinaryExpr:
		return 1 + p.exprComplexity(expr.Left) + p.exprComplexity(expr.Right)
	case *core.UnaryExpr:
		return 1 + p.exprComplexity(expr.Expr)
	case *core.FuncCall:
		score := 2
		for _, arg := range expr.Args {
			score += p.exprComplexity(arg)
		}
		return score
	case *core.ParenExpr:
		return p.exprComplexity(expr.Expr)
	case *core.InExpr:
		return complexityThreshold + 1
	default:
		return 1
	}
}

func isLogicalOp(op core.BinaryOp) bool {
	return op == core.OpAnd || op == core.OpOr
}

func (p *Printer) formatLiteral(lit *core.Literal) {
	switch lit.Type {
	case core.LiteralString:
		p.write("'")
		p.write(strings.ReplaceAll(lit.Value, "'", "''"))
		p.write("'")
	case core.LiteralBool:
		if strings.EqualFold(lit.Value, "true") {
			p.keyword("true")
		} else {
			p.keyword("false")
		}
	case core.LiteralNull:
		p.keyword("null")
	case core.LiteralBlob:
		p.write("X'")
		p.write(strings.ToUpper(lit.Value))
		p.write("'")
	default:
		p.write(lit.Value)
	}
}

func (p *Printer) formatColumnRef(col *core.ColumnRef) {
	if col.Table != "" {
		p.ident(col.Table)
		p.write(".")
	}
	p.ident(col.Column)
}

// formatOperand prints a child, parenthesized when it binds looser than its
// parent or sits on the right of a non-associative operator of equal strength.
func (p *Printer) formatOperand(child core.Expr, parent int, right bool, op core.BinaryOp) {
	cp := precedence(child)
	if cp < parent || (right && cp == parent && !associative(op)) {
		p.write("(")
		p.formatExpr(child)
		p.write(")")
		return
	}
	p.formatExpr(child)
}

func (p *Printer) formatBinaryExpr(expr *core.BinaryExpr) {
	prec := binaryPrecedence(expr.Op)
	shouldBreak := p.exprComplexity(expr) > complexityThreshold && isLogicalOp(expr.Op)

	p.formatOperand(expr.Left, prec, false, expr.Op)

	if shouldBreak {
		p.newline()
	} else {
		p.space()
	}
	p.keyword(string(expr.Op))
	p.space()

	p.formatOperand(expr.Right, prec, true, expr.Op)
}

func (p *Printer) formatUnaryExpr(expr *core.UnaryExpr) {
	p.keyword(expr.Op)
	if strings.EqualFold(expr.Op, "NOT") {
		p.space()
	}
	if precedence(expr.Expr) < precedence(expr) {
		p.write("(")
		p.formatExpr(expr.Expr)
		p.write(")")
		return
	}
	p.formatExpr(expr.Expr)
}

func (p *Printer) formatFuncCall(fn *core.FuncCall) {
	p.write(fn.Name)
	p.write("(")
	p.formatList(len(fn.Args), func(i int) { p.formatExpr(fn.Args[i]) }, ", ")
	p.write(")")
}

func (p *Printer) formatInExpr(in *core.InExpr) {
	p.formatOperand(in.Expr, precComparison, false, "")
	if in.Not {
		p.space()
		p.keyword("not")
	}
	p.space()
	p.keyword("in")
	p.write(" (")

	if in.Query != nil {
		if p.pretty {
			p.newline()
			p.indent()
			p.formatSelectStmt(in.Query)
			p.dedent()
			p.newline()
		} else {
			p.formatSelectStmt(in.Query)
		}
	} else {
		p.formatList(len(in.Values), func(i int) { p.formatExpr(in.Values[i]) }, ", ")
	}

	p.write(")")
}

func (p *Printer) formatSelectStmt(s *core.SelectStmt) {
	p.keyword("select")
	p.space()
	if len(s.Columns) == 0 {
		p.write("*")
	} else {
		p.formatList(len(s.Columns), func(i int) { p.formatExpr(s.Columns[i]) }, ", ")
	}

	if s.From != nil {
		p.newline()
		p.keyword("from")
		p.space()
		if s.From.Schema != "" {
			p.ident(s.From.Schema)
			p.write(".")
		}
		p.ident(s.From.Name)
	}

	if s.Where != nil {
		p.newline()
		p.keyword("where")
		p.space()
		if p.pretty {
			p.indent()
			p.formatExpr(s.Where)
			p.dedent()
		} else {
			p.formatExpr(s.Where)
		}
	}
}
