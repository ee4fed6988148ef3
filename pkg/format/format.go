package format

import "github.com/leapstack-labs/leapgeo/pkg/core"

// SQL renders an expression on a single line.
// A zero IdentifierConfig uses ANSI double quotes.
func SQL(e core.Expr, ids core.IdentifierConfig) string {
	p := newPrinter(ids, false)
	p.formatExpr(e)
	return p.String()
}

// Pretty renders an expression across indented lines, breaking long
// AND/OR chains and IN subqueries.
func Pretty(e core.Expr, ids core.IdentifierConfig) string {
	p := newPrinter(ids, true)
	p.formatExpr(e)
	return p.String()
}

// Select renders a SELECT statement on a single line.
func Select(s *core.SelectStmt, ids core.IdentifierConfig) string {
	p := newPrinter(ids, false)
	p.formatSelectStmt(s)
	return p.String()
}
