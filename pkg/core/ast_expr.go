package core

import (
	"encoding/hex"
	"strconv"
)

// ---------- Expression Types ----------

// ColumnRef represents a column reference (possibly qualified).
//
// Spatial is set when the column is a declared geometry column. Rewrites
// use it to decide whether a secondary spatial index can be consulted.
type ColumnRef struct {
	Table   string // optional table/alias qualifier
	Column  string
	Spatial *SpatialColumn
}

func (*ColumnRef) node()     {}
func (*ColumnRef) exprNode() {}

// GetTable returns the table qualifier.
func (c *ColumnRef) GetTable() string { return c.Table }

// GetColumn returns the column name.
func (c *ColumnRef) GetColumn() string { return c.Column }

// Indexed reports whether the column is a spatial column declared with a
// secondary spatial index.
func (c *ColumnRef) Indexed() bool {
	return c.Spatial != nil && c.Spatial.SpatialIndex
}

// Col builds a qualified column reference.
func Col(table, column string) *ColumnRef {
	return &ColumnRef{Table: table, Column: column}
}

// SpatialCol builds a column reference bound to its spatial descriptor.
func SpatialCol(c SpatialColumn) *ColumnRef {
	return &ColumnRef{Table: c.Table, Column: c.Column, Spatial: &c}
}

// Literal represents a literal value.
type Literal struct {
	Type  LiteralType
	Value string
}

func (*Literal) node()     {}
func (*Literal) exprNode() {}

// LiteralType represents the type of a literal.
type LiteralType int

// LiteralType constants for SQL literal value types.
const (
	LiteralNumber LiteralType = iota
	LiteralString
	LiteralBool
	LiteralNull
	LiteralBlob // Value holds lowercase hex digits
)

// Number builds a numeric literal.
func Number(v float64) *Literal {
	return &Literal{Type: LiteralNumber, Value: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Int builds an integer literal.
func Int(v int) *Literal {
	return &Literal{Type: LiteralNumber, Value: strconv.Itoa(v)}
}

// String builds a string literal. The value is stored unescaped.
func String(v string) *Literal {
	return &Literal{Type: LiteralString, Value: v}
}

// Blob builds a binary literal.
func Blob(b []byte) *Literal {
	return &Literal{Type: LiteralBlob, Value: hex.EncodeToString(b)}
}

// Null is the SQL NULL literal.
func Null() *Literal {
	return &Literal{Type: LiteralNull, Value: "NULL"}
}

// BinaryOp is a binary operator.
type BinaryOp string

// Binary operators used by spatial rewrites.
const (
	OpAnd   BinaryOp = "AND"
	OpOr    BinaryOp = "OR"
	OpEq    BinaryOp = "="
	OpNotEq BinaryOp = "<>"
	OpLt    BinaryOp = "<"
	OpLtEq  BinaryOp = "<="
	OpGt    BinaryOp = ">"
	OpGtEq  BinaryOp = ">="
	OpPlus  BinaryOp = "+"
	OpMinus BinaryOp = "-"
)

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (*BinaryExpr) node()     {}
func (*BinaryExpr) exprNode() {}

// GetLeft returns the left operand.
func (b *BinaryExpr) GetLeft() Expr { return b.Left }

// GetRight returns the right operand.
func (b *BinaryExpr) GetRight() Expr { return b.Right }

// GetOp returns the operator.
func (b *BinaryExpr) GetOp() BinaryOp { return b.Op }

// Binary builds a binary expression.
func Binary(left Expr, op BinaryOp, right Expr) *BinaryExpr {
	return &BinaryExpr{Left: left, Op: op, Right: right}
}

// And folds the given expressions into a left-deep conjunction.
// Nil entries are skipped; And() with no operands returns nil.
func And(exprs ...Expr) Expr {
	var out Expr
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if out == nil {
			out = e
			continue
		}
		out = &BinaryExpr{Left: out, Op: OpAnd, Right: e}
	}
	return out
}

// UnaryExpr represents a unary expression.
type UnaryExpr struct {
	Op   string // NOT, -
	Expr Expr
}

func (*UnaryExpr) node()     {}
func (*UnaryExpr) exprNode() {}

// FuncCall represents a function call.
type FuncCall struct {
	Name string
	Args []Expr
}

func (*FuncCall) node()     {}
func (*FuncCall) exprNode() {}

// Func builds a function call.
func Func(name string, args ...Expr) *FuncCall {
	return &FuncCall{Name: name, Args: args}
}

// InExpr represents an IN expression.
// Exactly one of Values or Query is set.
type InExpr struct {
	Expr   Expr
	Not    bool
	Values []Expr
	Query  *SelectStmt
}

func (*InExpr) node()     {}
func (*InExpr) exprNode() {}

// ParenExpr represents a parenthesized expression.
type ParenExpr struct {
	Expr Expr
}

func (*ParenExpr) node()     {}
func (*ParenExpr) exprNode() {}

// Raw is an opaque SQL fragment emitted verbatim.
// It carries caller-supplied operands the tree does not model.
type Raw struct {
	SQL string
}

func (*Raw) node()     {}
func (*Raw) exprNode() {}
