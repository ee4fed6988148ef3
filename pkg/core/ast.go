package core

// Node is the base interface for all tree nodes.
type Node interface {
	node()
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode() // Marker method to distinguish expressions
}

// Stmt is a marker interface for statement nodes.
type Stmt interface {
	Node
	stmtNode() // Marker method to distinguish statements
}
