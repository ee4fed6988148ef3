package core

// ---------- Statement Types ----------

// TableName represents a table reference.
type TableName struct {
	Schema string
	Name   string
}

func (*TableName) node() {}

// SelectStmt is the minimal SELECT used by rewrites for subqueries:
// SELECT columns FROM table WHERE predicate.
type SelectStmt struct {
	Columns []Expr
	From    *TableName
	Where   Expr
}

func (*SelectStmt) node()     {}
func (*SelectStmt) stmtNode() {}
