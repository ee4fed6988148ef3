package core

// StatementKind classifies a planned lifecycle statement.
type StatementKind string

// Lifecycle statement kinds, in the order they normally appear.
const (
	StmtRegister         StatementKind = "register"
	StmtCreateIndex      StatementKind = "create-index"
	StmtCompact          StatementKind = "compact"
	StmtDisableIndex     StatementKind = "disable-index"
	StmtDropIndexStorage StatementKind = "drop-index-storage"
	StmtDeregister       StatementKind = "deregister"
)

// Statement is one SQL statement planned for a spatial column.
type Statement struct {
	Kind   StatementKind
	Table  string
	Column string // empty for table-scoped statements (compact)
	SQL    string
}
