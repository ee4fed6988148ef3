package schema

import (
	"fmt"

	"github.com/leapstack-labs/leapgeo/pkg/core"
)

// StatementError reports a lifecycle statement that failed. Statements
// planned before it have already been committed; the ones after it were
// not run.
type StatementError struct {
	Statement core.Statement
	Index     int // position in the planned sequence
	Err       error
}

func (e *StatementError) Error() string {
	target := e.Statement.Table
	if e.Statement.Column != "" {
		target += "." + e.Statement.Column
	}
	return fmt.Sprintf("spatial column %s: %s statement #%d failed: %v", target, e.Statement.Kind, e.Index+1, e.Err)
}

// Unwrap returns the driver error.
func (e *StatementError) Unwrap() error {
	return e.Err
}
