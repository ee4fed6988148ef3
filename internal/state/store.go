// Package state keeps a local journal of spatial column hook runs in SQLite.
// Every create/drop hook executed through the CLI is recorded with its
// planned statements, how many of them ran, and the error that stopped it.
package state

import (
	"time"
)

// Status is the outcome of a recorded hook run.
type Status string

// Hook run outcomes.
const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// HookRecord is one journal entry.
type HookRecord struct {
	ID            string
	Dialect       string
	Direction     string
	Table         string
	Column        string
	ServerVersion string
	Planned       int
	Executed      int
	Status        Status
	Error         string
	StartedAt     time.Time
	FinishedAt    time.Time
	Statements    []StatementRecord
}

// StatementRecord is one planned statement of a hook run.
type StatementRecord struct {
	Position int
	Kind     string
	SQL      string
	Executed bool
}

// Duration returns how long the run took.
func (r *HookRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
