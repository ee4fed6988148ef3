package schema

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
)

// Direction names a lifecycle hook.
type Direction string

// Hook directions.
const (
	DirectionCreate Direction = "create"
	DirectionDrop   Direction = "drop"
)

// HookRun describes one completed hook invocation.
type HookRun struct {
	ID         string
	Dialect    string
	Direction  Direction
	Column     core.SpatialColumn
	Version    core.Version
	Statements []core.Statement // planned, in order
	Executed   int              // statements that succeeded
	Err        error
	StartedAt  time.Time
	FinishedAt time.Time
}

// Recorder receives every hook run, successful or not.
type Recorder interface {
	RecordHook(ctx context.Context, run *HookRun) error
}

// Hooks runs lifecycle statements for one dialect.
type Hooks struct {
	Dialect  *dialect.Dialect
	Logger   *slog.Logger
	Recorder Recorder // optional
}

// New creates hooks for d. A nil logger discards output.
func New(d *dialect.Dialect, logger *slog.Logger) *Hooks {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hooks{Dialect: d, Logger: logger}
}

// Capabilities queries conn for its version and derives what it supports.
func (h *Hooks) Capabilities(ctx context.Context, conn Conn) (dialect.Capabilities, error) {
	if h.Dialect == nil {
		return dialect.Capabilities{}, dialect.ErrDialectRequired
	}
	v, err := conn.ServerVersion(ctx)
	if err != nil {
		return dialect.Capabilities{}, err
	}
	return h.Dialect.Capabilities(v), nil
}

// OnColumnCreate registers col in the spatial metadata catalog and, if the
// column is indexed and the connection supports it, builds the index and
// compacts the table. Registration always comes first.
func (h *Hooks) OnColumnCreate(ctx context.Context, conn Conn, col core.SpatialColumn) error {
	return h.run(ctx, conn, col, DirectionCreate)
}

// OnColumnDrop removes the index (when present) and then the catalog entry.
func (h *Hooks) OnColumnDrop(ctx context.Context, conn Conn, col core.SpatialColumn) error {
	return h.run(ctx, conn, col, DirectionDrop)
}

// Plan returns the statements a hook would run for caps without executing them.
// It returns ErrDialectRequired when the hooks have no dialect.
func (h *Hooks) Plan(dir Direction, col core.SpatialColumn, caps dialect.Capabilities) ([]core.Statement, error) {
	if h.Dialect == nil {
		return nil, dialect.ErrDialectRequired
	}
	if dir == DirectionDrop {
		return h.Dialect.PlanDrop(col, caps), nil
	}
	return h.Dialect.PlanCreate(col, caps), nil
}

func (h *Hooks) run(ctx context.Context, conn Conn, col core.SpatialColumn, dir Direction) error {
	if h.Dialect == nil {
		return dialect.ErrDialectRequired
	}
	run := &HookRun{
		ID:        uuid.NewString(),
		Dialect:   h.Dialect.Name,
		Direction: dir,
		Column:    col,
		StartedAt: time.Now().UTC(),
	}
	logger := h.logger().With(
		"hook_id", run.ID,
		"dialect", h.Dialect.Name,
		"direction", string(dir),
		"table", col.Table,
		"column", col.Column,
	)

	run.Err = h.execute(ctx, conn, run, logger)
	run.FinishedAt = time.Now().UTC()

	if h.Recorder != nil {
		if err := h.Recorder.RecordHook(ctx, run); err != nil {
			logger.Warn("failed to record hook run", "error", err)
		}
	}
	return run.Err
}

func (h *Hooks) execute(ctx context.Context, conn Conn, run *HookRun, logger *slog.Logger) error {
	caps, err := h.Capabilities(ctx, conn)
	if err != nil {
		return fmt.Errorf("spatial column %s: %w", run.Column.QualifiedName(), err)
	}
	run.Version = caps.Version
	if run.Statements, err = h.Plan(run.Direction, run.Column, caps); err != nil {
		return err
	}

	logger.Debug("planned spatial column hook",
		"version", caps.Version.String(),
		"spatial_index", caps.SpatialIndex,
		"statements", len(run.Statements))

	for i, stmt := range run.Statements {
		logger.Debug("executing statement", "kind", string(stmt.Kind), "sql", stmt.SQL)
		if err := conn.Exec(ctx, stmt.SQL); err != nil {
			logger.Error("statement failed", "kind", string(stmt.Kind), "index", i, "error", err)
			return &StatementError{Statement: stmt, Index: i, Err: err}
		}
		run.Executed++
	}
	return nil
}

func (h *Hooks) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}
