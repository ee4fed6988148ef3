package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapgeo/pkg/schema"
)

// RecordHook stores a hook run and its planned statements.
func (s *SQLiteStore) RecordHook(ctx context.Context, run *schema.HookRun) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	status := StatusSuccess
	var errMsg *string
	if run.Err != nil {
		status = StatusFailed
		msg := run.Err.Error()
		errMsg = &msg
	}

	s.logger.Debug("recording hook run", slog.String("id", run.ID), slog.String("status", string(status)))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO hook_runs (id, dialect, direction, table_name, column_name, server_version,
			planned, executed, status, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Dialect, string(run.Direction), run.Column.Table, run.Column.Column, versionString(run),
		len(run.Statements), run.Executed, string(status), errMsg, run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record hook run: %w", err)
	}

	for i, stmt := range run.Statements {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO hook_statements (hook_id, position, kind, sql, executed) VALUES (?, ?, ?, ?, ?)`,
			run.ID, i, string(stmt.Kind), stmt.SQL, i < run.Executed,
		)
		if err != nil {
			return fmt.Errorf("failed to record hook statement: %w", err)
		}
	}

	return tx.Commit()
}

func versionString(run *schema.HookRun) string {
	if run.Version.IsZero() {
		return ""
	}
	return run.Version.String()
}

// ListHookRuns returns the most recent runs, newest first, without their
// statements. An empty table filter lists every table.
func (s *SQLiteStore) ListHookRuns(ctx context.Context, table string, limit int) ([]*HookRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dialect, direction, table_name, column_name, server_version,
			planned, executed, status, error, started_at, finished_at
		 FROM hook_runs
		 WHERE ? = '' OR table_name = ?
		 ORDER BY started_at DESC, id
		 LIMIT ?`,
		table, table, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list hook runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*HookRecord
	for rows.Next() {
		rec, err := scanHookRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hook runs: %w", err)
	}
	return records, nil
}

// GetHookRun retrieves one run with its statements.
func (s *SQLiteStore) GetHookRun(ctx context.Context, id string) (*HookRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, dialect, direction, table_name, column_name, server_version,
			planned, executed, status, error, started_at, finished_at
		 FROM hook_runs WHERE id = ?`, id)
	rec, err := scanHookRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("hook run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT position, kind, sql, executed FROM hook_statements WHERE hook_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get hook statements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var st StatementRecord
		if err := rows.Scan(&st.Position, &st.Kind, &st.SQL, &st.Executed); err != nil {
			return nil, fmt.Errorf("failed to scan hook statement: %w", err)
		}
		rec.Statements = append(rec.Statements, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hook statements: %w", err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHookRun(row scanner) (*HookRecord, error) {
	rec := &HookRecord{}
	var status string
	var errMsg sql.NullString
	err := row.Scan(&rec.ID, &rec.Dialect, &rec.Direction, &rec.Table, &rec.Column, &rec.ServerVersion,
		&rec.Planned, &rec.Executed, &status, &errMsg, &rec.StartedAt, &rec.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan hook run: %w", err)
	}
	rec.Status = Status(status)
	rec.Error = errMsg.String
	return rec, nil
}

var _ schema.Recorder = (*SQLiteStore)(nil)
