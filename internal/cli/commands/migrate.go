package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapgeo/internal/cli/output"
	"github.com/leapstack-labs/leapgeo/pkg/schema"
)

// MigrationInfo is the JSON form of one migration result or status row.
type MigrationInfo struct {
	Version   int64  `json:"version"`
	Column    string `json:"column"`
	State     string `json:"state"`
	AppliedAt string `json:"applied_at,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the columns file as versioned migrations",
		Long: `Treat each entry of the columns file as one migration, numbered from 1
in file order. Applied versions are tracked in the leapgeo_db_version table
of the target, so re-running "migrate up" only creates new columns.

Appending columns to the file is safe; reordering or removing applied entries is not.`,
	}
	cmd.PersistentFlags().StringVarP(&file, "file", "f", "", "Columns file (default: columns_file from config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Create every pending column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, file, func(ctx context.Context, p *goose.Provider, cc *CommandContext, names map[int64]string) error {
				results, err := p.Up(ctx)
				return renderMigrationResults(cc.Renderer, results, names, err)
			})
		},
	})

	var to int64
	var all bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Drop the most recently created column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, file, func(ctx context.Context, p *goose.Provider, cc *CommandContext, names map[int64]string) error {
				if all || cmd.Flags().Changed("to") {
					if all {
						to = 0
					}
					results, err := p.DownTo(ctx, to)
					return renderMigrationResults(cc.Renderer, results, names, err)
				}
				res, err := p.Down(ctx)
				if errors.Is(err, goose.ErrNoNextVersion) {
					cc.Renderer.Println("nothing to roll back")
					return nil
				}
				var results []*goose.MigrationResult
				if res != nil {
					results = append(results, res)
				}
				return renderMigrationResults(cc.Renderer, results, names, err)
			})
		},
	}
	down.Flags().Int64Var(&to, "to", 0, "Roll back down to, but not including, this version")
	down.Flags().BoolVar(&all, "all", false, "Roll back every applied column")
	down.MarkFlagsMutuallyExclusive("to", "all")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show which columns are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, file, func(ctx context.Context, p *goose.Provider, cc *CommandContext, names map[int64]string) error {
				statuses, err := p.Status(ctx)
				if err != nil {
					return err
				}
				infos := make([]MigrationInfo, 0, len(statuses))
				for _, s := range statuses {
					info := MigrationInfo{Version: s.Source.Version, Column: names[s.Source.Version], State: string(s.State)}
					if !s.AppliedAt.IsZero() {
						info.AppliedAt = s.AppliedAt.UTC().Format(time.RFC3339)
					}
					infos = append(infos, info)
				}
				return renderMigrations(cc.Renderer, infos)
			})
		},
	})
	return cmd
}

type migrateFunc func(ctx context.Context, p *goose.Provider, cc *CommandContext, names map[int64]string) error

func withMigrator(cmd *cobra.Command, file string, fn migrateFunc) error {
	ctx := cmd.Context()
	cc := NewCommandContext(cmd)
	cols, err := (&columnFlags{file: file}).columns(cc.Cfg)
	if err != nil {
		return err
	}

	a, err := cc.OpenTarget(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	hooks := schema.New(a.Dialect(), cc.Logger)
	store, err := cc.OpenJournal(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	hooks.Recorder = store

	p, err := hooks.NewMigrator(a.SQLDB(), hooks.ColumnMigrations(cols)...)
	if err != nil {
		return err
	}

	names := make(map[int64]string, len(cols))
	for i, c := range cols {
		names[int64(i+1)] = c.QualifiedName()
	}
	return fn(ctx, p, cc, names)
}

func renderMigrationResults(r *output.Renderer, results []*goose.MigrationResult, names map[int64]string, runErr error) error {
	// A failed run reports what it managed to apply, and the failure, on the error.
	var partial *goose.PartialError
	if errors.As(runErr, &partial) {
		results = append(append([]*goose.MigrationResult{}, partial.Applied...), partial.Failed)
	}

	infos := make([]MigrationInfo, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		info := MigrationInfo{
			Version:  res.Source.Version,
			Column:   names[res.Source.Version],
			State:    res.Direction,
			Duration: res.Duration.Round(time.Millisecond).String(),
		}
		if res.Error != nil {
			info.Error = res.Error.Error()
		}
		infos = append(infos, info)
	}

	if len(infos) == 0 && runErr == nil {
		r.Println("no pending columns")
		return nil
	}
	if err := renderMigrations(r, infos); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("migration failed: %w", runErr)
	}
	return nil
}

func renderMigrations(r *output.Renderer, infos []MigrationInfo) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}
	rows := make([][]string, 0, len(infos))
	for _, m := range infos {
		detail := m.AppliedAt
		if m.Duration != "" {
			detail = m.Duration
		}
		if m.Error != "" {
			detail = m.Error
		}
		rows = append(rows, []string{strconv.FormatInt(m.Version, 10), m.Column, m.State, detail})
	}
	r.Table([]string{"Version", "Column", "State", "Detail"}, rows)
	return nil
}
