package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapgeo/internal/cli/config"
	"github.com/leapstack-labs/leapgeo/internal/cli/output"
	"github.com/leapstack-labs/leapgeo/internal/state"
	"github.com/leapstack-labs/leapgeo/pkg/adapter"
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/dialects"
)

// CommandContext holds the shared resources a command needs.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects config, logger and renderer for cmd.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig(cmd.Context())
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}
}

// getConfig returns the loaded config, or the defaults when commands run
// without the root command (tests, completion).
func getConfig(ctx context.Context) *config.Config {
	if cfg := config.GetConfig(ctx); cfg != nil {
		return cfg
	}
	return &config.Config{
		ColumnsFile:  config.DefaultColumns,
		StatePath:    config.DefaultStateFile,
		OutputFormat: config.DefaultOutput,
		Target:       &config.TargetConfig{Type: "sqlite", Database: ":memory:", Schema: "main"},
	}
}

// Dialect resolves a dialect by name, or the configured target's when name is empty.
func (c *CommandContext) Dialect(name string) (*dialect.Dialect, error) {
	if name != "" {
		if d, ok := dialects.Registry().Get(strings.ToLower(name)); ok {
			return d, nil
		}
		return nil, fmt.Errorf("unknown dialect %q (available: %s)", name, strings.Join(dialects.Registry().List(), ", "))
	}
	d, ok := dialects.ForAdapter(strings.ToLower(c.Cfg.Target.Type))
	if !ok {
		return nil, fmt.Errorf("no spatial dialect for target type %q", c.Cfg.Target.Type)
	}
	return d, nil
}

// Compiler builds an offline compiler. version is the server version to
// gate the spatial index on; empty assumes a current server.
func (c *CommandContext) Compiler(dialectName, version string) (*dialect.Compiler, error) {
	d, err := c.Dialect(dialectName)
	if err != nil {
		return nil, err
	}
	if version == "" {
		return dialect.NewCompiler(d, dialect.Capabilities{SpatialIndex: d.Gate() != dialect.Never}), nil
	}
	v, err := core.ParseVersion(version)
	if err != nil {
		return nil, err
	}
	return dialect.NewCompiler(d, d.Capabilities(v)), nil
}

// OpenTarget connects to the configured target.
func (c *CommandContext) OpenTarget(ctx context.Context) (adapter.Adapter, error) {
	return adapter.Open(ctx, c.Cfg.Target.AdapterConfig(), c.Logger)
}

// OpenJournal opens (and migrates) the hook journal at the configured state path.
func (c *CommandContext) OpenJournal(ctx context.Context) (*state.SQLiteStore, error) {
	if dir := filepath.Dir(c.Cfg.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	store := state.NewSQLiteStore(c.Logger)
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// parseOperand turns a command-line operand into an expression:
// 'text' is a string literal, numbers are numeric literals, table.column is
// a column reference and anything else is passed through verbatim.
func parseOperand(s string) core.Expr {
	if len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'") {
		return core.String(strings.ReplaceAll(s[1:len(s)-1], "''", "'"))
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return core.Number(f)
	}
	if table, column, ok := strings.Cut(s, "."); ok && isIdent(table) && isIdent(column) {
		return core.Col(table, column)
	}
	return &core.Raw{SQL: s}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
