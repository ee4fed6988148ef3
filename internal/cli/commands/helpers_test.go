package commands

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapgeo/internal/cli/config"
	"github.com/leapstack-labs/leapgeo/pkg/adapter"
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"

	_ "github.com/mattn/go-sqlite3"
)

// geoTest plans ordinary tables so lifecycle commands can run on a stock
// SQLite build without the spatial extension.
var geoTest = dialect.NewDialect("geotest").
	Gate(dialect.Always).
	VersionQuery("SELECT sqlite_version()").
	GooseDialect("sqlite3").
	Lifecycle(dialect.Lifecycle{
		Create: func(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
			stmts := []core.Statement{
				dialect.ColumnStatement(core.StmtRegister, col,
					fmt.Sprintf("CREATE TABLE geo_%s_%s (srid INTEGER)", col.Table, col.Column)),
			}
			if dialect.WantsIndex(col, caps) {
				stmts = append(stmts, dialect.ColumnStatement(core.StmtCreateIndex, col,
					"CREATE TABLE "+col.IndexName()+" (pkid INTEGER)"))
			}
			return stmts
		},
		Drop: func(col core.SpatialColumn, caps dialect.Capabilities) []core.Statement {
			var stmts []core.Statement
			if dialect.WantsIndex(col, caps) {
				stmts = append(stmts, dialect.ColumnStatement(core.StmtDropIndexStorage, col,
					"DROP TABLE "+col.IndexName()))
			}
			return append(stmts, dialect.ColumnStatement(core.StmtDeregister, col,
				fmt.Sprintf("DROP TABLE geo_%s_%s", col.Table, col.Column)))
		},
	}).
	Build()

type geoTestAdapter struct {
	adapter.BaseSQLAdapter
}

func (a *geoTestAdapter) Connect(ctx context.Context, cfg adapter.Config) error {
	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to open test database: %w", err)
	}
	a.Attach(db, cfg)
	return nil
}

func init() {
	adapter.Register("geotest", func(logger *slog.Logger) adapter.Adapter {
		return &geoTestAdapter{adapter.BaseSQLAdapter{Logger: logger, SpatialDialect: geoTest}}
	})
}

// testConfig points the target at a fresh file database and the journal at
// a temp file. Output is plain text unless overridden.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		ColumnsFile:  filepath.Join("..", "testdata", "columns.yaml"),
		StatePath:    filepath.Join(dir, "state", "journal.db"),
		OutputFormat: "text",
		Target:       &config.TargetConfig{Type: "geotest", Database: filepath.Join(dir, "target.db")},
	}
}

func execute(t *testing.T, cfg *config.Config, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	// Match the root command: failures must not append usage to the output.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(config.WithConfig(context.Background(), cfg))
	return out.String(), err
}

func withOutput(cfg *config.Config, mode string) *config.Config {
	c := *cfg
	c.OutputFormat = mode
	return &c
}

func openTarget(t *testing.T, cfg *config.Config) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", cfg.Target.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}
