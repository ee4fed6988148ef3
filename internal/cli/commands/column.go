package commands

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapgeo/internal/cli/config"
	"github.com/leapstack-labs/leapgeo/internal/cli/output"
	"github.com/leapstack-labs/leapgeo/pkg/adapter"
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/schema"
)

// columnFlags selects spatial columns either from flags or from the columns file.
type columnFlags struct {
	file      string
	table     string
	column    string
	srid      int
	geomType  string
	dimension int
	nullable  bool
	indexed   bool
}

func (f *columnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Columns file (default: columns_file from config)")
	cmd.Flags().StringVar(&f.table, "table", "", "Table of a single column (instead of the columns file)")
	cmd.Flags().StringVar(&f.column, "column", "", "Column name, with --table")
	cmd.Flags().IntVar(&f.srid, "srid", 0, "SRID, with --table")
	cmd.Flags().StringVar(&f.geomType, "type", "GEOMETRY", "Geometry type, with --table")
	cmd.Flags().IntVar(&f.dimension, "dimension", 2, "Coordinate dimension, with --table")
	cmd.Flags().BoolVar(&f.nullable, "nullable", false, "Column accepts NULL, with --table")
	cmd.Flags().BoolVar(&f.indexed, "index", false, "Build a spatial index, with --table")
	cmd.MarkFlagsRequiredTogether("table", "column")
	cmd.MarkFlagsMutuallyExclusive("file", "table")
}

func (f *columnFlags) columns(cfg *config.Config) ([]core.SpatialColumn, error) {
	if f.table != "" {
		return []core.SpatialColumn{{
			Table:        f.table,
			Column:       f.column,
			SRID:         f.srid,
			GeometryType: f.geomType,
			Dimension:    f.dimension,
			Nullable:     f.nullable,
			SpatialIndex: f.indexed,
		}}, nil
	}
	path := f.file
	if path == "" {
		path = cfg.ColumnsFile
	}
	cols, err := config.LoadColumns(path)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns declared in %s", path)
	}
	return cols, nil
}

// ColumnResult is the JSON form of one hook run.
type ColumnResult struct {
	Column     string   `json:"column"`
	Direction  string   `json:"direction"`
	Statements []string `json:"statements"`
	Error      string   `json:"error,omitempty"`
}

// NewColumnCommand creates the column command and its create/drop subcommands.
func NewColumnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Run spatial column lifecycle hooks against the target",
		Long: `Register or remove spatial columns in the target's spatial metadata.

create registers each column and, when it is indexed and the server supports
it, builds its spatial index. drop undoes this in reverse order. Every run is
recorded in the local journal (see "leapgeo history").`,
	}
	cmd.AddCommand(newColumnDirectionCommand(schema.DirectionCreate))
	cmd.AddCommand(newColumnDirectionCommand(schema.DirectionDrop))
	return cmd
}

func newColumnDirectionCommand(dir schema.Direction) *cobra.Command {
	var (
		cols      columnFlags
		dryRun    bool
		noJournal bool
	)

	short := "Register spatial columns and build their indexes"
	if dir == schema.DirectionDrop {
		short = "Drop spatial indexes and deregister spatial columns"
	}

	cmd := &cobra.Command{
		Use:   string(dir),
		Short: short,
		Example: fmt.Sprintf(`  leapgeo column %[1]s
  leapgeo column %[1]s --table roads --column geom --srid 4326 --type LINESTRING --index
  leapgeo column %[1]s --dry-run -o json`, dir),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			selected, err := cols.columns(cc.Cfg)
			if err != nil {
				return err
			}
			if dir == schema.DirectionDrop {
				slices.Reverse(selected)
			}
			return runColumnHooks(cmd.Context(), cc, dir, selected, dryRun, !noJournal)
		},
	}
	cols.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the planned statements without executing them")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Do not record the runs in the journal")
	return cmd
}

func runColumnHooks(ctx context.Context, cc *CommandContext, dir schema.Direction, cols []core.SpatialColumn, dryRun, journal bool) error {
	a, err := cc.OpenTarget(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	hooks := schema.New(a.Dialect(), cc.Logger)
	if journal && !dryRun {
		store, err := cc.OpenJournal(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		hooks.Recorder = store
	}

	results, runErr := applyHooks(ctx, hooks, a, dir, cols, dryRun)
	if err := renderColumnResults(cc.Renderer, results); err != nil {
		return err
	}
	return runErr
}

// applyHooks runs (or plans) the hook for each column, stopping at the first failure.
func applyHooks(ctx context.Context, hooks *schema.Hooks, a adapter.Adapter, dir schema.Direction, cols []core.SpatialColumn, dryRun bool) ([]ColumnResult, error) {
	caps, err := hooks.Capabilities(ctx, a)
	if err != nil {
		return nil, err
	}

	results := make([]ColumnResult, 0, len(cols))
	for _, col := range cols {
		res := ColumnResult{Column: col.QualifiedName(), Direction: string(dir)}
		plan, err := hooks.Plan(dir, col, caps)
		if err != nil {
			return results, err
		}
		for _, stmt := range plan {
			res.Statements = append(res.Statements, stmt.SQL)
		}
		if !dryRun {
			if dir == schema.DirectionDrop {
				err = hooks.OnColumnDrop(ctx, a, col)
			} else {
				err = hooks.OnColumnCreate(ctx, a, col)
			}
			if err != nil {
				res.Error = err.Error()
				results = append(results, res)
				return results, err
			}
		}
		results = append(results, res)
	}
	return results, nil
}

func renderColumnResults(r *output.Renderer, results []ColumnResult) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(results)
	case output.ModeMarkdown:
		for _, res := range results {
			r.Println(output.FormatHeader(2, res.Direction+" "+res.Column))
			r.Println("")
			r.Println("```sql")
			for _, s := range res.Statements {
				r.Println(s + ";")
			}
			r.Println("```")
			if res.Error != "" {
				r.Println(output.FormatKeyValue("Error", res.Error))
			}
			r.Println("")
		}
	default:
		for _, res := range results {
			status := "ok"
			if res.Error != "" {
				status = "FAILED"
			}
			r.Printf("%s %s (%d statements) %s\n", res.Direction, res.Column, len(res.Statements), status)
			for _, s := range res.Statements {
				r.Printf("  %s\n", s)
			}
		}
	}
	return nil
}
