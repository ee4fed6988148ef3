package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapgeo/internal/cli/output"
	"github.com/leapstack-labs/leapgeo/pkg/core"
	"github.com/leapstack-labs/leapgeo/pkg/dialect"
	"github.com/leapstack-labs/leapgeo/pkg/format"
)

// TranslateOutput is the JSON form of a translated expression.
type TranslateOutput struct {
	Dialect   string `json:"dialect"`
	Operation string `json:"operation"`
	SQL       string `json:"sql"`
}

type sqlOptions struct {
	dialect string
	version string
	pretty  bool
}

func (o *sqlOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.dialect, "dialect", "d", "", "Dialect name (default: the target's dialect)")
	cmd.Flags().StringVar(&o.version, "server-version", "", "Server version to gate the spatial index on (default: current)")
	cmd.Flags().BoolVar(&o.pretty, "pretty", false, "Pretty-print the SQL")
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	var opts sqlOptions

	cmd := &cobra.Command{
		Use:   "translate <operation> [operand...]",
		Short: "Translate a spatial operation into dialect SQL",
		Long: `Translate an abstract spatial operation into the SQL a dialect emits.

Operands: 'text' is a string literal, numbers are numeric literals,
table.column is a column reference, anything else is copied verbatim.`,
		Example: `  leapgeo translate length roads.geom --dialect spatialite
  leapgeo translate mbr_contains a.geom b.geom -d postgis
  leapgeo translate geom_from_text "'POINT(1 2)'" 4326`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, opts, args[0], args[1:])
		},
	}
	opts.register(cmd)
	return cmd
}

func runTranslate(cmd *cobra.Command, opts sqlOptions, op string, operands []string) error {
	cc := NewCommandContext(cmd)
	c, err := cc.Compiler(opts.dialect, opts.version)
	if err != nil {
		return err
	}

	args := make([]core.Expr, len(operands))
	for i, s := range operands {
		args[i] = parseOperand(s)
	}
	expr, err := c.CallName(op, args...)
	if err != nil {
		return err
	}
	return renderSQL(cc, opts, c, op, expr)
}

func renderSQL(cc *CommandContext, opts sqlOptions, c *dialect.Compiler, op string, expr core.Expr) error {
	out := TranslateOutput{Dialect: c.Dialect.Name, Operation: op}
	ids := c.Dialect.Identifiers
	if opts.pretty {
		out.SQL = format.Pretty(expr, ids)
	} else {
		out.SQL = format.SQL(expr, ids)
	}

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		r.Println("```sql")
		r.Println(out.SQL)
		r.Println("```")
	default:
		r.Println(out.SQL)
	}
	return nil
}
