package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapgeo/internal/cli/output"
)

// FunctionInfo is one catalog row in JSON output.
type FunctionInfo struct {
	Operation string `json:"operation"`
	Kind      string `json:"kind"`
	Binding   string `json:"binding"`
	Source    string `json:"source"`
}

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	var dialectName string

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List the spatial function catalog of a dialect",
		Long: `List every operation a dialect binds, including what it inherits from
its base dialects. Unsupported operations are listed as <unsupported>.

The dialect defaults to the one matching the configured target type.`,
		Example: `  # Catalog of the configured target
  leapgeo functions

  # SpatiaLite catalog as JSON
  leapgeo functions --dialect spatialite -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFunctions(cmd, dialectName)
		},
	}
	cmd.Flags().StringVarP(&dialectName, "dialect", "d", "", "Dialect name (ogc, mysql, spatialite, postgis, duckdb)")
	return cmd
}

func runFunctions(cmd *cobra.Command, dialectName string) error {
	cc := NewCommandContext(cmd)
	d, err := cc.Dialect(dialectName)
	if err != nil {
		return err
	}

	entries := d.Functions()
	infos := make([]FunctionInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, FunctionInfo{
			Operation: e.Op.String(),
			Kind:      e.Op.Kind().String(),
			Binding:   e.Binding.String(),
			Source:    e.Source,
		})
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	rows := make([][]string, 0, len(infos))
	for _, f := range infos {
		rows = append(rows, []string{f.Operation, f.Kind, f.Binding, f.Source})
	}
	r.Header(1, "Functions: "+d.Name)
	r.Table([]string{"Operation", "Kind", "Binding", "Source"}, rows)
	return nil
}
