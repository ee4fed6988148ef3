package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapgeo/internal/cli/output"
	"github.com/leapstack-labs/leapgeo/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		table string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded spatial column hook runs",
		Long: `List the hook runs recorded in the local journal, newest first.
Pass a run id to show its planned statements and where it stopped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc := NewCommandContext(cmd)
			store, err := cc.OpenJournal(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) == 1 {
				rec, err := store.GetHookRun(ctx, args[0])
				if err != nil {
					return err
				}
				return renderHookRun(cc.Renderer, rec)
			}

			recs, err := store.ListHookRuns(ctx, table, limit)
			if err != nil {
				return err
			}
			return renderHookRuns(cc.Renderer, recs)
		},
	}
	cmd.Flags().StringVar(&table, "table", "", "Only show runs for this table")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs")
	return cmd
}

func renderHookRuns(r *output.Renderer, recs []*state.HookRecord) error {
	if r.EffectiveMode() == output.ModeJSON {
		if recs == nil {
			recs = []*state.HookRecord{}
		}
		return r.JSON(recs)
	}
	if len(recs) == 0 {
		r.Println("no hook runs recorded")
		return nil
	}
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.ID,
			rec.StartedAt.Local().Format(time.DateTime),
			rec.Direction,
			rec.Table + "." + rec.Column,
			rec.Dialect,
			strconv.Itoa(rec.Executed) + "/" + strconv.Itoa(rec.Planned),
			string(rec.Status),
		})
	}
	r.Table([]string{"ID", "Started", "Direction", "Column", "Dialect", "Executed", "Status"}, rows)
	return nil
}

func renderHookRun(r *output.Renderer, rec *state.HookRecord) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(rec)
	}
	r.Header(1, rec.Direction+" "+rec.Table+"."+rec.Column)
	r.Println(output.FormatKeyValue("ID", rec.ID))
	r.Println(output.FormatKeyValue("Dialect", rec.Dialect))
	if rec.ServerVersion != "" {
		r.Println(output.FormatKeyValue("Server version", rec.ServerVersion))
	}
	r.Println(output.FormatKeyValue("Status", string(rec.Status)))
	r.Println(output.FormatKeyValue("Duration", rec.Duration().String()))
	if rec.Error != "" {
		r.Println(output.FormatKeyValue("Error", rec.Error))
	}
	r.Println("")

	rows := make([][]string, 0, len(rec.Statements))
	for _, s := range rec.Statements {
		ran := "no"
		if s.Executed {
			ran = "yes"
		}
		rows = append(rows, []string{strconv.Itoa(s.Position + 1), s.Kind, ran, s.SQL})
	}
	r.Table([]string{"#", "Kind", "Executed", "SQL"}, rows)
	return nil
}
