package commands

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapgeo/internal/cli/config"
	"github.com/leapstack-labs/leapgeo/internal/cli/output"
	"github.com/leapstack-labs/leapgeo/pkg/adapter"
)

// maxConcurrentTargets bounds how many targets are connected at once.
const maxConcurrentTargets = 4

// mainTargetName labels the top-level target in reports. Named targets are
// listed under their own names, so a target called "default" stays distinct.
const mainTargetName = "(target)"

// TargetCapabilities is what one target reported.
type TargetCapabilities struct {
	Target       string `json:"target"`
	Main         bool   `json:"main,omitempty"`
	Type         string `json:"type"`
	Dialect      string `json:"dialect,omitempty"`
	Version      string `json:"version,omitempty"`
	SpatialIndex bool   `json:"spatial_index"`
	Migrations   bool   `json:"migrations"`
	Error        string `json:"error,omitempty"`
}

// NewCapabilitiesCommand creates the capabilities command.
func NewCapabilitiesCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Inspect configured targets for their spatial capabilities",
		Long: `Connect to the target and every entry under "targets:" in leapgeo.yaml,
query each server version and report whether the spatial index mechanism
is available. The top-level target is reported as "(target)". Targets are
inspected concurrently; a failing target is reported and does not stop the others.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			results := inspectTargets(ctx, cc, namedTargets(cc.Cfg))
			return renderCapabilities(cc.Renderer, results)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	return cmd
}

type capTarget struct {
	name   string
	main   bool
	target *config.TargetConfig
}

// namedTargets lists the main target first, then the named targets by name.
func namedTargets(cfg *config.Config) []capTarget {
	names := make([]string, 0, len(cfg.Targets))
	for name, t := range cfg.Targets {
		if t != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	targets := make([]capTarget, 0, len(names)+1)
	if cfg.Target != nil {
		targets = append(targets, capTarget{name: mainTargetName, main: true, target: cfg.Target})
	}
	for _, name := range names {
		targets = append(targets, capTarget{name: name, target: cfg.Targets[name]})
	}
	return targets
}

// inspectTargets connects to every target concurrently. Results keep the order of targets.
func inspectTargets(ctx context.Context, cc *CommandContext, targets []capTarget) []TargetCapabilities {
	results := make([]TargetCapabilities, len(targets))
	var g errgroup.Group
	g.SetLimit(maxConcurrentTargets)
	for i, p := range targets {
		g.Go(func() error {
			results[i] = inspectTarget(ctx, cc, p)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func inspectTarget(ctx context.Context, cc *CommandContext, p capTarget) TargetCapabilities {
	t := p.target
	res := TargetCapabilities{Target: p.name, Main: p.main, Type: t.Type}
	logger := cc.Logger.With("target", p.name, "type", t.Type)

	a, err := adapter.Open(ctx, t.AdapterConfig(), logger)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer func() { _ = a.Close() }()

	d := a.Dialect()
	res.Dialect = d.Name
	res.Migrations = d.GooseDialect() != ""

	v, err := a.ServerVersion(ctx)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	caps := d.Capabilities(v)
	res.Version = v.String()
	res.SpatialIndex = caps.SpatialIndex
	logger.Debug("inspected target", "version", res.Version, "spatial_index", res.SpatialIndex)
	return res
}

func renderCapabilities(r *output.Renderer, results []TargetCapabilities) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(results)
	}
	rows := make([][]string, 0, len(results))
	for _, c := range results {
		status := "ok"
		if c.Error != "" {
			status = c.Error
		}
		rows = append(rows, []string{
			c.Target, c.Type, c.Dialect, c.Version,
			strconv.FormatBool(c.SpatialIndex), strconv.FormatBool(c.Migrations), status,
		})
	}
	r.Table([]string{"Target", "Type", "Dialect", "Version", "Spatial index", "Migrations", "Status"}, rows)
	return nil
}
