package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelviz/modelviz/pkg/graph"
	"github.com/modelviz/modelviz/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a derived graph",
		Long: `Compute node positions for a derived graph.

The layout command takes a graph.json file (produced by 'derive') and assigns
every node a position: leaves left to right, parents centered over their
children, depth tiers spaced vertically, and the whole tree centered on x=0.
The output is a layout.json file that 'render' consumes.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	cmd.Flags().Float64Var(&opts.NodeWidth, "node-width", 0, "node box width (default 140)")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", 0, "node box height (default 70)")
	cmd.Flags().Float64Var(&opts.HorizontalGap, "horizontal-gap", 0, "gap between leaf slots (default 20)")
	cmd.Flags().Float64Var(&opts.VerticalSpacing, "vertical-spacing", 0, "distance between depth tiers (default 150)")
	cmd.Flags().Float64Var(&opts.CategoryWidth, "category-width", 0, "rendered width of category boxes (default 120)")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	t, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(t.NodeCount(), t.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Render", "modelviz render "+outputPath)

	return nil
}
