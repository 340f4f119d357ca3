package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelviz/modelviz/pkg/pipeline"
)

// renderCommand creates the render command running the full pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [document.json]",
		Short: "Derive, lay out, and render a document in one step",
		Long: `Derive, lay out, and render a document in one step.

The render command runs the full pipeline on a JSON document and writes one
artifact per requested format. Supported formats: svg, dot, json.

Each stage is cached locally, so repeated renders of the same document are
fast.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file basename (default: input basename)")
	cmd.Flags().StringVarP(&formats, "formats", "f", "", "comma-separated output formats (default svg)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "include child counts in DOT output")

	cmd.Flags().StringVar(&opts.RootLabel, "root-label", "", `label of the root node (default "model")`)
	cmd.Flags().StringVar(&opts.CollectionsField, "collections-field", "", `reserved field expanded into categories (default "elements")`)
	cmd.Flags().Float64Var(&opts.NodeWidth, "node-width", 0, "node box width (default 140)")
	cmd.Flags().Float64Var(&opts.NodeHeight, "node-height", 0, "node box height (default 70)")
	cmd.Flags().Float64Var(&opts.HorizontalGap, "horizontal-gap", 0, "gap between leaf slots (default 20)")
	cmd.Flags().Float64Var(&opts.VerticalSpacing, "vertical-spacing", 0, "distance between depth tiers (default 150)")
	cmd.Flags().Float64Var(&opts.CategoryWidth, "category-width", 0, "rendered width of category boxes (default 120)")

	return cmd
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	document, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read document %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, document, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Render complete")

	formats := make([]string, 0, len(result.Artifacts))
	for format := range result.Artifacts {
		formats = append(formats, format)
	}
	sort.Strings(formats)

	for _, format := range formats {
		path := base + "." + extensionFor(format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}

	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)

	return nil
}

// extensionFor maps a pipeline format to its file extension.
func extensionFor(format string) string {
	if format == pipeline.FormatJSON {
		return "layout.json"
	}
	return format
}
