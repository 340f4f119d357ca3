package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modelviz/modelviz/pkg/graph"
	"github.com/modelviz/modelviz/pkg/pipeline"
)

// deriveCommand creates the derive command for extracting graphs from documents.
func (c *CLI) deriveCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "derive [document.json]",
		Short: "Derive a node/edge graph from an inspection document",
		Long: `Derive a node/edge graph from an inspection document.

The derive command reads a nested JSON document and produces a shallow typed
tree: a synthetic root, one field node per top-level key, and one category
node per sub-key of the collections field (default "elements"). The output
is a graph.json file that 'layout' consumes.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDerive(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	cmd.Flags().StringVar(&opts.RootLabel, "root-label", "", `label of the root node (default "model")`)
	cmd.Flags().StringVar(&opts.CollectionsField, "collections-field", "", `reserved field expanded into categories (default "elements")`)

	return cmd
}

// runDerive loads the document, derives the graph, and writes output.
func (c *CLI) runDerive(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	document, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read document %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Deriving graph...")
	spinner.Start()

	t, cacheHit, err := runner.DeriveWithCacheInfo(ctx, document, opts)
	if err != nil {
		spinner.StopWithError("Derivation failed")
		return fmt.Errorf("derive: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".graph.json"
	}

	if err := graph.WriteGraphFile(t, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Derivation complete")
	printFile(outputPath)
	printStats(t.NodeCount(), t.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Layout", "modelviz layout "+outputPath)

	return nil
}
