package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modelviz/modelviz/pkg/graph"
	"github.com/modelviz/modelviz/pkg/pipeline"
	"github.com/modelviz/modelviz/pkg/store"
)

// inspectCommand creates the inspect command group for managing saved
// inspections.
func (c *CLI) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Manage saved inspections",
		Long: `Manage saved inspections.

An inspection is a named document together with its derived graph and
computed layout. The store backend is selected in the config file; without
one inspections live under ~/.local/share/modelviz/inspections.`,
	}

	cmd.AddCommand(c.inspectSaveCommand())
	cmd.AddCommand(c.inspectListCommand())
	cmd.AddCommand(c.inspectShowCommand())
	cmd.AddCommand(c.inspectDeleteCommand())

	return cmd
}

func (c *CLI) inspectSaveCommand() *cobra.Command {
	var configPath string
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "save [name] [document.json]",
		Short: "Run the pipeline on a document and save the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspectSave(cmd.Context(), configPath, args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&opts.RootLabel, "root-label", "", `label of the root node (default "model")`)
	cmd.Flags().StringVar(&opts.CollectionsField, "collections-field", "", `reserved field expanded into categories (default "elements")`)

	return cmd
}

func (c *CLI) runInspectSave(ctx context.Context, configPath, name, input string, opts pipeline.Options) error {
	document, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read document %s: %w", input, err)
	}

	st, err := c.openConfiguredStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	runner, err := c.newRunner(false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	result, err := runner.Execute(ctx, document, opts)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	insp := &store.Inspection{
		Name:     name,
		Document: document,
		Graph:    result.Graph,
		Layout:   &result.Layout,
	}
	if err := st.Save(ctx, insp); err != nil {
		return fmt.Errorf("save inspection: %w", err)
	}

	printSuccess("Saved inspection %s", StyleValue.Render(name))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, false)
	printNewline()
	printNextStep("Show", "modelviz inspect show "+name)

	return nil
}

func (c *CLI) inspectListCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved inspections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspectList(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")

	return cmd
}

func (c *CLI) runInspectList(ctx context.Context, configPath string) error {
	st, err := c.openConfiguredStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	names, err := st.List(ctx)
	if err != nil {
		return fmt.Errorf("list inspections: %w", err)
	}

	if len(names) == 0 {
		printInfo("No saved inspections")
		return nil
	}

	fmt.Println(StyleTitle.Render("Inspections"))
	for _, name := range names {
		printDetail("%s", name)
	}

	return nil
}

func (c *CLI) inspectShowCommand() *cobra.Command {
	var (
		configPath string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a saved inspection, optionally exporting its layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspectShow(cmd.Context(), configPath, args[0], output)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout to this file")

	return cmd
}

func (c *CLI) runInspectShow(ctx context.Context, configPath, name, output string) error {
	st, err := c.openConfiguredStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	insp, err := st.Load(ctx, name)
	if err != nil {
		return fmt.Errorf("load inspection: %w", err)
	}

	fmt.Println(StyleTitle.Render(insp.Name))
	printDetail("created  %s", insp.CreatedAt.Format("2006-01-02 15:04:05"))
	printDetail("updated  %s", insp.UpdatedAt.Format("2006-01-02 15:04:05"))
	printDetail("nodes    %d", len(insp.Graph.Nodes))
	printDetail("edges    %d", len(insp.Graph.Edges))
	if insp.Layout != nil {
		printDetail("layout   %.0fx%.0f", insp.Layout.Width, insp.Layout.Height)
	}

	if output != "" {
		if insp.Layout == nil {
			printWarning("inspection has no layout to export")
			return nil
		}
		if err := graph.WriteLayoutFile(*insp.Layout, output); err != nil {
			return fmt.Errorf("write layout %s: %w", output, err)
		}
		printFile(output)
	}

	return nil
}

func (c *CLI) inspectDeleteCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a saved inspection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspectDelete(cmd.Context(), configPath, args[0])
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")

	return cmd
}

func (c *CLI) runInspectDelete(ctx context.Context, configPath, name string) error {
	st, err := c.openConfiguredStore(ctx, configPath)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	if err := st.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete inspection: %w", err)
	}

	printSuccess("Deleted inspection %s", StyleValue.Render(name))
	return nil
}

// openConfiguredStore loads the config and opens its store backend.
func (c *CLI) openConfiguredStore(ctx context.Context, configPath string) (store.Store, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	st, err := c.openStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}
	return st, nil
}
