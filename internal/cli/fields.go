package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/modelviz/modelviz/pkg/derive"
)

// fieldsCommand creates the fields command, an interactive picker for the
// collections field.
func (c *CLI) fieldsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields [document.json]",
		Short: "Interactively pick the collections field of a document",
		Long: `Interactively pick the collections field of a document.

The fields command lists the top-level fields of a JSON document. Object
valued fields can act as the collections field, expanding one category node
per sub-key. Selecting one prints the matching derive invocation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFields(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runFields parses the document and runs the field picker.
func (c *CLI) runFields(ctx context.Context, input string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read document %s: %w", input, err)
	}

	doc, err := derive.ParseDocument(data)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if doc.Kind != derive.KindObject {
		printWarning("document is not a JSON object; nothing to pick")
		return nil
	}
	if len(doc.Fields) == 0 {
		printWarning("document has no top-level fields")
		return nil
	}

	candidates := make([]FieldCandidate, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		candidates = append(candidates, FieldCandidate{
			Name:     f.Key,
			KindName: kindName(f.Value.Kind),
			Eligible: f.Value.Kind == derive.KindObject,
			SubKeys:  len(f.Value.Fields),
		})
	}

	p := tea.NewProgram(NewFieldListModel(candidates), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run picker: %w", err)
	}

	model, ok := final.(FieldListModel)
	if !ok || model.Selected == nil {
		printInfo("No field selected")
		return nil
	}

	printSuccess("Selected field %s", StyleValue.Render(model.Selected.Name))
	printNewline()
	printNextStep("Derive", fmt.Sprintf("modelviz derive %s --collections-field %s", input, model.Selected.Name))

	return nil
}

// kindName returns a display name for a document value kind.
func kindName(k derive.ValueKind) string {
	switch k {
	case derive.KindNull:
		return "null"
	case derive.KindBool:
		return "bool"
	case derive.KindNumber:
		return "number"
	case derive.KindString:
		return "string"
	case derive.KindArray:
		return "array"
	case derive.KindObject:
		return "object"
	}
	return "unknown"
}
