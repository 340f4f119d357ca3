package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FieldListModel - Interactive collections field selection
// =============================================================================

// FieldCandidate is one top-level field offered in the picker. Only
// object-valued fields can act as the collections field.
type FieldCandidate struct {
	Name     string
	KindName string
	Eligible bool
	SubKeys  int
}

// FieldListModel is the bubbletea model for interactive field selection.
type FieldListModel struct {
	Fields   []FieldCandidate
	Cursor   int
	Selected *FieldCandidate
}

// NewFieldListModel creates a new field list model.
func NewFieldListModel(fields []FieldCandidate) FieldListModel {
	return FieldListModel{Fields: fields}
}

func (m FieldListModel) Init() tea.Cmd {
	return nil
}

func (m FieldListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Fields)-1 {
				m.Cursor++
			}
		case "enter":
			if !m.Fields[m.Cursor].Eligible {
				return m, nil
			}
			m.Selected = &m.Fields[m.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m FieldListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Collections Field"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows: navigate  enter: select  q: quit"))
	b.WriteString("\n\n")

	for i, f := range m.Fields {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		var status string
		if f.Eligible {
			status = styleIconSuccess.Render("*")
		} else {
			status = StyleWarning.Render("!")
		}

		detail := f.KindName
		if f.Eligible {
			detail = fmt.Sprintf("%d categories", f.SubKeys)
		}
		line := fmt.Sprintf("%s%s %-25s  %s", cursor, status, f.Name, listDimStyle.Render(detail))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if !f.Eligible {
			b.WriteString(listDimStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s expandable   %s not an object\n",
		styleIconSuccess.Render("*"), StyleWarning.Render("!")))

	return b.String()
}
