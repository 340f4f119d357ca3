package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{}
}

func testCandidates() []FieldCandidate {
	return []FieldCandidate{
		{Name: "version", KindName: "number", Eligible: false},
		{Name: "elements", KindName: "object", Eligible: true, SubKeys: 3},
		{Name: "metadata", KindName: "object", Eligible: true, SubKeys: 1},
	}
}

func TestFieldListNavigation(t *testing.T) {
	m := NewFieldListModel(testCandidates())

	updated, _ := m.Update(keyMsg("down"))
	m = updated.(FieldListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.Cursor)
	}

	updated, _ = m.Update(keyMsg("down"))
	m = updated.(FieldListModel)
	updated, _ = m.Update(keyMsg("down"))
	m = updated.(FieldListModel)
	if m.Cursor != 2 {
		t.Errorf("cursor should clamp at last entry, got %d", m.Cursor)
	}

	updated, _ = m.Update(keyMsg("up"))
	m = updated.(FieldListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor after up = %d, want 1", m.Cursor)
	}
}

func TestFieldListSelect(t *testing.T) {
	m := NewFieldListModel(testCandidates())

	updated, _ := m.Update(keyMsg("down"))
	m = updated.(FieldListModel)
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(FieldListModel)

	if m.Selected == nil {
		t.Fatal("expected a selection after enter on eligible field")
	}
	if m.Selected.Name != "elements" {
		t.Errorf("selected %q, want elements", m.Selected.Name)
	}
	if cmd == nil {
		t.Error("expected quit command after selection")
	}
}

func TestFieldListIneligibleNotSelectable(t *testing.T) {
	m := NewFieldListModel(testCandidates())

	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(FieldListModel)

	if m.Selected != nil {
		t.Error("ineligible field should not be selectable")
	}
	if cmd != nil {
		t.Error("enter on ineligible field should not quit")
	}
}

func TestFieldListView(t *testing.T) {
	m := NewFieldListModel(testCandidates())
	view := m.View()

	for _, want := range []string{"Select Collections Field", "elements", "3 categories", "number"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
