package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/sourceflow/pkg/source"
)

func browseConfig() source.Config {
	return source.Config{
		"alpha": {Type: source.TypeUnionDirectory},
		"beta":  {Connection: &source.Connection{Config: map[string]any{"file_type": "csv"}}},
		"gamma": {Connection: &source.Connection{Config: map[string]any{}}},
	}
}

func keyPress(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestKeyListModelNavigation(t *testing.T) {
	model := newKeyListModel(browseConfig())
	if len(model.Keys) != 3 || model.Keys[0] != "alpha" {
		t.Fatalf("keys = %v, want sorted keys starting at alpha", model.Keys)
	}

	next, _ := model.Update(keyPress("down"))
	model = next.(keyListModel)
	if model.Cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", model.Cursor)
	}

	next, _ = model.Update(keyPress("up"))
	model = next.(keyListModel)
	if model.Cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", model.Cursor)
	}

	// Cursor clamps at the ends.
	next, _ = model.Update(keyPress("up"))
	model = next.(keyListModel)
	if model.Cursor != 0 {
		t.Errorf("cursor should clamp at 0, got %d", model.Cursor)
	}
}

func TestKeyListModelSelect(t *testing.T) {
	model := newKeyListModel(browseConfig())

	next, _ := model.Update(keyPress("down"))
	next, cmd := next.(keyListModel).Update(keyPress("enter"))
	model = next.(keyListModel)

	if model.Selected != "beta" {
		t.Errorf("selected = %q, want beta", model.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestKeyListModelQuitWithoutSelection(t *testing.T) {
	model := newKeyListModel(browseConfig())

	next, cmd := model.Update(keyPress("q"))
	model = next.(keyListModel)

	if model.Selected != "" {
		t.Errorf("q should not select, got %q", model.Selected)
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestKeyListModelView(t *testing.T) {
	model := newKeyListModel(browseConfig())
	view := model.View()

	for _, want := range []string{"alpha", "beta", "gamma", "union_directory", "file", "sql"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	empty := newKeyListModel(source.Config{})
	if !strings.Contains(empty.View(), "no sources") {
		t.Error("empty config view should say so")
	}
}
