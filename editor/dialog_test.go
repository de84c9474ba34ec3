package editor

import (
	"errors"
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hollg/vellum/block"
)

func TestDialog_SaveAsRenames(t *testing.T) {
	saved := map[string][]block.Spec{}
	m := New(Config{
		Name: "draft",
		Save: func(name string, blocks []block.Spec) error {
			saved[name] = blocks
			return nil
		},
	})
	m = typeText(m, "hi")

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlK})
	m = typeText(m, "save as")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.dialog.visible || m.dialog.mode != dialogSaveAs {
		t.Fatal("save as should open the rename dialog")
	}
	if got := m.dialog.input.Value(); got != "draft" {
		t.Fatalf("dialog prefill: got %q, want %q", got, "draft")
	}

	m.dialog.input.SetValue("final")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.dialog.visible {
		t.Fatal("confirming should close the dialog")
	}
	if m.Name() != "final" {
		t.Fatalf("name after save as: got %q, want %q", m.Name(), "final")
	}
	if _, ok := saved["final"]; !ok {
		t.Fatalf("document not saved under new name; saved: %v", saved)
	}
	if m.Dirty() {
		t.Fatal("document should be clean after save as")
	}
}

func TestDialog_SaveAsEmptyNameCancels(t *testing.T) {
	calls := 0
	m := New(Config{
		Save: func(string, []block.Spec) error {
			calls++
			return nil
		},
	})

	_ = m.openSaveAsDialog()
	m.dialog.input.SetValue("   ")
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.dialog.visible {
		t.Fatal("dialog should close")
	}
	if calls != 0 {
		t.Fatalf("blank name must not save: got %d calls", calls)
	}
	if m.Name() != "untitled" {
		t.Fatalf("name should be unchanged: got %q", m.Name())
	}
}

func TestDialog_OpenLoadsSelectedDocument(t *testing.T) {
	m := New(Config{
		List: func() ([]string, error) {
			return []string{"alpha", "beta"}, nil
		},
		Load: func(name string) ([]block.Spec, error) {
			if name != "beta" {
				t.Fatalf("loaded %q, want %q", name, "beta")
			}
			return []block.Spec{{Type: block.Heading1, Text: "Beta"}}, nil
		},
	})

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if !m.dialog.visible || m.dialog.mode != dialogOpen {
		t.Fatal("ctrl+o should open the document picker")
	}
	if got := m.dialog.names; !reflect.DeepEqual(got, []string{"alpha", "beta"}) {
		t.Fatalf("picker names: got %v", got)
	}

	m = press(m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if m.dialog.visible {
		t.Fatal("picking should close the dialog")
	}
	if m.Name() != "beta" {
		t.Fatalf("name after open: got %q, want %q", m.Name(), "beta")
	}
	if got := texts(m); !reflect.DeepEqual(got, []string{"Beta"}) {
		t.Fatalf("blocks after open: got %v, want %v", got, []string{"Beta"})
	}
	if m.Dirty() {
		t.Fatal("freshly opened document should be clean")
	}
}

func TestDialog_OpenWithNoDocumentsNotices(t *testing.T) {
	m := New(Config{
		List: func() ([]string, error) { return nil, nil },
	})

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.dialog.visible {
		t.Fatal("picker should not open with nothing to pick")
	}
	if m.status == "" {
		t.Fatal("expected a status notice")
	}
}

func TestDialog_OpenListErrorNotices(t *testing.T) {
	m := New(Config{
		List: func() ([]string, error) { return nil, errors.New("boom") },
	})

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	if m.dialog.visible {
		t.Fatal("picker should not open when listing fails")
	}
	if m.status == "" {
		t.Fatal("expected a status notice")
	}
}

func TestDialog_LoadErrorKeepsDocument(t *testing.T) {
	m := New(Config{
		Blocks: []block.Spec{{Type: block.Text, Text: "keep me"}},
		List:   func() ([]string, error) { return []string{"gone"}, nil },
		Load:   func(string) ([]block.Spec, error) { return nil, errors.New("missing") },
	})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyCtrlO},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if got := texts(m); !reflect.DeepEqual(got, []string{"keep me"}) {
		t.Fatalf("document after failed open: got %v, want unchanged", got)
	}
	if m.status == "" {
		t.Fatal("expected a status notice about the failure")
	}
}

func TestDialog_EscCancels(t *testing.T) {
	m := New(Config{
		List: func() ([]string, error) { return []string{"alpha"}, nil },
	})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyCtrlO},
		tea.KeyMsg{Type: tea.KeyEsc},
	)
	if m.dialog.visible {
		t.Fatal("esc should close the picker")
	}
}
