package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hollg/vellum/block"
)

func TestAutosave_EditSchedulesTick(t *testing.T) {
	m := New(Config{Save: func(string, []block.Spec) error { return nil }})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd == nil {
		t.Fatal("an edit should schedule an autosave tick")
	}
	if m.autosaveGen != 1 {
		t.Fatalf("generation after first edit: got %d, want 1", m.autosaveGen)
	}
}

func TestAutosave_StaleTickIsIgnored(t *testing.T) {
	calls := 0
	m := New(Config{Save: func(string, []block.Spec) error {
		calls++
		return nil
	}})

	m = typeText(m, "a")
	m = typeText(m, "b")

	// The tick scheduled by the first keystroke arrives after the
	// second keystroke bumped the generation.
	m, _ = m.Update(autosaveTickMsg{gen: 1})
	if calls != 0 {
		t.Fatalf("stale tick must not save: got %d calls", calls)
	}

	m, _ = m.Update(autosaveTickMsg{gen: m.autosaveGen})
	if calls != 1 {
		t.Fatalf("current tick should save once: got %d calls", calls)
	}
	if m.Dirty() {
		t.Fatal("document should be clean after the autosave")
	}
}

func TestAutosave_CleanDocumentSkipsSave(t *testing.T) {
	calls := 0
	m := New(Config{Save: func(string, []block.Spec) error {
		calls++
		return nil
	}})

	m = typeText(m, "a")
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if calls != 1 {
		t.Fatalf("manual save: got %d calls, want 1", calls)
	}

	// The debounced tick lands after the manual save already wrote.
	m, _ = m.Update(autosaveTickMsg{gen: m.autosaveGen})
	if calls != 1 {
		t.Fatalf("autosave on a clean document: got %d calls, want 1", calls)
	}
}

func TestAutosave_NavigationDoesNotSchedule(t *testing.T) {
	m := New(Config{
		Blocks: []block.Spec{{Type: block.Text, Text: "ab"}},
		Save:   func(string, []block.Spec) error { return nil },
	})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.autosaveGen != 0 {
		t.Fatalf("generation after pure navigation: got %d, want 0", m.autosaveGen)
	}
}

func TestChangeEvents_FireOnContentChangeOnly(t *testing.T) {
	var events []ChangeEvent
	m := New(Config{
		Blocks:   []block.Spec{{Type: block.Text, Text: "ab"}},
		OnChange: func(ev ChangeEvent) { events = append(events, ev) },
	})

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if len(events) != 0 {
		t.Fatalf("navigation should not emit change events: got %d", len(events))
	}

	m = typeText(m, "x")
	if len(events) != 1 {
		t.Fatalf("edit should emit one change event: got %d", len(events))
	}
	ev := events[0]
	if !ev.Dirty {
		t.Fatal("event should report the document dirty")
	}
	if ev.Caret.Offset != 2 {
		t.Fatalf("event caret: got offset %d, want 2", ev.Caret.Offset)
	}
	if ev.ContentVersion == 0 {
		t.Fatal("event should carry the new content version")
	}
}
