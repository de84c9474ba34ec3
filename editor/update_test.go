package editor

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hollg/vellum/block"
)

type memClipboard struct {
	s string
}

func (c *memClipboard) ReadText() (string, error) { return c.s, nil }
func (c *memClipboard) WriteText(s string) error  { c.s = s; return nil }

func press(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		if r == ' ' {
			m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
			continue
		}
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func texts(m Model) []string {
	specs := m.Document().Specs()
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Text
	}
	return out
}

func TestUpdate_TypingMovementAndDelete(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{{Type: block.Text, Text: "ab"}}})

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m = typeText(m, "X")
	if got := texts(m); !reflect.DeepEqual(got, []string{"aXb"}) {
		t.Fatalf("text after insert: got %v, want %v", got, []string{"aXb"})
	}
	if got := m.Document().Caret().Offset; got != 2 {
		t.Fatalf("caret after insert: got %d, want 2", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := texts(m); !reflect.DeepEqual(got, []string{"ab"}) {
		t.Fatalf("text after backspace: got %v, want %v", got, []string{"ab"})
	}
}

func TestUpdate_EnterSplitsBackspaceMerges(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{{Type: block.Text, Text: "ab"}}})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	if got := texts(m); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("blocks after split: got %v, want %v", got, []string{"a", "b"})
	}
	if got := m.Document().Caret().Offset; got != 0 {
		t.Fatalf("caret after split: got offset %d, want 0", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	if got := texts(m); !reflect.DeepEqual(got, []string{"ab"}) {
		t.Fatalf("blocks after merge: got %v, want %v", got, []string{"ab"})
	}
	if got := m.Document().Caret().Offset; got != 1 {
		t.Fatalf("caret after merge: got offset %d, want 1", got)
	}
}

func TestUpdate_AutoformatBulletOnSpace(t *testing.T) {
	m := New(Config{})

	m = typeText(m, "- ")
	specs := m.Document().Specs()
	if specs[0].Type != block.Bullet {
		t.Fatalf("type after \"- \": got %v, want %v", specs[0].Type, block.Bullet)
	}
	if specs[0].Text != "" {
		t.Fatalf("text after autoformat: got %q, want empty", specs[0].Text)
	}

	// The space that triggered conversion must not be inserted.
	m = typeText(m, "item")
	if got := texts(m); !reflect.DeepEqual(got, []string{"item"}) {
		t.Fatalf("text after typing: got %v, want %v", got, []string{"item"})
	}
}

func TestUpdate_AutoformatNumberedOnSpace(t *testing.T) {
	m := New(Config{})

	m = typeText(m, "12. ")
	specs := m.Document().Specs()
	if specs[0].Type != block.Numbered {
		t.Fatalf("type after \"12. \": got %v, want %v", specs[0].Type, block.Numbered)
	}
}

func TestUpdate_PlainSpaceStillInserts(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{{Type: block.Text, Text: "ab"}}})

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	m = typeText(m, " ")
	if got := texts(m); !reflect.DeepEqual(got, []string{"a b"}) {
		t.Fatalf("text after space: got %v, want %v", got, []string{"a b"})
	}
}

func TestUpdate_StrikeTriggerOnClosingTilde(t *testing.T) {
	m := New(Config{})

	m = typeText(m, "~~done~~")
	specs := m.Document().Specs()
	if specs[0].Text != "done" {
		t.Fatalf("text after trigger: got %q, want %q", specs[0].Text, "done")
	}
	want := []block.StyleSpan{{Start: 0, End: 4, Style: block.StyleStrike}}
	if !reflect.DeepEqual(specs[0].Spans, want) {
		t.Fatalf("spans after trigger: got %v, want %v", specs[0].Spans, want)
	}
}

func TestUpdate_TabIndentsListBlock(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{
		{Type: block.Bullet, Text: "a"},
		{Type: block.Bullet, Text: "b"},
	}})
	m.Document().Focus(m.Document().Views()[1].ID, true)

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.Document().Specs()[1].Level; got != 1 {
		t.Fatalf("level after tab: got %d, want 1", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if got := m.Document().Specs()[1].Level; got != 0 {
		t.Fatalf("level after shift+tab: got %d, want 0", got)
	}
}

func TestUpdate_AltArrowsMoveBlock(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{
		{Type: block.Text, Text: "a"},
		{Type: block.Text, Text: "b"},
	}})

	m = press(m, tea.KeyMsg{Type: tea.KeyDown, Alt: true})
	if got := texts(m); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Fatalf("order after alt+down: got %v, want %v", got, []string{"b", "a"})
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyUp, Alt: true})
	if got := texts(m); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("order after alt+up: got %v, want %v", got, []string{"a", "b"})
	}
}

func TestUpdate_AltArrowMovesSelectedGroup(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{
		{Type: block.Text, Text: "a"},
		{Type: block.Text, Text: "b"},
		{Type: block.Text, Text: "c"},
	}})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyShiftDown},
		tea.KeyMsg{Type: tea.KeyDown, Alt: true},
	)
	if got := texts(m); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Fatalf("order after alt+down: got %v, want %v", got, []string{"c", "a", "b"})
	}
}

func TestUpdate_AltShiftArrowMovesSingleBlockOutOfSelection(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{
		{Type: block.Text, Text: "a"},
		{Type: block.Text, Text: "b"},
		{Type: block.Text, Text: "c"},
	}})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyShiftDown},
		tea.KeyMsg{Type: tea.KeyShiftDown, Alt: true},
	)
	if got := texts(m); !reflect.DeepEqual(got, []string{"a", "c", "b"}) {
		t.Fatalf("order after alt+shift+down: got %v, want %v", got, []string{"a", "c", "b"})
	}
}

func TestUpdate_ShiftArrowsSelectAndTypeReplaces(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{{Type: block.Text, Text: "hello"}}})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
	)
	start, end, ok := m.Document().Selection()
	if !ok {
		t.Fatal("expected an active selection")
	}
	if start.Offset != 0 || end.Offset != 2 {
		t.Fatalf("selection range: got [%d,%d), want [0,2)", start.Offset, end.Offset)
	}

	m = typeText(m, "J")
	if got := texts(m); !reflect.DeepEqual(got, []string{"Jllo"}) {
		t.Fatalf("text after replacing selection: got %v, want %v", got, []string{"Jllo"})
	}
}

func TestUpdate_PlainArrowCollapsesSelection(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{{Type: block.Text, Text: "hello"}}})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyLeft},
	)
	if m.Document().SelectionActive() {
		t.Fatal("selection should collapse on a plain arrow")
	}
	if got := m.Document().Caret().Offset; got != 0 {
		t.Fatalf("caret after collapse left: got %d, want 0 (selection start)", got)
	}

	m = press(m,
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyRight},
	)
	if got := m.Document().Caret().Offset; got != 2 {
		t.Fatalf("caret after collapse right: got %d, want 2 (selection end)", got)
	}
}

func TestUpdate_ShiftSelectionKeepsAnchor(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{{Type: block.Text, Text: "hello"}}})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftLeft},
	)
	start, end, ok := m.Document().Selection()
	if !ok {
		t.Fatal("expected an active selection")
	}
	if start.Offset != 2 || end.Offset != 3 {
		t.Fatalf("selection after extend and shrink: got [%d,%d), want [2,3)", start.Offset, end.Offset)
	}
}

func TestUpdate_HomeEnd(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{{Type: block.Text, Text: "hello"}}})

	m = press(m, tea.KeyMsg{Type: tea.KeyEnd})
	if got := m.Document().Caret().Offset; got != 5 {
		t.Fatalf("caret after end: got %d, want 5", got)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyHome})
	if got := m.Document().Caret().Offset; got != 0 {
		t.Fatalf("caret after home: got %d, want 0", got)
	}
}

func TestUpdate_BoldAndItalicToggleSelection(t *testing.T) {
	m := New(Config{Blocks: []block.Spec{{Type: block.Text, Text: "hello"}}})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyCtrlB},
	)
	want := []block.StyleSpan{{Start: 0, End: 2, Style: block.StyleBold}}
	if got := m.Document().Specs()[0].Spans; !reflect.DeepEqual(got, want) {
		t.Fatalf("spans after ctrl+b: got %v, want %v", got, want)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlT})
	want = []block.StyleSpan{{Start: 0, End: 2, Style: block.StyleBold | block.StyleItalic}}
	if got := m.Document().Specs()[0].Spans; !reflect.DeepEqual(got, want) {
		t.Fatalf("spans after ctrl+t: got %v, want %v", got, want)
	}
}

func TestUpdate_CopyCutPaste(t *testing.T) {
	cb := &memClipboard{}
	m := New(Config{
		Blocks:    []block.Spec{{Type: block.Text, Text: "hello"}},
		Clipboard: cb,
	})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyCtrlC},
	)
	if cb.s != "he" {
		t.Fatalf("clipboard after copy: got %q, want %q", cb.s, "he")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if got := texts(m); !reflect.DeepEqual(got, []string{"llo"}) {
		t.Fatalf("text after cut: got %v, want %v", got, []string{"llo"})
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlV})
	if got := texts(m); !reflect.DeepEqual(got, []string{"hello"}) {
		t.Fatalf("text after paste: got %v, want %v", got, []string{"hello"})
	}
}

func TestUpdate_CopyRendersSelectionAsMarkdown(t *testing.T) {
	cb := &memClipboard{}
	m := New(Config{
		Blocks: []block.Spec{
			{Type: block.Heading1, Text: "Title"},
			{Type: block.Bullet, Text: "item"},
		},
		Clipboard: cb,
	})

	m = press(m,
		tea.KeyMsg{Type: tea.KeyShiftDown},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyShiftRight},
		tea.KeyMsg{Type: tea.KeyCtrlC},
	)
	want := "# Title\n\n- item"
	if cb.s != want {
		t.Fatalf("clipboard after block-spanning copy: got %q, want %q", cb.s, want)
	}
}

func TestUpdate_CutWithoutSelectionRemovesBlock(t *testing.T) {
	cb := &memClipboard{}
	m := New(Config{
		Blocks: []block.Spec{
			{Type: block.Text, Text: "a"},
			{Type: block.Text, Text: "b"},
		},
		Clipboard: cb,
	})

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlX})
	if got := texts(m); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("blocks after cut: got %v, want %v", got, []string{"b"})
	}
	if cb.s != "a" {
		t.Fatalf("clipboard after cut: got %q, want %q", cb.s, "a")
	}
}

func TestUpdate_PasteMultilineSplitsBlocks(t *testing.T) {
	cb := &memClipboard{s: "one\n\n- two"}
	m := New(Config{Clipboard: cb})

	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlV})
	specs := m.Document().Specs()
	if len(specs) != 2 {
		t.Fatalf("blocks after paste: got %d, want 2", len(specs))
	}
	if specs[0].Type != block.Text || specs[0].Text != "one" {
		t.Fatalf("first block: got %v %q", specs[0].Type, specs[0].Text)
	}
	if specs[1].Type != block.Bullet || specs[1].Text != "two" {
		t.Fatalf("second block: got %v %q", specs[1].Type, specs[1].Text)
	}
}

func TestUpdate_BracketedPasteBypassesShortcuts(t *testing.T) {
	m := New(Config{})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("- not a list"), Paste: true})
	specs := m.Document().Specs()
	if specs[0].Type != block.Bullet {
		t.Fatalf("pasted list line should classify as bullet, got %v", specs[0].Type)
	}
	if specs[0].Text != "not a list" {
		t.Fatalf("pasted text: got %q, want %q", specs[0].Text, "not a list")
	}
}

func TestUpdate_QuitSavesWhenDirty(t *testing.T) {
	saved := map[string][]block.Spec{}
	m := New(Config{
		Name: "notes",
		Save: func(name string, blocks []block.Spec) error {
			saved[name] = blocks
			return nil
		},
	})

	m = typeText(m, "x")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
	if cmd == nil {
		t.Fatal("quit should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("quit command: got %T, want tea.QuitMsg", cmd())
	}
	if _, ok := saved["notes"]; !ok {
		t.Fatal("dirty document should be saved on quit")
	}
	if m.Dirty() {
		t.Fatal("document should be clean after the quit save")
	}
}

func TestUpdate_ManualSaveClearsDirty(t *testing.T) {
	calls := 0
	m := New(Config{
		Save: func(string, []block.Spec) error {
			calls++
			return nil
		},
	})

	m = typeText(m, "x")
	if !m.Dirty() {
		t.Fatal("typing should dirty the document")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if calls != 1 {
		t.Fatalf("save calls: got %d, want 1", calls)
	}
	if m.Dirty() {
		t.Fatal("document should be clean after ctrl+s")
	}
}
