package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hollg/vellum/block"
	"github.com/hollg/vellum/markdown"
)

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case autosaveTickMsg:
		return m.updateAutosave(msg)
	case caretCheckMsg:
		m.repairCaret()
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	if m.dialog.visible {
		return m.updateDialog(msg)
	}
	if m.palette.visible {
		return m.updatePalette(msg)
	}

	verBefore := m.doc.Version()
	contentBefore := m.doc.ContentVersion()
	keepPreferred := false
	var cmds []tea.Cmd

	km := m.cfg.KeyMap

	// Bracketed paste inserts literal content and never triggers
	// shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		m.insertPayload(string(msg.Runes))
		return m.finishKey(verBefore, contentBefore, keepPreferred, cmds)
	}

	switch {
	case key.Matches(msg, km.Quit):
		return m, m.quitCmd()
	case key.Matches(msg, km.Palette):
		cmds = append(cmds, m.openPalette())
	case key.Matches(msg, km.Save):
		m.save(true)
	case key.Matches(msg, km.Open):
		cmds = append(cmds, m.openDocumentDialog())

	case key.Matches(msg, km.Left):
		m.moveCaretHorizontal(-1, false)
	case key.Matches(msg, km.Right):
		m.moveCaretHorizontal(1, false)
	case key.Matches(msg, km.Up):
		m.moveCaretVertical(-1, false)
		keepPreferred = true
	case key.Matches(msg, km.Down):
		m.moveCaretVertical(1, false)
		keepPreferred = true

	case key.Matches(msg, km.ShiftLeft):
		m.moveCaretHorizontal(-1, true)
	case key.Matches(msg, km.ShiftRight):
		m.moveCaretHorizontal(1, true)
	case key.Matches(msg, km.ShiftUp):
		m.moveCaretVertical(-1, true)
		keepPreferred = true
	case key.Matches(msg, km.ShiftDown):
		m.moveCaretVertical(1, true)
		keepPreferred = true

	case key.Matches(msg, km.Home):
		m.doc.ClearSelection()
		m.doc.SetCaret(m.doc.BlockStart())
	case key.Matches(msg, km.End):
		m.doc.ClearSelection()
		m.doc.SetCaret(m.doc.BlockEnd())

	case key.Matches(msg, km.Backspace):
		m.doc.DeleteBackward()
	case key.Matches(msg, km.Delete):
		m.doc.DeleteForward()
	case key.Matches(msg, km.Enter):
		m.doc.Split()

	case key.Matches(msg, km.Indent):
		if !m.acceptSuggestion() {
			m.doc.Indent()
		}
	case key.Matches(msg, km.Outdent):
		m.doc.Outdent()

	case key.Matches(msg, km.MoveUp):
		m.doc.MoveUp()
	case key.Matches(msg, km.MoveDown):
		m.doc.MoveDown()
	case key.Matches(msg, km.MoveSingleUp):
		m.doc.MoveBlockUp()
	case key.Matches(msg, km.MoveSingleDown):
		m.doc.MoveBlockDown()

	case key.Matches(msg, km.Bold):
		m.doc.ToggleStyle(block.StyleBold)
	case key.Matches(msg, km.Italic):
		m.doc.ToggleStyle(block.StyleItalic)

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		m.cutSelection()
	case key.Matches(msg, km.Paste):
		m.pasteClipboard()

	default:
		switch msg.Type {
		case tea.KeyRunes:
			if !msg.Alt && len(msg.Runes) > 0 {
				m.insertRunes(string(msg.Runes))
			}
		case tea.KeySpace:
			m.insertRunes(" ")
		}
	}

	return m.finishKey(verBefore, contentBefore, keepPreferred, cmds)
}

// finishKey applies the shared post-edit bookkeeping: suggestion
// cancellation and autosave scheduling when content changed, caret
// verification when anything changed, and a viewport rebuild.
func (m Model) finishKey(verBefore, contentBefore uint64, keepPreferred bool, cmds []tea.Cmd) (Model, tea.Cmd) {
	if !keepPreferred {
		m.preferredCol = -1
	}
	if m.doc.ContentVersion() != contentBefore {
		m.cancelSuggestion()
		m.status = ""
		m.statusNotice = false
		m.autosaveGen++
		cmds = append(cmds, autosaveTick(m.cfg.AutosaveDelay, m.autosaveGen))
		m.emitChange()
		m.cfg.Logger.Debug("document edited",
			zap.Uint64("content_version", m.doc.ContentVersion()),
			zap.Int("blocks", m.doc.Len()))
	}
	if m.doc.Version() != verBefore {
		cmds = append(cmds, caretCheckCmd())
	}
	m.refresh()
	m.followCaret()
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// insertRunes types text into the document one cluster at a time so
// the space and tilde triggers see each keystroke.
func (m *Model) insertRunes(s string) {
	for _, r := range s {
		switch r {
		case ' ':
			if !m.doc.AutoformatSpace() {
				m.doc.InsertText(" ")
			}
		case '~':
			m.doc.InsertText("~")
			m.doc.StrikeTrigger()
		default:
			m.doc.InsertText(string(r))
		}
	}
}

// insertPayload splices external text at the caret. Multi-line content
// is parsed as markdown into blocks; a single line inserts inline.
func (m *Model) insertPayload(s string) {
	if s == "" {
		return
	}
	m.doc.InsertBlocks(markdown.ToBlocks(s))
}

func (m *Model) moveCaretHorizontal(dir int, extend bool) {
	if !extend {
		if start, end, ok := m.doc.Selection(); ok {
			target := start
			if dir > 0 {
				target = end
			}
			m.doc.ClearSelection()
			m.doc.SetCaret(target)
			return
		}
	}

	c := m.doc.Caret()
	var next block.Caret
	var ok bool
	if dir < 0 {
		next, ok = m.doc.PrevPosition(c)
	} else {
		next, ok = m.doc.NextPosition(c)
	}
	if !ok {
		next = c
	}
	if extend {
		anchor, has := m.doc.SelectionAnchor()
		if !has {
			anchor = c
		}
		m.doc.SetSelection(anchor, next)
		return
	}
	m.doc.SetCaret(next)
}

func (m *Model) moveCaretVertical(dir int, extend bool) {
	lc := m.ensureLayout()
	c := m.doc.Caret()
	ri := lc.layout.caretRow(lc.views, c)
	if ri < 0 {
		return
	}
	want := m.preferredCol
	if want < 0 {
		want = lc.layout.caretCells(ri, c)
	}
	m.preferredCol = want

	ti := ri + dir
	if ti < 0 || ti >= len(lc.layout.rows) {
		return
	}
	next, ok := lc.layout.caretAt(ti, want)
	if !ok {
		return
	}
	if extend {
		anchor, has := m.doc.SelectionAnchor()
		if !has {
			anchor = c
		}
		m.doc.SetSelection(anchor, next)
		return
	}
	m.doc.ClearSelection()
	m.doc.SetCaret(next)
}

func (m *Model) copySelection() {
	if m.cfg.Clipboard == nil {
		return
	}
	specs := m.doc.SelectionSpecs()
	if len(specs) == 0 {
		return
	}
	// Trailing separator newlines are rendering artifacts, not
	// content.
	text := strings.TrimRight(markdown.FromBlocks(specs), "\n")
	_ = m.cfg.Clipboard.WriteText(text)
}

func (m *Model) cutSelection() {
	m.copySelection()
	if m.doc.SelectionActive() {
		m.doc.DeleteSelection()
		return
	}
	// No text selection: cut removes the captured blocks, or the
	// caret's block.
	m.doc.DeleteBlocks()
}

func (m *Model) pasteClipboard() {
	if m.cfg.Clipboard == nil {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil || s == "" {
		return
	}
	m.insertPayload(s)
}

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.clickCaret(msg.X, msg.Y)
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// clickCaret places the caret at the clicked cell.
func (m *Model) clickCaret(x, y int) {
	lc := m.ensureLayout()
	topFrame := m.viewport.Style.GetMarginTop() + m.viewport.Style.GetBorderTopSize() + m.viewport.Style.GetPaddingTop()
	leftFrame := m.viewport.Style.GetMarginLeft() + m.viewport.Style.GetBorderLeftSize() + m.viewport.Style.GetPaddingLeft()

	ri := m.viewport.YOffset + y - topFrame
	if ri < 0 || ri >= len(lc.layout.rows) {
		return
	}
	row := lc.layout.rows[ri]
	cells := x - leftFrame - lc.layout.blocks[row.blockIdx].prefixW
	if cells < 0 {
		cells = 0
	}
	next, ok := lc.layout.caretAt(ri, cells)
	if !ok {
		return
	}
	m.doc.ClearSelection()
	m.doc.SetCaret(next)
	m.preferredCol = -1
}

// typeLabel names a block type for the status line.
func typeLabel(t block.Type) string {
	return strings.ReplaceAll(t.String(), "heading", "heading ")
}
