package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/hollg/vellum/block"
)

// paletteCommand is one entry in the command palette. run mutates the
// model and may return a follow-up command.
type paletteCommand struct {
	id    string
	title string
	run   func(*Model) tea.Cmd
}

type paletteState struct {
	visible  bool
	input    textinput.Model
	commands []paletteCommand
	filtered []int
	selected int
}

func defaultPaletteCommands() []paletteCommand {
	convert := func(t block.Type) func(*Model) tea.Cmd {
		return func(m *Model) tea.Cmd {
			m.doc.Convert(t)
			return nil
		}
	}
	return []paletteCommand{
		{id: "turn-text", title: "Turn into text", run: convert(block.Text)},
		{id: "turn-heading1", title: "Turn into heading 1", run: convert(block.Heading1)},
		{id: "turn-heading2", title: "Turn into heading 2", run: convert(block.Heading2)},
		{id: "turn-heading3", title: "Turn into heading 3", run: convert(block.Heading3)},
		{id: "turn-bullet", title: "Turn into bulleted list", run: convert(block.Bullet)},
		{id: "turn-numbered", title: "Turn into numbered list", run: convert(block.Numbered)},
		{id: "turn-quote", title: "Turn into quote", run: convert(block.Quote)},
		{id: "indent", title: "Indent", run: func(m *Model) tea.Cmd {
			m.doc.Indent()
			return nil
		}},
		{id: "outdent", title: "Outdent", run: func(m *Model) tea.Cmd {
			m.doc.Outdent()
			return nil
		}},
		{id: "move-up", title: "Move up", run: func(m *Model) tea.Cmd {
			m.doc.MoveUp()
			return nil
		}},
		{id: "move-down", title: "Move down", run: func(m *Model) tea.Cmd {
			m.doc.MoveDown()
			return nil
		}},
		{id: "delete-block", title: "Delete block", run: func(m *Model) tea.Cmd {
			m.doc.DeleteBlocks()
			return nil
		}},
		{id: "save", title: "Save", run: func(m *Model) tea.Cmd {
			m.save(true)
			return nil
		}},
		{id: "save-as", title: "Save as", run: (*Model).openSaveAsDialog},
		{id: "open", title: "Open document", run: (*Model).openDocumentDialog},
		{id: "new", title: "New document", run: func(m *Model) tea.Cmd {
			m.newDocument()
			return nil
		}},
		{id: "export-markdown", title: "Export as Markdown", run: func(m *Model) tea.Cmd {
			m.export("markdown")
			return nil
		}},
		{id: "export-docx", title: "Export as Word document", run: func(m *Model) tea.Cmd {
			m.export("docx")
			return nil
		}},
		{id: "quit", title: "Quit", run: (*Model).quitCmd},
	}
}

// openPalette captures the block or selected group the commands will
// act on, then shows the filter input.
func (m *Model) openPalette() tea.Cmd {
	m.doc.CaptureMultiSelection()
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "type a command"
	ti.CharLimit = 64
	m.palette.input = ti
	m.palette.filtered = filterCommands(m.palette.commands, "")
	m.palette.selected = 0
	m.palette.visible = true
	return m.palette.input.Focus()
}

func (m *Model) closePalette(clearMulti bool) {
	m.palette.visible = false
	m.palette.input.Blur()
	if clearMulti {
		m.doc.ClearMultiSelection()
	}
}

func (m Model) updatePalette(msg tea.KeyMsg) (Model, tea.Cmd) {
	pk := DefaultPaletteKeyMap()
	switch {
	case key.Matches(msg, pk.Dismiss):
		m.closePalette(true)
		m.refresh()
		return m, nil

	case key.Matches(msg, pk.Accept):
		if len(m.palette.filtered) == 0 {
			m.closePalette(true)
			m.refresh()
			return m, nil
		}
		cmd := m.palette.commands[m.palette.filtered[m.palette.selected]]
		verBefore := m.doc.Version()
		contentBefore := m.doc.ContentVersion()
		m.closePalette(false)
		var cmds []tea.Cmd
		if c := cmd.run(&m); c != nil {
			cmds = append(cmds, c)
		}
		m.doc.ClearMultiSelection()
		m.cfg.Logger.Debug("palette command", zap.String("command", cmd.id))
		return m.finishKey(verBefore, contentBefore, false, cmds)

	case key.Matches(msg, pk.Next):
		if n := len(m.palette.filtered); n > 0 {
			m.palette.selected = (m.palette.selected + 1) % n
		}
		return m, nil

	case key.Matches(msg, pk.Prev):
		if n := len(m.palette.filtered); n > 0 {
			m.palette.selected = (m.palette.selected + n - 1) % n
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.palette.input, cmd = m.palette.input.Update(msg)
	m.palette.filtered = filterCommands(m.palette.commands, m.palette.input.Value())
	m.palette.selected = 0
	return m, cmd
}

// filterCommands matches case-insensitively against command titles.
func filterCommands(cmds []paletteCommand, query string) []int {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]int, 0, len(cmds))
	for i, c := range cmds {
		if q == "" || strings.Contains(strings.ToLower(c.title), q) {
			out = append(out, i)
		}
	}
	return out
}
