package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type dialogMode uint8

const (
	dialogNone dialogMode = iota
	dialogSaveAs
	dialogOpen
)

type dialogState struct {
	visible  bool
	mode     dialogMode
	input    textinput.Model
	names    []string
	selected int
}

func (m *Model) openSaveAsDialog() tea.Cmd {
	ti := textinput.New()
	ti.Prompt = "name: "
	ti.CharLimit = 120
	ti.SetValue(m.name)
	m.dialog = dialogState{visible: true, mode: dialogSaveAs, input: ti}
	return m.dialog.input.Focus()
}

func (m *Model) openDocumentDialog() tea.Cmd {
	if m.cfg.List == nil {
		m.notice("open not available")
		return nil
	}
	names, err := m.cfg.List()
	if err != nil {
		m.cfg.Logger.Warn("listing documents failed", zap.Error(err))
		m.notice("could not list documents")
		return nil
	}
	if len(names) == 0 {
		m.notice("no saved documents")
		return nil
	}
	m.dialog = dialogState{visible: true, mode: dialogOpen, names: names}
	return nil
}

func (m *Model) closeDialog() {
	m.dialog = dialogState{}
}

func (m Model) updateDialog(msg tea.KeyMsg) (Model, tea.Cmd) {
	pk := DefaultPaletteKeyMap()

	switch m.dialog.mode {
	case dialogSaveAs:
		switch {
		case key.Matches(msg, pk.Dismiss):
			m.closeDialog()
			return m, nil
		case key.Matches(msg, pk.Accept):
			name := strings.TrimSpace(m.dialog.input.Value())
			m.closeDialog()
			if name == "" {
				return m, nil
			}
			m.name = name
			m.save(true)
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.dialog.input, cmd = m.dialog.input.Update(msg)
		return m, cmd

	case dialogOpen:
		switch {
		case key.Matches(msg, pk.Dismiss):
			m.closeDialog()
		case key.Matches(msg, pk.Accept):
			var name string
			if len(m.dialog.names) > 0 {
				name = m.dialog.names[m.dialog.selected]
			}
			m.closeDialog()
			if name != "" {
				m.openDocument(name)
			}
		case key.Matches(msg, pk.Next):
			if n := len(m.dialog.names); n > 0 {
				m.dialog.selected = (m.dialog.selected + 1) % n
			}
		case key.Matches(msg, pk.Prev):
			if n := len(m.dialog.names); n > 0 {
				m.dialog.selected = (m.dialog.selected + n - 1) % n
			}
		}
		return m, nil
	}
	return m, nil
}
