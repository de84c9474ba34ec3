package editor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// autosaveTickMsg fires after the autosave delay. The generation lets
// later edits invalidate ticks that are already in flight.
type autosaveTickMsg struct {
	gen int
}

func autosaveTick(delay time.Duration, gen int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return autosaveTickMsg{gen: gen}
	})
}

func (m Model) updateAutosave(msg autosaveTickMsg) (Model, tea.Cmd) {
	if msg.gen != m.autosaveGen {
		return m, nil
	}
	if !m.Dirty() || m.cfg.Save == nil {
		return m, nil
	}
	m.save(false)
	m.refresh()
	return m, nil
}

// save writes the document through the configured hook. Manual saves
// surface a notice; autosaves stay quiet unless they fail.
func (m *Model) save(manual bool) {
	if m.cfg.Save == nil {
		if manual {
			m.notice("nowhere to save")
		}
		return
	}
	if err := m.cfg.Save(m.name, m.doc.Specs()); err != nil {
		m.cfg.Logger.Warn("save failed",
			zap.String("document", m.name),
			zap.Error(err))
		m.notice("save failed")
		return
	}
	m.savedVersion = m.doc.ContentVersion()
	m.cfg.Logger.Info("saved document",
		zap.String("document", m.name),
		zap.Int("blocks", m.doc.Len()))
	if manual {
		m.notice("saved " + m.name)
	}
}

// quitCmd saves a dirty document on the way out and stops the program.
func (m *Model) quitCmd() tea.Cmd {
	if m.Dirty() && m.cfg.Save != nil {
		m.save(false)
	}
	m.cfg.Logger.Info("editor closed", zap.String("document", m.name))
	return tea.Quit
}
