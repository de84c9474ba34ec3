package editor

import tea "github.com/charmbracelet/bubbletea"

// caretCheckMsg asks the model to verify the caret still points at a
// live block after a structural edit.
type caretCheckMsg struct{}

func caretCheckCmd() tea.Cmd {
	return func() tea.Msg { return caretCheckMsg{} }
}

// repairCaret refocuses the nearest surviving block when the caret's
// block has been removed from the document.
func (m *Model) repairCaret() {
	c := m.doc.Caret()
	if m.doc.IndexOf(c.Block) >= 0 {
		return
	}
	if m.doc.Len() == 0 {
		return
	}
	views := m.doc.Views()
	m.doc.Focus(views[len(views)-1].ID, true)
	m.refresh()
	m.followCaret()
}
