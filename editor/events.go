package editor

import "github.com/hollg/vellum/block"

// ChangeEvent reports a document mutation to the host.
type ChangeEvent struct {
	Version        uint64
	ContentVersion uint64
	Caret          block.Caret
	Dirty          bool
}

func (m *Model) emitChange() {
	if m.cfg.OnChange == nil {
		return
	}
	m.cfg.OnChange(ChangeEvent{
		Version:        m.doc.Version(),
		ContentVersion: m.doc.ContentVersion(),
		Caret:          m.doc.Caret(),
		Dirty:          m.Dirty(),
	})
}
