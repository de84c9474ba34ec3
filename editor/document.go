package editor

import (
	"go.uber.org/zap"

	"github.com/hollg/vellum/block"
)

// openDocument replaces the edited document with one loaded through
// the configured hook.
func (m *Model) openDocument(name string) {
	if m.cfg.Load == nil {
		m.notice("open not available")
		return
	}
	specs, err := m.cfg.Load(name)
	if err != nil {
		m.cfg.Logger.Warn("opening document failed",
			zap.String("document", name),
			zap.Error(err))
		m.notice("could not open " + name)
		return
	}
	m.replaceDocument(block.FromSpecs(specs), name)
	m.cfg.Logger.Info("opened document",
		zap.String("document", name),
		zap.Int("blocks", m.doc.Len()))
}

func (m *Model) newDocument() {
	m.replaceDocument(block.NewDocument(), "untitled")
	m.cfg.Logger.Info("new document")
}

// replaceDocument swaps in doc and resets every piece of state keyed
// to the old document: saved version, layout cache, suggestion cache,
// pending autosaves, and the sticky column.
func (m *Model) replaceDocument(doc *block.Document, name string) {
	m.doc = doc
	m.name = name
	m.savedVersion = doc.ContentVersion()
	m.layoutC = nil
	m.suggest.clear()
	m.autosaveGen++
	m.preferredCol = -1
	m.status = ""
	m.statusNotice = false
	m.emitChange()
	m.refresh()
	m.followCaret()
}

// export runs the configured export hook for the given format.
func (m *Model) export(format string) {
	if m.cfg.Export == nil {
		m.notice("export not available")
		return
	}
	if err := m.cfg.Export(format, m.name, m.doc.Specs()); err != nil {
		m.cfg.Logger.Warn("export failed",
			zap.String("document", m.name),
			zap.String("format", format),
			zap.Error(err))
		m.notice("export failed")
		return
	}
	m.cfg.Logger.Info("exported document",
		zap.String("document", m.name),
		zap.String("format", format))
	m.notice("exported as " + format)
}
