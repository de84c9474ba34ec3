package editor

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hollg/vellum/block"
)

// Model is a Bubble Tea component editing one block document.
type Model struct {
	cfg Config
	doc *block.Document

	name    string
	focused bool

	width  int
	height int

	viewport viewport.Model

	// Content version last written to disk; differing from the
	// document's means unsaved changes.
	savedVersion uint64
	autosaveGen  int

	// Sticky visual column for successive up/down movement, in cells.
	// -1 means unset.
	preferredCol int

	palette paletteState
	dialog  dialogState
	suggest suggestState

	status       string
	statusNotice bool

	layoutC *layoutCache
}

type layoutCache struct {
	version  uint64
	width    int
	softWrap bool
	views    []block.View
	layout   docLayout
}

func New(cfg Config) Model {
	cfg = normalizeConfig(cfg)
	m := Model{
		cfg:          cfg,
		doc:          block.FromSpecs(cfg.Blocks),
		name:         cfg.Name,
		focused:      true,
		viewport:     viewport.New(0, 0),
		preferredCol: -1,
	}
	m.savedVersion = m.doc.ContentVersion()
	m.palette.commands = defaultPaletteCommands()
	m.refresh()
	return m
}

// Document exposes the underlying document for hosts and tests.
func (m Model) Document() *block.Document { return m.doc }

func (m Model) Name() string { return m.name }

// Dirty reports whether the document has changes not yet saved.
func (m Model) Dirty() bool { return m.doc.ContentVersion() != m.savedVersion }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = maxInt(height-1, 0)
	m.refresh()
	m.followCaret()
	return m
}

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.refresh()
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.refresh()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

// ensureLayout rebuilds the visual layout when the document, the
// width or the wrap mode changed since the last build.
func (m *Model) ensureLayout() *layoutCache {
	w := m.contentWidth()
	wrap := !m.cfg.NoSoftWrap
	if m.layoutC != nil &&
		m.layoutC.version == m.doc.Version() &&
		m.layoutC.width == w &&
		m.layoutC.softWrap == wrap {
		return m.layoutC
	}
	views := m.doc.Views()
	lc := &layoutCache{
		version:  m.doc.Version(),
		width:    w,
		softWrap: wrap,
		views:    views,
		layout:   buildLayout(views, w, wrap),
	}
	m.layoutC = lc
	return lc
}

func (m *Model) contentWidth() int {
	return maxInt(m.viewport.Width-m.viewport.Style.GetHorizontalFrameSize(), 0)
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
}

// followCaret scrolls the viewport so the caret's visual row stays in
// view.
func (m *Model) followCaret() {
	lc := m.ensureLayout()
	ri := lc.layout.caretRow(lc.views, m.doc.Caret())
	if ri < 0 {
		return
	}
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}
	y := m.viewport.YOffset
	if ri < y {
		m.viewport.SetYOffset(ri)
		return
	}
	if ri >= y+h {
		m.viewport.SetYOffset(ri - h + 1)
	}
}

// notice puts a highlighted message on the status line. It stays until
// the next notice or edit replaces it.
func (m *Model) notice(s string) {
	m.status = s
	m.statusNotice = true
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
