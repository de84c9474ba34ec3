package editor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/hollg/vellum/block"
)

func (m Model) View() string {
	base := m.viewport.View() + "\n" + m.statusBar()
	switch {
	case m.dialog.visible:
		return overlay.Composite(m.renderDialog(), base, overlay.Center, overlay.Center, 0, 0)
	case m.palette.visible:
		return overlay.Composite(m.renderPalette(), base, overlay.Center, overlay.Center, 0, 0)
	}
	return base
}

// renderState gathers everything a single frame needs so row rendering
// stays free of model lookups.
type renderState struct {
	st       Style
	caret    block.Caret
	focused  bool
	selOK    bool
	selStart block.Caret
	selEnd   block.Caret
	selLo    int
	selHi    int
	multi    map[block.ID]bool
	masks    [][]block.StyleFlags
	ghost    string
	ghostOK  bool
}

func (m *Model) renderContent() string {
	lc := m.ensureLayout()
	if len(lc.layout.rows) == 0 {
		return ""
	}

	rs := renderState{
		st:      m.cfg.Style,
		caret:   m.doc.Caret(),
		focused: m.focused,
		selLo:   -1,
		selHi:   -1,
	}
	rs.selStart, rs.selEnd, rs.selOK = m.doc.Selection()

	idx := make(map[block.ID]int, len(lc.layout.blocks))
	for i, bl := range lc.layout.blocks {
		idx[bl.view.ID] = i
	}
	if rs.selOK {
		rs.selLo = idx[rs.selStart.Block]
		rs.selHi = idx[rs.selEnd.Block]
	}

	if ids := m.doc.MultiSelection(); len(ids) > 0 {
		rs.multi = make(map[block.ID]bool, len(ids))
		for _, id := range ids {
			rs.multi[id] = true
		}
	}

	rs.masks = make([][]block.StyleFlags, len(lc.layout.blocks))
	for i, bl := range lc.layout.blocks {
		rs.masks[i] = clusterStyles(len(bl.clusters), bl.view.Spans)
	}

	if m.focused {
		rs.ghost, rs.ghostOK = m.currentSuggestion()
	}

	lines := make([]string, 0, len(lc.layout.rows))
	for _, row := range lc.layout.rows {
		lines = append(lines, rs.renderRow(lc.layout, row))
	}
	return strings.Join(lines, "\n")
}

func (rs *renderState) renderRow(l docLayout, row visualRow) string {
	bl := l.blocks[row.blockIdx]
	var sb strings.Builder

	if row.first {
		sb.WriteString(bl.indent)
		if bl.marker != "" {
			sb.WriteString(rs.st.Marker.Render(bl.marker))
		}
	} else if bl.prefixW > 0 {
		sb.WriteString(strings.Repeat(" ", bl.prefixW))
	}

	base := rs.st.blockBase(bl.view.Type)
	caretHere := rs.focused && rs.caret.Block == bl.view.ID
	caretInRow := caretHere && rs.caret.Offset >= row.start && rs.caret.Offset < row.end

	selLo, selHi := -1, -1
	if rs.selOK && row.blockIdx >= rs.selLo && row.blockIdx <= rs.selHi {
		selLo, selHi = 0, len(bl.clusters)
		if row.blockIdx == rs.selLo {
			selLo = rs.selStart.Offset
		}
		if row.blockIdx == rs.selHi {
			selHi = rs.selEnd.Offset
		}
	}
	isMulti := rs.multi[bl.view.ID]

	mask := rs.masks[row.blockIdx]
	flagsAt := func(i int) block.StyleFlags {
		if mask == nil || i >= len(mask) {
			return 0
		}
		return mask[i]
	}
	selectedAt := func(i int) bool {
		return isMulti || (selLo >= 0 && i >= selLo && i < selHi)
	}

	i := row.start
	for i < row.end {
		if caretInRow && i == rs.caret.Offset {
			sb.WriteString(rs.st.Cursor.Render(bl.clusters[i]))
			i++
			continue
		}
		f := flagsAt(i)
		sel := selectedAt(i)
		j := i + 1
		for j < row.end && flagsAt(j) == f && selectedAt(j) == sel && !(caretInRow && j == rs.caret.Offset) {
			j++
		}
		styl := spanStyle(base, f)
		if sel {
			styl = styl.Inherit(rs.st.Selection)
		}
		sb.WriteString(styl.Render(strings.Join(bl.clusters[i:j], "")))
		i = j
	}

	// End-of-text caret renders on a placeholder cell; a pending
	// suggestion trails it faintly.
	if caretHere && row.last && rs.caret.Offset >= row.end {
		sb.WriteString(rs.st.Cursor.Render(" "))
		if rs.ghostOK && rs.ghost != "" {
			sb.WriteString(rs.st.Ghost.Render(rs.ghost))
		}
	}

	return sb.String()
}

// clusterStyles flattens a block's spans into one style mask per
// grapheme cluster. A nil result means no styled text.
func clusterStyles(n int, spans []block.StyleSpan) []block.StyleFlags {
	if len(spans) == 0 || n == 0 {
		return nil
	}
	masks := make([]block.StyleFlags, n)
	for _, sp := range spans {
		lo := maxInt(sp.Start, 0)
		hi := minInt(sp.End, n)
		for i := lo; i < hi; i++ {
			masks[i] |= sp.Style
		}
	}
	return masks
}

func (m Model) statusBar() string {
	st := m.cfg.Style

	name := m.name
	if m.Dirty() {
		name += "*"
	}
	left := " " + name

	right := m.status
	noticed := m.statusNotice && m.status != ""
	if right == "" {
		lc := m.ensureLayout()
		for _, v := range lc.views {
			if v.ID == m.doc.Caret().Block {
				right = typeLabel(v.Type)
				break
			}
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 1
	if gap < 1 {
		gap = 1
	}

	var sb strings.Builder
	sb.WriteString(st.StatusBar.Render(left + strings.Repeat(" ", gap)))
	if noticed {
		sb.WriteString(st.StatusNotice.Render(right))
	} else {
		sb.WriteString(st.StatusBar.Render(right))
	}
	sb.WriteString(st.StatusBar.Render(" "))
	return sb.String()
}

func (m Model) renderPalette() string {
	st := m.cfg.Style
	w := clampInt(m.width-10, 24, 48)

	rows := []string{m.palette.input.View()}

	const maxRows = 8
	visible := m.palette.filtered
	start := 0
	if m.palette.selected >= maxRows {
		start = m.palette.selected - maxRows + 1
	}
	end := minInt(start+maxRows, len(visible))
	for i := start; i < end; i++ {
		title := m.palette.commands[visible[i]].title
		if i == m.palette.selected {
			rows = append(rows, st.PaletteSelected.Width(w).Render(title))
		} else {
			rows = append(rows, st.PaletteItem.Width(w).Render(title))
		}
	}
	if len(visible) == 0 {
		rows = append(rows, st.PaletteItem.Width(w).Render("no matching commands"))
	}

	return st.PaletteBox.Render(strings.Join(rows, "\n"))
}

func (m Model) renderDialog() string {
	st := m.cfg.Style
	w := clampInt(m.width-10, 24, 48)

	var rows []string
	switch m.dialog.mode {
	case dialogSaveAs:
		rows = append(rows, st.PaletteTitle.Render("Save document as"), m.dialog.input.View())

	case dialogOpen:
		rows = append(rows, st.PaletteTitle.Render("Open document"))
		const maxRows = 8
		start := 0
		if m.dialog.selected >= maxRows {
			start = m.dialog.selected - maxRows + 1
		}
		end := minInt(start+maxRows, len(m.dialog.names))
		for i := start; i < end; i++ {
			if i == m.dialog.selected {
				rows = append(rows, st.PaletteSelected.Width(w).Render(m.dialog.names[i]))
			} else {
				rows = append(rows, st.PaletteItem.Width(w).Render(m.dialog.names[i]))
			}
		}
	}

	return st.PaletteBox.Render(strings.Join(rows, "\n"))
}
