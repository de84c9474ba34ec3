package editor

import (
	"strings"

	"github.com/hollg/vellum/block"
	graphemeutil "github.com/hollg/vellum/internal/grapheme"
)

// blockLayout is one block prepared for rendering: its marker prefix
// and the grapheme offset ranges of each wrapped visual row.
type blockLayout struct {
	view     block.View
	clusters []string
	indent   string
	marker   string
	prefixW  int
	rows     [][2]int
}

// visualRow addresses one rendered row: which block it belongs to and
// the grapheme range it covers. first marks the row carrying the
// marker.
type visualRow struct {
	blockIdx int
	start    int
	end      int
	first    bool
	last     bool
}

type docLayout struct {
	blocks []blockLayout
	rows   []visualRow
}

func buildLayout(views []block.View, width int, softWrap bool) docLayout {
	l := docLayout{blocks: make([]blockLayout, len(views))}
	for i, v := range views {
		bl := blockLayout{
			view:     v,
			clusters: graphemeutil.Split(v.Text),
			indent:   strings.Repeat("  ", v.Level),
			marker:   markerGlyph(v),
		}
		bl.prefixW = graphemeutil.Width(bl.indent + bl.marker)

		avail := width - bl.prefixW
		if !softWrap || avail < 1 {
			avail = 0
		}
		bl.rows = wrapOffsets(bl.clusters, avail)
		l.blocks[i] = bl

		for r, span := range bl.rows {
			l.rows = append(l.rows, visualRow{
				blockIdx: i,
				start:    span[0],
				end:      span[1],
				first:    r == 0,
				last:     r == len(bl.rows)-1,
			})
		}
	}
	return l
}

// markerGlyph returns the derived marker text for a block. Only list
// blocks and quotes carry one; the numbered label comes from the view.
func markerGlyph(v block.View) string {
	switch v.Type {
	case block.Bullet:
		return "• "
	case block.Numbered:
		return v.Label + " "
	case block.Quote:
		return "┃ "
	default:
		return ""
	}
}

// wrapOffsets splits clusters into visual rows at most width cells
// wide, preferring to break after a whitespace run. A width of zero
// disables wrapping.
func wrapOffsets(clusters []string, width int) [][2]int {
	n := len(clusters)
	if n == 0 || width <= 0 {
		return [][2]int{{0, n}}
	}
	var rows [][2]int
	start := 0
	for start < n {
		used := 0
		i := start
		lastBreak := -1
		for i < n {
			w := graphemeutil.ClusterWidth(clusters[i])
			if used > 0 && used+w > width {
				break
			}
			used += w
			i++
			if graphemeutil.IsSpace(clusters[i-1]) && i < n && !graphemeutil.IsSpace(clusters[i]) {
				lastBreak = i
			}
		}
		if i == n {
			rows = append(rows, [2]int{start, n})
			break
		}
		if lastBreak > start {
			i = lastBreak
		}
		rows = append(rows, [2]int{start, i})
		start = i
	}
	return rows
}

// caretRow locates the visual row holding the caret. The end-of-text
// position belongs to the block's last row.
func (l docLayout) caretRow(views []block.View, c block.Caret) int {
	for ri, row := range l.rows {
		if l.blocks[row.blockIdx].view.ID != c.Block {
			continue
		}
		if c.Offset >= row.start && c.Offset < row.end {
			return ri
		}
		if row.last && c.Offset >= row.start && c.Offset <= row.end {
			return ri
		}
	}
	return -1
}

// caretCells returns the caret's visual column inside its row, in
// cells, excluding the marker prefix.
func (l docLayout) caretCells(ri int, c block.Caret) int {
	row := l.rows[ri]
	bl := l.blocks[row.blockIdx]
	cells := 0
	for i := row.start; i < c.Offset && i < len(bl.clusters); i++ {
		cells += graphemeutil.ClusterWidth(bl.clusters[i])
	}
	return cells
}

// caretAt maps a visual row and a wanted cell column back to a caret,
// clamping into the row's range. Rows that continue onto a following
// row stop one cluster short so the caret never displays on the wrong
// row.
func (l docLayout) caretAt(ri, wantCells int) (block.Caret, bool) {
	if ri < 0 || ri >= len(l.rows) {
		return block.Caret{}, false
	}
	row := l.rows[ri]
	bl := l.blocks[row.blockIdx]

	off := row.start
	cells := 0
	for off < row.end {
		w := graphemeutil.ClusterWidth(bl.clusters[off])
		if cells+w > wantCells {
			break
		}
		cells += w
		off++
	}
	if !row.last && off >= row.end && row.end > row.start {
		off = row.end - 1
	}
	return block.Caret{Block: bl.view.ID, Offset: off}, true
}
