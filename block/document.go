// Package block implements the block-structured document model: an arena
// of typed, leveled blocks in reading order, the caret and selection state
// that tracks positions through structural edits, the structural edit
// operations themselves, prefix autoformatting, and the numbering pass
// that derives labels for numbered blocks.
package block

import (
	graphemeutil "github.com/hollg/vellum/internal/grapheme"
)

type selectionState struct {
	active bool
	anchor Caret
	head   Caret
}

// Document is one editing session's block tree. Blocks live in an arena
// keyed by ID; order holds the reading order. All neighbor and target
// lookups resolve through the arena, never through render adjacency.
//
// A document never has zero blocks.
type Document struct {
	arena  map[ID]*block
	order  []ID
	nextID ID

	version        uint64
	contentVersion uint64

	caret Caret
	sel   selectionState
	multi []ID
}

// NewDocument returns a document holding a single empty text block with
// the caret at its start.
func NewDocument() *Document {
	d := &Document{
		arena: make(map[ID]*block),
	}
	id := d.alloc(Text, "", nil, 0)
	d.order = []ID{id}
	d.caret = Caret{Block: id}
	return d
}

// FromSpecs builds a document from portable block specs, normalizing each
// entry. An empty spec list yields the single empty block of NewDocument.
func FromSpecs(specs []Spec) *Document {
	d := &Document{
		arena: make(map[ID]*block),
	}
	for _, s := range specs {
		id := d.alloc(s.Type, sanitizeText(s.Text), s.Spans, s.Level)
		d.order = append(d.order, id)
	}
	if len(d.order) == 0 {
		id := d.alloc(Text, "", nil, 0)
		d.order = append(d.order, id)
	}
	d.caret = Caret{Block: d.order[0]}
	return d
}

// NewBlock appends a block of the given type to the end of the document
// and returns its ID. Text is kept to a single line and the level is
// normalized for the type. The new block is not focused; callers place
// the caret with Focus.
func (d *Document) NewBlock(t Type, text string, level int) ID {
	id := d.alloc(t, sanitizeText(text), nil, level)
	d.order = append(d.order, id)
	d.touchContent()
	return id
}

// alloc creates a block in the arena and returns its ID. The caller owns
// placing the ID into order.
func (d *Document) alloc(t Type, text string, spans []StyleSpan, level int) ID {
	d.nextID++
	id := d.nextID
	d.arena[id] = &block{
		id:    id,
		typ:   t,
		level: normalizeLevel(t, level),
		text:  text,
		spans: normalizeSpans(spans, graphemeutil.Count(text)),
	}
	return id
}

func (d *Document) free(id ID) {
	delete(d.arena, id)
}

// Len returns the number of blocks.
func (d *Document) Len() int { return len(d.order) }

// Version changes on every observable mutation, including caret and
// selection moves. Render caches key off it.
func (d *Document) Version() uint64 { return d.version }

// ContentVersion changes only when block content or structure changes.
// Autosave and the suggestion cache key off it.
func (d *Document) ContentVersion() uint64 { return d.contentVersion }

func (d *Document) touch() {
	d.version++
}

func (d *Document) touchContent() {
	d.version++
	d.contentVersion++
}

// IndexOf returns the reading-order index of id, or -1 if the block is
// not in the document.
func (d *Document) IndexOf(id ID) int {
	if _, ok := d.arena[id]; !ok {
		return -1
	}
	for i, o := range d.order {
		if o == id {
			return i
		}
	}
	return -1
}

// IDs returns the block IDs in reading order.
func (d *Document) IDs() []ID {
	out := make([]ID, len(d.order))
	copy(out, d.order)
	return out
}

// Specs returns the portable form of every block in reading order.
func (d *Document) Specs() []Spec {
	out := make([]Spec, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.arena[id].spec())
	}
	return out
}

// Views returns render-ready snapshots in reading order, with numbering
// labels recomputed from scratch.
func (d *Document) Views() []View {
	specs := d.Specs()
	labels := Labels(specs)
	out := make([]View, 0, len(d.order))
	for i, id := range d.order {
		out = append(out, View{
			ID:    id,
			Type:  specs[i].Type,
			Level: specs[i].Level,
			Text:  specs[i].Text,
			Spans: specs[i].Spans,
			Label: labels[i],
		})
	}
	return out
}

// Spec returns the portable form of one block.
func (d *Document) Spec(id ID) (Spec, bool) {
	b, ok := d.arena[id]
	if !ok {
		return Spec{}, false
	}
	return b.spec(), true
}

// Caret returns the current caret.
func (d *Document) Caret() Caret { return d.caret }

// SetCaret moves the caret, clamping the offset into the target block.
// A caret naming a removed block is a no-op.
func (d *Document) SetCaret(c Caret) {
	b, ok := d.arena[c.Block]
	if !ok {
		return
	}
	c.Offset = clampInt(c.Offset, 0, graphemeutil.Count(b.text))
	if c == d.caret {
		return
	}
	d.caret = c
	d.touch()
}

// Focus places the caret at the start or end of a block. A stale ID
// falls back to the nearest block still in the document so the caret is
// never left pointing at a removed node.
func (d *Document) Focus(id ID, atEnd bool) {
	b, ok := d.arena[id]
	if !ok {
		d.focusNearest()
		return
	}
	off := 0
	if atEnd {
		off = graphemeutil.Count(b.text)
	}
	d.SetCaret(Caret{Block: id, Offset: off})
}

// focusNearest repairs a caret whose block disappeared by focusing the
// first block. Callers that know a better neighbor focus it directly.
func (d *Document) focusNearest() {
	if len(d.order) == 0 {
		return
	}
	if _, ok := d.arena[d.caret.Block]; ok {
		return
	}
	d.caret = Caret{Block: d.order[0]}
	d.touch()
}

// ActiveBlock resolves the block containing the caret, or the selection
// anchor when a range is active. ok is false when the caret points at a
// removed block.
func (d *Document) ActiveBlock() (ID, bool) {
	if d.sel.active {
		start, _, ok := d.Selection()
		if ok {
			return start.Block, true
		}
	}
	if _, ok := d.arena[d.caret.Block]; !ok {
		return None, false
	}
	return d.caret.Block, true
}

// compareCarets orders two carets by document position.
func (d *Document) compareCarets(a, b Caret) int {
	ai, bi := d.IndexOf(a.Block), d.IndexOf(b.Block)
	if ai != bi {
		if ai < bi {
			return -1
		}
		return 1
	}
	if a.Offset != b.Offset {
		if a.Offset < b.Offset {
			return -1
		}
		return 1
	}
	return 0
}

// Selection returns the active selection normalized to document order.
func (d *Document) Selection() (start, end Caret, ok bool) {
	if !d.sel.active {
		return Caret{}, Caret{}, false
	}
	a, h := d.sel.anchor, d.sel.head
	if d.IndexOf(a.Block) < 0 || d.IndexOf(h.Block) < 0 {
		return Caret{}, Caret{}, false
	}
	if a == h {
		return Caret{}, Caret{}, false
	}
	if d.compareCarets(a, h) > 0 {
		a, h = h, a
	}
	return a, h, true
}

// SelectionAnchor returns the unnormalized anchor of the active
// selection, the position extension grows away from.
func (d *Document) SelectionAnchor() (Caret, bool) {
	if !d.sel.active || d.IndexOf(d.sel.anchor.Block) < 0 {
		return Caret{}, false
	}
	return d.sel.anchor, true
}

// SetSelection sets the selection anchor and head. The head also becomes
// the caret. An empty range clears the selection.
func (d *Document) SetSelection(anchor, head Caret) {
	if d.IndexOf(anchor.Block) < 0 || d.IndexOf(head.Block) < 0 {
		return
	}
	anchor.Offset = d.clampOffset(anchor)
	head.Offset = d.clampOffset(head)
	if anchor == head {
		d.ClearSelection()
		d.SetCaret(head)
		return
	}
	d.sel = selectionState{active: true, anchor: anchor, head: head}
	d.caret = head
	d.touch()
}

// ClearSelection drops any active selection, leaving the caret in place.
func (d *Document) ClearSelection() {
	if !d.sel.active {
		return
	}
	d.sel = selectionState{}
	d.touch()
}

// SelectionActive reports whether a non-empty selection exists.
func (d *Document) SelectionActive() bool {
	_, _, ok := d.Selection()
	return ok
}

// BlocksInRange returns every block intersected by the current selection
// in document order, or just the active block when the selection is
// collapsed.
func (d *Document) BlocksInRange() []ID {
	start, end, ok := d.Selection()
	if !ok {
		id, has := d.ActiveBlock()
		if !has {
			return nil
		}
		return []ID{id}
	}
	si, ei := d.IndexOf(start.Block), d.IndexOf(end.Block)
	out := make([]ID, 0, ei-si+1)
	for i := si; i <= ei; i++ {
		out = append(out, d.order[i])
	}
	return out
}

// CaptureMultiSelection records the blocks a subsequent command operates
// over and returns them. The capture survives until ClearMultiSelection
// or command completion.
func (d *Document) CaptureMultiSelection() []ID {
	d.multi = d.BlocksInRange()
	return d.MultiSelection()
}

// MultiSelection returns the captured blocks still present, in reading
// order.
func (d *Document) MultiSelection() []ID {
	if len(d.multi) == 0 {
		return nil
	}
	out := make([]ID, 0, len(d.multi))
	for _, id := range d.order {
		for _, m := range d.multi {
			if m == id {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// ClearMultiSelection drops the captured blocks.
func (d *Document) ClearMultiSelection() {
	d.multi = nil
}

// targets resolves the blocks a structural command applies to: the
// multi-block selection if one was captured, else the active block.
func (d *Document) targets() []ID {
	if ids := d.MultiSelection(); len(ids) > 0 {
		return ids
	}
	id, ok := d.ActiveBlock()
	if !ok {
		return nil
	}
	return []ID{id}
}

func (d *Document) clampOffset(c Caret) int {
	b, ok := d.arena[c.Block]
	if !ok {
		return 0
	}
	return clampInt(c.Offset, 0, graphemeutil.Count(b.text))
}

// insertAt places id into the order at index i.
func (d *Document) insertAt(i int, id ID) {
	i = clampInt(i, 0, len(d.order))
	d.order = append(d.order, None)
	copy(d.order[i+1:], d.order[i:])
	d.order[i] = id
}

// removeAt removes the block at order index i from the order and arena.
func (d *Document) removeAt(i int) {
	id := d.order[i]
	d.order = append(d.order[:i], d.order[i+1:]...)
	d.free(id)
}

// ensureNonEmpty synthesizes one empty text block if the document lost
// its last block, and returns its ID (None when nothing was synthesized).
func (d *Document) ensureNonEmpty() ID {
	if len(d.order) > 0 {
		return None
	}
	id := d.alloc(Text, "", nil, 0)
	d.order = []ID{id}
	return id
}

func sanitizeText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\n' || c == '\r' {
			if len(out) > 0 && out[len(out)-1] == ' ' {
				continue
			}
			out = append(out, ' ')
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
