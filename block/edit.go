package block

import (
	"sort"

	graphemeutil "github.com/hollg/vellum/internal/grapheme"
)

// InsertText inserts s at the caret, replacing the selection first when
// one is active. s is treated as a single line; newlines become spaces.
func (d *Document) InsertText(s string) {
	s = sanitizeText(s)
	if s == "" {
		return
	}
	if d.SelectionActive() {
		d.DeleteSelection()
	}
	b, ok := d.arena[d.caret.Block]
	if !ok {
		return
	}
	off := d.clampOffset(d.caret)
	n := graphemeutil.Count(s)
	total := graphemeutil.Count(b.text)
	b.text = graphemeutil.Slice(b.text, 0, off) + s + graphemeutil.Slice(b.text, off, total)
	b.spans = spansInsert(b.spans, off, n)
	d.caret = Caret{Block: b.id, Offset: off + n}
	d.touchContent()
}

// DeleteBackward removes the cluster before the caret. At offset 0 it
// merges the block into its predecessor instead, the caret landing at the
// predecessor's pre-merge length. Backspace is suppressed entirely when
// the document is a single empty block, and is a no-op at the very start
// of the document.
func (d *Document) DeleteBackward() {
	if d.SelectionActive() {
		d.DeleteSelection()
		return
	}
	b, ok := d.arena[d.caret.Block]
	if !ok {
		return
	}
	off := d.clampOffset(d.caret)
	if off > 0 {
		total := graphemeutil.Count(b.text)
		b.text = graphemeutil.Slice(b.text, 0, off-1) + graphemeutil.Slice(b.text, off, total)
		b.spans = spansDelete(b.spans, off-1, 1)
		d.caret = Caret{Block: b.id, Offset: off - 1}
		d.touchContent()
		return
	}

	if len(d.order) == 1 {
		return
	}
	idx := d.IndexOf(b.id)
	if idx <= 0 {
		return
	}
	d.mergeIntoPrevious(idx)
}

// DeleteForward removes the cluster at the caret. At the end of a block
// it merges the next block into the current one, the caret staying put.
func (d *Document) DeleteForward() {
	if d.SelectionActive() {
		d.DeleteSelection()
		return
	}
	b, ok := d.arena[d.caret.Block]
	if !ok {
		return
	}
	off := d.clampOffset(d.caret)
	total := graphemeutil.Count(b.text)
	if off < total {
		b.text = graphemeutil.Slice(b.text, 0, off) + graphemeutil.Slice(b.text, off+1, total)
		b.spans = spansDelete(b.spans, off, 1)
		d.touchContent()
		return
	}

	idx := d.IndexOf(b.id)
	if idx < 0 || idx >= len(d.order)-1 {
		return
	}
	d.mergeIntoPrevious(idx + 1)
}

// mergeIntoPrevious appends the text of the block at order index idx to
// the block before it, removes it, and places the caret at the join.
func (d *Document) mergeIntoPrevious(idx int) {
	prev := d.arena[d.order[idx-1]]
	cur := d.arena[d.order[idx]]
	prevLen := graphemeutil.Count(prev.text)
	prev.text += cur.text
	merged := append(cloneSpans(prev.spans), spansShift(cur.spans, prevLen)...)
	prev.spans = normalizeSpans(merged, graphemeutil.Count(prev.text))
	d.removeAt(idx)
	d.caret = Caret{Block: prev.id, Offset: prevLen}
	d.touchContent()
}

// DeleteSelection removes the selected range. Across blocks, the head and
// tail text join into the first block and interior blocks are removed.
// Reports whether anything was deleted.
func (d *Document) DeleteSelection() bool {
	start, end, ok := d.Selection()
	if !ok {
		return false
	}
	si, ei := d.IndexOf(start.Block), d.IndexOf(end.Block)
	if si == ei {
		b := d.arena[start.Block]
		total := graphemeutil.Count(b.text)
		n := end.Offset - start.Offset
		b.text = graphemeutil.Slice(b.text, 0, start.Offset) + graphemeutil.Slice(b.text, end.Offset, total)
		b.spans = spansDelete(b.spans, start.Offset, n)
		d.caret = Caret{Block: b.id, Offset: start.Offset}
		d.sel = selectionState{}
		d.touchContent()
		return true
	}

	sb := d.arena[start.Block]
	eb := d.arena[end.Block]
	ebLen := graphemeutil.Count(eb.text)

	headSpans := spansExtract(sb.spans, 0, start.Offset)
	tailSpans := spansShift(spansExtract(eb.spans, end.Offset, ebLen), start.Offset)
	sb.text = graphemeutil.Slice(sb.text, 0, start.Offset) + graphemeutil.Slice(eb.text, end.Offset, ebLen)
	sb.spans = normalizeSpans(append(headSpans, tailSpans...), graphemeutil.Count(sb.text))

	for i := ei; i > si; i-- {
		d.removeAt(i)
	}
	d.caret = Caret{Block: sb.id, Offset: start.Offset}
	d.sel = selectionState{}
	d.touchContent()
	return true
}

// Split divides the caret's block at the caret. An empty bullet or
// numbered block converts to text in place instead of splitting. The text
// after the caret moves into a new block inserted immediately after: the
// same list type and level for list blocks, plain text otherwise. The
// caret lands at the start of the new block.
func (d *Document) Split() {
	if d.SelectionActive() {
		d.DeleteSelection()
	}
	b, ok := d.arena[d.caret.Block]
	if !ok {
		return
	}
	if b.typ.IsList() && b.text == "" {
		b.typ = Text
		b.level = 0
		d.caret = Caret{Block: b.id, Offset: 0}
		d.touchContent()
		return
	}

	newType := Text
	newLevel := 0
	if b.typ.IsList() {
		newType = b.typ
		newLevel = b.level
	}

	off := d.clampOffset(d.caret)
	total := graphemeutil.Count(b.text)
	head, tail := spansSplit(b.spans, off)
	tailText := graphemeutil.Slice(b.text, off, total)
	b.text = graphemeutil.Slice(b.text, 0, off)
	b.spans = head

	id := d.alloc(newType, tailText, tail, newLevel)
	d.insertAt(d.IndexOf(b.id)+1, id)
	d.caret = Caret{Block: id, Offset: 0}
	d.touchContent()
}

// Indent deepens each targeted list block by one level.
func (d *Document) Indent() {
	d.shiftLevel(1)
}

// Outdent shallows each targeted list block by one level, floored at 0.
func (d *Document) Outdent() {
	d.shiftLevel(-1)
}

func (d *Document) shiftLevel(delta int) {
	ids := d.targets()
	if len(ids) == 0 {
		return
	}
	hadMulti := len(d.MultiSelection()) > 0
	changed := false
	for _, id := range ids {
		b := d.arena[id]
		if !b.typ.IsList() {
			continue
		}
		next := b.level + delta
		if next < 0 {
			next = 0
		}
		if next != b.level {
			b.level = next
			changed = true
		}
	}
	if hadMulti {
		d.ClearMultiSelection()
		d.ClearSelection()
		d.Focus(ids[0], false)
	}
	if changed {
		d.touchContent()
	}
}

// MoveUp moves the targeted blocks up by one, as a contiguous group.
func (d *Document) MoveUp() {
	d.moveSpan(-1, d.moveTargets())
}

// MoveDown moves the targeted blocks down by one, as a contiguous group.
func (d *Document) MoveDown() {
	d.moveSpan(1, d.moveTargets())
}

// MoveBlockUp moves only the caret's block up by one, regardless of any
// wider selection.
func (d *Document) MoveBlockUp() {
	d.moveSpan(-1, d.caretTarget())
}

// MoveBlockDown moves only the caret's block down by one.
func (d *Document) MoveBlockDown() {
	d.moveSpan(1, d.caretTarget())
}

// moveTargets resolves the group a move applies to: the captured
// multi-block selection, else every block the selection spans, else the
// caret's block. A live selection travels with its blocks, so repeated
// moves keep the same group together without re-capturing it.
func (d *Document) moveTargets() []ID {
	if ids := d.MultiSelection(); len(ids) > 0 {
		return ids
	}
	if ids := d.BlocksInRange(); len(ids) > 1 {
		return ids
	}
	return d.caretTarget()
}

func (d *Document) caretTarget() []ID {
	if _, ok := d.arena[d.caret.Block]; !ok {
		return nil
	}
	return []ID{d.caret.Block}
}

// moveSpan swaps the contiguous span covering ids with the neighbor on
// the far side. The group keeps its relative order and the caret travels
// with its block.
func (d *Document) moveSpan(dir int, ids []ID) {
	if len(ids) == 0 {
		return
	}
	lo, hi := d.orderSpan(ids)
	if lo < 0 {
		return
	}
	if dir < 0 {
		if lo == 0 {
			return
		}
		displaced := d.order[lo-1]
		copy(d.order[lo-1:hi], d.order[lo:hi+1])
		d.order[hi] = displaced
	} else {
		if hi >= len(d.order)-1 {
			return
		}
		displaced := d.order[hi+1]
		copy(d.order[lo+1:hi+2], d.order[lo:hi+1])
		d.order[lo] = displaced
	}
	if _, ok := d.arena[d.caret.Block]; !ok || !containsID(ids, d.caret.Block) {
		d.Focus(ids[0], false)
	}
	d.touchContent()
}

// orderSpan returns the lowest and highest order indices of ids, or
// (-1, -1) when none are present.
func (d *Document) orderSpan(ids []ID) (lo, hi int) {
	lo, hi = -1, -1
	for _, id := range ids {
		i := d.IndexOf(id)
		if i < 0 {
			continue
		}
		if lo < 0 || i < lo {
			lo = i
		}
		if i > hi {
			hi = i
		}
	}
	return lo, hi
}

// DeleteBlocks removes every targeted block. If that empties the
// document, a single empty text block is synthesized. Focus lands on the
// block before the removed range, else the block after, else the
// synthesized block, at its start.
func (d *Document) DeleteBlocks() {
	ids := d.targets()
	if len(ids) == 0 {
		return
	}
	indices := make([]int, 0, len(ids))
	for _, id := range ids {
		if i := d.IndexOf(id); i >= 0 {
			indices = append(indices, i)
		}
	}
	if len(indices) == 0 {
		return
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	first := indices[len(indices)-1]
	for _, i := range indices {
		d.removeAt(i)
	}
	synth := d.ensureNonEmpty()

	d.sel = selectionState{}
	d.ClearMultiSelection()
	switch {
	case synth != None:
		d.caret = Caret{Block: synth}
	case first > 0:
		d.caret = Caret{Block: d.order[first-1]}
	default:
		d.caret = Caret{Block: d.order[0]}
	}
	d.touchContent()
}

// Convert applies target to every targeted block with toggle semantics:
// a block already of the target type becomes text. Conversions to text,
// heading, or quote reset the level; conversions to list types keep it.
// Focus lands at the end of the first affected block.
func (d *Document) Convert(target Type) {
	ids := d.targets()
	if len(ids) == 0 {
		return
	}
	for _, id := range ids {
		b := d.arena[id]
		if b.typ == target {
			b.typ = Text
			b.level = 0
			continue
		}
		b.typ = target
		b.level = normalizeLevel(target, b.level)
	}
	d.ClearMultiSelection()
	d.ClearSelection()
	d.Focus(ids[0], true)
	d.touchContent()
}

// ToggleStyle sets flag over the selected text when any of it lacks the
// flag, and clears it when all of it already carries the flag. Collapsed
// selections are a no-op. The selection survives so styles can stack.
func (d *Document) ToggleStyle(flag StyleFlags) {
	start, end, ok := d.Selection()
	if !ok {
		return
	}
	si, ei := d.IndexOf(start.Block), d.IndexOf(end.Block)

	type segment struct {
		b        *block
		from, to int
	}
	segments := make([]segment, 0, ei-si+1)
	for i := si; i <= ei; i++ {
		b := d.arena[d.order[i]]
		from, to := 0, graphemeutil.Count(b.text)
		if i == si {
			from = start.Offset
		}
		if i == ei {
			to = end.Offset
		}
		if to > from {
			segments = append(segments, segment{b: b, from: from, to: to})
		}
	}
	if len(segments) == 0 {
		return
	}

	all := true
	for _, seg := range segments {
		if !spansAllHave(seg.b.spans, seg.from, seg.to, flag) {
			all = false
			break
		}
	}
	for _, seg := range segments {
		textLen := graphemeutil.Count(seg.b.text)
		seg.b.spans = spansSetStyle(seg.b.spans, seg.from, seg.to, textLen, flag, !all)
	}
	d.touchContent()
}

// Clear replaces the whole document with a single empty text block.
func (d *Document) Clear() {
	d.arena = make(map[ID]*block)
	d.order = nil
	id := d.alloc(Text, "", nil, 0)
	d.order = []ID{id}
	d.caret = Caret{Block: id}
	d.sel = selectionState{}
	d.multi = nil
	d.touchContent()
}

// InsertBlocks splices blocks in at the caret, replacing the selection
// first. A single plain text spec inserts inline. Otherwise the caret's
// block is split at the caret, the specs become blocks between the
// halves, and an entirely empty text block is replaced outright by the
// first spec. The caret lands at the end of the last inserted block.
func (d *Document) InsertBlocks(specs []Spec) {
	if len(specs) == 0 {
		return
	}
	if d.SelectionActive() {
		d.DeleteSelection()
	}
	b, ok := d.arena[d.caret.Block]
	if !ok {
		return
	}

	if len(specs) == 1 && specs[0].Type == Text && len(specs[0].Spans) == 0 {
		d.InsertText(specs[0].Text)
		return
	}

	off := d.clampOffset(d.caret)
	total := graphemeutil.Count(b.text)
	idx := d.IndexOf(b.id)

	rest := specs
	if b.typ == Text && b.text == "" {
		first := specs[0]
		b.typ = first.Type
		b.level = normalizeLevel(first.Type, first.Level)
		b.text = sanitizeText(first.Text)
		b.spans = normalizeSpans(first.Spans, graphemeutil.Count(b.text))
		rest = specs[1:]
		d.caret = Caret{Block: b.id, Offset: graphemeutil.Count(b.text)}
	} else if off < total {
		tailText := graphemeutil.Slice(b.text, off, total)
		head, tail := spansSplit(b.spans, off)
		b.text = graphemeutil.Slice(b.text, 0, off)
		b.spans = head
		tailType := Text
		tailLevel := 0
		if b.typ.IsList() {
			tailType = b.typ
			tailLevel = b.level
		}
		tid := d.alloc(tailType, tailText, tail, tailLevel)
		d.insertAt(idx+1, tid)
	}

	at := idx + 1
	for _, s := range rest {
		id := d.alloc(s.Type, sanitizeText(s.Text), s.Spans, s.Level)
		d.insertAt(at, id)
		d.caret = Caret{Block: id, Offset: graphemeutil.Count(d.arena[id].text)}
		at++
	}
	d.touchContent()
}

// SelectionSpecs returns the selected content as specs: the blocks the
// selection touches, with the first and last clipped to the selected
// range. Without a selection it returns the captured multi-selection
// blocks, or the active block whole.
func (d *Document) SelectionSpecs() []Spec {
	start, end, ok := d.Selection()
	if !ok {
		var out []Spec
		for _, id := range d.targets() {
			if b, live := d.arena[id]; live {
				out = append(out, b.spec())
			}
		}
		return out
	}

	si, ei := d.IndexOf(start.Block), d.IndexOf(end.Block)
	out := make([]Spec, 0, ei-si+1)
	for i := si; i <= ei; i++ {
		b := d.arena[d.order[i]]
		lo, hi := 0, graphemeutil.Count(b.text)
		if i == si {
			lo = start.Offset
		}
		if i == ei {
			hi = end.Offset
		}
		sp := b.spec()
		sp.Text = graphemeutil.Slice(b.text, lo, hi)
		sp.Spans = spansExtract(b.spans, lo, hi)
		out = append(out, sp)
	}
	return out
}

func containsID(ids []ID, id ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
