package block

import (
	graphemeutil "github.com/hollg/vellum/internal/grapheme"
)

// PrevPosition returns the caret position one cluster to the left of c,
// hopping to the end of the previous block at offset 0. ok is false at
// the very start of the document or when c names a removed block.
func (d *Document) PrevPosition(c Caret) (Caret, bool) {
	if _, ok := d.arena[c.Block]; !ok {
		return Caret{}, false
	}
	if c.Offset > 0 {
		return Caret{Block: c.Block, Offset: c.Offset - 1}, true
	}
	idx := d.IndexOf(c.Block)
	if idx <= 0 {
		return Caret{}, false
	}
	prev := d.arena[d.order[idx-1]]
	return Caret{Block: prev.id, Offset: graphemeutil.Count(prev.text)}, true
}

// NextPosition returns the caret position one cluster to the right of c,
// hopping to the start of the next block at the end of a block. ok is
// false at the very end of the document or when c names a removed block.
func (d *Document) NextPosition(c Caret) (Caret, bool) {
	b, ok := d.arena[c.Block]
	if !ok {
		return Caret{}, false
	}
	if c.Offset < graphemeutil.Count(b.text) {
		return Caret{Block: c.Block, Offset: c.Offset + 1}, true
	}
	idx := d.IndexOf(c.Block)
	if idx < 0 || idx >= len(d.order)-1 {
		return Caret{}, false
	}
	return Caret{Block: d.order[idx+1]}, true
}

// BlockStart returns a caret at the start of the caret's block.
func (d *Document) BlockStart() Caret {
	return Caret{Block: d.caret.Block}
}

// BlockEnd returns a caret at the end of the caret's block.
func (d *Document) BlockEnd() Caret {
	b, ok := d.arena[d.caret.Block]
	if !ok {
		return d.caret
	}
	return Caret{Block: b.id, Offset: graphemeutil.Count(b.text)}
}

// TextLen returns the cluster count of a block's text.
func (d *Document) TextLen(id ID) int {
	b, ok := d.arena[id]
	if !ok {
		return 0
	}
	return graphemeutil.Count(b.text)
}
