package block

import (
	"reflect"
	"testing"
)

func texts(d *Document) []string {
	specs := d.Specs()
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Text)
	}
	return out
}

func types(d *Document) []Type {
	specs := d.Specs()
	out := make([]Type, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Type)
	}
	return out
}

func TestNewDocument_SingleEmptyBlock(t *testing.T) {
	d := NewDocument()
	if got := d.Len(); got != 1 {
		t.Fatalf("len=%d, want 1", got)
	}
	specs := d.Specs()
	if specs[0].Type != Text || specs[0].Text != "" {
		t.Fatalf("block=%+v, want empty text block", specs[0])
	}
	if d.Caret().Block != d.IDs()[0] || d.Caret().Offset != 0 {
		t.Fatalf("caret=%+v, want start of first block", d.Caret())
	}
}

func TestFromSpecs_NormalizesLevels(t *testing.T) {
	d := FromSpecs([]Spec{
		{Type: Heading1, Level: 3, Text: "title"},
		{Type: Bullet, Level: -2, Text: "item"},
		{Type: Bullet, Level: 2, Text: "deep"},
	})
	specs := d.Specs()
	if specs[0].Level != 0 {
		t.Fatalf("heading level=%d, want 0", specs[0].Level)
	}
	if specs[1].Level != 0 {
		t.Fatalf("negative level=%d, want 0", specs[1].Level)
	}
	if specs[2].Level != 2 {
		t.Fatalf("bullet level=%d, want 2", specs[2].Level)
	}
}

func TestFromSpecs_EmptyYieldsOneBlock(t *testing.T) {
	d := FromSpecs(nil)
	if got := d.Len(); got != 1 {
		t.Fatalf("len=%d, want 1", got)
	}
}

func TestNewBlock_AppendsNormalizedBlock(t *testing.T) {
	d := NewDocument()
	cv := d.ContentVersion()
	id := d.NewBlock(Heading2, "line one\nline two", 4)
	if got := d.Len(); got != 2 {
		t.Fatalf("len=%d, want 2", got)
	}
	sp, ok := d.Spec(id)
	if !ok {
		t.Fatalf("new block %d not in document", id)
	}
	if sp.Type != Heading2 || sp.Text != "line one line two" {
		t.Fatalf("spec=%+v, want heading2 with newline flattened", sp)
	}
	if sp.Level != 0 {
		t.Fatalf("level=%d, want 0 for heading", sp.Level)
	}
	if d.ContentVersion() == cv {
		t.Fatalf("append did not bump content version")
	}
	if d.Caret().Block == id {
		t.Fatalf("caret moved to appended block without Focus")
	}
	d.Focus(id, true)
	if d.Caret() != (Caret{Block: id, Offset: 17}) {
		t.Fatalf("caret=%+v, want end of appended block", d.Caret())
	}
}

func TestSetCaret_ClampsAndIgnoresStaleBlocks(t *testing.T) {
	d := FromSpecs([]Spec{{Type: Text, Text: "abc"}})
	id := d.IDs()[0]
	d.SetCaret(Caret{Block: id, Offset: 99})
	if got := d.Caret().Offset; got != 3 {
		t.Fatalf("offset=%d, want clamped 3", got)
	}
	before := d.Caret()
	d.SetCaret(Caret{Block: 999, Offset: 0})
	if d.Caret() != before {
		t.Fatalf("caret moved for stale block: %+v", d.Caret())
	}
}

func TestFocus_StaleIDFallsBackToValidBlock(t *testing.T) {
	d := FromSpecs([]Spec{{Type: Text, Text: "a"}, {Type: Text, Text: "b"}})
	d.Focus(12345, true)
	if _, ok := d.Spec(d.Caret().Block); !ok {
		t.Fatalf("caret on removed block after stale focus")
	}
}

func TestSelection_NormalizedToDocumentOrder(t *testing.T) {
	d := FromSpecs([]Spec{{Type: Text, Text: "one"}, {Type: Text, Text: "two"}})
	ids := d.IDs()
	d.SetSelection(Caret{Block: ids[1], Offset: 2}, Caret{Block: ids[0], Offset: 1})
	start, end, ok := d.Selection()
	if !ok {
		t.Fatalf("selection inactive")
	}
	if start.Block != ids[0] || start.Offset != 1 {
		t.Fatalf("start=%+v, want block %d offset 1", start, ids[0])
	}
	if end.Block != ids[1] || end.Offset != 2 {
		t.Fatalf("end=%+v, want block %d offset 2", end, ids[1])
	}
	if d.Caret() != (Caret{Block: ids[0], Offset: 1}) {
		t.Fatalf("caret=%+v, want selection head", d.Caret())
	}
}

func TestBlocksInRange_CoversIntersectedBlocks(t *testing.T) {
	d := FromSpecs([]Spec{
		{Type: Text, Text: "a"},
		{Type: Text, Text: "b"},
		{Type: Text, Text: "c"},
	})
	ids := d.IDs()
	d.SetSelection(Caret{Block: ids[0], Offset: 1}, Caret{Block: ids[2], Offset: 0})
	got := d.BlocksInRange()
	if !reflect.DeepEqual(got, ids) {
		t.Fatalf("range=%v, want %v", got, ids)
	}

	d.ClearSelection()
	d.SetCaret(Caret{Block: ids[1], Offset: 0})
	got = d.BlocksInRange()
	if !reflect.DeepEqual(got, []ID{ids[1]}) {
		t.Fatalf("collapsed range=%v, want active block only", got)
	}
}

func TestMultiSelection_CaptureAndClear(t *testing.T) {
	d := FromSpecs([]Spec{{Type: Text, Text: "a"}, {Type: Text, Text: "b"}})
	ids := d.IDs()
	d.SetSelection(Caret{Block: ids[0]}, Caret{Block: ids[1], Offset: 1})
	captured := d.CaptureMultiSelection()
	if !reflect.DeepEqual(captured, ids) {
		t.Fatalf("captured=%v, want %v", captured, ids)
	}
	d.ClearMultiSelection()
	if got := d.MultiSelection(); got != nil {
		t.Fatalf("multi after clear=%v, want nil", got)
	}
}

func TestVersion_ContentVsCaretChanges(t *testing.T) {
	d := FromSpecs([]Spec{{Type: Text, Text: "abc"}})
	id := d.IDs()[0]
	cv := d.ContentVersion()
	v := d.Version()

	d.SetCaret(Caret{Block: id, Offset: 2})
	if d.ContentVersion() != cv {
		t.Fatalf("caret move bumped content version")
	}
	if d.Version() == v {
		t.Fatalf("caret move did not bump version")
	}

	d.InsertText("x")
	if d.ContentVersion() == cv {
		t.Fatalf("insert did not bump content version")
	}
}

func TestViews_IncludeNumberingLabels(t *testing.T) {
	d := FromSpecs([]Spec{
		{Type: Numbered, Level: 0, Text: "first"},
		{Type: Numbered, Level: 1, Text: "nested"},
		{Type: Bullet, Level: 0, Text: "dash"},
	})
	views := d.Views()
	if views[0].Label != "1." {
		t.Fatalf("label[0]=%q, want %q", views[0].Label, "1.")
	}
	if views[1].Label != "1.1." {
		t.Fatalf("label[1]=%q, want %q", views[1].Label, "1.1.")
	}
	if views[2].Label != "" {
		t.Fatalf("bullet label=%q, want empty", views[2].Label)
	}
}
