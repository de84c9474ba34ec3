package block

import (
	"regexp"
	"strings"

	graphemeutil "github.com/hollg/vellum/internal/grapheme"
)

// numberedPrefixRE matches a 1-2 digit ordinal followed by a dot at the
// start of a block. Three or more digits never trigger.
var numberedPrefixRE = regexp.MustCompile(`^([0-9]{1,2})\.`)

// AutoformatSpace runs the prefix detector for a space about to be typed,
// inspecting only the text before the caret in the active block. A
// leading ">" converts the block to a quote, "-" or "*" to a bullet, and
// a 1-2 digit ordinal followed by "." to a numbered item; the matched
// marker and any whitespace after it are stripped, the caret moves to the
// end of the block, and the triggering space is consumed. The conversions
// are mutually exclusive. Reports whether a conversion fired; when false
// the caller inserts the space as usual.
func (d *Document) AutoformatSpace() bool {
	if d.SelectionActive() {
		return false
	}
	b, ok := d.arena[d.caret.Block]
	if !ok {
		return false
	}
	prefix := graphemeutil.Slice(b.text, 0, d.clampOffset(d.caret))
	if prefix == "" {
		return false
	}

	var target Type
	var marker string
	switch {
	case strings.HasPrefix(prefix, ">"):
		target, marker = Quote, ">"
	case strings.HasPrefix(prefix, "-"):
		target, marker = Bullet, "-"
	case strings.HasPrefix(prefix, "*"):
		target, marker = Bullet, "*"
	default:
		m := numberedPrefixRE.FindString(prefix)
		if m == "" {
			return false
		}
		target, marker = Numbered, m
	}

	strip := graphemeutil.Count(marker)
	total := graphemeutil.Count(b.text)
	for strip < total && graphemeutil.IsSpace(graphemeutil.Slice(b.text, strip, strip+1)) {
		strip++
	}

	b.typ = target
	b.level = normalizeLevel(target, b.level)
	b.text = graphemeutil.Slice(b.text, strip, total)
	b.spans = spansDelete(b.spans, 0, strip)
	d.caret = Caret{Block: b.id, Offset: graphemeutil.Count(b.text)}
	d.touchContent()
	return true
}

// StrikeTrigger runs after a "~" lands in the text: when the text before
// the caret now ends with ~~word~~, the word between the tilde pairs is
// struck through and all four tildes are deleted, the caret landing after
// the struck word. The word is the longest trailing run of non-whitespace
// characters between the pairs; an empty or whitespace-broken word aborts
// silently. Reports whether the trigger fired.
func (d *Document) StrikeTrigger() bool {
	if d.SelectionActive() {
		return false
	}
	b, ok := d.arena[d.caret.Block]
	if !ok {
		return false
	}
	off := d.clampOffset(d.caret)
	clusters := graphemeutil.Split(b.text)
	if off < 5 {
		return false
	}
	if clusters[off-1] != "~" || clusters[off-2] != "~" {
		return false
	}

	// Walk the word run back from the closing pair.
	wordEnd := off - 2
	wordStart := wordEnd
	for wordStart > 0 && clusters[wordStart-1] != "~" && !graphemeutil.IsSpace(clusters[wordStart-1]) {
		wordStart--
	}
	if wordStart == wordEnd {
		return false
	}
	if wordStart < 2 || clusters[wordStart-1] != "~" || clusters[wordStart-2] != "~" {
		return false
	}

	open := wordStart - 2
	word := clusters[wordStart:wordEnd]

	rebuilt := make([]string, 0, len(clusters)-4)
	rebuilt = append(rebuilt, clusters[:open]...)
	rebuilt = append(rebuilt, word...)
	rebuilt = append(rebuilt, clusters[off:]...)
	b.text = strings.Join(rebuilt, "")

	spans := spansDelete(b.spans, wordEnd, 2)
	spans = spansDelete(spans, open, 2)
	textLen := graphemeutil.Count(b.text)
	b.spans = spansSetStyle(spans, open, open+len(word), textLen, StyleStrike, true)

	d.caret = Caret{Block: b.id, Offset: open + len(word)}
	d.touchContent()
	return true
}
