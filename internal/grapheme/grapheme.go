package grapheme

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns the grapheme clusters of text in display order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	g := uniseg.NewGraphemes(text)
	n := 0
	for g.Next() {
		n++
	}
	return n
}

// Slice returns the substring spanning clusters [start, end), clamped to
// the cluster count of text.
func Slice(text string, start, end int) string {
	if text == "" || end <= start {
		return ""
	}
	if start < 0 {
		start = 0
	}

	g := uniseg.NewGraphemes(text)
	var sb strings.Builder
	idx := 0
	for g.Next() {
		if idx >= end {
			break
		}
		if idx >= start {
			sb.WriteString(g.Str())
		}
		idx++
	}
	return sb.String()
}

// Width returns the terminal cell width of text.
func Width(text string) int {
	return runewidth.StringWidth(text)
}

// ClusterWidth returns the cell width of a single cluster. Zero-width
// clusters render as one cell so the caret stays addressable.
func ClusterWidth(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		return 1
	}
	return w
}

// IsSpace reports whether every rune of cluster is whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsPunct reports whether every rune of cluster is punctuation.
func IsPunct(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsPunct(r) {
			return false
		}
	}
	return true
}

// TrailingRunStart returns the cluster offset where the longest run of
// non-whitespace clusters ending at end begins. Word boundaries are
// ASCII-whitespace based to match the editing rules. Returns end when the
// cluster just before end is whitespace or end is 0.
func TrailingRunStart(clusters []string, end int) int {
	if end > len(clusters) {
		end = len(clusters)
	}
	start := end
	for start > 0 && !IsSpace(clusters[start-1]) {
		start--
	}
	return start
}
