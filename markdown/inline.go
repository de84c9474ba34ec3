package markdown

import (
	"strings"

	"github.com/hollg/vellum/block"
	graphemeutil "github.com/hollg/vellum/internal/grapheme"
)

// inlineMarkers pairs each style flag with its markdown delimiter, in the
// fixed order styles are opened.
var inlineMarkers = []struct {
	flag   block.StyleFlags
	marker string
}{
	{block.StyleBold, "**"},
	{block.StyleItalic, "*"},
	{block.StyleStrike, "~~"},
}

func markerFor(flag block.StyleFlags) string {
	for _, m := range inlineMarkers {
		if m.flag == flag {
			return m.marker
		}
	}
	return ""
}

// renderInline emits text with its style spans as markdown delimiters.
// Open delimiters form a stack so nested styles close in reverse of the
// order they opened and a style running through a boundary stays open.
func renderInline(text string, spans []block.StyleSpan) string {
	if len(spans) == 0 {
		return text
	}
	clusters := graphemeutil.Split(text)
	masks := make([]block.StyleFlags, len(clusters))
	for _, s := range spans {
		for i := s.Start; i < s.End && i < len(masks); i++ {
			if i >= 0 {
				masks[i] |= s.Style
			}
		}
	}

	var sb strings.Builder
	var stack []block.StyleFlags

	combined := func() block.StyleFlags {
		var all block.StyleFlags
		for _, f := range stack {
			all |= f
		}
		return all
	}
	transition := func(next block.StyleFlags) {
		removed := combined() &^ next
		if removed != 0 {
			var reopen []block.StyleFlags
			for removed != 0 && len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				sb.WriteString(markerFor(top))
				if removed.Has(top) {
					removed &^= top
				} else {
					reopen = append(reopen, top)
				}
			}
			for i := len(reopen) - 1; i >= 0; i-- {
				sb.WriteString(markerFor(reopen[i]))
				stack = append(stack, reopen[i])
			}
		}
		added := next &^ combined()
		for _, m := range inlineMarkers {
			if added.Has(m.flag) {
				sb.WriteString(m.marker)
				stack = append(stack, m.flag)
			}
		}
	}

	for i, cl := range clusters {
		transition(masks[i])
		sb.WriteString(cl)
	}
	transition(0)
	return sb.String()
}

// parseInline strips markdown style delimiters from s, returning the
// plain text and the spans they covered. A delimiter with no closing
// partner stays literal.
func parseInline(s string) (string, []block.StyleSpan) {
	var sb strings.Builder
	var boundaries []spanBoundary
	scanInline(s, 0, &sb, &boundaries)

	text := sb.String()
	spans := make([]block.StyleSpan, 0, len(boundaries))
	for _, b := range boundaries {
		if b.end > b.start {
			spans = append(spans, block.StyleSpan{Start: b.start, End: b.end, Style: b.flag})
		}
	}
	if len(spans) == 0 {
		return text, nil
	}
	return text, spans
}

type spanBoundary struct {
	start, end int
	flag       block.StyleFlags
}

// scanInline walks s emitting plain clusters into sb and recording one
// boundary per delimited run. Offsets count grapheme clusters of the
// emitted text.
func scanInline(s string, base block.StyleFlags, sb *strings.Builder, out *[]spanBoundary) {
	for len(s) > 0 {
		matched := false
		for _, m := range inlineMarkers {
			if base.Has(m.flag) || !strings.HasPrefix(s, m.marker) {
				continue
			}
			body, rest, ok := splitDelimited(s, m.marker)
			if !ok {
				continue
			}
			start := graphemeutil.Count(sb.String())
			scanInline(body, base|m.flag, sb, out)
			end := graphemeutil.Count(sb.String())
			*out = append(*out, spanBoundary{start: start, end: end, flag: m.flag})
			s = rest
			matched = true
			break
		}
		if matched {
			continue
		}
		g := graphemeutil.Slice(s, 0, 1)
		sb.WriteString(g)
		s = s[len(g):]
	}
}

// splitDelimited splits "<marker>body<marker>rest" into body and rest.
// The body must be non-empty; ok is false when no closing marker exists.
func splitDelimited(s, marker string) (body, rest string, ok bool) {
	inner := s[len(marker):]
	idx := strings.Index(inner, marker)
	if idx <= 0 {
		return "", "", false
	}
	return inner[:idx], inner[idx+len(marker):], true
}
