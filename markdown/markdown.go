// Package markdown converts between ordered block lists and a plain
// markdown dialect. The emitter and parser share one set of line rules,
// so feeding a document through FromBlocks and back through ToBlocks
// reproduces it exactly.
//
// Headings, quotes and paragraphs are followed by one blank separator
// line; list items run together. The parser consumes exactly one blank
// after a separated line, so every further blank is a real empty block.
package markdown

import (
	"strconv"
	"strings"

	"github.com/hollg/vellum/block"
)

// FromBlocks renders specs as markdown. Numbered ordinals are computed
// per level while emitting; stored ordinals do not exist.
func FromBlocks(specs []block.Spec) string {
	var sb strings.Builder
	var counters block.Counters
	for _, s := range specs {
		content := renderInline(s.Text, s.Spans)
		switch s.Type {
		case block.Heading1, block.Heading2, block.Heading3:
			counters.Reset()
			sb.WriteString(withContent(strings.Repeat("#", headingDepth(s.Type))+" ", content))
			sb.WriteString("\n\n")
		case block.Bullet:
			counters.Reset()
			sb.WriteString(strings.Repeat("  ", s.Level))
			sb.WriteString(withContent("- ", content))
			sb.WriteByte('\n')
		case block.Numbered:
			n := counters.Bump(s.Level)
			sb.WriteString(strings.Repeat("  ", s.Level))
			sb.WriteString(withContent(strconv.Itoa(n)+". ", content))
			sb.WriteByte('\n')
		case block.Quote:
			counters.Reset()
			sb.WriteString(withContent("> ", content))
			sb.WriteString("\n\n")
		default:
			counters.Reset()
			if content == "" {
				sb.WriteByte('\n')
			} else {
				sb.WriteString(content)
				sb.WriteString("\n\n")
			}
		}
	}
	return sb.String()
}

// withContent joins a structural prefix with its content, dropping the
// prefix's trailing space when the content is empty so no line ends in
// stray whitespace.
func withContent(prefix, content string) string {
	if content == "" {
		return strings.TrimRight(prefix, " ")
	}
	return prefix + content
}

// ToBlocks parses markdown into block specs. Unrecognized structure
// falls back to plain text and the result is never empty.
func ToBlocks(text string) []block.Spec {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var specs []block.Spec
	for i := 0; i < len(lines); i++ {
		c := classify(lines[i])
		if c.class == lineBlank {
			specs = append(specs, block.Spec{Type: block.Text})
			continue
		}
		txt, spans := parseInline(c.content)
		switch c.class {
		case lineHeading:
			specs = append(specs, block.Spec{Type: headingType(c.heading), Text: txt, Spans: spans})
			i = skipSeparator(lines, i)
		case lineBullet:
			specs = append(specs, block.Spec{Type: block.Bullet, Level: c.level, Text: txt, Spans: spans})
		case lineNumbered:
			specs = append(specs, block.Spec{Type: block.Numbered, Level: c.level, Text: txt, Spans: spans})
		case lineQuote:
			specs = append(specs, block.Spec{Type: block.Quote, Text: txt, Spans: spans})
			i = skipSeparator(lines, i)
		default:
			specs = append(specs, block.Spec{Type: block.Text, Text: txt, Spans: spans})
			i = skipSeparator(lines, i)
		}
	}
	if len(specs) == 0 {
		specs = []block.Spec{{Type: block.Text}}
	}
	return specs
}

// skipSeparator advances past the single blank line that separates a
// heading, quote or paragraph from what follows.
func skipSeparator(lines []string, i int) int {
	if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) == "" {
		return i + 1
	}
	return i
}

func headingDepth(t block.Type) int {
	switch t {
	case block.Heading2:
		return 2
	case block.Heading3:
		return 3
	default:
		return 1
	}
}

func headingType(depth int) block.Type {
	switch depth {
	case 2:
		return block.Heading2
	case 3:
		return block.Heading3
	default:
		return block.Heading1
	}
}
