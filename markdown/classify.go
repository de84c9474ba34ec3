package markdown

import (
	"regexp"
	"strings"
)

// lineClass is the closed set of shapes a markdown line can take. Every
// consumer dispatches on this one classification; there are no parallel
// copies of the prefix rules.
type lineClass uint8

const (
	lineBlank lineClass = iota
	lineHeading
	lineBullet
	lineNumbered
	lineQuote
	lineText
)

// classified is one markdown line reduced to its structural parts.
type classified struct {
	class   lineClass
	heading int    // 1..3 for lineHeading
	level   int    // nesting depth for list lines
	ordinal int    // leading number for lineNumbered
	content string // text with the structural prefix stripped
}

var orderedRE = regexp.MustCompile(`^([0-9]+)\.(?: |$)`)

// classify reduces a raw line to its class. Nesting level is
// floor(leadingSpaces/2) and applies to list lines only. Headings run
// from one to three hash marks; deeper ones read as plain text.
func classify(line string) classified {
	if strings.TrimSpace(line) == "" {
		return classified{class: lineBlank}
	}

	spaces := 0
	for spaces < len(line) && line[spaces] == ' ' {
		spaces++
	}
	level := spaces / 2
	rest := line[spaces:]

	if hashes := countHashes(rest); hashes >= 1 && hashes <= 3 {
		return classified{
			class:   lineHeading,
			heading: hashes,
			content: strings.TrimPrefix(rest[hashes:], " "),
		}
	}

	if strings.HasPrefix(rest, ">") {
		return classified{class: lineQuote, content: strings.TrimPrefix(rest[1:], " ")}
	}

	if strings.HasPrefix(rest, "- ") || strings.HasPrefix(rest, "* ") {
		return classified{class: lineBullet, level: level, content: rest[2:]}
	}
	if rest == "-" || rest == "*" {
		return classified{class: lineBullet, level: level}
	}

	if m := orderedRE.FindStringSubmatch(rest); m != nil {
		ord := 0
		for _, c := range m[1] {
			ord = ord*10 + int(c-'0')
		}
		return classified{
			class:   lineNumbered,
			level:   level,
			ordinal: ord,
			content: rest[len(m[0]):],
		}
	}

	return classified{class: lineText, content: line}
}

// countHashes returns how many leading '#' precede a space, or 0 when
// the line is not heading-shaped.
func countHashes(s string) int {
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n == 0 {
		return 0
	}
	if n >= len(s) {
		return n
	}
	if s[n] != ' ' {
		return 0
	}
	return n
}
