package block

import (
	"strconv"
	"strings"
)

// Counters tracks per-level ordinals during a top-to-bottom numbering
// pass. The label renderer and the markdown bridge walk blocks with the
// same counter discipline rather than keeping parallel copies of it.
type Counters []int

// Bump increments the counter at level, zeroes every deeper counter, and
// returns the new ordinal at level.
func (c *Counters) Bump(level int) int {
	for len(*c) <= level {
		*c = append(*c, 0)
	}
	(*c)[level]++
	for i := level + 1; i < len(*c); i++ {
		(*c)[i] = 0
	}
	return (*c)[level]
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	for i := range *c {
		(*c)[i] = 0
	}
}

// Label renders the hierarchical label through level: the nonzero
// counters from level 0 to level, dot-joined, with a trailing dot.
func (c Counters) Label(level int) string {
	var sb strings.Builder
	for i := 0; i <= level && i < len(c); i++ {
		if c[i] == 0 {
			continue
		}
		sb.WriteString(strconv.Itoa(c[i]))
		sb.WriteByte('.')
	}
	return sb.String()
}

// Labels computes the marker label for every block as a pure function of
// the full ordered list. Numbered blocks get their hierarchical label
// ("1.", "1.2.1."); every other type gets an empty label and resets the
// counters. The pass is rerun in full after any structural change rather
// than patched incrementally.
func Labels(specs []Spec) []string {
	out := make([]string, len(specs))
	var c Counters
	for i, s := range specs {
		if s.Type != Numbered {
			c.Reset()
			continue
		}
		c.Bump(s.Level)
		out[i] = c.Label(s.Level)
	}
	return out
}
