package block

import "sort"

func cloneSpans(spans []StyleSpan) []StyleSpan {
	if len(spans) == 0 {
		return nil
	}
	out := make([]StyleSpan, len(spans))
	copy(out, spans)
	return out
}

// normalizeSpans clamps spans to [0, textLen], drops empty ones, sorts by
// start, and merges adjacent spans with identical styles. Overlaps are
// resolved by rebuilding from a per-cluster mask so later spans win only
// where they actually overlap.
func normalizeSpans(spans []StyleSpan, textLen int) []StyleSpan {
	if len(spans) == 0 || textLen <= 0 {
		return nil
	}
	return spansFromMasks(masksFromSpans(spans, textLen))
}

// masksFromSpans paints spans onto a per-cluster style mask.
func masksFromSpans(spans []StyleSpan, textLen int) []StyleFlags {
	masks := make([]StyleFlags, textLen)
	for _, s := range spans {
		start := clampInt(s.Start, 0, textLen)
		end := clampInt(s.End, 0, textLen)
		for i := start; i < end; i++ {
			masks[i] |= s.Style
		}
	}
	return masks
}

// spansFromMasks rebuilds the normal form: sorted, non-overlapping,
// non-empty spans with runs of equal masks merged.
func spansFromMasks(masks []StyleFlags) []StyleSpan {
	var out []StyleSpan
	for i := 0; i < len(masks); {
		if masks[i] == 0 {
			i++
			continue
		}
		j := i + 1
		for j < len(masks) && masks[j] == masks[i] {
			j++
		}
		out = append(out, StyleSpan{Start: i, End: j, Style: masks[i]})
		i = j
	}
	return out
}

// spansInsert shifts spans for n clusters inserted at offset at. A span
// strictly containing the insertion point grows; spans at or after it
// shift right. Typing at a span edge does not extend the span.
func spansInsert(spans []StyleSpan, at, n int) []StyleSpan {
	if n <= 0 || len(spans) == 0 {
		return spans
	}
	out := make([]StyleSpan, 0, len(spans))
	for _, s := range spans {
		switch {
		case s.End <= at:
			// untouched
		case s.Start >= at:
			s.Start += n
			s.End += n
		default:
			s.End += n
		}
		out = append(out, s)
	}
	return out
}

// spansDelete shifts spans for n clusters deleted at offset at, dropping
// spans that collapse to nothing.
func spansDelete(spans []StyleSpan, at, n int) []StyleSpan {
	if n <= 0 || len(spans) == 0 {
		return spans
	}
	cut := at + n
	out := make([]StyleSpan, 0, len(spans))
	for _, s := range spans {
		switch {
		case s.End <= at:
			// before the cut
		case s.Start >= cut:
			s.Start -= n
			s.End -= n
		default:
			if s.Start > at {
				s.Start = at
			}
			if s.End > cut {
				s.End -= n
			} else {
				s.End = at
			}
		}
		if s.End > s.Start {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// spansSplit divides spans at offset into the head spans and the tail
// spans rebased to zero. A span straddling the cut is split in two.
func spansSplit(spans []StyleSpan, at int) (head, tail []StyleSpan) {
	for _, s := range spans {
		if s.End <= at {
			head = append(head, s)
			continue
		}
		if s.Start >= at {
			tail = append(tail, StyleSpan{Start: s.Start - at, End: s.End - at, Style: s.Style})
			continue
		}
		head = append(head, StyleSpan{Start: s.Start, End: at, Style: s.Style})
		tail = append(tail, StyleSpan{Start: 0, End: s.End - at, Style: s.Style})
	}
	return head, tail
}

// spansShift rebases spans by delta, for appending one block's spans after
// another block's text on merge.
func spansShift(spans []StyleSpan, delta int) []StyleSpan {
	if delta == 0 || len(spans) == 0 {
		return spans
	}
	out := make([]StyleSpan, 0, len(spans))
	for _, s := range spans {
		out = append(out, StyleSpan{Start: s.Start + delta, End: s.End + delta, Style: s.Style})
	}
	return out
}

// spansExtract returns the spans covering [start, end) rebased to zero,
// clipped to the range.
func spansExtract(spans []StyleSpan, start, end int) []StyleSpan {
	var out []StyleSpan
	for _, s := range spans {
		if s.End <= start || s.Start >= end {
			continue
		}
		lo := s.Start
		if lo < start {
			lo = start
		}
		hi := s.End
		if hi > end {
			hi = end
		}
		out = append(out, StyleSpan{Start: lo - start, End: hi - start, Style: s.Style})
	}
	return out
}

// spansAllHave reports whether every cluster in [start, end) carries flag.
// An empty range has nothing to check and reports false.
func spansAllHave(spans []StyleSpan, start, end int, flag StyleFlags) bool {
	if end <= start {
		return false
	}
	sorted := cloneSpans(spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
	at := start
	for _, s := range sorted {
		if !s.Style.Has(flag) {
			continue
		}
		if s.Start > at {
			if s.Start >= end {
				break
			}
			return false
		}
		if s.End > at {
			at = s.End
		}
		if at >= end {
			return true
		}
	}
	return at >= end
}

// spansSetStyle applies or clears flag over [start, end) and returns the
// renormalized span list.
func spansSetStyle(spans []StyleSpan, start, end, textLen int, flag StyleFlags, set bool) []StyleSpan {
	if end <= start || textLen <= 0 {
		return spans
	}
	masks := masksFromSpans(spans, textLen)
	start = clampInt(start, 0, textLen)
	end = clampInt(end, 0, textLen)
	for i := start; i < end; i++ {
		if set {
			masks[i] |= flag
		} else {
			masks[i] &^= flag
		}
	}
	return spansFromMasks(masks)
}
