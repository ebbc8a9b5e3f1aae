package pattern

// FindFirst returns the leftmost match of the pattern on line. The boolean
// is false when no starting offset yields a match; that is a normal outcome,
// not an error.
//
// Quantified elements are matched greedily: the maximal run is consumed
// first and shrunk one byte at a time while the remainder of the pattern
// fails. The first starting offset that completes wins, so among overlapping
// possibilities the leftmost (not necessarily longest) match is reported.
func (p *Pattern) FindFirst(line string) (Match, bool) {
	elems := p.elems

	// An anchored pattern is only tried at offset 0.
	if len(elems) > 0 && elems[0].Kind == KindStartAnchor {
		if end, ok := matchFrom(elems, line, 0, 0); ok {
			return Match{Start: 0, End: end, Text: line[:end]}, true
		}
		return Match{}, false
	}

	for start := 0; start <= len(line); start++ {
		if end, ok := matchFrom(elems, line, 0, start); ok {
			return Match{Start: start, End: end, Text: line[start:end]}, true
		}
	}
	return Match{}, false
}

// MatchString reports whether the pattern matches anywhere on line.
func (p *Pattern) MatchString(line string) bool {
	_, ok := p.FindFirst(line)
	return ok
}

// FindAll returns every non-overlapping match on line, left to right. An
// empty match advances the scan by one byte so the walk always terminates.
func (p *Pattern) FindAll(line string) []Match {
	var out []Match
	pos := 0
	for pos <= len(line) {
		m, ok := p.findFrom(line, pos)
		if !ok {
			break
		}
		out = append(out, m)
		if m.End > pos {
			pos = m.End
		} else {
			pos++
		}
	}
	return out
}

// findFrom is FindFirst constrained to start offsets >= from.
func (p *Pattern) findFrom(line string, from int) (Match, bool) {
	elems := p.elems
	if len(elems) > 0 && elems[0].Kind == KindStartAnchor {
		if from > 0 {
			return Match{}, false
		}
		if end, ok := matchFrom(elems, line, 0, 0); ok {
			return Match{Start: 0, End: end, Text: line[:end]}, true
		}
		return Match{}, false
	}
	for start := from; start <= len(line); start++ {
		if end, ok := matchFrom(elems, line, 0, start); ok {
			return Match{Start: start, End: end, Text: line[start:end]}, true
		}
	}
	return Match{}, false
}

// matchFrom matches elems[idx:] against line starting at pos. On success it
// returns the final scan position. Recursion depth is bounded by the element
// count, which is bounded by the pattern length.
func matchFrom(elems []Element, line string, idx, pos int) (int, bool) {
	if idx == len(elems) {
		return pos, true
	}
	e := elems[idx]

	switch e.Kind {
	case KindStartAnchor:
		if pos != 0 {
			return 0, false
		}
		return matchFrom(elems, line, idx+1, pos)
	case KindEndAnchor:
		if pos != len(line) {
			return 0, false
		}
		return matchFrom(elems, line, idx+1, pos)
	}

	switch e.Quant {
	case QuantNone:
		if pos < len(line) && e.test(line[pos]) {
			return matchFrom(elems, line, idx+1, pos+1)
		}
		return 0, false

	case QuantZeroOrOne:
		if pos < len(line) && e.test(line[pos]) {
			if end, ok := matchFrom(elems, line, idx+1, pos+1); ok {
				return end, true
			}
		}
		return matchFrom(elems, line, idx+1, pos)

	default: // QuantZeroOrMore, QuantOneOrMore
		min := 0
		if e.Quant == QuantOneOrMore {
			min = 1
		}
		run := 0
		for pos+run < len(line) && e.test(line[pos+run]) {
			run++
		}
		for k := run; k >= min; k-- {
			if end, ok := matchFrom(elems, line, idx+1, pos+k); ok {
				return end, true
			}
		}
		return 0, false
	}
}
