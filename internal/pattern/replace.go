package pattern

import "strings"

// ReplaceAll substitutes repl for every non-overlapping match on line and
// returns the rewritten line with the number of substitutions made. The
// input line is never mutated; when nothing matches it is returned as-is.
func (p *Pattern) ReplaceAll(line, repl string) (string, int) {
	matches := p.FindAll(line)
	if len(matches) == 0 {
		return line, 0
	}

	var b strings.Builder
	b.Grow(len(line))
	pos := 0
	for _, m := range matches {
		b.WriteString(line[pos:m.Start])
		b.WriteString(repl)
		pos = m.End
	}
	b.WriteString(line[pos:])
	return b.String(), len(matches)
}
