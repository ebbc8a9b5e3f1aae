package search

import "strings"

// lineSet holds a file's lines together with enough framing detail, a CRLF
// flag per terminated line and whether a final newline was present, to
// reassemble the file byte for byte.
type lineSet struct {
	lines    []string
	crlf     []bool
	trailing bool
}

// splitLines splits content on newlines. Line terminators (\n or \r\n) are
// stripped from the lines so anchors and replacements see the text only; a
// missing trailing newline still yields a final line.
func splitLines(content []byte) lineSet {
	s := string(content)
	if s == "" {
		return lineSet{}
	}

	var ls lineSet
	ls.trailing = strings.HasSuffix(s, "\n")
	if ls.trailing {
		s = s[:len(s)-1]
	}
	ls.lines = strings.Split(s, "\n")
	ls.crlf = make([]bool, len(ls.lines))
	for i, line := range ls.lines {
		// The final segment of a file without a trailing newline was never
		// terminated, so a \r there is content, not framing.
		if i == len(ls.lines)-1 && !ls.trailing {
			break
		}
		if strings.HasSuffix(line, "\r") {
			ls.lines[i] = line[:len(line)-1]
			ls.crlf[i] = true
		}
	}
	return ls
}

// join is the inverse of splitLines.
func (ls lineSet) join() string {
	var b strings.Builder
	for i, line := range ls.lines {
		b.WriteString(line)
		if i < len(ls.lines)-1 || ls.trailing {
			if ls.crlf[i] {
				b.WriteByte('\r')
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
