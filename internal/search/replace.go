package search

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/dir-grepper/internal/walker"
)

// replaceFile rewrites every match in one file. The full new content is
// assembled in memory first and written through a temp file that is renamed
// over the original, so a failure at any point leaves the target untouched.
func (s *Searcher) replaceFile(fullPath, rel string, content []byte, sum *Summary, onReplace ReplaceFunc) error {
	repl := *s.opts.Replace
	ls := splitLines(content)

	total := 0
	changedLines := 0
	for i, line := range ls.lines {
		newLine, n := s.replaceLine(line, repl)
		if n == 0 {
			continue
		}
		ls.lines[i] = newLine
		total += n
		changedLines++
	}

	if total == 0 {
		return nil
	}

	if err := writeFileAtomic(fullPath, []byte(ls.join())); err != nil {
		s.log.Error("search: replace failed for %q: %v", rel, err)
		sum.Skipped = append(sum.Skipped, walker.SkippedItem{
			Path:   rel,
			Reason: walker.ReasonSkippedWriteError,
		})
		return nil
	}

	sum.MatchedFiles++
	sum.Matches += total
	sum.Replacements += total

	if onReplace != nil {
		return onReplace(ReplaceOutcome{Path: rel, Lines: changedLines, Replacements: total})
	}
	return nil
}

// replaceLine substitutes every match on one line, honoring ignore-case by
// locating matches on the folded line and splicing into the original.
func (s *Searcher) replaceLine(line, repl string) (string, int) {
	if !s.opts.IgnoreCase {
		return s.pat.ReplaceAll(line, repl)
	}

	matches := s.pat.FindAll(Fold(line))
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

// writeFileAtomic writes data to a temp file in the target's directory and
// renames it over the target, preserving the original permissions.
func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename over target: %w", err)
	}
	return nil
}
