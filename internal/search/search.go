// Package search drives the walker, applies a compiled pattern to every
// candidate, and streams out results.
package search

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bethropolis/dir-grepper/internal/ignore"
	"github.com/bethropolis/dir-grepper/internal/pattern"
	"github.com/bethropolis/dir-grepper/internal/utils"
	"github.com/bethropolis/dir-grepper/internal/walker"
)

// Mode selects what the pattern is matched against.
type Mode int

const (
	// ModeContent matches each line of file content.
	ModeContent Mode = iota
	// ModeFilename matches the path's base name; no line iteration occurs.
	ModeFilename
)

// Result is one successful match: the originating path, 1-based line
// number (0 in filename mode), the matched span and the full line.
type Result struct {
	Path       string        `json:"path"`
	LineNumber int           `json:"line"`
	Match      pattern.Match `json:"-"`
	Start      int           `json:"start"`
	End        int           `json:"end"`
	Text       string        `json:"text"`
	Line       string        `json:"content"`
}

// ReplaceOutcome reports the rewrite of a single file.
type ReplaceOutcome struct {
	Path         string `json:"path"`
	Lines        int    `json:"lines"`
	Replacements int    `json:"replacements"`
}

// ResultFunc consumes results as they are produced; returning an error
// stops the search. Results arrive in walker order and, within a file, in
// increasing line order.
type ResultFunc func(Result) error

// ReplaceFunc consumes per-file replace outcomes.
type ReplaceFunc func(ReplaceOutcome) error

// Summary tallies one run.
type Summary struct {
	Files        int
	MatchedFiles int
	Matches      int
	Replacements int
	Skipped      []walker.SkippedItem
}

// Options configures a Searcher.
type Options struct {
	Mode        Mode
	Replace     *string // when set, matches are rewritten in place
	Recursive   bool
	IgnoreCase  bool
	MaxFileSize int64
	Extensions  []string
	Logger      utils.Logger
	Context     context.Context
}

// Searcher applies one compiled pattern to candidate files. The pattern is
// the only state shared across files and it is read-only, so a Searcher is
// cheap to reuse for the whole run.
type Searcher struct {
	pat  *pattern.Pattern
	opts Options
	log  utils.Logger
}

// New creates a Searcher. When Options.IgnoreCase is set the caller is
// expected to have compiled the pattern from case-folded source (see
// FoldPattern).
func New(pat *pattern.Pattern, opts Options) *Searcher {
	log := opts.Logger
	if log == nil {
		log = &utils.NoopLogger{}
	}
	return &Searcher{pat: pat, opts: opts, log: log}
}

// Search walks root (a file or directory), matches every candidate, and
// streams results through fn. onReplace may be nil unless replace mode is
// active. Per-file failures are reported in the summary; only a callback
// error aborts the run.
func (s *Searcher) Search(root string, matcher *ignore.Matcher, fn ResultFunc, onReplace ReplaceFunc) (Summary, error) {
	var sum Summary

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return sum, fmt.Errorf("search: invalid root '%s': %w", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return sum, fmt.Errorf("search: cannot stat '%s': %w", root, err)
	}
	rootIsFile := !info.IsDir()

	walkFn := func(rel string, content []byte, readErr error) error {
		if readErr != nil {
			// Already recorded by the walker; the run continues.
			return nil
		}
		sum.Files++

		fullPath := absRoot
		if !rootIsFile {
			fullPath = filepath.Join(absRoot, filepath.FromSlash(rel))
		}

		switch {
		case s.opts.Mode == ModeFilename:
			return s.matchFilename(rel, &sum, fn)
		case s.opts.Replace != nil:
			return s.replaceFile(fullPath, rel, content, &sum, onReplace)
		default:
			return s.matchContent(rel, content, &sum, fn)
		}
	}

	walkOpts := []walker.Option{
		walker.WithLogger(s.log),
		walker.WithRecursive(s.opts.Recursive),
	}
	if s.opts.MaxFileSize > 0 {
		walkOpts = append(walkOpts, walker.WithMaxFileSize(s.opts.MaxFileSize))
	}
	if len(s.opts.Extensions) > 0 {
		walkOpts = append(walkOpts, walker.WithExtensions(s.opts.Extensions))
	}
	if s.opts.Context != nil {
		walkOpts = append(walkOpts, walker.WithContext(s.opts.Context))
	}

	skipped, err := walker.Walk(absRoot, matcher, walkFn, walkOpts...)
	sum.Skipped = append(sum.Skipped, skipped...)
	return sum, err
}

// SearchReader matches each line from r, for searching standard input
// without touching the filesystem. source names the stream in results.
func (s *Searcher) SearchReader(source string, r io.Reader, fn ResultFunc) (Summary, error) {
	var sum Summary
	sum.Files = 1

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	matched := false
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		m, ok := s.findOnLine(line)
		if !ok {
			continue
		}
		matched = true
		sum.Matches++
		if err := fn(makeResult(source, lineNo, m, line)); err != nil {
			return sum, err
		}
	}
	if matched {
		sum.MatchedFiles = 1
	}
	if err := scanner.Err(); err != nil {
		return sum, fmt.Errorf("search: reading %s: %w", source, err)
	}
	return sum, nil
}

// matchContent runs the line matcher over every line of one file.
func (s *Searcher) matchContent(rel string, content []byte, sum *Summary, fn ResultFunc) error {
	ls := splitLines(content)
	matched := false
	for i, line := range ls.lines {
		m, ok := s.findOnLine(line)
		if !ok {
			continue
		}
		matched = true
		sum.Matches++
		if err := fn(makeResult(rel, i+1, m, line)); err != nil {
			return err
		}
	}
	if matched {
		sum.MatchedFiles++
	}
	return nil
}

// matchFilename matches the base name instead of the content.
func (s *Searcher) matchFilename(rel string, sum *Summary, fn ResultFunc) error {
	base := filepath.Base(rel)
	m, ok := s.findOnLine(base)
	if !ok {
		return nil
	}
	sum.Matches++
	sum.MatchedFiles++
	res := makeResult(rel, 0, m, base)
	return fn(res)
}

// findOnLine applies the pattern to one line, folding case when requested.
// Offsets always index the original line: folding is ASCII-only and
// therefore length-preserving.
func (s *Searcher) findOnLine(line string) (pattern.Match, bool) {
	probe := line
	if s.opts.IgnoreCase {
		probe = Fold(line)
	}
	m, ok := s.pat.FindFirst(probe)
	if ok && s.opts.IgnoreCase {
		m.Text = line[m.Start:m.End]
	}
	return m, ok
}

func makeResult(path string, lineNo int, m pattern.Match, line string) Result {
	return Result{
		Path:       path,
		LineNumber: lineNo,
		Match:      m,
		Start:      m.Start,
		End:        m.End,
		Text:       m.Text,
		Line:       line,
	}
}

// FoldPattern lower-cases the literal bytes of a pattern source while
// leaving escape sequences untouched, so folding never turns a negated
// class like \D into \d.
func FoldPattern(src string) string {
	b := []byte(src)
	for i := 0; i < len(b); i++ {
		if b[i] == '\\' {
			i++
			continue
		}
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// Fold lower-cases ASCII letters only, leaving the byte length unchanged.
func Fold(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
