package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/dir-grepper/internal/ignore"
	"github.com/bethropolis/dir-grepper/internal/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newMatcher(t *testing.T, root string) *ignore.Matcher {
	t.Helper()
	m, err := ignore.New(root)
	require.NoError(t, err)
	return m
}

func run(t *testing.T, s *Searcher, root string, m *ignore.Matcher) ([]Result, Summary) {
	t.Helper()
	var results []Result
	sum, err := s.Search(root, m, func(r Result) error {
		results = append(results, r)
		return nil
	}, nil)
	require.NoError(t, err)
	return results, sum
}

func compile(t *testing.T, src string) *pattern.Pattern {
	t.Helper()
	p, err := pattern.Compile(src)
	require.NoError(t, err)
	return p
}

func TestSearchContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "nothing here\nroom42 is free\n")
	writeFile(t, filepath.Join(root, "b.txt"), "room7\nno digits")

	s := New(compile(t, `\d+`), Options{Recursive: true})

	t.Run("results carry path, line and offsets", func(t *testing.T) {
		results, sum := run(t, s, root, newMatcher(t, root))
		require.Len(t, results, 2)

		assert.Equal(t, "a.txt", results[0].Path)
		assert.Equal(t, 2, results[0].LineNumber)
		assert.Equal(t, 4, results[0].Start)
		assert.Equal(t, 6, results[0].End)
		assert.Equal(t, "42", results[0].Text)
		assert.Equal(t, "room42 is free", results[0].Line)

		assert.Equal(t, "b.txt", results[1].Path)
		assert.Equal(t, 1, results[1].LineNumber)

		assert.Equal(t, 2, sum.Files)
		assert.Equal(t, 2, sum.MatchedFiles)
		assert.Equal(t, 2, sum.Matches)
	})

	t.Run("missing trailing newline still yields the last line", func(t *testing.T) {
		s := New(compile(t, "digits"), Options{Recursive: true})
		results, _ := run(t, s, root, newMatcher(t, root))
		require.Len(t, results, 1)
		assert.Equal(t, 2, results[0].LineNumber)
		assert.Equal(t, "no digits", results[0].Line)
	})

	t.Run("end anchor matches on crlf files", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "dos.txt"), "alpha xyz\r\nxyz beta\r\n")

		s := New(compile(t, `xyz$`), Options{Recursive: true})
		results, _ := run(t, s, root, newMatcher(t, root))
		require.Len(t, results, 1)
		assert.Equal(t, 1, results[0].LineNumber)
		assert.Equal(t, "alpha xyz", results[0].Line)
	})

	t.Run("search is idempotent", func(t *testing.T) {
		first, _ := run(t, s, root, newMatcher(t, root))
		second, _ := run(t, s, root, newMatcher(t, root))
		assert.Equal(t, first, second)
	})

	t.Run("file root searches just that file", func(t *testing.T) {
		results, sum := run(t, s, filepath.Join(root, "a.txt"), newMatcher(t, root))
		require.Len(t, results, 1)
		assert.Equal(t, "a.txt", results[0].Path)
		assert.Equal(t, 1, sum.Files)
	})
}

func TestSearchFilenameMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "report2024.txt"), "irrelevant")
	writeFile(t, filepath.Join(root, "notes.md"), "irrelevant")

	s := New(compile(t, `\d+`), Options{Mode: ModeFilename, Recursive: true})
	results, sum := run(t, s, root, newMatcher(t, root))

	require.Len(t, results, 1)
	assert.Equal(t, "report2024.txt", results[0].Path)
	assert.Equal(t, 0, results[0].LineNumber)
	assert.Equal(t, "2024", results[0].Text)
	assert.Equal(t, 1, sum.Matches)
}

func TestSearchIgnoreCase(t *testing.T) {
	t.Run("literal pattern matches any case", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.txt"), "Rust is RUSTY\n")

		s := New(compile(t, FoldPattern("RUST")), Options{Recursive: true, IgnoreCase: true})
		results, _ := run(t, s, root, newMatcher(t, root))

		require.Len(t, results, 1)
		// Offsets index the original line and the text preserves its case.
		assert.Equal(t, 0, results[0].Start)
		assert.Equal(t, "Rust", results[0].Text)
	})

	t.Run("negated digit class keeps its meaning", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.txt"), "ABC\n12345\n")

		s := New(compile(t, FoldPattern(`\D+`)), Options{Recursive: true, IgnoreCase: true})
		results, _ := run(t, s, root, newMatcher(t, root))

		require.Len(t, results, 1)
		assert.Equal(t, 1, results[0].LineNumber)
		assert.Equal(t, "ABC", results[0].Text)
	})

	t.Run("non-word class keeps its meaning", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "a.txt"), "AB!CD\n")

		s := New(compile(t, FoldPattern(`\W`)), Options{Recursive: true, IgnoreCase: true})
		results, _ := run(t, s, root, newMatcher(t, root))

		require.Len(t, results, 1)
		assert.Equal(t, "!", results[0].Text)
	})
}

func TestSearchReader(t *testing.T) {
	s := New(compile(t, "^err"), Options{})
	input := "ok\nerrors ahead\nfine\nerr again\n"

	var results []Result
	sum, err := s.SearchReader("stdin", strings.NewReader(input), func(r Result) error {
		results = append(results, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "stdin", results[0].Path)
	assert.Equal(t, 2, results[0].LineNumber)
	assert.Equal(t, 4, results[1].LineNumber)
	assert.Equal(t, 2, sum.Matches)
	assert.Equal(t, 1, sum.MatchedFiles)
}

func TestReplace(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "data.txt")
		writeFile(t, target, "a1b22c333\nuntouched\n")

		repl := "#"
		var outcomes []ReplaceOutcome
		s := New(compile(t, `\d+`), Options{Recursive: true, Replace: &repl})
		sum, err := s.Search(root, newMatcher(t, root), func(Result) error { return nil },
			func(o ReplaceOutcome) error {
				outcomes = append(outcomes, o)
				return nil
			})
		require.NoError(t, err)
		assert.Equal(t, 3, sum.Replacements)
		require.Len(t, outcomes, 1)
		assert.Equal(t, "data.txt", outcomes[0].Path)
		assert.Equal(t, 1, outcomes[0].Lines)
		assert.Equal(t, 3, outcomes[0].Replacements)

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "a#b#c#\nuntouched\n", string(got))

		// Re-running the search over the rewritten file finds nothing.
		finder := New(compile(t, `\d+`), Options{Recursive: true})
		results, _ := run(t, finder, root, newMatcher(t, root))
		assert.Empty(t, results)
	})

	t.Run("ignore-case replace keeps offsets valid", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "data.txt")
		writeFile(t, target, "Rust and RUST and rust\n")

		repl := "go"
		s := New(compile(t, FoldPattern("Rust")), Options{Recursive: true, IgnoreCase: true, Replace: &repl})
		sum, err := s.Search(root, newMatcher(t, root), func(Result) error { return nil }, nil)
		require.NoError(t, err)
		assert.Equal(t, 3, sum.Replacements)

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "go and go and go\n", string(got))
	})

	t.Run("file without matches is left alone", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "plain.txt")
		writeFile(t, target, "no digits here")
		before, err := os.Stat(target)
		require.NoError(t, err)

		repl := "#"
		s := New(compile(t, `\d+`), Options{Recursive: true, Replace: &repl})
		sum, err := s.Search(root, newMatcher(t, root), func(Result) error { return nil }, nil)
		require.NoError(t, err)
		assert.Zero(t, sum.Replacements)

		after, err := os.Stat(target)
		require.NoError(t, err)
		assert.Equal(t, before.ModTime(), after.ModTime())
	})

	t.Run("crlf line endings are preserved", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "dos.txt")
		writeFile(t, target, "a1\r\nb2\r\n")

		repl := "#"
		s := New(compile(t, `\d`), Options{Recursive: true, Replace: &repl})
		_, err := s.Search(root, newMatcher(t, root), func(Result) error { return nil }, nil)
		require.NoError(t, err)

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "a#\r\nb#\r\n", string(got))
	})

	t.Run("missing trailing newline is preserved", func(t *testing.T) {
		root := t.TempDir()
		target := filepath.Join(root, "data.txt")
		writeFile(t, target, "x9")

		repl := "y"
		s := New(compile(t, `\d`), Options{Recursive: true, Replace: &repl})
		_, err := s.Search(root, newMatcher(t, root), func(Result) error { return nil }, nil)
		require.NoError(t, err)

		got, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, "xy", string(got))
	})
}

func TestSplitLines(t *testing.T) {
	ls := splitLines([]byte("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, ls.lines)
	assert.True(t, ls.trailing)

	ls = splitLines([]byte("a\nb"))
	assert.Equal(t, []string{"a", "b"}, ls.lines)
	assert.False(t, ls.trailing)

	ls = splitLines(nil)
	assert.Empty(t, ls.lines)

	t.Run("round trips byte for byte", func(t *testing.T) {
		for _, content := range []string{
			"a\nb\n", "a\nb", "a\r\nb\r\n", "a\r\nb", "mixed\r\nendings\n", "bare cr\r",
		} {
			assert.Equal(t, content, splitLines([]byte(content)).join())
		}
	})

	t.Run("crlf terminators are framing, not line content", func(t *testing.T) {
		ls := splitLines([]byte("a\r\nb\r\n"))
		assert.Equal(t, []string{"a", "b"}, ls.lines)
		assert.Equal(t, []bool{true, true}, ls.crlf)

		// Without a trailing newline the final \r is content.
		ls = splitLines([]byte("bare cr\r"))
		assert.Equal(t, []string{"bare cr\r"}, ls.lines)
	})
}

func TestFoldPattern(t *testing.T) {
	assert.Equal(t, `abc\D`, FoldPattern(`ABC\D`))
	assert.Equal(t, `\W\S\D`, FoldPattern(`\W\S\D`))
	assert.Equal(t, `a\.b`, FoldPattern(`A\.B`))
	assert.Equal(t, `^word$`, FoldPattern(`^WORD$`))
}

func TestFold(t *testing.T) {
	assert.Equal(t, "abc42", Fold("AbC42"))
	assert.Equal(t, "already lower", Fold("already lower"))
	// Non-ASCII bytes are left alone so lengths never change.
	assert.Equal(t, len("É"), len(Fold("É")))
}
