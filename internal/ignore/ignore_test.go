package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestParseRules(t *testing.T) {
	t.Run("plain, negated and dir-only rules", func(t *testing.T) {
		rules := ParseRules([]string{"*.log", "!important.log", "build/"}, nil)
		require.Len(t, rules, 3)
		assert.Equal(t, Rule{Pattern: "*.log"}, rules[0])
		assert.Equal(t, Rule{Pattern: "important.log", Negated: true}, rules[1])
		assert.Equal(t, Rule{Pattern: "build", DirOnly: true}, rules[2])
	})

	t.Run("malformed lines are skipped individually", func(t *testing.T) {
		rules := ParseRules([]string{"*.tmp", "!", "", "# comment", "  "}, nil)
		require.Len(t, rules, 1)
		assert.Equal(t, "*.tmp", rules[0].Pattern)
	})
}

func TestRuleSetMatch(t *testing.T) {
	t.Run("later rules override earlier ones", func(t *testing.T) {
		rules := ParseRules([]string{"*.log", "!important.log"}, nil)

		skip, matched := rules.Match("debug.log", false)
		assert.True(t, matched)
		assert.True(t, skip)

		skip, matched = rules.Match("logs/important.log", false)
		assert.True(t, matched)
		assert.False(t, skip, "negated rule must un-skip the path")
	})

	t.Run("bare pattern also excludes directory contents", func(t *testing.T) {
		rules := ParseRules([]string{"node_modules"}, nil)
		skip, matched := rules.Match("node_modules/pkg/index.js", false)
		assert.True(t, matched)
		assert.True(t, skip)
	})

	t.Run("slash pattern matches whole path", func(t *testing.T) {
		rules := ParseRules([]string{"src/*.gen.go"}, nil)
		skip, matched := rules.Match("src/types.gen.go", false)
		assert.True(t, matched && skip)
		_, matched = rules.Match("other/types.gen.go", false)
		assert.False(t, matched)
	})

	t.Run("dir-only rule does not match files", func(t *testing.T) {
		rules := ParseRules([]string{"build/"}, nil)
		_, matched := rules.Match("build", false)
		assert.False(t, matched)
		skip, matched := rules.Match("build", true)
		assert.True(t, matched && skip)
	})

	t.Run("no matching rule means no verdict", func(t *testing.T) {
		rules := ParseRules([]string{"*.log"}, nil)
		_, matched := rules.Match("main.go", false)
		assert.False(t, matched)
	})
}

func TestMatcherConventions(t *testing.T) {
	root := t.TempDir()

	t.Run("root is never ignored", func(t *testing.T) {
		m, err := New(root)
		require.NoError(t, err)
		assert.False(t, m.ShouldIgnore(".", true))
		assert.False(t, m.ShouldIgnore("", true))
	})

	t.Run("hidden files and parents", func(t *testing.T) {
		m, err := New(root, WithHiddenIgnore(true))
		require.NoError(t, err)
		assert.True(t, m.ShouldIgnore(".env", false))
		assert.True(t, m.ShouldIgnore(".cache/data.txt", false))
		assert.False(t, m.ShouldIgnore("visible.txt", false))

		m, err = New(root, WithHiddenIgnore(false), WithGitIgnore(false))
		require.NoError(t, err)
		assert.False(t, m.ShouldIgnore(".env", false))
	})

	t.Run("git directories", func(t *testing.T) {
		m, err := New(root, WithHiddenIgnore(false), WithGitIgnore(true))
		require.NoError(t, err)
		assert.True(t, m.ShouldIgnore(".git", true))
		assert.True(t, m.ShouldIgnore(".git/objects/ab", false))
		assert.False(t, m.ShouldIgnore("git/notes.txt", false))
	})

	t.Run("nil matcher ignores nothing", func(t *testing.T) {
		var m *Matcher
		assert.False(t, m.ShouldIgnore("anything", false))
	})
}

func TestMatcherIgnoreFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\nbuild/\n")
	writeFile(t, filepath.Join(root, "sub", ".gitignore"), "!important.log\n")
	writeFile(t, filepath.Join(root, "debug.log"), "x")
	writeFile(t, filepath.Join(root, "sub", "important.log"), "x")
	writeFile(t, filepath.Join(root, "sub", "trace.log"), "x")

	m, err := New(root)
	require.NoError(t, err)

	t.Run("shallow rule applies to descendants", func(t *testing.T) {
		assert.True(t, m.ShouldIgnore("debug.log", false))
		assert.True(t, m.ShouldIgnore("sub/trace.log", false))
	})

	t.Run("directory-only rule matches directories only", func(t *testing.T) {
		assert.True(t, m.ShouldIgnore("build", true))
		assert.False(t, m.ShouldIgnore("build", false))
	})

	t.Run("deeper negation un-skips", func(t *testing.T) {
		assert.False(t, m.ShouldIgnore("sub/important.log", false))
	})

	t.Run("unmatched paths are kept", func(t *testing.T) {
		assert.False(t, m.ShouldIgnore("sub/readme.md", false))
	})

	t.Run("disabled matcher skips ignore files but keeps custom rules", func(t *testing.T) {
		m, err := New(root, WithDisabled(true), WithCustomRules([]string{"*.tmp"}))
		require.NoError(t, err)
		assert.False(t, m.ShouldIgnore("debug.log", false))
		assert.True(t, m.ShouldIgnore("scratch.tmp", false))
	})
}

func TestNewFromConfig(t *testing.T) {
	root := t.TempDir()
	m, err := NewFromConfig(Config{
		RootDir:      root,
		IgnoreHidden: true,
		IgnoreGit:    true,
		CustomRules:  []string{"*.bak"},
	})
	require.NoError(t, err)
	assert.Equal(t, root, m.Root())
	assert.True(t, m.ShouldIgnore("old.bak", false))
	assert.False(t, m.ShouldIgnore("new.txt", false))
}

func TestMatcherCustomRulePrecedence(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "!keep.log\n")

	// A command-line rule outranks the ignore files.
	m, err := New(root, WithCustomRules([]string{"keep.log"}))
	require.NoError(t, err)
	assert.True(t, m.ShouldIgnore("keep.log", false))
}
