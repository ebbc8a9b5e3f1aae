// Package ignore decides which paths the search should skip.
package ignore

import (
	"github.com/bethropolis/dir-grepper/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher answers whether a path should be excluded from a search. It
// layers three sources: custom rules given on the command line (highest
// precedence), the hidden/.git conventions, and the ignore files found
// throughout the tree.
type Matcher struct {
	// repoIgnore applies the .gitignore files discovered at each directory
	// level; deeper files override shallower ones for paths beneath them.
	repoIgnore gitignore.GitIgnore

	rootDir      string
	rules        RuleSet
	ignoreHidden bool
	ignoreGit    bool
	disabled     bool
	logger       utils.Logger
}

// Rule is one compiled custom exclusion rule. A negated rule un-skips a
// path that an earlier rule would exclude.
type Rule struct {
	Pattern string
	Negated bool
	DirOnly bool
}

// RuleSet is an ordered list of rules; within a set, later rules override
// earlier ones.
type RuleSet []Rule

// Config collects matcher settings for callers that prefer a struct over
// functional options.
type Config struct {
	RootDir      string
	IgnoreHidden bool
	IgnoreGit    bool
	CustomRules  []string
	Disabled     bool
	Logger       utils.Logger
}
