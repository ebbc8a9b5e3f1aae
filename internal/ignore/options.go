package ignore

import "github.com/bethropolis/dir-grepper/internal/utils"

// Option configures a Matcher.
type Option func(*Matcher)

// WithHiddenIgnore controls skipping of dotfiles and dot-directories.
func WithHiddenIgnore(ignore bool) Option {
	return func(m *Matcher) {
		m.ignoreHidden = ignore
	}
}

// WithGitIgnore controls skipping of .git directories.
func WithGitIgnore(ignore bool) Option {
	return func(m *Matcher) {
		m.ignoreGit = ignore
	}
}

// WithCustomRules compiles raw rule lines into the matcher's rule set.
func WithCustomRules(patterns []string) Option {
	return func(m *Matcher) {
		m.rules = ParseRules(patterns, m.logger)
	}
}

// WithLogger sets the matcher's logger.
func WithLogger(logger utils.Logger) Option {
	return func(m *Matcher) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithDisabled turns off ignore-file discovery. Custom rules and the
// hidden/.git conventions still apply.
func WithDisabled(disabled bool) Option {
	return func(m *Matcher) {
		m.disabled = disabled
	}
}
