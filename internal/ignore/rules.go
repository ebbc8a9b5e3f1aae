package ignore

import (
	"path"
	"strings"

	"github.com/bethropolis/dir-grepper/internal/utils"
	"github.com/danwakefield/fnmatch"
)

// ParseRules compiles raw rule lines into a RuleSet. Blank lines and
// comments are dropped; a malformed rule is skipped on its own so the rest
// of the set still applies.
func ParseRules(lines []string, logger utils.Logger) RuleSet {
	if logger == nil {
		logger = &utils.NoopLogger{}
	}
	rules := make(RuleSet, 0, len(lines))
	for _, raw := range lines {
		rule, ok := parseRule(raw)
		if !ok {
			if strings.TrimSpace(raw) != "" && !strings.HasPrefix(strings.TrimSpace(raw), "#") {
				logger.Warn("ignore: skipping malformed rule %q", raw)
			}
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

// parseRule compiles a single rule line.
func parseRule(raw string) (Rule, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return Rule{}, false
	}

	var rule Rule
	if strings.HasPrefix(line, "!") {
		rule.Negated = true
		line = strings.TrimSpace(line[1:])
	}
	if strings.HasSuffix(line, "/") {
		rule.DirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if line == "" {
		return Rule{}, false
	}
	rule.Pattern = line
	return rule, true
}

// Matches reports whether the rule applies to the slash-separated relative
// path. A pattern containing a separator is matched against the whole path;
// a bare pattern is matched against the base name, like gitignore does.
func (r Rule) Matches(unixPath string, isDir bool) bool {
	if r.DirOnly && !isDir {
		return false
	}
	if strings.ContainsRune(r.Pattern, '/') {
		pat := strings.TrimPrefix(r.Pattern, "/")
		return fnmatch.Match(pat, unixPath, 0)
	}
	if fnmatch.Match(r.Pattern, path.Base(unixPath), 0) {
		return true
	}
	// A bare pattern also excludes everything beneath a matching directory.
	for _, part := range strings.Split(path.Dir(unixPath), "/") {
		if part != "." && fnmatch.Match(r.Pattern, part, 0) {
			return true
		}
	}
	return false
}

// Match runs the set against a path. The second return is false when no
// rule matched at all; otherwise the first return is the verdict of the
// last matching rule (true = skip, false = keep).
func (rs RuleSet) Match(unixPath string, isDir bool) (skip, matched bool) {
	for _, r := range rs {
		if r.Matches(unixPath, isDir) {
			skip = !r.Negated
			matched = true
		}
	}
	return skip, matched
}
