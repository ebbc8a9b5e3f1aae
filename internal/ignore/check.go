package ignore

import (
	"path/filepath"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
)

// ShouldIgnore reports whether a path (relative to the matcher's root)
// should be excluded. The root itself is never excluded.
//
// Precedence: command-line rules decide first when any of them matches
// (later rules and negations override earlier ones), then the hidden/.git
// conventions, then the repository ignore files — where a negated rule in a
// deeper file un-skips a path a shallower rule would exclude.
func (m *Matcher) ShouldIgnore(relativePath string, isDir bool) bool {
	if m == nil {
		return false
	}
	if relativePath == "" || relativePath == "." {
		return false
	}

	unixPath := filepath.ToSlash(relativePath)

	if skip, matched := m.rules.Match(unixPath, isDir); matched {
		m.logger.Debug("ignore: %q decided by custom rules (skip=%v)", unixPath, skip)
		return skip
	}

	if m.ignoreHidden && hasHiddenComponent(unixPath) {
		m.logger.Debug("ignore: %q skipped (hidden)", unixPath)
		return true
	}

	if m.ignoreGit && isPathInGitDir(unixPath, isDir) {
		m.logger.Debug("ignore: %q skipped (.git)", unixPath)
		return true
	}

	if m.disabled || m.repoIgnore == nil {
		return false
	}

	// Relative walks the .gitignore files along the path, so a negation in
	// a deeper file overrides a rule in a shallower one. Only the Match
	// family is repository-aware; Ignore/Include on a repository matcher
	// consult no patterns at all.
	var match gitignore.Match
	// The library can panic on odd patterns; treat that as "no verdict".
	func() {
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("ignore: recovered panic while matching %q: %v", unixPath, r)
				match = nil
			}
		}()
		match = m.repoIgnore.Relative(relativePath, isDir)
	}()

	if match != nil && match.Ignore() {
		m.logger.Debug("ignore: %q skipped (ignore file rule)", unixPath)
		return true
	}
	return false
}

// hasHiddenComponent reports whether any path component starts with a dot.
func hasHiddenComponent(unixPath string) bool {
	for _, part := range strings.Split(unixPath, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// isPathInGitDir reports whether the path is a .git directory or inside one.
func isPathInGitDir(unixPath string, isDir bool) bool {
	parts := strings.Split(unixPath, "/")
	for i, part := range parts {
		if part == ".git" && (isDir || i < len(parts)-1) {
			return true
		}
	}
	return false
}
