package ignore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bethropolis/dir-grepper/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
)

// New creates a Matcher rooted at rootDir.
func New(rootDir string, opts ...Option) (*Matcher, error) {
	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("ignore: failed to get absolute path for rootDir '%s': %w", rootDir, err)
	}

	m := &Matcher{
		rootDir:      absRootDir,
		ignoreHidden: true,
		ignoreGit:    true,
		logger:       &utils.NoopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewFromConfig creates a Matcher from a Config struct.
func NewFromConfig(cfg Config) (*Matcher, error) {
	// Logger first so rule parsing can report malformed lines.
	var options []Option
	if cfg.Logger != nil {
		options = append(options, WithLogger(cfg.Logger))
	}
	options = append(options,
		WithHiddenIgnore(cfg.IgnoreHidden),
		WithGitIgnore(cfg.IgnoreGit),
		WithDisabled(cfg.Disabled),
	)
	if len(cfg.CustomRules) > 0 {
		options = append(options, WithCustomRules(cfg.CustomRules))
	}
	return New(cfg.RootDir, options...)
}

// init loads the repository ignore files. Custom rules were already
// compiled when their option ran.
func (m *Matcher) init() error {
	if m.disabled {
		m.logger.Debug("ignore: matcher disabled, skipping ignore-file discovery")
		return nil
	}

	// The repository matcher resolves .gitignore files lazily as paths are
	// checked, which matches git's own precedence per directory level.
	repo, err := gitignore.NewRepository(m.rootDir)
	if err != nil {
		m.logger.Warn("ignore: error loading ignore files from '%s': %v", m.rootDir, err)
		if repo == nil {
			// No ignore files at all; carry on with an empty matcher so the
			// check path never has to care.
			repo = gitignore.New(strings.NewReader(""), m.rootDir, nil)
		} else {
			return fmt.Errorf("ignore: failed to load ignore files: %w", err)
		}
	}
	m.repoIgnore = repo
	return nil
}

// Root returns the absolute root the matcher was built for.
func (m *Matcher) Root() string {
	return m.rootDir
}
