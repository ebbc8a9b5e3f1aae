// Package app wires configuration, pattern compilation, search and output
// together into the runnable application.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bethropolis/dir-grepper/internal/config"
	"github.com/bethropolis/dir-grepper/internal/ignore"
	"github.com/bethropolis/dir-grepper/internal/logger"
	"github.com/bethropolis/dir-grepper/internal/pattern"
	"github.com/bethropolis/dir-grepper/internal/printer"
	"github.com/bethropolis/dir-grepper/internal/search"
	"github.com/bethropolis/dir-grepper/internal/walker"
	"github.com/fatih/color"
)

// App encapsulates the main application functionality.
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	Output io.Writer
}

// New creates an App instance from the parsed configuration.
func New(cfg *config.Config) *App {
	color.NoColor = !cfg.UseColors

	var output io.Writer = os.Stdout
	if cfg.OutputFile != "" {
		file, err := os.Create(cfg.OutputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to create output file: %v\n", err)
			os.Exit(1)
		}
		// closed by main
		output = file
	}

	log := logger.New(os.Stderr, cfg.Verbose, cfg.UseColors)
	if cfg.LogLevel != "" {
		log.SetLevel(cfg.LogLevel)
	} else if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}

	return &App{
		cfg:    cfg,
		log:    log,
		Output: output,
	}
}

// Run executes the search and returns the process exit code: 0 when at
// least one match was found, 1 when none were, 2 on a fatal error.
func (a *App) Run() int {
	startTime := time.Now()

	if a.cfg.ShowVersion {
		fmt.Printf("dir-grepper version %s\n", a.cfg.Version)
		return 0
	}

	if a.cfg.Pattern == "" {
		fmt.Fprintln(os.Stderr, "Usage: dir-grepper -pattern <pattern> [-dir <path>] [options]")
		return 2
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if a.cfg.Timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), a.cfg.Timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	defer cancel()

	infoLog := func(format string, args ...interface{}) {
		if !a.cfg.Quiet {
			a.log.Info(format, args...)
		}
	}

	// --- Compile the pattern: fatal before any I/O ---
	src := a.cfg.Pattern
	if a.cfg.IgnoreCase {
		src = search.FoldPattern(src)
	}
	pat, err := pattern.Compile(src)
	if err != nil {
		a.log.Error("Invalid pattern %q: %v", a.cfg.Pattern, err)
		return 2
	}

	opts := search.Options{
		Recursive:   a.cfg.Recursive,
		IgnoreCase:  a.cfg.IgnoreCase,
		MaxFileSize: a.cfg.MaxFileSizeMB * 1024 * 1024,
		Logger:      a.log,
		Context:     ctx,
	}
	if a.cfg.FilenameMode {
		opts.Mode = search.ModeFilename
	}
	if a.cfg.ReplaceSet {
		if a.cfg.FilenameMode {
			a.log.Error("-replace cannot be combined with -filename")
			return 2
		}
		if a.cfg.ReadStdin {
			a.log.Error("-replace requires a file or directory to rewrite")
			return 2
		}
		repl := a.cfg.Replace
		opts.Replace = &repl
	}
	if a.cfg.Extensions != "" {
		for _, ext := range strings.Split(a.cfg.Extensions, ",") {
			if clean := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, "."))); clean != "" {
				opts.Extensions = append(opts.Extensions, clean)
			}
		}
		infoLog("Filtering enabled. Only including extensions: %s", strings.Join(opts.Extensions, ", "))
	}

	searcher := search.New(pat, opts)

	p := printer.New()
	p.WithOutput(a.Output)
	p.WithColors(a.cfg.UseColors)
	if a.cfg.JSONOutput {
		p.WithJSON(true)
		p.WithColors(false)
	}

	onResult := func(res search.Result) error {
		p.PrintResult(res)
		return nil
	}
	onReplace := func(out search.ReplaceOutcome) error {
		p.PrintReplace(out)
		return nil
	}

	// --- Stdin mode bypasses the walker entirely ---
	if a.cfg.ReadStdin {
		sum, err := searcher.SearchReader("<stdin>", os.Stdin, onResult)
		p.Finalize()
		if err != nil {
			a.log.Error("Error searching standard input: %v", err)
			return 2
		}
		return exitCode(sum)
	}

	// --- Validate the root ---
	rootInfo, err := os.Stat(a.cfg.RootDir)
	if err != nil {
		if os.IsNotExist(err) {
			a.log.Error("Search root '%s' not found.", a.cfg.RootDir)
		} else {
			a.log.Error("Could not access search root '%s': %v", a.cfg.RootDir, err)
		}
		return 2
	}

	// --- Build the ignore matcher ---
	var customRules []string
	if a.cfg.CustomIgnore != "" {
		for _, rule := range strings.Split(a.cfg.CustomIgnore, ",") {
			customRules = append(customRules, strings.TrimSpace(rule))
		}
		infoLog("Using custom ignore rules: %v", customRules)
	}

	ignoreOptions := []ignore.Option{
		ignore.WithLogger(a.log),
		ignore.WithHiddenIgnore(a.cfg.IgnoreHidden),
		ignore.WithGitIgnore(a.cfg.IgnoreGit),
		ignore.WithDisabled(!a.cfg.RespectIgnore),
	}
	if len(customRules) > 0 {
		ignoreOptions = append(ignoreOptions, ignore.WithCustomRules(customRules))
	}

	// A file root draws its ignore rules from the containing directory.
	matcherRoot := a.cfg.RootDir
	if !rootInfo.IsDir() {
		matcherRoot = filepath.Dir(a.cfg.RootDir)
	}
	matcher, err := ignore.New(matcherRoot, ignoreOptions...)
	if err != nil {
		a.log.Error("Error initializing ignore rules: %v", err)
		return 2
	}

	infoLog("Searching %s for pattern %q", a.cfg.RootDir, a.cfg.Pattern)

	sum, err := searcher.Search(a.cfg.RootDir, matcher, onResult, onReplace)
	p.Finalize()
	if err != nil {
		a.log.Error("Critical error during search: %v", err)
		return 2
	}

	duration := time.Since(startTime)
	if a.cfg.ReplaceSet {
		infoLog("Made %d replacement(s) across %d file(s) in %v.",
			sum.Replacements, sum.MatchedFiles, duration.Round(time.Millisecond))
	} else {
		infoLog("Found %d match(es) in %d of %d file(s) in %v.",
			sum.Matches, sum.MatchedFiles, sum.Files, duration.Round(time.Millisecond))
	}

	if a.cfg.ShowSkipped {
		a.displaySkipped(sum.Skipped, infoLog)
	}

	return exitCode(sum)
}

// displaySkipped lists every path the run passed over and why.
func (a *App) displaySkipped(items []walker.SkippedItem, infoLog func(string, ...interface{})) {
	infoLog("--- Skipped Items (%d) ---", len(items))
	if len(items) == 0 {
		infoLog("No items were skipped.")
		return
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Path < items[j].Path
	})
	for _, item := range items {
		typeStr := "FILE"
		if item.IsDir {
			typeStr = "DIR "
		}
		fmt.Fprintf(os.Stderr, "Skipped %s: %-.*s [%s]\n", typeStr, 50, item.Path, item.Reason)
	}
}

func exitCode(sum search.Summary) int {
	if sum.Matches > 0 {
		return 0
	}
	return 1
}
