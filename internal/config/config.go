// Package config parses command-line flags into the run configuration.
package config

import (
	"flag"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// Config holds all application configuration settings. The search core
// receives these values already parsed; nothing in it re-reads flags.
type Config struct {
	// What to search for and where
	Pattern string
	RootDir string

	// Search behavior
	Replace      string
	ReplaceSet   bool
	FilenameMode bool
	Recursive    bool
	IgnoreCase   bool

	// Filtering settings
	RespectIgnore bool
	IgnoreHidden  bool
	IgnoreGit     bool
	CustomIgnore  string
	Extensions    string
	MaxFileSizeMB int64

	// Logging and output
	Verbose     bool
	Quiet       bool
	LogLevel    string
	NoColor     bool
	UseColors   bool
	OutputFile  string
	JSONOutput  bool
	ShowSkipped bool
	Timeout     time.Duration

	// Stdin mode, selected when no directory is given and input is piped
	ReadStdin bool

	ShowVersion bool
	Version     string
}

// New creates a Config from command-line flags.
func New() *Config {
	c := &Config{
		Version: "1.0.0",
	}

	flag.StringVar(&c.Pattern, "pattern", "", "The pattern to search for (literals, . \\d \\D \\w \\W \\s \\S, anchors ^ $, quantifiers * + ?)")
	flag.StringVar(&c.RootDir, "dir", "", "The file or directory to search (default: current directory, or stdin when piped)")
	flag.StringVar(&c.Replace, "replace", "", "Replace every match with this text and rewrite the files")
	flag.BoolVar(&c.FilenameMode, "filename", false, "Match the pattern against file names instead of content")
	flag.BoolVar(&c.Recursive, "recursive", true, "Descend into subdirectories")
	flag.BoolVar(&c.IgnoreCase, "ignore-case", false, "Case-insensitive matching (ASCII)")
	flag.BoolVar(&c.RespectIgnore, "respect-ignore", true, "Respect .gitignore files found while walking")
	flag.BoolVar(&c.IgnoreHidden, "hidden", true, "Skip hidden files/directories (starting with '.')")
	flag.BoolVar(&c.IgnoreGit, "git", true, "Skip .git directories")
	flag.StringVar(&c.CustomIgnore, "ignore", "", "Custom ignore rules (comma-separated, gitignore syntax)")
	flag.StringVar(&c.Extensions, "ext", "", "Only search files with these extensions (comma-separated, e.g. 'go,md,txt')")
	flag.Int64Var(&c.MaxFileSizeMB, "max-size", 0, "Max file size to search in MB (0 = no limit)")
	flag.BoolVar(&c.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&c.Quiet, "quiet", false, "Suppress INFO messages (only show WARN, ERROR)")
	flag.StringVar(&c.LogLevel, "log-level", "", "Set the logging level (DEBUG, INFO, WARN, ERROR)")
	flag.BoolVar(&c.NoColor, "no-color", false, "Disable color output")
	flag.StringVar(&c.OutputFile, "output", "", "Output to file instead of stdout")
	flag.BoolVar(&c.JSONOutput, "json", false, "Output results in JSON format")
	flag.BoolVar(&c.ShowSkipped, "show-skipped", false, "List skipped files/directories and reasons at the end")
	flag.DurationVar(&c.Timeout, "timeout", 0, "Maximum execution time (e.g. '30s', '5m')")
	flag.BoolVar(&c.ShowVersion, "version", false, "Show version information")

	flag.Parse()

	c.ReplaceSet = flagWasSet("replace")

	// No explicit root and piped input means stdin mode.
	if c.RootDir == "" {
		if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			c.ReadStdin = true
		} else {
			c.RootDir = "."
		}
	}

	c.UseColors = !c.NoColor && isatty.IsTerminal(os.Stdout.Fd()) && c.OutputFile == "" && !c.JSONOutput

	return c
}

// flagWasSet reports whether a flag appeared on the command line, so an
// empty -replace value still counts as replace mode.
func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
