package walker

import (
	"context"
	"strings"

	"github.com/bethropolis/dir-grepper/internal/utils"
)

// WalkOptions configures a Walk call.
type WalkOptions struct {
	Logger       utils.Logger
	Recursive    bool
	MaxFileSize  int64
	ExtensionMap map[string]struct{}
	Context      context.Context
}

func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:      &utils.NoopLogger{},
		Recursive:   true,
		MaxFileSize: 0, // no limit
		Context:     context.Background(),
	}
}

// Option is a functional option for configuring WalkOptions.
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker.
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithRecursive controls whether subdirectories of the root are entered.
func WithRecursive(recursive bool) Option {
	return func(opts *WalkOptions) {
		opts.Recursive = recursive
	}
}

// WithMaxFileSize sets the maximum file size to read in bytes.
func WithMaxFileSize(maxBytes int64) Option {
	return func(opts *WalkOptions) {
		opts.MaxFileSize = maxBytes
	}
}

// WithExtensions limits candidates to the given extensions (without dot).
func WithExtensions(extensions []string) Option {
	return func(opts *WalkOptions) {
		extMap := make(map[string]struct{}, len(extensions))
		for _, ext := range extensions {
			extMap[strings.TrimPrefix(ext, ".")] = struct{}{}
		}
		opts.ExtensionMap = extMap
	}
}

// WithContext sets the context used to cancel the walk.
func WithContext(ctx context.Context) Option {
	return func(opts *WalkOptions) {
		if ctx != nil {
			opts.Context = ctx
		}
	}
}
