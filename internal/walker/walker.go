package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bethropolis/dir-grepper/internal/ignore"
)

// Walk enumerates candidate files under root and hands each one to walkFn,
// one at a time and in lexical directory order, so two runs over an
// unmodified tree always yield the same sequence. Root may be a single
// regular file or a directory.
//
// Per-entry failures (permissions, vanished entries, unreadable files) are
// recorded as SkippedItems and the walk continues; only an error returned
// by walkFn or a cancelled context stops it.
func Walk(root string, matcher *ignore.Matcher, walkFn WalkFunc, opts ...Option) ([]SkippedItem, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("walker: failed to get absolute path for '%s': %w", root, err)
	}

	tracker := newSkippedTracker(16)

	info, err := os.Stat(absRoot)
	if err != nil {
		return tracker.items, fmt.Errorf("walker: cannot stat '%s': %w", root, err)
	}

	// A file root is a walk of exactly one candidate, still vetted against
	// the rules visible from its directory.
	if !info.IsDir() {
		base := filepath.Base(absRoot)
		if matcher.ShouldIgnore(base, false) {
			options.Logger.Debug("walker: root file %q ignored by rules", base)
			tracker.track(base, ReasonIgnoredRule, false)
			return tracker.items, nil
		}
		err := processFile(absRoot, base, options, walkFn, tracker)
		return tracker.items, err
	}

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, entryErr error) error {
		select {
		case <-options.Context.Done():
			return options.Context.Err()
		default:
		}

		isDir := d != nil && d.IsDir()

		relativePath, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			options.Logger.Error("walker: path calculation failed for %q: %v", path, relErr)
			tracker.track(path, ReasonSkippedPathError, isDir)
			return nil
		}

		// Permission problems and entries that vanished mid-walk are
		// per-entry failures, never fatal to the walk itself.
		if entryErr != nil {
			reason := ReasonSkippedWalkError
			if os.IsPermission(entryErr) {
				reason = ReasonSkippedPermError
			}
			options.Logger.Warn("walker: error at %q: %v", relativePath, entryErr)
			tracker.track(relativePath, reason, isDir)
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		if relativePath == "." {
			return nil
		}

		if matcher.ShouldIgnore(relativePath, isDir) {
			options.Logger.Debug("walker: %q pruned by ignore rules", relativePath)
			tracker.track(relativePath, ReasonIgnoredRule, isDir)
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		if isDir {
			if !options.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if len(options.ExtensionMap) > 0 {
			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(relativePath), "."))
			if _, allowed := options.ExtensionMap[ext]; !allowed {
				tracker.track(relativePath, ReasonFilteredExtension, false)
				return nil
			}
		}

		return processFile(path, filepath.ToSlash(relativePath), options, walkFn, tracker)
	})

	return tracker.items, walkErr
}

// processFile reads one candidate and hands it to walkFn. Each file is
// fully read and delivered before the next candidate is considered.
func processFile(path, relativePath string, options WalkOptions, walkFn WalkFunc, tracker *skippedTracker) error {
	if options.MaxFileSize > 0 {
		info, err := os.Lstat(path)
		if err != nil {
			tracker.track(relativePath, ReasonSkippedReadError, false)
			return walkFn(relativePath, nil, fmt.Errorf("failed to stat file: %w", err))
		}
		if !info.Mode().IsRegular() {
			tracker.track(relativePath, ReasonSkippedNotRegular, false)
			return nil
		}
		if info.Size() > options.MaxFileSize {
			options.Logger.Debug("walker: skipping %q, %d bytes over limit %d", relativePath, info.Size(), options.MaxFileSize)
			tracker.track(relativePath, ReasonSkippedSizeLimit, false)
			return nil
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		options.Logger.Warn("walker: failed to read %q: %v", relativePath, err)
		tracker.track(relativePath, ReasonSkippedReadError, false)
		return walkFn(relativePath, nil, fmt.Errorf("failed to read file: %w", err))
	}

	return walkFn(relativePath, content, nil)
}
