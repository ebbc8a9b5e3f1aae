// Package walker enumerates candidate files beneath a root path.
package walker

// WalkFunc receives each candidate file. content is nil when err is
// non-nil; returning an error stops the walk.
type WalkFunc func(relativePath string, content []byte, err error) error

// SkippedReason clarifies why a path was not handed to the callback.
type SkippedReason string

const (
	ReasonIgnoredRule       SkippedReason = "Ignored (Ignore/Custom Rule)"
	ReasonFilteredExtension SkippedReason = "Filtered (Extension Mismatch)"
	ReasonSkippedSizeLimit  SkippedReason = "Skipped (Size Limit Exceeded)"
	ReasonSkippedNotRegular SkippedReason = "Skipped (Not a Regular File)"
	ReasonSkippedPermError  SkippedReason = "Skipped (Permission Error)"
	ReasonSkippedWalkError  SkippedReason = "Skipped (Walk Error)"
	ReasonSkippedReadError  SkippedReason = "Skipped (Read Error)"
	ReasonSkippedWriteError SkippedReason = "Skipped (Write Error)"
	ReasonSkippedPathError  SkippedReason = "Skipped (Path Calculation Error)"
)

// SkippedItem records one path the walk passed over and why. Recoverable
// per-entry failures end up here instead of aborting the walk.
type SkippedItem struct {
	Path   string        `json:"path"`
	Reason SkippedReason `json:"reason"`
	IsDir  bool          `json:"is_dir"`
}

// skippedTracker accumulates skipped items during a walk.
type skippedTracker struct {
	items []SkippedItem
}

func newSkippedTracker(capacity int) *skippedTracker {
	return &skippedTracker{items: make([]SkippedItem, 0, capacity)}
}

func (st *skippedTracker) track(path string, reason SkippedReason, isDir bool) {
	st.items = append(st.items, SkippedItem{Path: path, Reason: reason, IsDir: isDir})
}
