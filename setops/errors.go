package setops

import (
	"fmt"
)

// SnapshotLoadError reports a snapshot that could not be loaded.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type SnapshotLoadError struct {
	SourceID string
	cause    error
}

// NewSnapshotLoadError wraps cause for sourceID.
func NewSnapshotLoadError(sourceID string, cause error) *SnapshotLoadError {
	return &SnapshotLoadError{SourceID: sourceID, cause: cause}
}

func (e *SnapshotLoadError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("failed to load %s", e.SourceID)
	}
	return fmt.Sprintf("failed to load %s: %v", e.SourceID, e.cause)
}

func (e *SnapshotLoadError) Unwrap() error { return e.cause }
