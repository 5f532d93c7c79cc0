package modelcompat

import (
	"errors"
	"fmt"

	"github.com/hupe1980/modelcompat/setops"
)

var (
	// ErrIndexOutOfRange is returned when a catalog index does not exist.
	ErrIndexOutOfRange = errors.New("catalog index out of range")

	// ErrEmptyResult is returned when exporting a view without models.
	ErrEmptyResult = errors.New("no models to export")
)

// SnapshotLoadError reports a snapshot that could not be loaded.
type SnapshotLoadError = setops.SnapshotLoadError

// CatalogLoadError indicates the catalog could not be loaded. It is fatal:
// no operation can run without a catalog.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type CatalogLoadError struct {
	cause error
}

func (e *CatalogLoadError) Error() string {
	return fmt.Sprintf("failed to load catalog: %v", e.cause)
}

func (e *CatalogLoadError) Unwrap() error { return e.cause }

// IndexError reports a catalog index outside [0, Len).
// It matches ErrIndexOutOfRange with errors.Is.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: %d not in [0, %d)", ErrIndexOutOfRange, e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }
