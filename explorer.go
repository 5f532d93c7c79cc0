package modelcompat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/modelcompat/catalog"
	"github.com/hupe1980/modelcompat/model"
	"github.com/hupe1980/modelcompat/setops"
	"github.com/hupe1980/modelcompat/snapshot"
)

// Mode is the kind of operation that produced a View.
type Mode int

const (
	// ModeSingle shows the models of one version.
	ModeSingle Mode = iota + 1
	// ModeRange shows the models present in every version of a range.
	ModeRange
	// ModeDifference shows the models dropped between two versions.
	ModeDifference
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeRange:
		return "range"
	case ModeDifference:
		return "difference"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// View is one computed result together with the versions it covers.
type View struct {
	// Seq is the sequence number assigned when the operation was issued.
	Seq  uint64
	Mode Mode
	// Versions holds the selected version (single), every version of the
	// range in catalog order (range), or older and newer (difference).
	Versions []model.VersionDescriptor
	Models   model.ResultSet
	// FailedSources names the snapshots excluded from a range.
	FailedSources []string
	// Superseded is set when a newer operation was issued before this one
	// finished; such a view is never published.
	Superseded bool
	ComputedAt time.Time
}

// Degraded reports whether some snapshots of the range failed to load.
func (v View) Degraded() bool {
	return len(v.FailedSources) > 0
}

// Warning returns the degraded-result message, or "" if nothing failed.
func (v View) Warning() string {
	if !v.Degraded() {
		return ""
	}
	return "Failed to load: " + strings.Join(v.FailedSources, ", ") + ". Range results may be incomplete."
}

// Filename returns the conventional export file name of the view.
func (v View) Filename() string {
	return ExportFilename(v.Mode, v.Versions...)
}

// Explorer runs set operations over the snapshots of a catalog and holds
// the latest published result.
//
// Every operation is tagged with a sequence number when it is issued. A
// result is published only if no newer operation was issued in the
// meantime, so a slow stale load can never overwrite a fresher view.
// Explorer is safe for concurrent use.
type Explorer struct {
	catalog *catalog.Catalog
	loader  snapshot.Loader
	opts    options

	seq atomic.Uint64

	mu        sync.RWMutex
	current   View
	published bool
}

// New loads the catalog from src and creates an Explorer.
// A catalog that cannot be loaded yields a *CatalogLoadError.
func New(ctx context.Context, src catalog.Source, loader snapshot.Loader, optFns ...Option) (*Explorer, error) {
	o := applyOptions(optFns)

	c, err := src.Load(ctx)
	o.logger.LogCatalog(ctx, catalogLen(c), err)
	if err != nil {
		return nil, &CatalogLoadError{cause: err}
	}

	return &Explorer{
		catalog: c,
		loader:  &instrumentedLoader{loader: loader, opts: &o},
		opts:    o,
	}, nil
}

func catalogLen(c *catalog.Catalog) int {
	if c == nil {
		return 0
	}
	return c.Len()
}

// Catalog returns the catalog the explorer was created with.
func (e *Explorer) Catalog() *catalog.Catalog {
	return e.catalog
}

// Current returns the latest published view. ok is false until the first
// operation completes successfully.
func (e *Explorer) Current() (View, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current, e.published
}

// LatestSeq returns the sequence number of the most recently issued
// operation.
func (e *Explorer) LatestSeq() uint64 {
	return e.seq.Load()
}

// Single loads one version. A failed load returns a *SnapshotLoadError.
func (e *Explorer) Single(ctx context.Context, idx int) (View, error) {
	if err := e.checkIndex(idx); err != nil {
		return View{}, err
	}

	start := time.Now()
	v := e.issue(ModeSingle, e.catalog.Slice(idx, idx))

	snap := e.loader.Load(ctx, v.Versions[0].SourceID)
	if !snap.OK() {
		err := setops.NewSnapshotLoadError(snap.SourceID, snap.Err)
		e.opts.logger.WithSeq(v.Seq).LogSingle(ctx, idx, 0, err)
		e.opts.metricsCollector.RecordSingle(0, time.Since(start), err)
		return v, err
	}

	v.Models = setops.Sort(snap.Models)
	e.opts.logger.WithSeq(v.Seq).LogSingle(ctx, idx, len(v.Models), nil)
	e.opts.metricsCollector.RecordSingle(len(v.Models), time.Since(start), nil)

	return e.publish(ctx, v), nil
}

// Intersect computes the models present in every version of the inclusive
// range. Inverted bounds are swapped. Snapshots that fail to load are
// excluded and reported in FailedSources.
func (e *Explorer) Intersect(ctx context.Context, minIdx, maxIdx int) (View, error) {
	minIdx, maxIdx = catalog.NormalizeRange(minIdx, maxIdx)
	if err := e.checkIndex(minIdx); err != nil {
		return View{}, err
	}
	if err := e.checkIndex(maxIdx); err != nil {
		return View{}, err
	}

	start := time.Now()
	v := e.issue(ModeRange, e.catalog.Slice(minIdx, maxIdx))

	snaps := snapshot.LoadAll(ctx, e.loader, sourceIDs(v.Versions), e.opts.resource)
	res := setops.Intersect(snaps)

	v.Models = res.Models
	v.FailedSources = res.FailedSources
	e.opts.logger.WithSeq(v.Seq).LogIntersect(ctx, minIdx, maxIdx, len(v.Models), v.FailedSources)
	e.opts.metricsCollector.RecordIntersect(len(v.Versions), len(v.FailedSources), len(v.Models), time.Since(start))

	return e.publish(ctx, v), nil
}

// Difference computes the models of olderIdx that are absent from newerIdx.
// Both snapshots must load; otherwise a *SnapshotLoadError names the first
// failing source. The indices are not required to be in catalog order.
func (e *Explorer) Difference(ctx context.Context, olderIdx, newerIdx int) (View, error) {
	if err := e.checkIndex(olderIdx); err != nil {
		return View{}, err
	}
	if err := e.checkIndex(newerIdx); err != nil {
		return View{}, err
	}

	older, _ := e.catalog.At(olderIdx)
	newer, _ := e.catalog.At(newerIdx)

	start := time.Now()
	v := e.issue(ModeDifference, []model.VersionDescriptor{older, newer})

	snaps := snapshot.LoadAll(ctx, e.loader, sourceIDs(v.Versions), e.opts.resource)
	models, err := setops.Difference(snaps[0], snaps[1])
	e.opts.logger.WithSeq(v.Seq).LogDifference(ctx, olderIdx, newerIdx, len(models), err)
	e.opts.metricsCollector.RecordDifference(len(models), time.Since(start), err)
	if err != nil {
		return v, err
	}

	v.Models = models
	return e.publish(ctx, v), nil
}

func (e *Explorer) checkIndex(idx int) error {
	if idx < 0 || idx >= e.catalog.Len() {
		return &IndexError{Index: idx, Len: e.catalog.Len()}
	}
	return nil
}

// issue tags a new operation with the next sequence number.
func (e *Explorer) issue(mode Mode, versions []model.VersionDescriptor) View {
	return View{
		Seq:      e.seq.Add(1),
		Mode:     mode,
		Versions: versions,
	}
}

// publish stores v as the current view unless a newer operation has been
// issued since v was.
func (e *Explorer) publish(ctx context.Context, v View) View {
	v.ComputedAt = e.opts.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	if latest := e.seq.Load(); v.Seq != latest {
		v.Superseded = true
		e.opts.logger.LogSuperseded(ctx, v.Seq, latest)
		e.opts.metricsCollector.RecordSuperseded()
		return v
	}

	e.current = v
	e.published = true
	return v
}

func sourceIDs(versions []model.VersionDescriptor) []string {
	ids := make([]string, len(versions))
	for i, v := range versions {
		ids[i] = v.SourceID
	}
	return ids
}

// instrumentedLoader records timing and failures of every load.
type instrumentedLoader struct {
	loader snapshot.Loader
	opts   *options
}

func (l *instrumentedLoader) Load(ctx context.Context, sourceID string) model.Snapshot {
	start := time.Now()
	snap := l.loader.Load(ctx, sourceID)
	l.opts.metricsCollector.RecordLoad(time.Since(start), snap.Err)
	l.opts.logger.LogLoad(ctx, sourceID, len(snap.Models), snap.Err)
	return snap
}
