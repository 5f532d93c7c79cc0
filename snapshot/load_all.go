package snapshot

import (
	"context"

	"github.com/hupe1980/modelcompat/model"
	"github.com/hupe1980/modelcompat/resource"
	"golang.org/x/sync/errgroup"
)

// LoadAll loads every source concurrently and waits for all of them.
//
// The result has one snapshot per source in input order, regardless of the
// order in which loads complete. rc bounds concurrent fetches; nil means
// unbounded. A load that cannot acquire a fetch slot before ctx is done is
// reported as failed.
func LoadAll(ctx context.Context, loader Loader, sourceIDs []string, rc *resource.Controller) []model.Snapshot {
	out := make([]model.Snapshot, len(sourceIDs))

	var g errgroup.Group
	for i, id := range sourceIDs {
		g.Go(func() error {
			if err := rc.AcquireFetch(ctx); err != nil {
				out[i] = model.Failed(id, err)
				return nil
			}
			defer rc.ReleaseFetch()

			out[i] = loader.Load(ctx, id)
			if out[i].SourceID == "" {
				out[i].SourceID = id
			}
			return nil
		})
	}
	_ = g.Wait()

	return out
}
