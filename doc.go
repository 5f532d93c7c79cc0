// Package modelcompat explores which hardware models are compatible across
// an ordered catalog of versioned snapshots.
//
// An Explorer loads the catalog once and then answers three questions:
//
//   - Single: which models does one version support?
//   - Intersect: which models are supported by every version of a range?
//   - Difference: which models were dropped between two versions?
//
// # Quick Start
//
//	ctx := context.Background()
//	store := blobstore.NewLocalStore("./data")
//
//	ex, err := modelcompat.New(ctx,
//	    catalog.NewBlobSource(store, "index.json"),
//	    snapshot.NewBlobLoader(store),
//	)
//	if err != nil {
//	    log.Fatal(err) // *CatalogLoadError
//	}
//
//	view, _ := ex.Intersect(ctx, 0, ex.Catalog().Len()-1)
//	if w := view.Warning(); w != "" {
//	    fmt.Println(w)
//	}
//	_ = render.Text(os.Stdout, view, time.Now())
//
// # Cloud mode
//
//	s3Store, _ := s3.New(ctx, "compat-data", s3.WithPrefix("snapshots/"))
//	cached := blobstore.NewCachingStore(s3Store, blobstore.DefaultCacheCapacity, nil)
//	ex, _ := modelcompat.New(ctx, catalog.NewBlobSource(cached, ""), snapshot.NewBlobLoader(cached))
//
// # Partial failure
//
// A snapshot that fails to load never aborts a range intersection: it is
// excluded, named in View.FailedSources and the rest of the range is still
// intersected. A difference or single view needs its snapshots and returns
// a *SnapshotLoadError instead.
//
// # Sequencing
//
// Operations may run concurrently. Each is tagged with a sequence number
// when issued and only the most recently issued operation publishes its
// result to Current; older results come back with Superseded set.
package modelcompat
