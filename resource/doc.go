// Package resource bounds the resources shared by concurrent operations.
//
// A Controller charges cached blob bytes against an optional limit and
// gates snapshot fetches with a concurrency limit and a start-rate limit.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:     64 << 20,
//	    MaxConcurrentFetches: 8,
//	    FetchesPerSecond:     20,
//	})
//	if err := rc.AcquireFetch(ctx); err != nil { ... }
//	defer rc.ReleaseFetch()
package resource
