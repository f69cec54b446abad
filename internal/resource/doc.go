// Package resource bounds the memory and concurrency of clustering runs.
//
// A Controller tracks two resources:
//
//   - Memory: the N²-sized buffers of a run (distance storage, the linkage
//     working copy and cached artifacts) are reserved up front. Reservation
//     is non-blocking and fails with ErrMemoryLimitExceeded.
//   - Run slots: the number of pipelines executing at once. Acquiring a slot
//     blocks until one is free or the context is done.
//
// # Usage
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:  2 << 30,
//	    MaxConcurrentRuns: 1,
//	})
//
//	if err := rc.AcquireRun(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseRun()
//
//	release, err := rc.Reserve(condensed.Length(n) * 4)
//	if err != nil {
//	    return err // ErrMemoryLimitExceeded
//	}
//	defer release()
//
// All methods are safe for concurrent use. A nil *Controller imposes no
// limits.
package resource
