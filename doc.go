// Package filecache implements a key/value cache with expiration shared by
// multiple independent processes on one machine, coordinated through a single
// file on a shared filesystem. No cache server, no network protocol: the file
// is the store, and cross-process mutual exclusion rides on exclusive file
// locks.
//
// Components:
//   - File transaction engine: every mutation is an exclusive-lock
//     read-modify-write cycle over the whole file, so two processes can never
//     lose each other's updates.
//   - Snapshot codec: the file holds one JSON document (values + absolute
//     expirations); expired entries are swept on every decode.
//   - Local mirror: a per-process copy of the last loaded snapshot, refreshed
//     only when the file's modtime moves, so reads stay off the disk.
//   - Retry policy: lock contention is transient; contended operations are
//     retried a bounded number of times with a fixed delay.
//
// Usage:
//
//	cache, _ := filecache.New(filecache.Options{
//	    Dir:      "/mnt/shared",
//	    FileName: "app.cache",
//	})
//	_ = cache.EnsureFile(ctx) // once, at startup
//	_ = cache.Set(ctx, "session:42", payload, filecache.ExpireIn(10*time.Minute))
//	v, ok, _ := cache.Get(ctx, "session:42")
//
// Only absolute expirations are supported. Sliding expiration would require a
// write transaction on every read and is rejected with ErrSlidingExpiry.
//
// Correctness depends on every participating process sharing one filesystem
// with working advisory lock semantics. This is not a distributed lock
// service.
package filecache
