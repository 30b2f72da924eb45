package filecache

import (
	"context"
	"time"
)

// Cache is the string-valued cache API over the shared file.
//
// Every method takes a context and is safe for concurrent use from multiple
// goroutines; processes coordinate through the file lock. Blocking callers
// pass context.Background(); cancellation is honored at every retry wait and
// before file I/O.
type Cache interface {
	// Set stores value under key with the given expiration. Fails with
	// ErrInvalidArgument on an empty key and ErrSlidingExpiry when a sliding
	// window is requested; neither performs any mutation.
	Set(ctx context.Context, key, value string, exp Expiry) error

	// Get returns (value, true, nil) when key holds a live entry and
	// ("", false, nil) when it is absent or expired. Errors are reserved for
	// store-level failures.
	Get(ctx context.Context, key string) (string, bool, error)

	// GetAll returns every live key/value pair.
	GetAll(ctx context.Context) (map[string]string, error)

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error

	// Reset replaces the whole store with an empty one.
	Reset(ctx context.Context) error

	// EnsureFile creates the shared file with an empty snapshot if it does
	// not exist yet, and leaves it untouched if it does. Run once per process
	// before the first Get/Set.
	EnsureFile(ctx context.Context) error
}

// Options tune the cache. Only Dir and FileName are required; others have
// sensible defaults.
type Options struct {
	// Required
	Dir      string // directory holding the shared file (e.g. a mounted volume)
	FileName string // name of the shared file within Dir

	Logger        Logger        // if nil, NopLogger is used
	Hooks         Hooks         // if nil, NopHooks is used
	MaxFileBytes  int64         // max tolerated encoded size; 0 => 1 MiB
	RetryAttempts uint          // total attempts per contended op; 0 => 10
	RetryDelay    time.Duration // fixed delay between attempts; 0 => 100ms
	SkipPathCheck bool          // skip the one-time Dir existence check in New
}

func New(opts Options) (Cache, error) {
	return newCache(opts)
}
