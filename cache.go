package filecache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/unkn0wn-root/filecache/internal/fsession"
	"github.com/unkn0wn-root/filecache/internal/snapshot"
)

const (
	defaultMaxFileBytes  = int64(1 << 20)
	defaultRetryAttempts = uint(10)
	defaultRetryDelay    = 100 * time.Millisecond
)

type cache struct {
	path          string
	maxFileBytes  int64
	retryAttempts uint
	retryDelay    time.Duration
	log           Logger
	hooks         Hooks
	mirror        mirror
}

func newCache(opts Options) (*cache, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("filecache: dir is required")
	}
	if opts.FileName == "" {
		return nil, fmt.Errorf("filecache: file name is required")
	}
	if !opts.SkipPathCheck {
		st, err := os.Stat(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("filecache: cache dir: %w", err)
		}
		if !st.IsDir() {
			return nil, fmt.Errorf("filecache: cache dir %s is not a directory", opts.Dir)
		}
	}

	c := &cache{path: filepath.Join(opts.Dir, opts.FileName)}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.maxFileBytes = coalesce(opts.MaxFileBytes, defaultMaxFileBytes)
	c.retryAttempts = coalesce(opts.RetryAttempts, defaultRetryAttempts)
	c.retryDelay = coalesce(opts.RetryDelay, defaultRetryDelay)

	return c, nil
}

func (c *cache) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrInvalidArgument
	}
	snap, err := c.view(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok := snap.Live(key, time.Now())
	return v, ok, nil
}

func (c *cache) GetAll(ctx context.Context) (map[string]string, error) {
	snap, err := c.view(ctx)
	if err != nil {
		return nil, err
	}
	return snap.LiveAll(time.Now()), nil
}

func (c *cache) Set(ctx context.Context, key, value string, exp Expiry) error {
	if key == "" {
		return ErrInvalidArgument
	}
	if exp.sliding {
		return ErrSlidingExpiry
	}
	deadline := exp.deadline(time.Now())
	err := c.mutate(ctx, "set", true, func(s *snapshot.Snapshot) {
		s.Put(key, value, deadline)
	})
	if err == nil {
		c.log.Debug("set", Fields{"key": key, "expires": !deadline.IsZero()})
	}
	return err
}

func (c *cache) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidArgument
	}
	err := c.mutate(ctx, "remove", true, func(s *snapshot.Snapshot) {
		s.Remove(key)
	})
	if err == nil {
		c.log.Debug("removed", Fields{"key": key})
	}
	return err
}

func (c *cache) Reset(ctx context.Context) error {
	// Starts from an empty snapshot; the current file content is irrelevant
	// and is not decoded.
	err := c.mutate(ctx, "reset", false, func(*snapshot.Snapshot) {})
	if err == nil {
		c.log.Info("store reset", Fields{"path": c.path})
	}
	return err
}

// EnsureFile bootstraps the shared file. Create-only-if-absent semantics:
// when two processes race here, the loser's create fails instead of
// truncating the winner's file. The empty snapshot is seeded under the file
// lock like every other write, and only while the file is still empty, so a
// transaction that slipped in between create and seed keeps its document.
func (c *cache) EnsureFile(ctx context.Context) error {
	empty, err := snapshot.New().Encode()
	if err != nil {
		return err
	}
	return c.withRetry(ctx, "bootstrap", func() error {
		f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		if err != nil {
			return err
		}
		// A zero-length file already decodes as an empty snapshot, so the
		// store is valid from this point on even if the seed below never
		// lands.
		if err := f.Close(); err != nil {
			return err
		}

		sess, err := fsession.Acquire(c.path, false)
		if err != nil {
			return err
		}
		defer sess.Close()

		b, err := sess.ReadAll(c.maxFileBytes)
		if err != nil {
			return err
		}
		if len(b) > 0 {
			// Another process wrote first; its document wins.
			return nil
		}
		if err := sess.Rewrite(empty); err != nil {
			return err
		}
		c.log.Info("created shared file", Fields{"path": c.path})
		return nil
	})
}

// view returns a snapshot to read from: the mirror when it is fresh against
// the file's current modtime, otherwise the result of a reload.
func (c *cache) view(ctx context.Context) (*snapshot.Snapshot, error) {
	st, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("filecache: stat shared file (run EnsureFile first?): %w", err)
	}
	if snap, ok := c.mirror.current(st.ModTime()); ok {
		return snap, nil
	}
	return c.reload(ctx)
}

// reload is the read protocol: exclusive session, bounded read, decode with
// sweep, install into the mirror together with the session's modtime.
func (c *cache) reload(ctx context.Context) (*snapshot.Snapshot, error) {
	var snap *snapshot.Snapshot
	err := c.withRetry(ctx, "reload", func() error {
		sess, err := fsession.Acquire(c.path, true)
		if err != nil {
			return err
		}
		defer sess.Close()

		b, err := sess.ReadAll(c.maxFileBytes)
		if err != nil {
			return err
		}
		mt, err := sess.ModTime()
		if err != nil {
			return err
		}
		s, swept, err := snapshot.Decode(b, time.Now())
		if err != nil {
			return err
		}
		if swept > 0 {
			c.hooks.EntriesSwept(swept)
		}
		c.mirror.install(s, mt)
		c.hooks.MirrorReloaded(s.Len())
		snap = s
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLockContended) {
			c.hooks.RetriesExhausted("reload")
			c.log.Warn("reload gave up; shared file still locked", Fields{"path": c.path})
		}
		return nil, err
	}
	return snap, nil
}

// mutate is the write protocol: one exclusive-lock read-modify-write cycle.
// The critical section spans read, mutation and rewrite, so a competing
// process can never act on a mid-transaction state - its own acquire fails
// as contended until the lock is released. When fromFile is false the
// mutation starts from an empty snapshot and the file is not decoded.
func (c *cache) mutate(ctx context.Context, op string, fromFile bool, mut func(*snapshot.Snapshot)) error {
	err := c.withRetry(ctx, op, func() error {
		sess, err := fsession.Acquire(c.path, false)
		if err != nil {
			return err
		}
		defer sess.Close()

		snap := snapshot.New()
		if fromFile {
			b, err := sess.ReadAll(c.maxFileBytes)
			if err != nil {
				return err
			}
			var swept int
			snap, swept, err = snapshot.Decode(b, time.Now())
			if err != nil {
				return err
			}
			if swept > 0 {
				c.hooks.EntriesSwept(swept)
			}
		}
		mut(snap)

		// Install before the physical write: same-process readers see the
		// new state immediately, while other processes are still blocked on
		// the lock until the rewrite below completes.
		c.mirror.installLocal(snap)

		b, err := snap.Encode()
		if err != nil {
			return err
		}
		return sess.Rewrite(b)
	})
	if err != nil && errors.Is(err, ErrLockContended) {
		c.hooks.RetriesExhausted(op)
		c.log.Warn("write gave up; shared file still locked",
			Fields{"op": op, "path": c.path})
	}
	return err
}
