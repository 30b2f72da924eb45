// Package fsession provides exclusive access sessions over the shared cache
// file. A session couples a cross-process advisory lock with an open handle;
// releasing the session drops both. Acquisition never blocks: a lock held
// elsewhere surfaces as ErrContended for the caller's retry policy.
package fsession

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/flock"
)

var (
	// ErrContended reports that another holder (in this process or another)
	// has exclusive access to the shared file right now.
	ErrContended = errors.New("filecache: shared file is locked by another holder")

	// ErrTooLarge reports that the file content reaches or exceeds the
	// configured size limit. This is a configuration problem, not a transient
	// one: raise MaxFileBytes.
	ErrTooLarge = errors.New("filecache: shared file reaches the configured size limit; raise MaxFileBytes")
)

// Session is exclusive access to the shared file, valid until Close.
type Session struct {
	fl *flock.Flock
	f  *os.File
}

// Acquire takes the exclusive lock on path without blocking and opens it.
// Read-only sessions still take the exclusive lock: a reader mid-decode must
// deny writers, and one lock kind keeps contention classification uniform.
func Acquire(path string, readOnly bool) (*Session, error) {
	fl := flock.New(path)
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("filecache: lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrContended, path)
	}

	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		_ = fl.Unlock()
		return nil, fmt.Errorf("filecache: open %s: %w", path, err)
	}
	return &Session{fl: fl, f: f}, nil
}

// ReadAll returns the full file content. When maxBytes > 0 and the content
// size reaches or exceeds it, ReadAll fails with ErrTooLarge before reading.
func (s *Session) ReadAll(maxBytes int64) ([]byte, error) {
	st, err := s.f.Stat()
	if err != nil {
		return nil, err
	}
	if maxBytes > 0 && st.Size() >= maxBytes {
		return nil, fmt.Errorf("%w (size %d, limit %d)", ErrTooLarge, st.Size(), maxBytes)
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	b := make([]byte, st.Size())
	if _, err := io.ReadFull(s.f, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ModTime returns the file's current modification time.
func (s *Session) ModTime() (time.Time, error) {
	st, err := s.f.Stat()
	if err != nil {
		return time.Time{}, err
	}
	return st.ModTime(), nil
}

// Rewrite replaces the whole file content with b.
func (s *Session) Rewrite(b []byte) error {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if err := s.f.Truncate(0); err != nil {
		return err
	}
	if _, err := s.f.Write(b); err != nil {
		return err
	}
	return s.f.Sync()
}

// Close releases the handle and the lock. Always runs both.
func (s *Session) Close() error {
	err := s.f.Close()
	if uerr := s.fl.Unlock(); err == nil {
		err = uerr
	}
	return err
}
