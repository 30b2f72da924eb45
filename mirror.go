package filecache

import (
	"sync"
	"time"

	"github.com/unkn0wn-root/filecache/internal/snapshot"
)

// mirror is the per-process copy of the last loaded snapshot plus the file
// timestamp it was loaded at. It is stale when the file's current modtime
// differs from the stamp, and before the first load.
//
// Installed snapshots are read-only from the moment they are installed:
// writers always install a freshly decoded snapshot rather than mutating the
// held one, so readers may keep using a returned snapshot without locks.
type mirror struct {
	mu     sync.Mutex
	snap   *snapshot.Snapshot
	stamp  time.Time
	loaded bool
}

// current returns the held snapshot iff it is fresh against modTime.
func (m *mirror) current(modTime time.Time) (*snapshot.Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded || !m.stamp.Equal(modTime) {
		return nil, false
	}
	return m.snap, true
}

// install records a snapshot loaded from the file at modTime.
func (m *mirror) install(s *snapshot.Snapshot, modTime time.Time) {
	m.mu.Lock()
	m.snap, m.stamp, m.loaded = s, modTime, true
	m.mu.Unlock()
}

// installLocal records a snapshot this process is about to write. The stamp
// is the current time, not the file modtime: the physical write has not
// happened yet, and any externally observed modtime change can only be
// newer, so a mismatch errs toward an extra reload, never a stale read.
func (m *mirror) installLocal(s *snapshot.Snapshot) {
	m.mu.Lock()
	m.snap, m.stamp, m.loaded = s, time.Now(), true
	m.mu.Unlock()
}
