package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/filecache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	ContendedEvery uint64
	SweptEvery     uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	contendedCtr atomic.Uint64
	sweptCtr     atomic.Uint64
}

var _ filecache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) LockContended(path string, attempt uint) {
	if h.l == nil || !sample(h.opts.ContendedEvery, &h.contendedCtr) {
		return
	}
	h.l.Debug("filecache.lock_contended",
		"path", path,
		"attempt", attempt)
}

func (h *Hooks) RetriesExhausted(op string) {
	if h.l == nil {
		return
	}
	h.l.Warn("filecache.retries_exhausted",
		"op", op)
}

func (h *Hooks) MirrorReloaded(entries int) {
	if h.l == nil {
		return
	}
	h.l.Debug("filecache.mirror_reloaded",
		"entries", entries)
}

func (h *Hooks) EntriesSwept(n int) {
	if h.l == nil || !sample(h.opts.SweptEvery, &h.sweptCtr) {
		return
	}
	h.l.Debug("filecache.entries_swept",
		"count", n)
}
