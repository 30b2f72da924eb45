// Package asynchook decouples hook callbacks from the cache's hot paths:
// events are queued and delivered by worker goroutines, and dropped when the
// queue is full rather than blocking a transaction.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{ContendedEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := filecache.New(filecache.Options{
//	    Dir:      dir,
//	    FileName: "app.cache",
//	    Hooks:    hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/filecache"
)

type Hooks struct {
	inner filecache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ filecache.Hooks = (*Hooks)(nil)

func New(inner filecache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) LockContended(path string, attempt uint) {
	h.try(func() { h.inner.LockContended(path, attempt) })
}
func (h *Hooks) RetriesExhausted(op string) { h.try(func() { h.inner.RetriesExhausted(op) }) }
func (h *Hooks) MirrorReloaded(entries int) { h.try(func() { h.inner.MirrorReloaded(entries) }) }
func (h *Hooks) EntriesSwept(n int)         { h.try(func() { h.inner.EntriesSwept(n) }) }
