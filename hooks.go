package filecache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// Exclusive access was denied and a retry is scheduled.
	// attempt counts from 1.
	LockContended(path string, attempt uint)

	// Every retry attempt for op failed with the lock still held elsewhere.
	// op ∈ {"set", "remove", "reset", "reload", "bootstrap"}
	RetriesExhausted(op string)

	// The local mirror was reloaded from the file. entries is the post-sweep
	// entry count.
	MirrorReloaded(entries int)

	// A decode dropped n expired entries.
	EntriesSwept(n int)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) LockContended(string, uint) {}
func (NopHooks) RetriesExhausted(string)    {}
func (NopHooks) MirrorReloaded(int)         {}
func (NopHooks) EntriesSwept(int)           {}
