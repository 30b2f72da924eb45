package filecache

import "time"

// Expiry selects how long a value stays visible. The zero value never
// expires. Only absolute expirations are supported: a duration resolved
// against the clock when Set runs, or an explicit instant.
type Expiry struct {
	ttl     time.Duration
	at      time.Time
	sliding bool
}

// NoExpiry keeps the entry until it is removed or overwritten.
func NoExpiry() Expiry { return Expiry{} }

// ExpireIn expires the entry ttl from the moment Set runs. A non-positive
// ttl resolves to an already-past instant, so the entry is absent
// immediately, same as ExpireAt with a past instant.
func ExpireIn(ttl time.Duration) Expiry { return Expiry{ttl: ttl} }

// ExpireAt expires the entry at the given instant.
func ExpireAt(at time.Time) Expiry { return Expiry{at: at} }

// SlidingExpiry requests a sliding window. Set always rejects it with
// ErrSlidingExpiry.
func SlidingExpiry(window time.Duration) Expiry {
	return Expiry{ttl: window, sliding: true}
}

// deadline resolves the absolute expiration instant. Zero means none.
func (e Expiry) deadline(now time.Time) time.Time {
	switch {
	case !e.at.IsZero():
		return e.at.UTC()
	case e.ttl != 0:
		return now.Add(e.ttl).UTC()
	default:
		return time.Time{}
	}
}
