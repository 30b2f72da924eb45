// Package snapshot encodes and decodes the shared cache file document: one
// JSON object with a value mapping and an expiration mapping. The document is
// always read and written as a single atomic unit.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorrupt reports file content that does not parse as a cache document.
var ErrCorrupt = errors.New("filecache: shared file content is not a valid cache document")

// Snapshot is the complete decoded cache state at one point in time.
// Invariant: every key in Expirations also exists in Values.
type Snapshot struct {
	Values      map[string]string    `json:"values"`
	Expirations map[string]time.Time `json:"expirations"`
}

func New() *Snapshot {
	return &Snapshot{
		Values:      make(map[string]string),
		Expirations: make(map[string]time.Time),
	}
}

// Decode parses b and sweeps entries expired at now, returning the number of
// swept entries. Zero bytes decode as an empty snapshot. Expiration entries
// without a matching value are dropped to restore the invariant.
func Decode(b []byte, now time.Time) (*Snapshot, int, error) {
	s := New()
	if len(b) == 0 {
		return s, 0, nil
	}
	if err := json.Unmarshal(b, s); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	if s.Expirations == nil {
		s.Expirations = make(map[string]time.Time)
	}
	for k := range s.Expirations {
		if _, ok := s.Values[k]; !ok {
			delete(s.Expirations, k)
		}
	}
	return s, s.Sweep(now), nil
}

// Encode renders the document. Indented so operators can inspect the file.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Sweep removes every entry whose expiration instant is at or before now.
func (s *Snapshot) Sweep(now time.Time) int {
	n := 0
	for k, at := range s.Expirations {
		if !at.After(now) {
			delete(s.Values, k)
			delete(s.Expirations, k)
			n++
		}
	}
	return n
}

// Put upserts key. A zero expireAt clears any previous expiration.
func (s *Snapshot) Put(key, value string, expireAt time.Time) {
	s.Values[key] = value
	if expireAt.IsZero() {
		delete(s.Expirations, key)
	} else {
		s.Expirations[key] = expireAt.UTC()
	}
}

// Remove drops key from both mappings. No-op when absent.
func (s *Snapshot) Remove(key string) {
	delete(s.Values, key)
	delete(s.Expirations, key)
}

// Live returns the value for key unless it is absent or expired at now.
// Expiry is enforced here on every read, so a due entry is reported absent
// even before a write transaction physically erases it from the file.
func (s *Snapshot) Live(key string, now time.Time) (string, bool) {
	v, ok := s.Values[key]
	if !ok {
		return "", false
	}
	if at, ok := s.Expirations[key]; ok && !at.After(now) {
		return "", false
	}
	return v, true
}

// LiveAll returns a fresh map of every entry not expired at now.
func (s *Snapshot) LiveAll(now time.Time) map[string]string {
	out := make(map[string]string, len(s.Values))
	for k, v := range s.Values {
		if at, ok := s.Expirations[k]; ok && !at.After(now) {
			continue
		}
		out[k] = v
	}
	return out
}

// Len is the number of stored entries, expired or not.
func (s *Snapshot) Len() int { return len(s.Values) }
