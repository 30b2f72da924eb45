package snapshot

import (
	"errors"
	"testing"
	"time"
)

func TestDecodeEmptyBytes(t *testing.T) {
	s, swept, err := Decode(nil, time.Now())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if swept != 0 || s.Len() != 0 {
		t.Fatalf("empty bytes should decode to empty snapshot, got len=%d swept=%d", s.Len(), swept)
	}
	if s.Values == nil || s.Expirations == nil {
		t.Fatalf("maps must be non-nil")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Now()
	s := New()
	s.Put("plain", "value", time.Time{})
	s.Put("expiring", "other", now.Add(time.Hour))

	b, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, swept, err := Decode(b, now)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if swept != 0 {
		t.Fatalf("nothing should be swept, got %d", swept)
	}
	if v, ok := got.Live("plain", now); !ok || v != "value" {
		t.Fatalf("plain: ok=%v v=%q", ok, v)
	}
	if v, ok := got.Live("expiring", now); !ok || v != "other" {
		t.Fatalf("expiring: ok=%v v=%q", ok, v)
	}
	if _, ok := got.Expirations["plain"]; ok {
		t.Fatalf("plain must carry no expiration")
	}
}

func TestDecodeSweepsDueEntries(t *testing.T) {
	now := time.Now()
	s := New()
	s.Put("due", "x", now.Add(-time.Second))
	s.Put("exact", "y", now) // at the instant counts as due
	s.Put("live", "z", now.Add(time.Minute))

	b, err := s.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, swept, err := Decode(b, now)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if swept != 2 {
		t.Fatalf("want 2 swept, got %d", swept)
	}
	if got.Len() != 1 {
		t.Fatalf("want 1 surviving entry, got %d", got.Len())
	}
	if _, ok := got.Values["live"]; !ok {
		t.Fatalf("live entry must survive the sweep")
	}
	if len(got.Expirations) != 1 {
		t.Fatalf("expirations of swept entries must be dropped too: %v", got.Expirations)
	}
}

func TestDecodeDropsOrphanExpirations(t *testing.T) {
	// An expiration without a value breaks the invariant; decode repairs it.
	doc := []byte(`{"values":{"a":"1"},"expirations":{"ghost":"2099-01-01T00:00:00Z"}}`)
	s, _, err := Decode(doc, time.Now())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(s.Expirations) != 0 {
		t.Fatalf("orphan expiration survived: %v", s.Expirations)
	}
	if v, ok := s.Values["a"]; !ok || v != "1" {
		t.Fatalf("value lost during repair")
	}
}

func TestDecodeCorrupt(t *testing.T) {
	for _, doc := range []string{"not json", "[1,2,3]", `{"values": 7}`} {
		if _, _, err := Decode([]byte(doc), time.Now()); !errors.Is(err, ErrCorrupt) {
			t.Fatalf("Decode(%q): want ErrCorrupt, got %v", doc, err)
		}
	}
}

func TestLiveEnforcesExpiryWithoutMutation(t *testing.T) {
	now := time.Now()
	s := New()
	s.Put("k", "v", now.Add(10*time.Millisecond))

	if _, ok := s.Live("k", now); !ok {
		t.Fatalf("entry should be live before its instant")
	}
	later := now.Add(time.Second)
	if _, ok := s.Live("k", later); ok {
		t.Fatalf("entry should be absent after its instant")
	}
	// Live reports absence but never mutates the snapshot.
	if _, ok := s.Values["k"]; !ok {
		t.Fatalf("Live must not remove entries")
	}
	if all := s.LiveAll(later); len(all) != 0 {
		t.Fatalf("LiveAll must filter due entries, got %v", all)
	}
}

func TestPutClearsStaleExpiration(t *testing.T) {
	s := New()
	s.Put("k", "v", time.Now().Add(time.Hour))
	s.Put("k", "v2", time.Time{}) // overwrite without expiration
	if _, ok := s.Expirations["k"]; ok {
		t.Fatalf("overwrite without expiry must clear the old one")
	}
}

func TestRemoveDropsBothMappings(t *testing.T) {
	s := New()
	s.Put("k", "v", time.Now().Add(time.Hour))
	s.Remove("k")
	if len(s.Values) != 0 || len(s.Expirations) != 0 {
		t.Fatalf("Remove left residue: %v %v", s.Values, s.Expirations)
	}
	s.Remove("absent") // no-op
}
