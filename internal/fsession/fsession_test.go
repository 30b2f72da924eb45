package fsession

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shared.cache")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestAcquireIsExclusive(t *testing.T) {
	path := tempFile(t, "{}")

	first, err := Acquire(path, false)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}

	if _, err := Acquire(path, false); !errors.Is(err, ErrContended) {
		t.Fatalf("second Acquire: want ErrContended, got %v", err)
	}
	// Read-only acquisition contends with a writer too.
	if _, err := Acquire(path, true); !errors.Is(err, ErrContended) {
		t.Fatalf("read-only Acquire: want ErrContended, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Close released the lock.
	again, err := Acquire(path, false)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	defer again.Close()
}

func TestReadAllBounded(t *testing.T) {
	path := tempFile(t, "0123456789")

	sess, err := Acquire(path, true)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer sess.Close()

	b, err := sess.ReadAll(100)
	if err != nil || string(b) != "0123456789" {
		t.Fatalf("ReadAll: b=%q err=%v", b, err)
	}

	// Size equal to the limit already fails.
	if _, err := sess.ReadAll(10); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("ReadAll at limit: want ErrTooLarge, got %v", err)
	}
	if _, err := sess.ReadAll(5); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("ReadAll over limit: want ErrTooLarge, got %v", err)
	}

	// 0 disables the bound.
	if _, err := sess.ReadAll(0); err != nil {
		t.Fatalf("ReadAll unbounded: %v", err)
	}
}

func TestRewriteTruncates(t *testing.T) {
	path := tempFile(t, "a much longer original content")

	sess, err := Acquire(path, false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := sess.Rewrite([]byte("short")); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if err := sess.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "short" {
		t.Fatalf("leftover bytes after Rewrite: %q", b)
	}
}

func TestModTimeMovesOnRewrite(t *testing.T) {
	path := tempFile(t, "v1")

	sess, err := Acquire(path, false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer sess.Close()

	before, err := sess.ModTime()
	if err != nil {
		t.Fatalf("ModTime: %v", err)
	}
	if err := sess.Rewrite([]byte("v2 with different length")); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	after, err := sess.ModTime()
	if err != nil {
		t.Fatalf("ModTime: %v", err)
	}
	if after.Before(before) {
		t.Fatalf("modtime went backwards: %v -> %v", before, after)
	}
}
