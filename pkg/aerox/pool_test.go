package aerox

import (
	"testing"
	"time"
)

func TestPoolRemoveIdempotent(t *testing.T) {
	p := NewConnectionPool()
	p.Remove(999) // absent id, must not panic or error

	p.Add(1, "127.0.0.1:1", time.Now())
	if !p.Contains(1) {
		t.Fatalf("Contains(1) = false after Add")
	}
	p.Remove(1)
	if p.Contains(1) {
		t.Fatalf("Contains(1) = true after Remove")
	}
	p.Remove(1) // second remove, still idempotent
}

func TestPoolCleanupIdle(t *testing.T) {
	p := NewConnectionPool()
	base := time.Now()

	p.Add(1, "a", base.Add(-time.Hour))
	p.Add(2, "b", base)

	removed := p.CleanupIdle(base, 30*time.Minute)
	if removed != 1 {
		t.Fatalf("CleanupIdle removed = %d, want 1", removed)
	}
	if p.Contains(1) {
		t.Fatalf("connection 1 should have been reaped")
	}
	if !p.Contains(2) {
		t.Fatalf("connection 2 should still be present")
	}
}

func TestPoolCleanupIdleTouchResets(t *testing.T) {
	p := NewConnectionPool()
	base := time.Now()
	p.Add(1, "a", base.Add(-time.Hour))
	p.Touch(1, base)

	removed := p.CleanupIdle(base, 30*time.Minute)
	if removed != 0 {
		t.Fatalf("CleanupIdle removed = %d, want 0 after touch", removed)
	}
}

func TestPoolLenAndIsEmpty(t *testing.T) {
	p := NewConnectionPool()
	if !p.IsEmpty() {
		t.Fatalf("new pool should be empty")
	}
	p.Add(1, "a", time.Now())
	if p.IsEmpty() || p.Len() != 1 {
		t.Fatalf("pool len = %d, want 1", p.Len())
	}
}
