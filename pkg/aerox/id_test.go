package aerox

import "testing"

func TestIDGenMonotonic(t *testing.T) {
	g := &IDGen{}
	first := g.Next()
	second := g.Next()
	if first != 1 {
		t.Fatalf("first id = %d, want 1", first)
	}
	if second <= first {
		t.Fatalf("second id %d not greater than first %d", second, first)
	}
}

func TestIDGenNoRepeats(t *testing.T) {
	g := &IDGen{}
	seen := make(map[ConnectionID]bool)
	for i := 0; i < 1000; i++ {
		id := g.Next()
		if seen[id] {
			t.Fatalf("id %d repeated", id)
		}
		seen[id] = true
	}
}
