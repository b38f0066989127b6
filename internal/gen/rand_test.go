package gen

import "testing"

func TestStreamDeterminism(t *testing.T) {
	a, b := NewStream(42), NewStream(42)
	for i := 0; i < 100; i++ {
		if x, y := a.Intn(1000), b.Intn(1000); x != y {
			t.Fatalf("streams with equal seeds diverged at draw %d: %d vs %d", i, x, y)
		}
	}
}

func TestIntRangeBounds(t *testing.T) {
	s := NewStream(5)
	for i := 0; i < 1000; i++ {
		if v := s.IntRange(3, 7); v < 3 || v >= 7 {
			t.Fatalf("IntRange(3, 7) produced %d", v)
		}
	}
	for i := 0; i < 1000; i++ {
		if v := s.IntInclusive(0, 2); v < 0 || v > 2 {
			t.Fatalf("IntInclusive(0, 2) produced %d", v)
		}
	}
}

func TestIntRangeEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected a panic for an empty range")
		}
	}()
	NewStream(6).IntRange(4, 4)
}
