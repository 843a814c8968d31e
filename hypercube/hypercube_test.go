package hypercube

import (
	"math/bits"
	"testing"
)

func TestLexicographicOrder(t *testing.T) {
	it := NewLexicographic(3)
	for want := uint64(0); want < 8; want++ {
		p, ok := it.Next()
		if !ok {
			t.Fatalf("expected a point at %d", want)
		}
		if p.Index != want {
			t.Errorf("index = %d, want %d", p.Index, want)
		}
	}
	if _, ok := it.Next(); ok {
		t.Errorf("iterator should be exhausted after 2^3 points")
	}
}

func TestGrayCodeSuccessorDiffersByOneBit(t *testing.T) {
	it := NewGrayCode(4)
	prev, ok := it.Next()
	if !ok {
		t.Fatalf("expected first point")
	}
	count := 1
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		count++
		diff := prev.Index ^ p.Index
		if bits.OnesCount64(diff) != 1 {
			t.Errorf("gray code successor of %d (%d) differs in %d bits, want 1",
				prev.Index, p.Index, bits.OnesCount64(diff))
		}
		prev = p
	}
	if count != 16 {
		t.Errorf("visited %d points, want 16", count)
	}
}

func TestMSBOrderVisitsEachIndexOnce(t *testing.T) {
	it := NewMSBOrder(4)
	seen := make(map[uint64]bool)
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		if seen[p.Index] {
			t.Errorf("index %d visited twice", p.Index)
		}
		seen[p.Index] = true
	}
	if len(seen) != 16 {
		t.Errorf("visited %d distinct indices, want 16", len(seen))
	}
}

func TestBitsOfMSBFirst(t *testing.T) {
	p := Point{Index: 0b101, Bits: bitsOf(0b101, 3)}
	want := []bool{true, false, true}
	for i, b := range want {
		if p.Bits[i] != b {
			t.Errorf("bit %d = %v, want %v", i, p.Bits[i], b)
		}
	}
}
