package lagrange

import (
	"testing"

	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/verifiermsg"
)

func bitsOf(p uint64, m int) []bool {
	b := make([]bool, m)
	for i := 0; i < m; i++ {
		shift := m - 1 - i
		b[i] = (p>>uint(shift))&1 == 1
	}
	return b
}

func receiveAll(f *field.Field, rs []uint64) (*verifiermsg.State, []field.Element, []field.Element) {
	s := verifiermsg.New(f)
	messages := make([]field.Element, len(rs))
	hats := make([]field.Element, len(rs))
	for i, r := range rs {
		e := f.FromUint64(r)
		s.Receive(e)
		messages[i] = e
		hats[i] = f.One().Sub(e)
	}
	return s, messages, hats
}

// assertMatchesPoly walks the iterator to exhaustion and checks every
// emitted (position, weight) pair against the direct product.
func assertMatchesPoly(t *testing.T, f *field.Field, rs []uint64) {
	t.Helper()
	s, messages, hats := receiveAll(f, rs)
	it := New(s, f.Zero())
	m := len(rs)
	seen := make(map[uint64]bool)
	for step := uint64(0); step < uint64(1)<<uint(m); step++ {
		pos, val, ok := it.Next()
		if !ok {
			t.Fatalf("rs=%v: iterator ended early at step %d", rs, step)
		}
		if seen[pos] {
			t.Fatalf("rs=%v: position %d visited twice", rs, pos)
		}
		seen[pos] = true
		want := Poly(messages, hats, bitsOf(pos, m))
		if !val.Equal(want) {
			t.Errorf("rs=%v pos=%d: got %v, want %v", rs, pos, val, want)
		}
	}
	if _, _, ok := it.Next(); ok {
		t.Errorf("rs=%v: iterator should be exhausted after 2^m values", rs)
	}
}

func TestIteratorMatchesPolyNonBoolean(t *testing.T) {
	f := field.NewField64(19)
	assertMatchesPoly(t, f, []uint64{3, 4, 7})
	assertMatchesPoly(t, f, []uint64{13, 5, 2, 9})
}

func TestIteratorMatchesPolyWithBooleanChallenges(t *testing.T) {
	f := field.NewField64(19)
	// Exact 0/1 challenges force bits; the tricky runs are the mixed
	// ones, where the iterator resumes a nonzero value after skipping
	// a stretch of conflicting positions.
	assertMatchesPoly(t, f, []uint64{1, 5})
	assertMatchesPoly(t, f, []uint64{0, 1, 1})
	assertMatchesPoly(t, f, []uint64{13, 0, 7})
	assertMatchesPoly(t, f, []uint64{2, 0, 1, 5})
	assertMatchesPoly(t, f, []uint64{1, 1, 1})
	assertMatchesPoly(t, f, []uint64{0})
	assertMatchesPoly(t, f, []uint64{1})
}

func TestIteratorExhaustiveSmallTriples(t *testing.T) {
	f := field.NewField64(19)
	pool := []uint64{0, 1, 2, 5, 18}
	for _, a := range pool {
		for _, b := range pool {
			for _, c := range pool {
				assertMatchesPoly(t, f, []uint64{a, b, c})
			}
		}
	}
}

func TestIteratorEmptyStateEmitsOne(t *testing.T) {
	f := field.NewField64(19)
	s := verifiermsg.New(f)
	it := New(s, f.Zero())
	pos, val, ok := it.Next()
	if !ok || pos != 0 || !val.IsOne() {
		t.Fatalf("empty state: got (%d, %v, %v), want (0, 1, true)", pos, val, ok)
	}
	if _, _, ok := it.Next(); ok {
		t.Errorf("empty state iterator should emit exactly one value")
	}
}
