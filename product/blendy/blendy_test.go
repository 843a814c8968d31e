package blendy

import (
	"strconv"
	"testing"

	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/oracle"
	"github.com/giuliop/sumcheck/product"
	spaceprover "github.com/giuliop/sumcheck/product/space"
	timeprover "github.com/giuliop/sumcheck/product/time"
)

// scenarioPoly is the fixture polynomial
// p(x) = 4x0x1 + 7x1x2 + 2x0 + 13x1 + x3 over F19.
func scenarioPoly(f *field.Field, x0, x1, x2, x3 uint64) field.Element {
	term := func(coeff uint64, vars ...uint64) field.Element {
		acc := f.FromUint64(coeff)
		for _, v := range vars {
			acc = acc.Mul(f.FromUint64(v))
		}
		return acc
	}
	acc := term(4, x0, x1)
	acc = acc.Add(term(7, x1, x2))
	acc = acc.Add(term(2, x0))
	acc = acc.Add(term(13, x1))
	acc = acc.Add(term(1, x3))
	return acc
}

func scenarioOracle(t *testing.T, f *field.Field) oracle.Oracle {
	t.Helper()
	values := make([]field.Element, 16)
	for i := 0; i < 16; i++ {
		x0 := uint64((i >> 3) & 1)
		x1 := uint64((i >> 2) & 1)
		x2 := uint64((i >> 1) & 1)
		x3 := uint64(i & 1)
		values[i] = scenarioPoly(f, x0, x1, x2, x3)
	}
	o, err := oracle.NewMemory(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return o
}

// productClaim computes Σ P(x)·Q(x) directly, since oracle.Memory's own
// Claim() is only Σ P(x); mirrors cmd/sumcheckbench/main.go's helper of
// the same name.
func productClaim(p, q oracle.Oracle) field.Element {
	mp, ok := p.(*oracle.Memory)
	if !ok {
		panic("expected a dense oracle")
	}
	dense := mp.Dense()
	sum := dense[0].Zero()
	for i := range dense {
		sum = sum.Add(dense[i].Mul(q.Evaluate(uint64(i))))
	}
	return sum
}

func TestKnownProductTranscript(t *testing.T) {
	f := field.NewField64(19)
	challenges := []uint64{3, 4, 7}
	wantS0 := []uint64{11, 18, 18, 4}
	wantS1 := []uint64{7, 10, 5, 1}

	for _, k := range []int{1, 2, 3, 4} {
		p := scenarioOracle(t, f)
		q := scenarioOracle(t, f)
		cfg, err := product.NewConfig(productClaim(p, q), 4, p, q, product.WithNumStages(k))
		if err != nil {
			t.Fatalf("k=%d: unexpected error: %v", k, err)
		}
		prover := New(cfg)

		var challenge field.Element
		for i := 0; i < 4; i++ {
			m, ok := prover.NextMessage(challenge)
			if !ok {
				t.Fatalf("k=%d round %d: prover terminated early", k, i)
			}
			if !m.S0.Equal(f.FromUint64(wantS0[i])) || !m.S1.Equal(f.FromUint64(wantS1[i])) {
				t.Errorf("k=%d round %d = (%v, %v), want (%d, %d)",
					k, i, m.S0, m.S1, wantS0[i], wantS1[i])
			}
			if i < len(challenges) {
				challenge = f.FromUint64(challenges[i])
			}
		}
	}
}

type roundProver interface {
	NextMessage(challenge field.Element) (product.Message, bool)
}

func assertEquivalent(t *testing.T, nameA string, a roundProver, nameB string, b roundProver, challenges []uint64) {
	t.Helper()
	var chA, chB field.Element
	for i := 0; ; i++ {
		ma, oka := a.NextMessage(chA)
		mb, okb := b.NextMessage(chB)
		if oka != okb {
			t.Fatalf("round %d: %s ok=%v, %s ok=%v", i, nameA, oka, nameB, okb)
		}
		if !oka {
			return
		}
		if !ma.S0.Equal(mb.S0) || !ma.S1.Equal(mb.S1) || !ma.SHalf.Equal(mb.SHalf) {
			t.Errorf("round %d: %s=(%v,%v,%v) %s=(%v,%v,%v)",
				i, nameA, ma.S0, ma.S1, ma.SHalf, nameB, mb.S0, mb.S1, mb.SHalf)
		}
		if i < len(challenges) {
			chA = f64.FromUint64(challenges[i])
			chB = chA
		}
	}
}

var f64 = field.NewField64(19)

// TestSingleStageEqualsTimeProduct: a single-stage (k=1)
// Blendy-product prover reads the whole oracle up front just like the
// Time-product prover, so their transcripts must match exactly.
func TestSingleStageEqualsTimeProduct(t *testing.T) {
	challenges := []uint64{3, 4, 7}

	pT, qT := scenarioOracle(t, f64), scenarioOracle(t, f64)
	cfgT, _ := product.NewConfig(productClaim(pT, qT), 4, pT, qT)
	tp := timeprover.New(cfgT)

	pB, qB := scenarioOracle(t, f64), scenarioOracle(t, f64)
	cfgB, _ := product.NewConfig(productClaim(pB, qB), 4, pB, qB, product.WithNumStages(1))
	bp := New(cfgB)

	assertEquivalent(t, "time", tp, "blendy(k=1)", bp, challenges)
}

// TestEquivalentToSpaceAndTimeProduct: Time, Space, and Blendy (for
// every k) must produce identical transcripts given the same oracles
// and challenges.
func TestEquivalentToSpaceAndTimeProduct(t *testing.T) {
	challenges := []uint64{3, 4, 7}

	pT, qT := scenarioOracle(t, f64), scenarioOracle(t, f64)
	cfgT, _ := product.NewConfig(productClaim(pT, qT), 4, pT, qT)
	tp := timeprover.New(cfgT)

	pS, qS := scenarioOracle(t, f64), scenarioOracle(t, f64)
	cfgS, _ := product.NewConfig(productClaim(pS, qS), 4, pS, qS)
	sp := spaceprover.New(cfgS)

	assertEquivalent(t, "time", tp, "space", sp, challenges)

	for _, k := range []int{1, 2, 3, 4} {
		pB, qB := scenarioOracle(t, f64), scenarioOracle(t, f64)
		cfgB, _ := product.NewConfig(productClaim(pB, qB), 4, pB, qB, product.WithNumStages(k))
		bp := New(cfgB)

		pT2, qT2 := scenarioOracle(t, f64), scenarioOracle(t, f64)
		cfgT2, _ := product.NewConfig(productClaim(pT2, qT2), 4, pT2, qT2)
		tp2 := timeprover.New(cfgT2)

		assertEquivalent(t, "time", tp2, "blendy(k="+strconv.Itoa(k)+")", bp, challenges)
	}
}

// fiveVarOracle crosses a rebuild boundary mid-stage at every k in
// 1..3, exercising both the doubling-phase and the periodic-phase
// table rebuilds on a non-power-of-two-friendly variable count.
func fiveVarOracle(t *testing.T) oracle.Oracle {
	t.Helper()
	values := make([]field.Element, 32)
	for i := 0; i < 32; i++ {
		b := func(k int) uint64 { return uint64((i >> (4 - k)) & 1) }
		v := 3*b(0)*b(3) + 11*b(1) + 5*b(2)*b(4) + 7 + 2*b(4)
		values[i] = f64.FromUint64(v)
	}
	o, err := oracle.NewMemory(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return o
}

func TestFiveVariableEquivalence(t *testing.T) {
	challenges := []uint64{3, 4, 7, 2}

	for _, k := range []int{1, 2, 3} {
		pT, qT := fiveVarOracle(t), fiveVarOracle(t)
		cfgT, _ := product.NewConfig(productClaim(pT, qT), 5, pT, qT)
		tp := timeprover.New(cfgT)

		pB, qB := fiveVarOracle(t), fiveVarOracle(t)
		cfgB, _ := product.NewConfig(productClaim(pB, qB), 5, pB, qB, product.WithNumStages(k))
		bp := New(cfgB)

		assertEquivalent(t, "time", tp, "blendy(k="+strconv.Itoa(k)+")", bp, challenges)
	}
}

func TestBooleanChallengeEquivalence(t *testing.T) {
	challenges := []uint64{1, 0, 1}

	pT, qT := scenarioOracle(t, f64), scenarioOracle(t, f64)
	cfgT, _ := product.NewConfig(productClaim(pT, qT), 4, pT, qT)
	tp := timeprover.New(cfgT)

	pS, qS := scenarioOracle(t, f64), scenarioOracle(t, f64)
	cfgS, _ := product.NewConfig(productClaim(pS, qS), 4, pS, qS)
	sp := spaceprover.New(cfgS)

	assertEquivalent(t, "time", tp, "space", sp, challenges)

	for _, k := range []int{1, 2, 3} {
		pB, qB := scenarioOracle(t, f64), scenarioOracle(t, f64)
		cfgB, _ := product.NewConfig(productClaim(pB, qB), 4, pB, qB, product.WithNumStages(k))
		bp := New(cfgB)

		pT2, qT2 := scenarioOracle(t, f64), scenarioOracle(t, f64)
		cfgT2, _ := product.NewConfig(productClaim(pT2, qT2), 4, pT2, qT2)
		tp2 := timeprover.New(cfgT2)

		assertEquivalent(t, "time", tp2, "blendy(k="+strconv.Itoa(k)+")", bp, challenges)
	}
}
