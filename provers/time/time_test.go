package time

import (
	"testing"

	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/oracle"
	"github.com/giuliop/sumcheck/provers"
)

// scenarioPoly is the fixture polynomial
// p(x0,x1,x2) = 4x0x1 + 7x1x2 + 2x0 + 13x1 over F19.
func scenarioPoly(f *field.Field, x0, x1, x2 uint64) field.Element {
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
	return acc
}

func scenarioOracle(t *testing.T, f *field.Field) oracle.Oracle {
	t.Helper()
	values := make([]field.Element, 8)
	for i := 0; i < 8; i++ {
		x0 := uint64((i >> 2) & 1)
		x1 := uint64((i >> 1) & 1)
		x2 := uint64(i & 1)
		values[i] = scenarioPoly(f, x0, x1, x2)
	}
	o, err := oracle.NewMemory(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return o
}

func runScenario(t *testing.T, f *field.Field, challenges []uint64) []provers.Message {
	t.Helper()
	o := scenarioOracle(t, f)
	cfg, err := provers.NewConfig(o.Claim(), 3, o)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := New(cfg)

	var got []provers.Message
	var challenge field.Element
	for i := 0; ; i++ {
		m, ok := p.NextMessage(challenge)
		if !ok {
			break
		}
		got = append(got, m)
		if i < len(challenges) {
			challenge = f.FromUint64(challenges[i])
		}
	}
	return got
}

func checkMessage(t *testing.T, round int, got provers.Message, s0, s1 uint64, f *field.Field) {
	t.Helper()
	if !got.S0.Equal(f.FromUint64(s0)) || !got.S1.Equal(f.FromUint64(s1)) {
		t.Errorf("round %d = (%v, %v), want (%d, %d)", round, got.S0, got.S1, s0, s1)
	}
}

func TestAllOnesChallengeTranscript(t *testing.T) {
	f := field.NewField64(19)
	got := runScenario(t, f, []uint64{1, 1})
	if len(got) != 3 {
		t.Fatalf("got %d rounds, want 3", len(got))
	}
	checkMessage(t, 0, got[0], 14, 11, f)
	checkMessage(t, 1, got[1], 4, 7, f)
	checkMessage(t, 2, got[2], 0, 7, f)
}

func TestNonBooleanChallengeTranscript(t *testing.T) {
	f := field.NewField64(19)
	got := runScenario(t, f, []uint64{3, 4})
	if len(got) != 3 {
		t.Fatalf("got %d rounds, want 3", len(got))
	}
	checkMessage(t, 0, got[0], 14, 11, f)
	checkMessage(t, 1, got[1], 12, 12, f)
	checkMessage(t, 2, got[2], 11, 1, f)
}

func TestNextMessageTerminatesAfterNumVariables(t *testing.T) {
	f := field.NewField64(19)
	o := scenarioOracle(t, f)
	cfg, _ := provers.NewConfig(o.Claim(), 3, o)
	p := New(cfg)

	var challenge field.Element
	count := 0
	for {
		_, ok := p.NextMessage(challenge)
		if !ok {
			break
		}
		count++
		challenge = f.FromUint64(uint64(count + 1))
	}
	if count != 3 {
		t.Errorf("prover produced %d messages, want 3", count)
	}
	if _, ok := p.NextMessage(challenge); ok {
		t.Errorf("prover should stay exhausted after returning false once")
	}
}

func TestFirstRoundEqualsClaimHalves(t *testing.T) {
	f := field.NewField64(19)
	o := scenarioOracle(t, f)
	cfg, _ := provers.NewConfig(o.Claim(), 3, o)
	p := New(cfg)
	m, _ := p.NextMessage(nil)
	if !m.S0.Add(m.S1).Equal(o.Claim()) {
		t.Errorf("s0+s1 = %v, want claim %v", m.S0.Add(m.S1), o.Claim())
	}
}
