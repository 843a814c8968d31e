// Package time implements the Time-product prover: two dense
// evaluation tables (one per oracle), halved together each round,
// exactly like the single-oracle Time prover but producing a
// three-point (degree-2) round message.
package time

import (
	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/internal/parallel"
	"github.com/giuliop/sumcheck/oracle"
	"github.com/giuliop/sumcheck/product"
)

// Prover is the Time-product sumcheck prover.
type Prover struct {
	cfg     product.Config
	n       int
	round   int
	tableP  []field.Element
	tableQ  []field.Element
	invFour field.Element
}

// New builds a Time-product prover over cfg. cfg must already be
// validated by product.NewConfig.
func New(cfg product.Config) *Prover {
	half := cfg.Claim.Half()
	return &Prover{cfg: cfg, n: cfg.NumVariables, invFour: half.Mul(half)}
}

// Claim returns the asserted Σ P·Q.
func (p *Prover) Claim() field.Element { return p.cfg.Claim }

// NumVariables returns n, the number of rounds this prover runs for.
func (p *Prover) NumVariables() int { return p.n }

// NextMessage produces round p.round's (s0, s1, sHalf), halving both
// tables in place using challenge when round > 0.
func (p *Prover) NextMessage(challenge field.Element) (product.Message, bool) {
	if p.round >= p.n {
		return product.Message{}, false
	}
	j := p.round
	zero := p.cfg.Claim.Zero()

	if j > 0 {
		p.halve(challenge)
	}

	size := uint64(1) << uint(p.n-j)
	bit := size / 2

	var fp, fq func(i uint64) field.Element
	if p.tableP == nil {
		fp, fq = p.cfg.StreamP.Evaluate, p.cfg.StreamQ.Evaluate
	} else {
		tp, tq := p.tableP, p.tableQ
		fp = func(i uint64) field.Element { return tp[i] }
		fq = func(i uint64) field.Element { return tq[i] }
	}

	s0, s1, sHalfRaw := parallel.SplitProductSum(bit, zero, fp, fq)
	sHalf := sHalfRaw.Mul(p.invFour)

	p.round++
	p.cfg.Logger.Debug().
		Int("round", j).
		Str("s0", s0.String()).
		Str("s1", s1.String()).
		Str("s_half", sHalf.String()).
		Msg("time-product prover round")
	return product.Message{S0: s0, S1: s1, SHalf: sHalf}, true
}

// halve builds both tables from their oracles on first invocation,
// then reduces each in place exactly like the single-oracle Time
// prover's halving step.
func (p *Prover) halve(r field.Element) {
	if p.tableP == nil {
		p.tableP = denseOf(p.cfg.StreamP, p.n)
		p.tableQ = denseOf(p.cfg.StreamQ, p.n)
	}

	size := uint64(len(p.tableP)) / 2
	hat := r.One().Sub(r)
	reduce := func(table []field.Element) []field.Element {
		parallel.For(size, func(start, end uint64) {
			for i := start; i < end; i++ {
				table[i] = table[i].Mul(hat).Add(table[i+size].Mul(r))
			}
		})
		return table[:size]
	}
	p.tableP = reduce(p.tableP)
	p.tableQ = reduce(p.tableQ)
}

func denseOf(o oracle.Oracle, n int) []field.Element {
	if mem, ok := o.(*oracle.Memory); ok {
		full := make([]field.Element, len(mem.Dense()))
		copy(full, mem.Dense())
		return full
	}
	full := make([]field.Element, uint64(1)<<uint(n))
	parallel.For(uint64(1)<<uint(n), func(start, end uint64) {
		for i := start; i < end; i++ {
			full[i] = o.Evaluate(i)
		}
	})
	return full
}
