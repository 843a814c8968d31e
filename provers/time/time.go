// Package time implements the classical VSBW prover: a dense evaluation
// table halved in place once per round. It is the simplest of the three
// provers and needs no Lagrange iterator, at the cost of O(2^n) memory.
package time

import (
	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/internal/parallel"
	"github.com/giuliop/sumcheck/oracle"
	"github.com/giuliop/sumcheck/provers"
)

// Prover is the VSBW (Vu-Setty-Blumberg-Walfish-style) table-halving
// sumcheck prover.
type Prover struct {
	cfg   provers.Config
	n     int
	round int
	table []field.Element // nil until round 1's first halving
}

// New builds a Time prover over cfg. cfg must already be validated by
// provers.NewConfig.
func New(cfg provers.Config) *Prover {
	return &Prover{cfg: cfg, n: cfg.NumVariables}
}

// Claim returns the asserted hypercube sum.
func (p *Prover) Claim() field.Element { return p.cfg.Claim }

// NumVariables returns n, the number of rounds this prover runs for.
func (p *Prover) NumVariables() int { return p.n }

// NextMessage produces round p.round's (s0, s1), halving the table in
// place using challenge when round > 0. It returns ok = false exactly
// after NumVariables calls.
func (p *Prover) NextMessage(challenge field.Element) (provers.Message, bool) {
	if p.round >= p.n {
		return provers.Message{}, false
	}
	j := p.round
	zero := p.cfg.Claim.Zero()

	if j > 0 {
		p.halve(challenge)
	}

	size := uint64(1) << uint(p.n-j)
	bit := size / 2

	var s0, s1 field.Element
	if p.table == nil {
		s0, s1 = parallel.SplitSum(size, bit, zero, p.cfg.Stream.Evaluate)
	} else {
		table := p.table
		s0, s1 = parallel.SplitSum(size, bit, zero, func(i uint64) field.Element {
			return table[i]
		})
	}

	p.round++
	p.cfg.Logger.Debug().
		Int("round", j).
		Str("s0", s0.String()).
		Str("s1", s1.String()).
		Msg("time prover round")
	return provers.Message{S0: s0, S1: s1}, true
}

// halve builds the table from the oracle on its first invocation, then
// reduces table[i] <- table[i]*(1-r) + table[i|size]*r for every i in
// [0, size), where size is the post-halving length.
func (p *Prover) halve(r field.Element) {
	if p.table == nil {
		full := make([]field.Element, uint64(1)<<uint(p.n))
		if mem, ok := p.cfg.Stream.(*oracle.Memory); ok {
			copy(full, mem.Dense())
		} else {
			stream := p.cfg.Stream
			parallel.For(uint64(1)<<uint(p.n), func(start, end uint64) {
				for i := start; i < end; i++ {
					full[i] = stream.Evaluate(i)
				}
			})
		}
		p.table = full
	}

	size := uint64(len(p.table)) / 2
	hat := r.One().Sub(r)
	table := p.table
	parallel.For(size, func(start, end uint64) {
		for i := start; i < end; i++ {
			table[i] = table[i].Mul(hat).Add(table[i+size].Mul(r))
		}
	})
	p.table = table[:size]
}
