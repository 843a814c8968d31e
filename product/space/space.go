// Package space implements the streaming product prover: a dual pass
// over both oracles with no mutable table and O(n) memory, at the cost
// of a full 2^n pass over each oracle per round.
package space

import (
	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/hypercube"
	"github.com/giuliop/sumcheck/lagrange"
	"github.com/giuliop/sumcheck/product"
	"github.com/giuliop/sumcheck/verifiermsg"
)

// Prover is the CTY-style streaming product prover.
type Prover struct {
	cfg     product.Config
	n       int
	round   int
	v       *verifiermsg.State
	invFour field.Element
}

// New builds a Space-product prover over cfg. cfg must already be
// validated by product.NewConfig.
func New(cfg product.Config) *Prover {
	half := cfg.Claim.Half()
	return &Prover{cfg: cfg, n: cfg.NumVariables, v: verifiermsg.New(cfg.Claim), invFour: half.Mul(half)}
}

// Claim returns the asserted Σ P·Q.
func (p *Prover) Claim() field.Element { return p.cfg.Claim }

// NumVariables returns n, the number of rounds this prover runs for.
func (p *Prover) NumVariables() int { return p.n }

// NextMessage computes round p.round's (s0, s1, sHalf). For each
// setting of the variables below the current one (traversed in MSB
// order, so a streaming oracle is read with the free variable at the
// top), it folds the already-fixed prefix into partial evaluations of
// each oracle's multilinear extension at the free variable's 0 and 1
// poles, then accumulates the three products. Unlike the single-oracle
// prover the prefix weights cannot be distributed into the sum: each
// round value is a product of two folded sums, not a sum of folded
// products.
func (p *Prover) NextMessage(challenge field.Element) (product.Message, bool) {
	if p.round >= p.n {
		return product.Message{}, false
	}
	if challenge != nil {
		p.v.Receive(challenge)
	}
	j := p.round
	zero := p.cfg.Claim.Zero()
	freeBits := p.n - j
	halfBit := uint64(1) << uint(freeBits-1)
	streamP, streamQ := p.cfg.StreamP, p.cfg.StreamQ

	s0, s1, sHalfRaw := zero, zero, zero
	suffixes := hypercube.NewMSBOrder(freeBits - 1)
	for {
		pt, ok := suffixes.Next()
		if !ok {
			break
		}
		b := pt.Index
		p0, p1, q0, q1 := zero, zero, zero, zero
		lagIt := lagrange.New(p.v, zero)
		for {
			prefix, w, ok := lagIt.Next()
			if !ok {
				break
			}
			if w.IsZero() {
				continue
			}
			i0 := (prefix << uint(freeBits)) | b
			i1 := i0 | halfBit
			p0 = p0.Add(w.Mul(streamP.Evaluate(i0)))
			p1 = p1.Add(w.Mul(streamP.Evaluate(i1)))
			q0 = q0.Add(w.Mul(streamQ.Evaluate(i0)))
			q1 = q1.Add(w.Mul(streamQ.Evaluate(i1)))
		}
		s0 = s0.Add(p0.Mul(q0))
		s1 = s1.Add(p1.Mul(q1))
		sHalfRaw = sHalfRaw.Add(p0.Add(p1).Mul(q0.Add(q1)))
	}
	sHalf := sHalfRaw.Mul(p.invFour)

	p.round++
	p.cfg.Logger.Debug().
		Int("round", j).
		Str("s0", s0.String()).
		Str("s1", s1.String()).
		Str("s_half", sHalf.String()).
		Msg("space-product prover round")
	return product.Message{S0: s0, S1: s1, SHalf: sHalf}, true
}
