// Package space implements the CTY streaming prover: no mutable table,
// O(n) memory (just the verifier-message state), at the cost of a full
// 2^n oracle pass per round.
package space

import (
	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/internal/parallel"
	"github.com/giuliop/sumcheck/lagrange"
	"github.com/giuliop/sumcheck/provers"
	"github.com/giuliop/sumcheck/verifiermsg"
)

// Prover is the CTY (Cormode-Thaler-Yi-style) streaming sumcheck
// prover.
type Prover struct {
	cfg   provers.Config
	n     int
	round int
	v     *verifiermsg.State
}

// New builds a Space prover over cfg. cfg must already be validated by
// provers.NewConfig.
func New(cfg provers.Config) *Prover {
	return &Prover{cfg: cfg, n: cfg.NumVariables, v: verifiermsg.New(cfg.Claim)}
}

// Claim returns the asserted hypercube sum.
func (p *Prover) Claim() field.Element { return p.cfg.Claim }

// NumVariables returns n, the number of rounds this prover runs for.
func (p *Prover) NumVariables() int { return p.n }

// NextMessage computes round p.round's (s0, s1) by enumerating the
// outer j-bit prefix in gray-code order (weighted by the streaming
// Lagrange iterator over the challenges received so far) and, for each
// nonzero weight, summing the oracle over the remaining (n-j)-bit
// suffix in lexicographic order.
func (p *Prover) NextMessage(challenge field.Element) (provers.Message, bool) {
	if p.round >= p.n {
		return provers.Message{}, false
	}
	if challenge != nil {
		p.v.Receive(challenge)
	}
	j := p.round
	zero := p.cfg.Claim.Zero()
	innerBits := p.n - j
	bit := uint64(1) << uint(innerBits-1)

	lagIt := lagrange.New(p.v, zero)
	stream := p.cfg.Stream

	s0, s1 := zero, zero
	for {
		outer, w, ok := lagIt.Next()
		if !ok {
			break
		}
		if w.IsZero() {
			continue
		}
		base := outer << uint(innerBits)
		a, b := parallel.SplitSum(uint64(1)<<uint(innerBits), bit, zero, func(inner uint64) field.Element {
			return w.Mul(stream.Evaluate(base | inner))
		})
		s0 = s0.Add(a)
		s1 = s1.Add(b)
	}

	p.round++
	p.cfg.Logger.Debug().
		Int("round", j).
		Str("s0", s0.String()).
		Str("s1", s1.String()).
		Msg("space prover round")
	return provers.Message{S0: s0, S1: s1}, true
}
