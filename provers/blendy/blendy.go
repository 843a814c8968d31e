// Package blendy implements the staged Blendy prover: it amortises
// oracle reads over a stage of ell = ceil(n/k) rounds by rebuilding a
// prefix-sum table once per stage and sweeping a ping-ponged Lagrange-
// weight array over the stage's rounds, trading a little extra memory
// (O(2^ell)) for far fewer oracle passes than the Space prover and far
// less memory than the Time prover's O(2^n) table.
package blendy

import (
	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/internal/parallel"
	"github.com/giuliop/sumcheck/lagrange"
	"github.com/giuliop/sumcheck/provers"
	"github.com/giuliop/sumcheck/verifiermsg"
)

// Prover is the stage/phase Blendy sumcheck prover.
type Prover struct {
	cfg   provers.Config
	n     int
	k     int
	ell   int // ceil(n/k): the (maximum) stage size
	round int
	v     *verifiermsg.State

	sums       []field.Element // length 2^ell, prefix-summed at each stage start
	lagPolys   []field.Element // length 2^(j'+1), the current round's weights
	lagScratch []field.Element // ping-pong buffer for lagPolys, capacity 2^ell
}

// New builds a Blendy prover over cfg. cfg must already be validated by
// provers.NewConfig; cfg.NumStages selects k (default 2).
func New(cfg provers.Config) *Prover {
	n := cfg.NumVariables
	k := cfg.NumStages
	ell := (n + k - 1) / k
	one := cfg.Claim.One()
	size := uint64(1) << uint(ell)
	lagPolys := make([]field.Element, 1, size)
	lagPolys[0] = one
	return &Prover{
		cfg:        cfg,
		n:          n,
		k:          k,
		ell:        ell,
		v:          verifiermsg.New(cfg.Claim),
		sums:       make([]field.Element, size),
		lagPolys:   lagPolys,
		lagScratch: make([]field.Element, size),
	}
}

// Claim returns the asserted hypercube sum.
func (p *Prover) Claim() field.Element { return p.cfg.Claim }

// NumVariables returns n, the number of rounds this prover runs for.
func (p *Prover) NumVariables() int { return p.n }

// NextMessage computes round p.round's (s0, s1): at the start of a
// stage it rebuilds the prefix-sum table over the oracle, every round
// it refreshes the ping-ponged Lagrange-weight array, then reads the
// round message straight out of the table.
func (p *Prover) NextMessage(challenge field.Element) (provers.Message, bool) {
	if p.round >= p.n {
		return provers.Message{}, false
	}
	if challenge != nil {
		p.v.Receive(challenge)
	}

	j := p.round
	sigma := j / p.ell
	jPrime := j - sigma*p.ell
	n1 := sigma * p.ell
	n2 := p.ell
	if p.n-n1 < p.ell {
		n2 = p.n - n1
	}
	n3 := p.n - n1 - n2

	if jPrime == 0 {
		p.rebuildStage(n1, n2, n3)
	}
	p.refreshLagPolys(jPrime)

	s0, s1 := p.computeRound(jPrime, n2)

	p.round++
	p.cfg.Logger.Debug().
		Int("round", j).
		Str("s0", s0.String()).
		Str("s1", s1.String()).
		Msg("blendy prover round")
	return provers.Message{S0: s0, S1: s1}, true
}

// rebuildStage recomputes sums[b2] = Σ_b1 Σ_b3 L_b1(r_1..n1) ·
// O.evaluate((b1<<(n2+n3)) | (b2<<n3) | b3), then replaces sums in
// place with its prefix sum over b2. b1 ranges over the gray-code
// Lagrange iterator seeded from p.v, which at this point has exactly
// n1 messages (the challenges fixed by prior stages).
func (p *Prover) rebuildStage(n1, n2, n3 int) {
	zero := p.cfg.Claim.Zero()
	size2 := uint64(1) << uint(n2)
	size3 := uint64(1) << uint(n3)
	lagIt := lagrange.New(p.v, zero)
	stream := p.cfg.Stream

	for pass := 0; ; pass++ {
		outer, w, ok := lagIt.Next()
		if !ok {
			break
		}
		first := pass == 0
		sums := p.sums
		parallel.For(size2, func(start, end uint64) {
			for b2 := start; b2 < end; b2++ {
				base := (outer << uint(n2+n3)) | (b2 << uint(n3))
				var contrib field.Element
				if w.IsZero() {
					contrib = zero
				} else {
					acc := zero
					for b3 := uint64(0); b3 < size3; b3++ {
						acc = acc.Add(stream.Evaluate(base | b3))
					}
					contrib = w.Mul(acc)
				}
				if first {
					sums[b2] = contrib
				} else {
					sums[b2] = sums[b2].Add(contrib)
				}
			}
		})
	}

	running := zero
	for b2 := uint64(0); b2 < size2; b2++ {
		running = running.Add(p.sums[b2])
		p.sums[b2] = running
	}
}

// refreshLagPolys extends lagPolys from length 2^j' to 2^(j'+1). Bit 0
// of the new index is always this round's own (not yet fixed) free
// variable, so it carries no weight; bit 1 carries the weight just
// resolved by the challenge received at the top of this round
// (r_j/r_hat_j), and the remaining bits reuse the previous array
// unchanged (prev[c>>1]). At a stage's first round (j' = 0) the array
// resets to two ONEs: no intra-stage challenge has been received yet.
func (p *Prover) refreshLagPolys(jPrime int) {
	if jPrime == 0 {
		one := p.cfg.Claim.One()
		buf := p.lagScratch[:2]
		buf[0], buf[1] = one, one
		p.lagPolys, p.lagScratch = buf, p.lagPolys[:cap(p.lagPolys)]
		return
	}

	newLen := uint64(1) << uint(jPrime+1)
	prev := p.lagPolys
	next := p.lagScratch[:newLen]

	last := p.v.Len() - 1
	r := p.v.Message(last)
	rHat := p.v.Hat(last)

	for c := uint64(0); c < newLen; c++ {
		base := prev[c>>1]
		if c&2 == 2 {
			next[c] = base.Mul(r)
		} else {
			next[c] = base.Mul(rHat)
		}
	}
	p.lagPolys, p.lagScratch = next, prev
}

// computeRound reads (s0, s1) out of the current prefix-sum table:
// sums[lo..hi] (inclusive) is the contiguous range of the n2-bit block
// whose top j'+1 bits equal c.
func (p *Prover) computeRound(jPrime, n2 int) (field.Element, field.Element) {
	zero := p.cfg.Claim.Zero()
	shift := n2 - jPrime - 1
	count := uint64(1) << uint(jPrime+1)

	s0, s1 := zero, zero
	for c := uint64(0); c < count; c++ {
		lo := c << uint(shift)
		hi := lo | ((uint64(1) << uint(shift)) - 1)
		var left field.Element
		if lo == 0 {
			left = zero
		} else {
			left = p.sums[lo-1]
		}
		contrib := p.sums[hi].Sub(left)
		weighted := p.lagPolys[c].Mul(contrib)
		if c&1 == 1 {
			s1 = s1.Add(weighted)
		} else {
			s0 = s0.Add(weighted)
		}
	}
	return s0, s1
}
