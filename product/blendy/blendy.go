// Package blendy implements the staged product prover. A product round
// value is a product of two Lagrange-folded sums, so the intra-stage
// prefixes of the two oracles interact: the prover keeps a 2-D pair
// table indexed by a prefix of P and a prefix of Q, rebuilt only when
// the round number is a power of two (early rounds) or a multiple of
// the stage size (later rounds), and sweeps it with a pair of
// Lagrange-weight products in between. Rebuilding amortises the full
// streaming passes the same way the single-oracle staged prover does,
// at the cost of a table quadratic in the per-stage block size.
package blendy

import (
	"math/bits"

	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/internal/parallel"
	"github.com/giuliop/sumcheck/lagrange"
	"github.com/giuliop/sumcheck/product"
	"github.com/giuliop/sumcheck/verifiermsg"
)

// Prover is the staged product-of-two-oracles sumcheck prover.
type Prover struct {
	cfg   product.Config
	n     int
	k     int
	l     int // ceil(n/2k): the rebuild period once past the doubling rounds
	round int

	// v holds every challenge received; vRound only those received
	// since the last table rebuild, which is what the round sweep's
	// Lagrange weights range over.
	v      *verifiermsg.State
	vRound *verifiermsg.State

	// pairTable[b'][b''] sums, over every setting of the variables
	// below the current block, the product of P's extension folded at
	// block value b' and Q's folded at b''. xTable and yTable are the
	// per-tail-point fold scratch rows.
	pairTable [][]field.Element
	xTable    []field.Element
	yTable    []field.Element

	invFour field.Element
}

// New builds a Blendy-product prover over cfg. cfg must already be
// validated by product.NewConfig; cfg.NumStages selects k (default 2).
func New(cfg product.Config) *Prover {
	n := cfg.NumVariables
	k := cfg.NumStages
	l := (n + 2*k - 1) / (2 * k)
	half := cfg.Claim.Half()
	return &Prover{
		cfg:     cfg,
		n:       n,
		k:       k,
		l:       l,
		v:       verifiermsg.New(cfg.Claim),
		vRound:  verifiermsg.New(cfg.Claim),
		invFour: half.Mul(half),
	}
}

// Claim returns the asserted Σ P·Q.
func (p *Prover) Claim() field.Element { return p.cfg.Claim }

// NumVariables returns n, the number of rounds this prover runs for.
func (p *Prover) NumVariables() int { return p.n }

// roundVars derives, for the 1-indexed round j, the block boundary
// jPrime (the number of variables folded into the pair table), the
// block width t, and whether this round rebuilds the table. Early
// rounds double the boundary at every power of two; from round l
// onward it advances in steps of l.
func (p *Prover) roundVars(j int) (jPrime, t int, rebuild bool) {
	twoPowS := 1 << uint(bits.Len(uint(j))-1)
	if j < p.l {
		jPrime = twoPowS
		rebuild = twoPowS == j
		t = jPrime
		if p.n+1-jPrime < t {
			t = p.n + 1 - jPrime
		}
		return jPrime, t, rebuild
	}
	jPrime = p.l * (j / p.l)
	rebuild = j%p.l == 0
	t = p.l
	if p.n+1-jPrime < t {
		t = p.n + 1 - jPrime
	}
	return jPrime, t, rebuild
}

// NextMessage computes round p.round's (s0, s1, sHalf), rebuilding the
// pair table first when the round boundary calls for it.
func (p *Prover) NextMessage(challenge field.Element) (product.Message, bool) {
	if p.round >= p.n {
		return product.Message{}, false
	}
	if challenge != nil {
		p.v.Receive(challenge)
		p.vRound.Receive(challenge)
	}

	j := p.round + 1
	jPrime, t, rebuild := p.roundVars(j)
	if rebuild {
		p.vRound = verifiermsg.New(p.cfg.Claim)
		p.rebuildTable(jPrime, t)
	}

	s0, s1, sHalf := p.computeRound(j, jPrime, t)

	p.round++
	p.cfg.Logger.Debug().
		Int("round", p.round-1).
		Str("s0", s0.String()).
		Str("s1", s1.String()).
		Str("s_half", sHalf.String()).
		Msg("blendy-product prover round")
	return product.Message{S0: s0, S1: s1, SHalf: sHalf}, true
}

// rebuildTable recomputes pairTable[b'][b''] = Σ_b x(b', b) · y(b'', b)
// where x(b', b) folds P over the jPrime-1 already-fixed variables with
// their gray-code Lagrange weights at block value b' and tail b, and y
// does the same for Q. At a rebuild round every received challenge is
// already fixed, so p.v covers exactly those jPrime-1 variables.
func (p *Prover) rebuildTable(jPrime, t int) {
	zero := p.cfg.Claim.Zero()
	tableLen := uint64(1) << uint(t)
	bNum := p.n + 1 - jPrime - t
	xShift := uint(t + bNum)
	streamP, streamQ := p.cfg.StreamP, p.cfg.StreamQ

	p.pairTable = make([][]field.Element, tableLen)
	for i := range p.pairTable {
		row := make([]field.Element, tableLen)
		for c := range row {
			row[c] = zero
		}
		p.pairTable[i] = row
	}
	p.xTable = make([]field.Element, tableLen)
	p.yTable = make([]field.Element, tableLen)

	for b := uint64(0); b < uint64(1)<<uint(bNum); b++ {
		xTable, yTable := p.xTable, p.yTable
		parallel.For(tableLen, func(start, end uint64) {
			for bp := start; bp < end; bp++ {
				px, py := zero, zero
				lagIt := lagrange.New(p.v, zero)
				for {
					xi, w, ok := lagIt.Next()
					if !ok {
						break
					}
					if w.IsZero() {
						continue
					}
					point := (xi << xShift) | (bp << uint(bNum)) | b
					px = px.Add(w.Mul(streamP.Evaluate(point)))
					py = py.Add(w.Mul(streamQ.Evaluate(point)))
				}
				xTable[bp], yTable[bp] = px, py
			}
		})
		pairTable := p.pairTable
		parallel.For(tableLen, func(start, end uint64) {
			for bp := start; bp < end; bp++ {
				row := pairTable[bp]
				xv := xTable[bp]
				for bpp := uint64(0); bpp < tableLen; bpp++ {
					row[bpp] = row[bpp].Add(xv.Mul(yTable[bpp]))
				}
			}
		})
	}
}

// computeRound sweeps the pair table: for every pair of intra-block
// prefixes (b', b'') fixed since the last rebuild, weighted by the
// product of their Lagrange weights, it accumulates the table entries
// where the current free variable is pinned to 0 on both axes (s0), to
// 1 on both (s1), and the four-corner sum whose quarter is the
// evaluation at one half.
func (p *Prover) computeRound(j, jPrime, t int) (field.Element, field.Element, field.Element) {
	zero := p.cfg.Claim.Zero()
	bPrimeNum := j - jPrime
	vNum := t + jPrime - j - 1
	shift := uint(vNum + 1)
	freeBit := uint64(1) << uint(vNum)

	lagPolys := make([]field.Element, uint64(1)<<uint(bPrimeNum))
	lagIt := lagrange.New(p.vRound, zero)
	for {
		idx, w, ok := lagIt.Next()
		if !ok {
			break
		}
		lagPolys[idx] = w
	}

	s0, s1, sHalfRaw := zero, zero, zero
	for bp := uint64(0); bp < uint64(len(lagPolys)); bp++ {
		if lagPolys[bp].IsZero() {
			continue
		}
		for bpp := uint64(0); bpp < uint64(len(lagPolys)); bpp++ {
			w := lagPolys[bp].Mul(lagPolys[bpp])
			if w.IsZero() {
				continue
			}
			for v := uint64(0); v < uint64(1)<<uint(vNum); v++ {
				r0 := (bp << shift) | v
				r1 := r0 | freeBit
				c0 := (bpp << shift) | v
				c1 := c0 | freeBit
				e00 := p.pairTable[r0][c0]
				e11 := p.pairTable[r1][c1]
				s0 = s0.Add(w.Mul(e00))
				s1 = s1.Add(w.Mul(e11))
				corners := e00.Add(p.pairTable[r0][c1]).Add(p.pairTable[r1][c0]).Add(e11)
				sHalfRaw = sHalfRaw.Add(w.Mul(corners))
			}
		}
	}
	return s0, s1, sHalfRaw.Mul(p.invFour)
}
