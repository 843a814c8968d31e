// Package lagrange streams the Lagrange basis weights L_b(r) over the
// boolean hypercube in gray-code order, given a verifier-message state
// of length m. Each step costs O(1) amortised field operations
// regardless of m by exploiting that gray-code successors differ in
// exactly one bit; this is the axis the Space and Blendy provers
// amortise their per-round cost along.
package lagrange

import (
	"math/bits"

	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/hypercube"
	"github.com/giuliop/sumcheck/verifiermsg"
)

// Iterator streams (b, L_b(r)) for b ranging over {0,1}^m in gray-code
// order. Positions whose bits disagree with a challenge that landed
// exactly on 0 or 1 emit ZERO; the running value tracks only the
// factors of the remaining positions, so it is never multiplied by a
// zero ratio and never needs recomputing from scratch.
type Iterator struct {
	v   *verifiermsg.State
	m   int
	pos uint64
	// last is the position of the most recent nonzero emission; the
	// running value is updated by one ratio per unmasked bit that
	// changed since then.
	last  uint64
	value field.Element

	// zeroOnes has bit m-1-i set when challenge i was exactly 0 or 1;
	// ones records, among those, which were exactly 1. Bit k of a
	// position corresponds to challenge m-1-k, matching the oracle's
	// MSB-first addressing.
	zeroOnes uint64
	ones     uint64

	emitted uint64
	limit   uint64
	zero    field.Element
}

// New builds a gray-code Lagrange iterator over the m challenges
// recorded in v.
func New(v *verifiermsg.State, zero field.Element) *Iterator {
	m := v.Len()
	it := &Iterator{
		v:     v,
		m:     m,
		value: v.ProductOfHats(),
		limit: uint64(1) << uint(m),
		zero:  zero,
	}
	for i := 0; i < m; i++ {
		if v.IsExactBoolean(i) {
			bit := uint64(1) << uint(m-1-i)
			it.zeroOnes |= bit
			if v.WasOne(i) {
				it.ones |= bit
			}
		}
	}
	return it
}

// Next returns the current gray-code position and the basis weight at
// it, then advances; ok is false once 2^m values have been emitted.
func (it *Iterator) Next() (pos uint64, value field.Element, ok bool) {
	if it.emitted >= it.limit {
		return 0, nil, false
	}
	it.emitted++
	pos = it.pos
	it.pos = hypercube.NextGray(pos)

	// A fixed 0/1 challenge forces its bit: any disagreement zeroes
	// the whole product. The running value is left untouched so the
	// next agreeing position can resume from it.
	agreement := ^(it.ones ^ pos)
	if agreement&it.zeroOnes != it.zeroOnes {
		return pos, it.zero, true
	}

	// Fold in one ratio per unmasked bit that changed since the last
	// agreeing position. Masked bits contribute a factor of exactly
	// one at an agreeing position, so they are skipped.
	diff := (it.last ^ pos) &^ it.zeroOnes
	for diff != 0 {
		low := diff & (-diff)
		k := bits.TrailingZeros64(low)
		mi := it.m - 1 - k
		if pos&low != 0 {
			it.value = it.value.Mul(it.v.RatioRHat(mi))
		} else {
			it.value = it.value.Mul(it.v.RatioHatR(mi))
		}
		diff ^= low
	}
	it.last = pos
	return pos, it.value, true
}

// Poly evaluates L_b(x) directly, with no streaming: the straight
// product over i of x_i when b_i is set and xHat_i otherwise. It is
// the ground truth the streaming iterator is tested against.
func Poly(x, xHat []field.Element, b []bool) field.Element {
	if len(x) == 0 {
		panic("lagrange: Poly called with no variables")
	}
	acc := x[0].One()
	for i, bit := range b {
		if bit {
			acc = acc.Mul(x[i])
		} else {
			acc = acc.Mul(xHat[i])
		}
	}
	return acc
}
