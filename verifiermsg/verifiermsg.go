// Package verifiermsg implements the verifier-message bookkeeping that
// both the Space and Blendy provers, and the Lagrange iterator, read
// from: an append-only list of challenges plus the
// derived quantities that make gray-code Lagrange evaluation an O(1)
// amortised per-step operation.
package verifiermsg

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/giuliop/sumcheck/field"
)

// FieldLike is the minimal surface verifiermsg needs from a field
// factory: its two identity constants. Both *field.Field and
// field.Bn254's factory type satisfy it.
type FieldLike interface {
	Zero() field.Element
	One() field.Element
}

// State accumulates verifier challenges r1,...,rj and the derived
// caches the Lagrange iterator reads. It is exclusively owned by one prover/driver for
// the duration of a protocol run; nothing about it is safe to share
// across concurrent runs.
type State struct {
	zero, one field.Element

	messages []field.Element // r_1..r_j, in receive order
	hats     []field.Element // r_hat_i = 1 - r_i

	// ratioRHat[i] = r_i * r_hat_i^-1, with the zero-trap convention:
	// ONE when r_hat_i = 0 (i.e. r_i = 1).
	ratioRHat []field.Element
	// ratioHatR[i] = r_hat_i * r_i^-1, ONE when r_i = 0.
	ratioHatR []field.Element

	productOfHats field.Element

	// zeroOnes marks positions where r_i is exactly 0 or 1.
	zeroOnes *bitset.BitSet
	// exactOnes marks, among the zeroOnes positions, which ones were
	// exactly 1 rather than exactly 0.
	exactOnes *bitset.BitSet
}

// New returns an empty verifier-message state for the given field.
func New(f FieldLike) *State {
	return &State{
		zero:          f.Zero(),
		one:           f.One(),
		productOfHats: f.One(),
		zeroOnes:      bitset.New(0),
		exactOnes:     bitset.New(0),
	}
}

// Receive appends a fresh challenge r and updates every derived cache in
// O(1): one subtraction, up to two field inverses (of r_hat and of r;
// the one that would be an inverse of zero is skipped when r is exactly
// 0 or 1, since that is anticipated and handled by the zero/one bitmask
// path), up to three multiplications, and up to two bitmask writes.
func (s *State) Receive(r field.Element) {
	idx := uint(len(s.messages))
	hat := s.one.Sub(r)
	isZero := r.IsZero()
	isOne := r.IsOne()

	if !isZero && !isOne {
		s.productOfHats = s.productOfHats.Mul(hat)
	}

	var ratioRHat field.Element
	if isOne {
		// r_hat = 0: treat the inverse as ONE and flag the position.
		ratioRHat = s.one
	} else {
		invHat, ok := hat.Inverse()
		if !ok {
			// Can only happen if hat is zero without r being exactly
			// one, which is impossible by construction.
			panic("verifiermsg: unexpected field singularity inverting r_hat")
		}
		ratioRHat = r.Mul(invHat)
	}

	var ratioHatR field.Element
	if isZero {
		ratioHatR = s.one
	} else {
		invR, ok := r.Inverse()
		if !ok {
			panic("verifiermsg: unexpected field singularity inverting r")
		}
		ratioHatR = hat.Mul(invR)
	}

	s.messages = append(s.messages, r)
	s.hats = append(s.hats, hat)
	s.ratioRHat = append(s.ratioRHat, ratioRHat)
	s.ratioHatR = append(s.ratioHatR, ratioHatR)

	if isZero || isOne {
		s.zeroOnes.Set(idx)
		if isOne {
			s.exactOnes.Set(idx)
		}
	}
}

// Len reports how many challenges have been received so far.
func (s *State) Len() int { return len(s.messages) }

// Message returns r_i (0-indexed: Message(0) is the first challenge).
func (s *State) Message(i int) field.Element { return s.messages[i] }

// Hat returns r_hat_i = 1 - r_i.
func (s *State) Hat(i int) field.Element { return s.hats[i] }

// RatioRHat returns r_i * r_hat_i^-1 (ONE if r_i = 1).
func (s *State) RatioRHat(i int) field.Element { return s.ratioRHat[i] }

// RatioHatR returns r_hat_i * r_i^-1 (ONE if r_i = 0).
func (s *State) RatioHatR(i int) field.Element { return s.ratioHatR[i] }

// ProductOfHats returns the product of r_hat_i over every i whose r_i is
// not exactly 0 or 1.
func (s *State) ProductOfHats() field.Element { return s.productOfHats }

// IsExactBoolean reports whether r_i is exactly 0 or 1.
func (s *State) IsExactBoolean(i int) bool { return s.zeroOnes.Test(uint(i)) }

// WasOne reports whether r_i, known to be exact-boolean, was exactly 1
// (as opposed to exactly 0). Calling this on a non-exact-boolean index
// is a precondition violation.
func (s *State) WasOne(i int) bool {
	if !s.IsExactBoolean(i) {
		panic("verifiermsg: WasOne called on a non-exact-boolean index")
	}
	return s.exactOnes.Test(uint(i))
}
