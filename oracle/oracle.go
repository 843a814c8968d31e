// Package oracle implements the evaluation oracle O every prover reads
// from: an immutable view of a function f : {0,1}^n -> F, addressed by
// the MSB-first convention every prover assumes (index i is the binary
// encoding of (x0,...,x_{n-1}) with x0 as the most significant bit).
// Evaluate is pure, deterministic, and safe for concurrent use.
package oracle

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/internal/parallel"
)

// ErrNotPowerOfTwo is returned when a dense value slice's length is not
// a power of two, so it cannot address a {0,1}^n hypercube.
var ErrNotPowerOfTwo = errors.New("oracle: value count is not a power of two")

// Oracle is an immutable view of f : {0,1}^n -> F.
type Oracle interface {
	// NumVars reports n.
	NumVars() int
	// Evaluate returns f at hypercube index i, i in [0, 2^n).
	Evaluate(i uint64) field.Element
	// Claim returns Σ_{i=0}^{2^n-1} Evaluate(i).
	Claim() field.Element
}

// Memory is an in-memory oracle backed by a dense vector of 2^n
// elements. It is what the Time prover reads from, and what test
// fixtures build scenario polynomials with.
type Memory struct {
	n      int
	values []field.Element
	claim  field.Element
}

// NewMemory wraps a dense evaluation vector. len(values) must be a
// power of two; the claim is computed once, in parallel, at
// construction time.
func NewMemory(values []field.Element) (*Memory, error) {
	if len(values) == 0 || values[0] == nil {
		return nil, fmt.Errorf("oracle: %w: need at least one element", ErrNotPowerOfTwo)
	}
	n := bits.Len(uint(len(values))) - 1
	if 1<<uint(n) != len(values) {
		return nil, fmt.Errorf("oracle: %d values: %w", len(values), ErrNotPowerOfTwo)
	}
	zero := values[0].Zero()
	claim := parallel.Sum(uint64(len(values)), zero, func(i uint64) field.Element {
		return values[i]
	})
	return &Memory{n: n, values: values, claim: claim}, nil
}

// NumVars returns n.
func (m *Memory) NumVars() int { return m.n }

// Evaluate returns values[i].
func (m *Memory) Evaluate(i uint64) field.Element { return m.values[i] }

// Claim returns the precomputed hypercube sum.
func (m *Memory) Claim() field.Element { return m.claim }

// Dense exposes the backing vector read-only, for the Time prover's
// first-round table initialisation, which reads the oracle directly.
func (m *Memory) Dense() []field.Element { return m.values }

// EvalFunc computes f(i) for a single hypercube index. It must be pure
// and safe for concurrent invocation.
type EvalFunc func(i uint64) field.Element

// Streaming is an oracle that computes (or fetches) one value per
// call with O(1) resident memory, the kind the Space and Blendy
// provers run over at scale.
type Streaming struct {
	n     int
	f     EvalFunc
	claim field.Element
}

// NewStreaming wraps f as an n-variable oracle whose claim is already
// known (e.g. supplied by the caller's benchmark harness).
func NewStreaming(n int, f EvalFunc, claim field.Element) *Streaming {
	return &Streaming{n: n, f: f, claim: claim}
}

// NewStreamingWithClaim wraps f and derives the claim by summing over
// the whole hypercube once, in parallel, at construction time.
func NewStreamingWithClaim(n int, f EvalFunc, zero field.Element) *Streaming {
	claim := parallel.Sum(uint64(1)<<uint(n), zero, f)
	return &Streaming{n: n, f: f, claim: claim}
}

// NumVars returns n.
func (s *Streaming) NumVars() int { return s.n }

// Evaluate calls the wrapped function.
func (s *Streaming) Evaluate(i uint64) field.Element { return s.f(i) }

// Claim returns the oracle's asserted hypercube sum.
func (s *Streaming) Claim() field.Element { return s.claim }
