// Package parallel holds the shared data-parallel-reduction helpers:
// the Time prover's table halving, the Space
// prover's inner per-outer-weight sum, and the Blendy prover's
// stage-start rebuild are each pure reductions over disjoint index
// ranges, so they may be split across cores as long as the observable
// (s0, s1[, sHalf]) output is unaffected. Built on golang.org/x/sync's
// errgroup, already pulled in indirectly by the rest of this module's
// dependency graph.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/giuliop/sumcheck/field"
)

// minChunk is the smallest range worth handing to its own goroutine;
// below it the dispatch overhead dominates the work.
const minChunk = 1 << 12

// workers picks a worker count proportional to GOMAXPROCS, capped so
// that every worker gets at least minChunk indices.
func workers(total uint64) int {
	w := runtime.GOMAXPROCS(0)
	if w < 1 {
		w = 1
	}
	if total/uint64(w) < minChunk {
		w = int(total / minChunk)
	}
	if w < 1 {
		w = 1
	}
	return w
}

// For splits [0, total) into contiguous ranges and runs f on each
// range concurrently, waiting for every range to finish before
// returning. f must not share mutable state across ranges other than
// through disjoint writes (e.g. each range writes only its own slice
// of an output buffer).
func For(total uint64, f func(start, end uint64)) {
	if total == 0 {
		return
	}
	w := workers(total)
	if w <= 1 {
		f(0, total)
		return
	}
	chunk := (total + uint64(w) - 1) / uint64(w)
	var g errgroup.Group
	for start := uint64(0); start < total; start += chunk {
		end := start + chunk
		if end > total {
			end = total
		}
		start, end := start, end
		g.Go(func() error {
			f(start, end)
			return nil
		})
	}
	_ = g.Wait()
}

// SplitSum computes two partial sums over [0, total) in one pass: s0
// accumulates f(i) where i&bit == 0, s1 accumulates f(i) where
// i&bit != 0. This is the Time and Space provers' round-message
// reduction.
func SplitSum(total, bit uint64, zero field.Element, f func(i uint64) field.Element) (s0, s1 field.Element) {
	if total == 0 {
		return zero, zero
	}
	w := workers(total)
	if w <= 1 {
		s0, s1 = zero, zero
		for i := uint64(0); i < total; i++ {
			v := f(i)
			if i&bit == 0 {
				s0 = s0.Add(v)
			} else {
				s1 = s1.Add(v)
			}
		}
		return s0, s1
	}
	chunk := (total + uint64(w) - 1) / uint64(w)
	partial0 := make([]field.Element, w)
	partial1 := make([]field.Element, w)
	var g errgroup.Group
	idx := 0
	for start := uint64(0); start < total; start += chunk {
		end := start + chunk
		if end > total {
			end = total
		}
		start, end, slot := start, end, idx
		idx++
		g.Go(func() error {
			a, b := zero, zero
			for i := start; i < end; i++ {
				v := f(i)
				if i&bit == 0 {
					a = a.Add(v)
				} else {
					b = b.Add(v)
				}
			}
			partial0[slot] = a
			partial1[slot] = b
			return nil
		})
	}
	_ = g.Wait()
	s0, s1 = zero, zero
	for i := range partial0 {
		if partial0[i] != nil {
			s0 = s0.Add(partial0[i])
		}
		if partial1[i] != nil {
			s1 = s1.Add(partial1[i])
		}
	}
	return s0, s1
}

// SplitProductSum computes the three product-sumcheck accumulators in
// one paired pass over base in [0, half): s0 = Σ fp(base)·fq(base),
// s1 = Σ fp(base|half)·fq(base|half), sHalf = Σ (fp(base)+fp(base|half))
// · (fq(base)+fq(base|half)). This is the Time-product prover's
// round-message reduction: unlike SplitSum, the two poles of each
// oracle must be read together since their product, not their
// independent sums, is what is accumulated.
func SplitProductSum(half uint64, zero field.Element, fp, fq func(i uint64) field.Element) (s0, s1, sHalf field.Element) {
	if half == 0 {
		return zero, zero, zero
	}
	w := workers(half)
	combine := func(start, end uint64) (field.Element, field.Element, field.Element) {
		a, b, c := zero, zero, zero
		for i := start; i < end; i++ {
			p0, p1 := fp(i), fp(i|half)
			q0, q1 := fq(i), fq(i|half)
			a = a.Add(p0.Mul(q0))
			b = b.Add(p1.Mul(q1))
			c = c.Add(p0.Add(p1).Mul(q0.Add(q1)))
		}
		return a, b, c
	}
	if w <= 1 {
		return combine(0, half)
	}
	chunk := (half + uint64(w) - 1) / uint64(w)
	partial0 := make([]field.Element, w)
	partial1 := make([]field.Element, w)
	partialH := make([]field.Element, w)
	var g errgroup.Group
	idx := 0
	for start := uint64(0); start < half; start += chunk {
		end := start + chunk
		if end > half {
			end = half
		}
		start, end, slot := start, end, idx
		idx++
		g.Go(func() error {
			a, b, c := combine(start, end)
			partial0[slot], partial1[slot], partialH[slot] = a, b, c
			return nil
		})
	}
	_ = g.Wait()
	s0, s1, sHalf = zero, zero, zero
	for i := range partial0 {
		if partial0[i] != nil {
			s0 = s0.Add(partial0[i])
			s1 = s1.Add(partial1[i])
			sHalf = sHalf.Add(partialH[i])
		}
	}
	return s0, s1, sHalf
}

// Sum computes Σ_{i=0}^{total-1} f(i) in the given field, splitting the
// range across workers and combining partial sums sequentially.
func Sum(total uint64, zero field.Element, f func(i uint64) field.Element) field.Element {
	if total == 0 {
		return zero
	}
	w := workers(total)
	if w <= 1 {
		acc := zero
		for i := uint64(0); i < total; i++ {
			acc = acc.Add(f(i))
		}
		return acc
	}
	chunk := (total + uint64(w) - 1) / uint64(w)
	partials := make([]field.Element, w)
	var g errgroup.Group
	idx := 0
	for start := uint64(0); start < total; start += chunk {
		end := start + chunk
		if end > total {
			end = total
		}
		start, end, slot := start, end, idx
		idx++
		g.Go(func() error {
			acc := zero
			for i := start; i < end; i++ {
				acc = acc.Add(f(i))
			}
			partials[slot] = acc
			return nil
		})
	}
	_ = g.Wait()
	acc := zero
	for _, p := range partials {
		if p != nil {
			acc = acc.Add(p)
		}
	}
	return acc
}
