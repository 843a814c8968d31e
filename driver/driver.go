// Package driver implements the protocol driver: it drives a prover to
// completion, checking each round's consistency equation against the
// previous round's claimed univariate polynomial, and reports the full
// transcript plus an accept/reject verdict.
//
// Protocol rejection (a round whose check fails) is never an error: it
// is a boolean outcome surfaced in Result.Accepted. A failure of the
// challenge sampler is returned as error.
package driver

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/giuliop/sumcheck/challenge"
	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/product"
	"github.com/giuliop/sumcheck/provers"
)

// Result is the protocol driver's output: the transcript of prover
// and verifier messages plus whether the run was accepted.
type Result struct {
	ProverMessages   []provers.Message
	VerifierMessages []field.Element
	Accepted         bool
}

// Run drives a multilinear sumcheck prover p to completion against
// source, sampling a fresh challenge from ff after every round but the
// last and checking the degree-1 consistency equation round by round.
func Run(p provers.Prover, ff challenge.FieldFactory, source challenge.Source, logger zerolog.Logger) (Result, error) {
	var result Result
	var prevChallenge field.Element
	var prevMsg provers.Message

	for round := 0; ; round++ {
		m, ok := p.NextMessage(prevChallenge)
		if !ok {
			break
		}

		var want field.Element
		if round == 0 {
			want = p.Claim()
		} else {
			want = evalDegree1(prevMsg, prevChallenge)
		}
		got := m.S0.Add(m.S1)
		if !got.Equal(want) {
			logger.Warn().Int("round", round).Msg("sumcheck: round rejected")
			result.Accepted = false
			return result, nil
		}

		result.ProverMessages = append(result.ProverMessages, m)
		logger.Debug().Int("round", round).Str("s0", m.S0.String()).Str("s1", m.S1.String()).
			Msg("sumcheck: round accepted")

		if round+1 >= p.NumVariables() {
			prevMsg, prevChallenge = m, nil
			continue
		}

		r, err := source.Next(ff)
		if err != nil {
			return Result{}, fmt.Errorf("driver: sampling challenge for round %d: %w", round, err)
		}
		result.VerifierMessages = append(result.VerifierMessages, r)

		prevMsg, prevChallenge = m, r
	}

	result.Accepted = true
	logger.Info().Int("rounds", len(result.ProverMessages)).Msg("sumcheck: run accepted")
	return result, nil
}

// evalDegree1 evaluates the degree-1 polynomial fit to m (g(0)=m.S0,
// g(1)=m.S1) at r: g(r) = (1-r)*s0 + r*s1.
func evalDegree1(m provers.Message, r field.Element) field.Element {
	hat := r.One().Sub(r)
	return m.S0.Mul(hat).Add(m.S1.Mul(r))
}

// ProductResult is Result for the product-of-two-oracles variant.
type ProductResult struct {
	ProverMessages   []product.Message
	VerifierMessages []field.Element
	Accepted         bool
}

// RunProduct drives a product-of-two-oracles prover to completion,
// checking the degree-2 consistency equation: the previous round's
// univariate is Lagrange-interpolated through (0,s0), (1,s1),
// (1/2,sHalf) and evaluated at the fresh challenge.
func RunProduct(p product.Prover, ff challenge.FieldFactory, source challenge.Source, logger zerolog.Logger) (ProductResult, error) {
	var result ProductResult
	var prevChallenge field.Element
	var prevMsg product.Message

	for round := 0; ; round++ {
		m, ok := p.NextMessage(prevChallenge)
		if !ok {
			break
		}

		var want field.Element
		if round == 0 {
			want = p.Claim()
		} else {
			want = evalDegree2(prevMsg, prevChallenge)
		}
		got := m.S0.Add(m.S1)
		if !got.Equal(want) {
			logger.Warn().Int("round", round).Msg("sumcheck: product round rejected")
			result.Accepted = false
			return result, nil
		}

		result.ProverMessages = append(result.ProverMessages, m)
		logger.Debug().Int("round", round).Str("s0", m.S0.String()).Str("s1", m.S1.String()).
			Str("s_half", m.SHalf.String()).Msg("sumcheck: product round accepted")

		if round+1 >= p.NumVariables() {
			prevMsg, prevChallenge = m, nil
			continue
		}

		r, err := source.Next(ff)
		if err != nil {
			return ProductResult{}, fmt.Errorf("driver: sampling challenge for round %d: %w", round, err)
		}
		result.VerifierMessages = append(result.VerifierMessages, r)

		prevMsg, prevChallenge = m, r
	}

	result.Accepted = true
	logger.Info().Int("rounds", len(result.ProverMessages)).Msg("sumcheck: product run accepted")
	return result, nil
}

// evalDegree2 evaluates the degree-2 polynomial fit to m (g(0)=s0,
// g(1)=s1, g(1/2)=sHalf) at r, via the closed-form coefficients of the
// unique quadratic through those three points: g(x) = s0 + b*x + c*x^2
// with b = 4*sHalf - 3*s0 - s1 and c = 2*s0 + 2*s1 - 4*sHalf.
func evalDegree2(m product.Message, r field.Element) field.Element {
	zero := m.S0.Zero()
	four := zero.One().Add(zero.One()).Add(zero.One()).Add(zero.One())
	three := zero.One().Add(zero.One()).Add(zero.One())
	two := zero.One().Add(zero.One())

	b := four.Mul(m.SHalf).Sub(three.Mul(m.S0)).Sub(m.S1)
	c := two.Mul(m.S0).Add(two.Mul(m.S1)).Sub(four.Mul(m.SHalf))

	return m.S0.Add(b.Mul(r)).Add(c.Mul(r).Mul(r))
}
