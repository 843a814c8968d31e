// Package product defines the shared surface for the product-of-two-
// oracles sumcheck variant: claims of the form
// Σ P(x)·Q(x) over the boolean hypercube. Each round's univariate g_j
// has degree 2, so a round message carries three points instead of
// two.
package product

import (
	"fmt"

	"github.com/rs/zerolog"

	sc "github.com/giuliop/sumcheck"
	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/oracle"
)

// Message is a single round's prover output for the product variant:
// g_j evaluated at 0, 1, and 1/2.
type Message struct {
	S0, S1, SHalf field.Element
}

// Config is a product prover's configuration: the claimed Σ P·Q, the
// shared variable count, the two oracles, and the Blendy-product
// stage count (ignored by the Time and Space product provers).
type Config struct {
	Claim        field.Element
	NumVariables int
	StreamP      oracle.Oracle
	StreamQ      oracle.Oracle
	NumStages    int
	Logger       zerolog.Logger
}

// Option configures a Config beyond its required fields.
type Option func(*Config)

// WithNumStages sets Blendy-product's stage count k (default 2).
func WithNumStages(k int) Option {
	return func(c *Config) { c.NumStages = k }
}

// WithLogger attaches a logger a product prover emits round-by-round
// debug events to. The default is zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// NewConfig validates and builds a Config. It returns
// sc.ErrVariableMismatch if numVariables disagrees with either
// stream's NumVars(), and sc.ErrZeroStages for an explicit
// WithNumStages(0).
func NewConfig(claim field.Element, numVariables int, streamP, streamQ oracle.Oracle, opts ...Option) (Config, error) {
	if streamP.NumVars() != numVariables {
		return Config{}, fmt.Errorf("product: %w: got %d, P has %d",
			sc.ErrVariableMismatch, numVariables, streamP.NumVars())
	}
	if streamQ.NumVars() != numVariables {
		return Config{}, fmt.Errorf("product: %w: got %d, Q has %d",
			sc.ErrVariableMismatch, numVariables, streamQ.NumVars())
	}
	c := Config{
		Claim:        claim,
		NumVariables: numVariables,
		StreamP:      streamP,
		StreamQ:      streamQ,
		NumStages:    2,
		Logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.NumStages < 1 {
		return Config{}, fmt.Errorf("product: %w: got %d", sc.ErrZeroStages, c.NumStages)
	}
	return c, nil
}

// Prover is the polymorphic surface the protocol driver runs for the
// product-of-two-oracles variant.
type Prover interface {
	Claim() field.Element
	NumVariables() int
	NextMessage(challenge field.Element) (Message, bool)
}
