// Package provers defines the shared surface the Time, Space, and
// Blendy multilinear sumcheck provers implement: a Config built from an
// oracle and a claim, and a Prover interface the protocol driver runs
// against polymorphically.
package provers

import (
	"fmt"

	"github.com/rs/zerolog"

	sc "github.com/giuliop/sumcheck"
	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/oracle"
)

// Message is a single round's prover output for the multilinear
// sumcheck protocol: the univariate g_j evaluated at 0 and 1.
type Message struct {
	S0, S1 field.Element
}

// Config is a prover's configuration: the asserted claim, the number
// of variables (checked against the oracle), the oracle itself, and
// the Blendy-specific stage count (ignored by Time and Space).
type Config struct {
	Claim        field.Element
	NumVariables int
	Stream       oracle.Oracle
	NumStages    int
	Logger       zerolog.Logger
}

// Option configures a Config beyond its required fields.
type Option func(*Config)

// WithNumStages sets Blendy's stage count k (default 2 when unset).
// k = 1 degenerates to a single-staged Blendy, behaviourally close to
// the Time prover in memory profile.
func WithNumStages(k int) Option {
	return func(c *Config) { c.NumStages = k }
}

// WithLogger attaches a logger a prover emits round-by-round debug
// events to. The default is zerolog.Nop(): the library stays silent
// unless a caller opts in. The protocol driver does not read it; it
// takes its own logger argument.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// NewConfig validates and builds a Config. It returns
// sc.ErrVariableMismatch if numVariables disagrees with stream's
// NumVars(), and sc.ErrZeroStages if an explicit WithNumStages(0) is
// supplied.
func NewConfig(claim field.Element, numVariables int, stream oracle.Oracle, opts ...Option) (Config, error) {
	if stream.NumVars() != numVariables {
		return Config{}, fmt.Errorf("provers: %w: got %d, oracle has %d",
			sc.ErrVariableMismatch, numVariables, stream.NumVars())
	}
	c := Config{
		Claim:        claim,
		NumVariables: numVariables,
		Stream:       stream,
		NumStages:    2,
		Logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.NumStages < 1 {
		return Config{}, fmt.Errorf("provers: %w: got %d", sc.ErrZeroStages, c.NumStages)
	}
	return c, nil
}

// Prover is the polymorphic surface the protocol driver runs: request
// the next round message given the previous round's challenge (absent,
// i.e. nil, on the very first call and on the call after the last
// round, which no challenge follows), until the prover signals
// termination by returning ok = false -- which it must do exactly after
// NumVariables calls.
type Prover interface {
	Claim() field.Element
	NumVariables() int
	NextMessage(challenge field.Element) (Message, bool)
}
