// Package sumcheck is the root of the interactive sumcheck protocol
// module: it holds the precondition-violation sentinel errors shared by
// every prover and the protocol driver. The protocol's actual surface
// -- field elements, oracles, provers, and the driver -- lives in the
// field, oracle, provers, product, and driver subpackages.
package sumcheck

import "errors"

// Precondition violations: contract bugs a caller must not recover
// from. Field singularities outside the anticipated r in {0,1} path
// panic in the package that hits them.
var (
	// ErrVariableMismatch is returned when a prover Config's
	// NumVariables disagrees with its oracle's NumVars().
	ErrVariableMismatch = errors.New("sumcheck: num_variables disagrees with the oracle")

	// ErrZeroStages is returned when a Blendy Config requests
	// num_stages = 0.
	ErrZeroStages = errors.New("sumcheck: num_stages must be at least 1")
)
