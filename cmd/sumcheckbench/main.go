// Command sumcheckbench is the benchmark CLI external harnesses drive:
// it runs one sumcheck variant over a randomly generated oracle of the
// requested size and reports wall-clock time and acceptance. No
// environment variables or files are consumed.
package main

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/giuliop/sumcheck/challenge"
	"github.com/giuliop/sumcheck/driver"
	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/oracle"
	"github.com/giuliop/sumcheck/product"
	productblendy "github.com/giuliop/sumcheck/product/blendy"
	producttime "github.com/giuliop/sumcheck/product/time"
	"github.com/giuliop/sumcheck/provers"
	"github.com/giuliop/sumcheck/provers/blendy"
	"github.com/giuliop/sumcheck/provers/space"
	provertime "github.com/giuliop/sumcheck/provers/time"
)

const usage = "usage: sumcheckbench <algorithm> <field> <num_variables> <stage_size>\n" +
	"  algorithm: CTY | VSBW | Blendy | ProductBlendy | ProductVSBW\n" +
	"  field:     Field64 | Field128 | FieldBn254\n"

// goldilocks is the Field64 modulus: 2^64 - 2^32 + 1.
const goldilocks = 0xFFFFFFFF00000001

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) != 4 {
		return fmt.Errorf("sumcheckbench: expected 4 positional arguments, got %d", len(args))
	}
	algorithm, fieldName, nArg, kArg := args[0], args[1], args[2], args[3]

	n, err := strconv.Atoi(nArg)
	if err != nil || n < 1 {
		return fmt.Errorf("sumcheckbench: num_variables must be an integer >= 1, got %q", nArg)
	}
	k, err := strconv.Atoi(kArg)
	if err != nil || k < 1 {
		return fmt.Errorf("sumcheckbench: stage_size must be an integer >= 1, got %q", kArg)
	}

	ff, err := resolveField(fieldName)
	if err != nil {
		return err
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	source := challenge.SeededSource(1)

	start := time.Now()
	var accepted bool
	var rounds int

	switch algorithm {
	case "VSBW", "CTY", "Blendy":
		o := randomOracle(ff, n, source)
		cfg, err := provers.NewConfig(o.Claim(), n, o, provers.WithNumStages(k), provers.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("sumcheckbench: %w", err)
		}
		var p provers.Prover
		switch algorithm {
		case "VSBW":
			p = provertime.New(cfg)
		case "CTY":
			p = space.New(cfg)
		case "Blendy":
			p = blendy.New(cfg)
		}
		result, err := driver.Run(p, ff, source, logger)
		if err != nil {
			return fmt.Errorf("sumcheckbench: %w", err)
		}
		accepted, rounds = result.Accepted, len(result.ProverMessages)

	case "ProductVSBW", "ProductBlendy":
		pOracle := randomOracle(ff, n, source)
		qOracle := randomOracle(ff, n, source)
		claim := productClaim(pOracle, qOracle)
		cfg, err := product.NewConfig(claim, n, pOracle, qOracle, product.WithNumStages(k), product.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("sumcheckbench: %w", err)
		}
		var p product.Prover
		switch algorithm {
		case "ProductVSBW":
			p = producttime.New(cfg)
		case "ProductBlendy":
			p = productblendy.New(cfg)
		}
		result, err := driver.RunProduct(p, ff, source, logger)
		if err != nil {
			return fmt.Errorf("sumcheckbench: %w", err)
		}
		accepted, rounds = result.Accepted, len(result.ProverMessages)

	default:
		return fmt.Errorf("sumcheckbench: unknown algorithm %q", algorithm)
	}

	elapsed := time.Since(start)
	fmt.Fprintf(out, "algorithm=%s field=%s num_variables=%d stage_size=%d rounds=%d accepted=%t elapsed=%s\n",
		algorithm, fieldName, n, k, rounds, accepted, elapsed)
	return nil
}

func resolveField(name string) (challenge.FieldFactory, error) {
	switch name {
	case "Field64":
		return field.NewField64(goldilocks), nil
	case "Field128":
		mod, _ := new(big.Int).SetString("340282366920938463463374607431768211297", 10)
		return field.NewField128(mod), nil
	case "FieldBn254":
		return field.Bn254, nil
	default:
		return nil, fmt.Errorf("sumcheckbench: unknown field %q", name)
	}
}

// randomOracle builds a dense in-memory oracle of 2^n elements drawn
// from source, the same reproducible seeded stream the driver later
// samples challenges from -- fine for a benchmark harness, which only
// needs a representative-sized input, not an adversarial one.
func randomOracle(ff challenge.FieldFactory, n int, source challenge.Source) oracle.Oracle {
	size := uint64(1) << uint(n)
	values := make([]field.Element, size)
	for i := range values {
		v, err := source.Next(ff)
		if err != nil {
			panic(fmt.Sprintf("sumcheckbench: drawing random oracle value: %v", err))
		}
		values[i] = v
	}
	o, err := oracle.NewMemory(values)
	if err != nil {
		panic(fmt.Sprintf("sumcheckbench: building random oracle: %v", err))
	}
	return o
}

// productClaim computes Σ P(x)·Q(x) directly, since oracle.Memory's
// own Claim() is only Σ P(x).
func productClaim(p, q oracle.Oracle) field.Element {
	mp, ok := p.(*oracle.Memory)
	if !ok {
		panic("sumcheckbench: expected a dense oracle")
	}
	dense := mp.Dense()
	sum := dense[0].Zero()
	for i := range dense {
		sum = sum.Add(dense[i].Mul(q.Evaluate(uint64(i))))
	}
	return sum
}
