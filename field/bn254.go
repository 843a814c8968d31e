package field

import (
	"fmt"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Bn254 is the "FieldBn254" variant named in the benchmark CLI contract:
// the sumcheck protocol run directly over gnark-crypto's bn254 scalar
// field, rather than over a toy modulus. It lets a caller exercise the
// provers with the same field gnark circuits commit witnesses in,
// without pulling in gnark's constraint system (out of scope, see
// DESIGN.md).
var Bn254 = &bn254Field{}

type bn254Field struct{}

func (bn254Field) Name() string { return "FieldBn254" }

func (bn254Field) Zero() Element { return bn254Elem{} }

func (bn254Field) One() Element {
	var e fr.Element
	e.SetOne()
	return bn254Elem{e}
}

// bn254Half is the inverse of (1+1), computed once at package init.
var bn254Half = func() fr.Element {
	var two, half fr.Element
	two.SetUint64(2)
	half.Inverse(&two)
	return half
}()

func (bn254Field) Half() Element { return bn254Elem{bn254Half} }

func (bn254Field) FromUint64(v uint64) Element {
	var e fr.Element
	e.SetUint64(v)
	return bn254Elem{e}
}

func (bn254Field) FromBigInt(v *big.Int) Element {
	var e fr.Element
	e.SetBigInt(v)
	return bn254Elem{e}
}

// Random draws a uniform bn254 scalar using r as the entropy source, by
// sampling a wide enough byte string and reducing it modulo the scalar
// field order (gnark-crypto's SetBytes does the reduction).
func (bn254Field) Random(r io.Reader) (Element, error) {
	buf := make([]byte, fr.Bytes+16)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("field: drawing random bn254 element: %w", err)
	}
	var e fr.Element
	e.SetBytes(buf)
	return bn254Elem{e}, nil
}

// bn254Elem adapts gnark-crypto's fr.Element to the field.Element
// interface. fr.Element is a value type (a fixed-size limb array), so
// bn254Elem copies rather than mutates on every operation, matching the
// Element contract's immutability.
type bn254Elem struct {
	v fr.Element
}

func (e bn254Elem) sameField(other Element) bn254Elem {
	o, ok := other.(bn254Elem)
	if !ok {
		panic("field: operands belong to different fields")
	}
	return o
}

func (e bn254Elem) Add(other Element) Element {
	o := e.sameField(other)
	var r fr.Element
	r.Add(&e.v, &o.v)
	return bn254Elem{r}
}

func (e bn254Elem) Sub(other Element) Element {
	o := e.sameField(other)
	var r fr.Element
	r.Sub(&e.v, &o.v)
	return bn254Elem{r}
}

func (e bn254Elem) Mul(other Element) Element {
	o := e.sameField(other)
	var r fr.Element
	r.Mul(&e.v, &o.v)
	return bn254Elem{r}
}

func (e bn254Elem) Neg() Element {
	var r fr.Element
	r.Neg(&e.v)
	return bn254Elem{r}
}

func (e bn254Elem) Inverse() (Element, bool) {
	if e.v.IsZero() {
		return nil, false
	}
	var r fr.Element
	r.Inverse(&e.v)
	return bn254Elem{r}, true
}

func (e bn254Elem) IsZero() bool { return e.v.IsZero() }

func (e bn254Elem) IsOne() bool { return e.v.IsOne() }

func (e bn254Elem) Equal(other Element) bool {
	o := e.sameField(other)
	return e.v.Equal(&o.v)
}

func (e bn254Elem) Zero() Element { return Bn254.Zero() }
func (e bn254Elem) One() Element  { return Bn254.One() }
func (e bn254Elem) Half() Element { return Bn254.Half() }

func (e bn254Elem) Bytes() []byte {
	b := e.v.Bytes()
	return b[:]
}

func (e bn254Elem) String() string { return e.v.String() }
