// Package challenge supplies the verifier's per-round randomness:
// challenges are drawn uniformly from the field, and a source can be
// seeded so transcripts and benchmark runs are reproducible.
package challenge

import (
	cryptorand "crypto/rand"
	"io"
	mathrand "math/rand"

	"github.com/giuliop/sumcheck/field"
)

// FieldFactory is the minimal surface challenge needs from a field: a
// source of uniformly random elements. Both *field.Field (Field64,
// Field128) and field.Bn254 satisfy it.
type FieldFactory interface {
	Random(r io.Reader) (field.Element, error)
}

// Source draws a fresh uniformly random field element on every call.
type Source interface {
	Next(f FieldFactory) (field.Element, error)
}

// reader adapts an io.Reader-backed entropy source to Source via the
// field's own Random, which already accepts any io.Reader.
type reader struct {
	r io.Reader
}

func (s reader) Next(f FieldFactory) (field.Element, error) {
	return f.Random(s.r)
}

// CryptoSource draws challenges from crypto/rand.Reader. Use this for
// real protocol runs; it is not reproducible.
func CryptoSource() Source {
	return reader{r: cryptorand.Reader}
}

// SeededSource draws challenges from a math/rand source seeded with
// seed, making the resulting transcript reproducible across runs --
// which is what lets Time, Space, and Blendy transcripts be compared
// under an identical challenge stream.
func SeededSource(seed int64) Source {
	return reader{r: mathrand.New(mathrand.NewSource(seed))}
}

// Fixed replays a predetermined sequence of field elements, then
// panics if asked for more than were supplied. It exists for tests
// that need an exact challenge stream rather than a seeded
// pseudo-random one.
type Fixed struct {
	values []field.Element
	i      int
}

// NewFixed builds a Source that replays values in order.
func NewFixed(values ...field.Element) *Fixed {
	return &Fixed{values: values}
}

func (f *Fixed) Next(_ FieldFactory) (field.Element, error) {
	v := f.values[f.i]
	f.i++
	return v, nil
}
