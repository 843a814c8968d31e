package oracle

import (
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"

	"github.com/giuliop/sumcheck/field"
	"github.com/giuliop/sumcheck/internal/parallel"
)

// Decoder turns a fixed-width little-endian byte slice into a field
// element. Encoder is its inverse, used by WriteMapped.
type Decoder func(buf []byte) field.Element
type Encoder func(e field.Element, width int) []byte

// Mapped is a memory-mapped streaming oracle: a file of 2^n
// little-endian serialised field elements of fixed width,
// read with O(1) resident memory via mmap rather than loaded into a
// Go slice. ProbeChain-go-probe uses the same edsrzf/mmap-go package
// for its own on-disk data for the identical reason.
type Mapped struct {
	n      int
	width  int
	data   mmap.MMap
	file   *os.File
	decode Decoder
	claim  field.Element
}

// OpenMapped memory-maps path as an n-variable oracle of fixed-width
// field elements, decoded by decode. zero is used to seed the claim
// summation.
func OpenMapped(path string, n, width int, decode Decoder, zero field.Element) (*Mapped, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("oracle: opening mapped file %s: %w", path, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("oracle: mapping file %s: %w", path, err)
	}
	want := (uint64(1) << uint(n)) * uint64(width)
	if uint64(len(data)) != want {
		data.Unmap()
		f.Close()
		return nil, fmt.Errorf("oracle: file %s has %d bytes, want %d for n=%d width=%d",
			path, len(data), want, n, width)
	}
	m := &Mapped{n: n, width: width, data: data, file: f, decode: decode}
	m.claim = parallel.Sum(uint64(1)<<uint(n), zero, m.Evaluate)
	return m, nil
}

// NumVars returns n.
func (m *Mapped) NumVars() int { return m.n }

// Evaluate decodes the element at hypercube index i directly from the
// mapped region.
func (m *Mapped) Evaluate(i uint64) field.Element {
	off := i * uint64(m.width)
	return m.decode(m.data[off : off+uint64(m.width)])
}

// Claim returns the precomputed hypercube sum.
func (m *Mapped) Claim() field.Element { return m.claim }

// Close unmaps the region and closes the backing file.
func (m *Mapped) Close() error {
	if err := m.data.Unmap(); err != nil {
		return fmt.Errorf("oracle: unmapping: %w", err)
	}
	return m.file.Close()
}

// WriteMapped serialises values to path in the fixed-width little-endian
// layout OpenMapped expects, for tests and benchmark fixture generation.
func WriteMapped(path string, values []field.Element, encode Encoder, width int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("oracle: creating mapped file %s: %w", path, err)
	}
	defer f.Close()
	for _, v := range values {
		if _, err := f.Write(encode(v, width)); err != nil {
			return fmt.Errorf("oracle: writing mapped file %s: %w", path, err)
		}
	}
	return nil
}
