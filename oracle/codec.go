package oracle

import (
	"math/big"

	"github.com/giuliop/sumcheck/field"
)

// LittleEndianDecoder returns a Decoder reading a fixed-width
// little-endian byte slice into an element of f, the layout mapped
// oracle files are written in.
func LittleEndianDecoder(f *field.Field) Decoder {
	return func(buf []byte) field.Element {
		be := make([]byte, len(buf))
		for i, v := range buf {
			be[len(buf)-1-i] = v
		}
		return f.FromBigInt(new(big.Int).SetBytes(be))
	}
}

// LittleEndianEncoder returns the Encoder inverse of
// LittleEndianDecoder: the element's big-endian Bytes() reversed into
// a width-sized little-endian slice, zero-padded at the top.
func LittleEndianEncoder() Encoder {
	return func(e field.Element, width int) []byte {
		be := e.Bytes()
		buf := make([]byte, width)
		for i := range be {
			buf[i] = be[len(be)-1-i]
		}
		return buf
	}
}
