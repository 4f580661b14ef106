// Package wire provides little-endian byte helpers and the core's 64-bit
// mixing hash primitive, shared by wsdata, tuple, and state.
package wire

import (
	"encoding/binary"
	"math"
)

// PutU64 writes v to b[off:off+8] in little-endian order.
func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// PutI64 writes v to b[off:off+8] in little-endian order.
func PutI64(b []byte, off int, v int64) {
	binary.LittleEndian.PutUint64(b[off:off+8], uint64(v))
}

// PutF64 writes the IEEE-754 bits of v to b[off:off+8] in little-endian order.
func PutF64(b []byte, off int, v float64) {
	binary.LittleEndian.PutUint64(b[off:off+8], math.Float64bits(v))
}

// ReadU64 reads a little-endian uint64 from b[off:off+8].
func ReadU64(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

// ReadI64 reads a little-endian int64 from b[off:off+8].
func ReadI64(b []byte, off int) int64 {
	return int64(binary.LittleEndian.Uint64(b[off : off+8]))
}

// ReadF64 reads an IEEE-754 float64 from b[off:off+8].
func ReadF64(b []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off : off+8]))
}
