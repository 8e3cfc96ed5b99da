package wireval

import "github.com/aalhour/gomemorypack/internal/iostream"

// Int128 is a signed 128-bit integer carried as two 64-bit halves, the
// in-memory stand-in for a peer's native i128 field (Go has no 128-bit
// integer kind). Its wire form is 16 little-endian bytes, low half
// first, like every other fixed-width scalar.
type Int128 struct {
	Lo uint64
	Hi int64
}

// Uint128 is Int128's unsigned counterpart.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

// WriteInt128 writes v as 16 little-endian bytes, low half first.
func WriteInt128(w *iostream.Writer, v Int128) { w.WriteI128(v.Hi, v.Lo) }

// ReadInt128 reads a value written by WriteInt128.
func ReadInt128(r *iostream.Reader) (Int128, error) {
	hi, lo, err := r.ReadI128()
	if err != nil {
		return Int128{}, err
	}
	return Int128{Lo: lo, Hi: hi}, nil
}

// WriteUint128 writes v as 16 little-endian bytes, low half first.
func WriteUint128(w *iostream.Writer, v Uint128) { w.WriteU128(v.Hi, v.Lo) }

// ReadUint128 reads a value written by WriteUint128.
func ReadUint128(r *iostream.Reader) (Uint128, error) {
	hi, lo, err := r.ReadU128()
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{Lo: lo, Hi: hi}, nil
}
