// Package iostream implements the byte-level cursor and growable buffer
// that every higher layer of the codec is built on: a Reader wrapping an
// externally-owned input slice, and a Writer wrapping a growable output
// buffer. Both are little-endian throughout and both carry an optional
// reference-state map used only by circular-mode aggregates.
//
// Fixed-width values delegate to encoding/binary.LittleEndian across the
// full primitive set (bool, i8/u8 .. i128/u128, f32/f64, the 16-bit
// Unicode scalar). The one wire element that genuinely needs a variable
// width — version-tolerant field lengths and circular-mode reference ids
// — goes through package internal/varint's tagged-byte scheme instead;
// callers reach internal/varint directly for those, not through Writer.
package iostream

import (
	"encoding/binary"
	"math"

	"github.com/aalhour/gomemorypack/internal/refstate"
)

// Writer accumulates a little-endian byte buffer. The zero value is ready
// to use; NewWriter pre-sizes the buffer when the caller has an estimate.
type Writer struct {
	buf []byte
	ref *refstate.EncodeState
}

// NewWriter returns a Writer with the buffer pre-allocated to capacity.
func NewWriter(capacity int) *Writer {
	if capacity < 0 {
		capacity = 0
	}
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the accumulated buffer. The Writer must not be used again
// afterward if the caller intends to take ownership of the slice.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// RefState returns the writer's circular-mode reference-tracking state,
// creating it lazily on first use. It lives as long as the Writer and is
// never reset: Encode gets fresh state from its new Writer, while successive
// EncodeInto calls on one Writer share the same state.
func (w *Writer) RefState() *refstate.EncodeState {
	if w.ref == nil {
		w.ref = refstate.NewEncodeState()
	}
	return w.ref
}

// NewScratchWriter returns an empty Writer that shares w's reference-state
// map, for encoders that serialize a field into a side buffer before
// emitting its length prefix: an object first seen inside the scratch must
// still read as "already encoded" from the parent buffer and vice versa,
// and ids must stay globally unique across both.
func NewScratchWriter(w *Writer, capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity), ref: w.RefState()}
}

// AppendBytes bulk-appends raw bytes with no length prefix.
func (w *Writer) AppendBytes(b []byte) { w.buf = append(w.buf, b...) }

// ReserveBytes appends n zero bytes and returns the offset at which they
// start, for later patching (used by the version-tolerant encoder's
// compact length-patching path).
func (w *Writer) ReserveBytes(n int) int {
	off := len(w.buf)
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
	return off
}

// PatchByte overwrites a single previously-reserved byte.
func (w *Writer) PatchByte(offset int, b byte) { w.buf[offset] = b }

// Splice inserts b at offset, shifting everything after it forward. Used
// when a version-tolerant field length no longer fits the reserved
// fixed-width slot and must be replaced by a wider varint form.
func (w *Writer) Splice(offset int, b []byte) {
	w.buf = append(w.buf[:offset], append(append([]byte{}, b...), w.buf[offset:]...)...)
}

// WriteBool writes a single byte: 1 for true, 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

// WriteI8 writes a signed 8-bit integer.
func (w *Writer) WriteI8(v int8) { w.buf = append(w.buf, byte(v)) }

// WriteU8 writes an unsigned 8-bit integer.
func (w *Writer) WriteU8(v uint8) { w.buf = append(w.buf, v) }

// WriteI16 writes a little-endian signed 16-bit integer.
func (w *Writer) WriteI16(v int16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, uint16(v)) }

// WriteU16 writes a little-endian unsigned 16-bit integer.
func (w *Writer) WriteU16(v uint16) { w.buf = binary.LittleEndian.AppendUint16(w.buf, v) }

// WriteI32 writes a little-endian signed 32-bit integer.
func (w *Writer) WriteI32(v int32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v)) }

// WriteU32 writes a little-endian unsigned 32-bit integer.
func (w *Writer) WriteU32(v uint32) { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }

// WriteI64 writes a little-endian signed 64-bit integer.
func (w *Writer) WriteI64(v int64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v)) }

// WriteU64 writes a little-endian unsigned 64-bit integer.
func (w *Writer) WriteU64(v uint64) { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }

// WriteI128 writes a little-endian signed 128-bit integer as two 64-bit
// halves (low 64 bits first, matching the little-endian convention used
// throughout the format).
func (w *Writer) WriteI128(hi int64, lo uint64) {
	w.WriteU64(lo)
	w.WriteI64(hi)
}

// WriteU128 writes a little-endian unsigned 128-bit integer as two 64-bit
// halves (low bits first).
func (w *Writer) WriteU128(hi, lo uint64) {
	w.WriteU64(lo)
	w.WriteU64(hi)
}

// WriteF32 writes a little-endian IEEE-754 binary32.
func (w *Writer) WriteF32(v float32) { w.WriteU32(math.Float32bits(v)) }

// WriteF64 writes a little-endian IEEE-754 binary64.
func (w *Writer) WriteF64(v float64) { w.WriteU64(math.Float64bits(v)) }

// WriteRune writes a Unicode scalar value as MemoryPack's "char": a 16-bit
// code unit for BMP code points, or only the high surrogate for
// supplementary-plane code points — this matches the wire layout of a C#
// char, which is itself a single UTF-16 code unit, not a full scalar.
func (w *Writer) WriteRune(r rune) {
	if r <= 0xFFFF {
		w.WriteU16(uint16(r))
		return
	}
	r -= 0x10000
	hi := uint16(0xD800 + (r >> 10))
	w.WriteU16(hi)
}

// WriteFixed32Length writes a plain 32-bit signed length prefix, used by
// container codecs for sequences, sets, and multi-dim arrays. -1 means
// "absent".
func (w *Writer) WriteFixed32Length(n int32) { w.WriteI32(n) }

// WriteString writes s using the compact UTF-8 form: an encoder always
// emits this form for non-empty strings; only a decoder needs to accept
// the legacy UTF-16 form.
func (w *Writer) WriteString(s string) {
	if len(s) == 0 {
		w.WriteI32(0)
		return
	}
	marker := ^int32(len(s))
	w.WriteI32(marker)
	w.WriteI32(utf16CodeUnitCount(s))
	w.AppendBytes([]byte(s))
}

// WriteNullableString writes s using the -1 "absent" sentinel when
// present is false, or the compact UTF-8 form otherwise.
func (w *Writer) WriteNullableString(s string, present bool) {
	if !present {
		w.WriteI32(-1)
		return
	}
	w.WriteString(s)
}

func utf16CodeUnitCount(s string) int32 {
	var n int32
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}
