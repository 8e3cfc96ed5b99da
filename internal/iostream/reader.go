package iostream

import (
	"encoding/binary"
	"math"
	"unicode/utf16"
	"unicode/utf8"
	"unsafe"

	"github.com/aalhour/gomemorypack/internal/mperr"
	"github.com/aalhour/gomemorypack/internal/refstate"
)

// Reader is a cursor over an externally-owned byte slice. It never
// mutates the slice and never copies it wholesale; individual read
// operations either copy a small fixed span or, for BorrowString/
// BorrowBytes, alias directly into it.
type Reader struct {
	data []byte
	pos  int
	ref  *refstate.DecodeState
}

// NewReader wraps data for sequential reading. data must outlive the
// Reader and any borrowed strings/slices obtained from it.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewSubReader returns a Reader over payload that shares r's reference
// table, for decoders that slice a length-prefixed field payload out of
// the parent input: a back-reference inside the payload must resolve
// against ids installed while decoding the enclosing object and vice
// versa.
func NewSubReader(r *Reader, payload []byte) *Reader {
	return &Reader{data: payload, ref: r.RefState()}
}

// Position returns the current byte offset.
func (r *Reader) Position() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// RefState returns the reader's circular-mode reference table, creating it
// lazily. It lives as long as the Reader and is never reset: Decode gets a
// fresh table from its new Reader, while successive DecodeFrom calls on one
// Reader share the same table.
func (r *Reader) RefState() *refstate.DecodeState {
	if r.ref == nil {
		r.ref = refstate.NewDecodeState()
	}
	return r.ref
}

func (r *Reader) need(n int) error {
	if n < 0 || r.pos+n > len(r.data) {
		return mperr.UnexpectedEnd(r.pos, n, r.Remaining())
	}
	return nil
}

// Skip advances the cursor by n bytes without interpreting them.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// Rewind moves the cursor back by n bytes, failing if that would move it
// before the start of the input. The decoders do not call it; their
// one-byte lookahead uses PeekByte.
func (r *Reader) Rewind(n int) error {
	if n < 0 || r.pos-n < 0 {
		return mperr.New(mperr.KindDeserialization, "rewind past start of buffer")
	}
	r.pos -= n
	return nil
}

// Peek returns up to n unread bytes without advancing the cursor,
// aliasing the reader's input directly. Used by version-tolerant decode
// to inspect a varint length header before knowing its width.
func (r *Reader) Peek(n int) []byte {
	end := r.pos + n
	if end > len(r.data) {
		end = len(r.data)
	}
	return r.data[r.pos:end]
}

// PeekByte returns the next byte without advancing the cursor.
func (r *Reader) PeekByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	return r.data[r.pos], nil
}

// ReadBool reads one byte. Only the literal value 1 is true; every other
// byte, including other nonzero values, decodes as false.
func (r *Reader) ReadBool() (bool, error) {
	if err := r.need(1); err != nil {
		return false, err
	}
	v := r.data[r.pos]
	r.pos++
	return v == 1, nil
}

// ReadI8 reads a signed 8-bit integer.
func (r *Reader) ReadI8() (int8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := int8(r.data[r.pos])
	r.pos++
	return v, nil
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

// ReadI16 reads a little-endian signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := int16(binary.LittleEndian.Uint16(r.data[r.pos:]))
	r.pos += 2
	return v, nil
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadI32 reads a little-endian signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(r.data[r.pos:]))
	r.pos += 4
	return v, nil
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadI64 reads a little-endian signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := int64(binary.LittleEndian.Uint64(r.data[r.pos:]))
	r.pos += 8
	return v, nil
}

// ReadU64 reads a little-endian unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadI128 reads a little-endian signed 128-bit integer as (hi, lo) halves.
func (r *Reader) ReadI128() (hi int64, lo uint64, err error) {
	if lo, err = r.ReadU64(); err != nil {
		return 0, 0, err
	}
	if hi, err = r.ReadI64(); err != nil {
		return 0, 0, err
	}
	return hi, lo, nil
}

// ReadU128 reads a little-endian unsigned 128-bit integer as (hi, lo) halves.
func (r *Reader) ReadU128() (hi, lo uint64, err error) {
	if lo, err = r.ReadU64(); err != nil {
		return 0, 0, err
	}
	if hi, err = r.ReadU64(); err != nil {
		return 0, 0, err
	}
	return hi, lo, nil
}

// ReadF32 reads a little-endian IEEE-754 binary32.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadF64 reads a little-endian IEEE-754 binary64.
func (r *Reader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadRune reads a Unicode scalar as MemoryPack's "char": a single 16-bit
// code unit. An unpaired surrogate is rejected — encoding a supplementary
// plane code point truncates to the high surrogate on write (see
// Writer.WriteRune), so full round-tripping of astral code points is not
// possible through this primitive, matching the C# char type it mirrors.
func (r *Reader) ReadRune() (rune, error) {
	v, err := r.ReadU16()
	if err != nil {
		return 0, err
	}
	if v >= 0xD800 && v <= 0xDFFF {
		return 0, mperr.InvalidUnicodeScalar(v)
	}
	return rune(v), nil
}

// ReadBytes copies and returns n bytes, advancing the cursor.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// BorrowBytes returns a slice aliasing the reader's input directly,
// without copying. The returned slice is valid only as long as the
// reader's backing array is — used by zero-copy mode.
func (r *Reader) BorrowBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// stringForm classifies the leading i32 length marker into one of the
// three string wire forms (absent, empty, compact UTF-8) or the legacy
// UTF-16 form a peer may have sent.
type stringForm int

const (
	formAbsent stringForm = iota
	formEmpty
	formCompactUTF8
	formLegacyUTF16
)

func classifyMarker(marker int32) (stringForm, int) {
	switch {
	case marker == -1:
		return formAbsent, 0
	case marker == 0:
		return formEmpty, 0
	case marker < 0:
		return formCompactUTF8, int(^marker)
	default:
		return formLegacyUTF16, int(marker)
	}
}

// ReadString reads a string using whichever of the three wire forms is
// present. The -1 "absent" marker decodes as an empty string, matching
// the reference's String (not Option<String>) deserializer — callers
// that must distinguish absence from emptiness should use ReadNullableString.
func (r *Reader) ReadString() (string, error) {
	s, _, err := r.ReadNullableString()
	return s, err
}

// ReadNullableString reads a string, additionally reporting whether the
// -1 sentinel ("absent") was present.
func (r *Reader) ReadNullableString() (value string, ok bool, err error) {
	marker, err := r.ReadI32()
	if err != nil {
		return "", false, err
	}
	form, byteCount := classifyMarker(marker)
	switch form {
	case formAbsent:
		return "", false, nil
	case formEmpty:
		return "", true, nil
	case formCompactUTF8:
		if _, err := r.ReadI32(); err != nil { // UTF-16 code-unit count, unused
			return "", false, err
		}
		raw, err := r.ReadBytes(byteCount)
		if err != nil {
			return "", false, err
		}
		if !utf8.Valid(raw) {
			return "", false, mperr.InvalidUTF8()
		}
		return string(raw), true, nil
	default: // formLegacyUTF16
		units := make([]uint16, byteCount)
		for i := range units {
			u, err := r.ReadU16()
			if err != nil {
				return "", false, err
			}
			units[i] = u
		}
		return string(utf16.Decode(units)), true, nil
	}
}

// BorrowString reads a string by aliasing the compact-UTF-8 wire payload
// directly into the reader's input, avoiding a copy. It rejects the
// legacy UTF-16 form, which cannot be borrowed without transcoding.
func (r *Reader) BorrowString() (value string, ok bool, err error) {
	marker, err := r.ReadI32()
	if err != nil {
		return "", false, err
	}
	form, byteCount := classifyMarker(marker)
	switch form {
	case formAbsent:
		return "", false, nil
	case formEmpty:
		return "", true, nil
	case formLegacyUTF16:
		return "", false, mperr.UTF16InZeroCopy()
	default: // formCompactUTF8
		if _, err := r.ReadI32(); err != nil {
			return "", false, err
		}
		raw, err := r.BorrowBytes(byteCount)
		if err != nil {
			return "", false, err
		}
		if !utf8.Valid(raw) {
			return "", false, mperr.InvalidUTF8()
		}
		return unsafeString(raw), true, nil
	}
}

// unsafeString reinterprets b as a string without copying. b must not be
// mutated afterward; callers only ever pass slices borrowed read-only from
// a Reader's input.
func unsafeString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
