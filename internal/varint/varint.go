// Package varint implements the single-byte-or-tagged integer encoding used
// by MemoryPack for version-tolerant field-length prefixes and circular-mode
// reference ids.
//
// This is *not* a 7-bit continuation varint — MemoryPack reserves the top
// of the signed-byte range as tag bytes selecting a fixed-width payload of
// 1, 2, 4, or 8 bytes, and the bottom of the range encodes small values
// directly in the tag byte itself. The scheme is driven entirely by the
// first byte on decode; no continuation bits are involved.
package varint

import (
	"encoding/binary"

	"github.com/aalhour/gomemorypack/internal/mperr"
)

// Tag bytes, read as signed 8-bit values. Values in [tagMinDirect, 127] are
// the scalar itself; the eight negative tags below that select a
// fixed-width payload.
const (
	tagInt64  int8 = -128
	tagUint64 int8 = -127
	tagInt32  int8 = -126
	tagUint32 int8 = -125
	tagInt16  int8 = -124
	tagUint16 int8 = -123
	tagInt8   int8 = -122
	tagUint8  int8 = -121

	// tagMinDirect is the lowest tag value still carrying the direct,
	// single-byte scalar form.
	tagMinDirect int8 = -120
)

// tagByte reinterprets a signed tag constant as its wire byte value. A
// direct constant conversion (byte(tagInt8)) is rejected by the compiler
// because the negative constant is not representable as a byte; routing
// through a variable performs the same two's-complement reinterpretation
// at runtime instead.
func tagByte(t int8) byte { return byte(t) }

// MaxLen is the largest number of bytes a varint can occupy (1 tag byte +
// 8 payload bytes).
const MaxLen = 9

// AppendInt64 appends the smallest MemoryPack varint encoding of v to dst
// and returns the extended slice.
func AppendInt64(dst []byte, v int64) []byte {
	switch {
	case v >= int64(tagMinDirect) && v <= 127:
		return append(dst, byte(int8(v)))
	case v >= -128 && v <= 127:
		return append(dst, tagByte(tagInt8), byte(int8(v)))
	case v >= 0 && v <= 255:
		return append(dst, tagByte(tagUint8), byte(uint8(v)))
	case v >= 0 && v <= 65535:
		dst = append(dst, tagByte(tagUint16))
		return appendUint16(dst, uint16(v))
	case v >= -32768 && v <= 32767:
		dst = append(dst, tagByte(tagInt16))
		return appendUint16(dst, uint16(int16(v)))
	case v >= 0 && v <= 4294967295:
		dst = append(dst, tagByte(tagUint32))
		return appendUint32(dst, uint32(v))
	case v >= -2147483648 && v <= 2147483647:
		dst = append(dst, tagByte(tagInt32))
		return appendUint32(dst, uint32(int32(v)))
	default:
		dst = append(dst, tagByte(tagInt64))
		return appendUint64(dst, uint64(v))
	}
}

// AppendUint64 appends the smallest MemoryPack varint encoding of v to dst.
// Values above math.MaxInt64 always take the tagUint64 fixed-width form.
func AppendUint64(dst []byte, v uint64) []byte {
	switch {
	case v <= 127:
		return append(dst, byte(v))
	case v <= 255:
		return append(dst, tagByte(tagUint8), byte(uint8(v)))
	case v <= 65535:
		dst = append(dst, tagByte(tagUint16))
		return appendUint16(dst, uint16(v))
	case v <= 4294967295:
		dst = append(dst, tagByte(tagUint32))
		return appendUint32(dst, uint32(v))
	case v <= 9223372036854775807:
		dst = append(dst, tagByte(tagInt64))
		return appendUint64(dst, v)
	default:
		dst = append(dst, tagByte(tagUint64))
		return appendUint64(dst, v)
	}
}

// AppendInt appends the smallest varint encoding of a plain int, used for
// in-process lengths and counts that are always non-negative in practice
// but are still written through the signed law for wire symmetry.
func AppendInt(dst []byte, v int) []byte { return AppendInt64(dst, int64(v)) }

// DecodeInt64 decodes a varint from src, returning the value and the number
// of bytes consumed.
func DecodeInt64(src []byte) (int64, int, error) {
	if len(src) < 1 {
		return 0, 0, mperr.UnexpectedEnd(0, 1, 0)
	}
	tag := int8(src[0])
	if tag >= tagMinDirect {
		return int64(tag), 1, nil
	}
	switch tag {
	case tagUint8:
		if len(src) < 2 {
			return 0, 0, mperr.UnexpectedEnd(1, 1, len(src)-1)
		}
		return int64(src[1]), 2, nil
	case tagInt8:
		if len(src) < 2 {
			return 0, 0, mperr.UnexpectedEnd(1, 1, len(src)-1)
		}
		return int64(int8(src[1])), 2, nil
	case tagUint16:
		if len(src) < 3 {
			return 0, 0, mperr.UnexpectedEnd(1, 2, len(src)-1)
		}
		return int64(binary.LittleEndian.Uint16(src[1:3])), 3, nil
	case tagInt16:
		if len(src) < 3 {
			return 0, 0, mperr.UnexpectedEnd(1, 2, len(src)-1)
		}
		return int64(int16(binary.LittleEndian.Uint16(src[1:3]))), 3, nil
	case tagUint32:
		if len(src) < 5 {
			return 0, 0, mperr.UnexpectedEnd(1, 4, len(src)-1)
		}
		return int64(binary.LittleEndian.Uint32(src[1:5])), 5, nil
	case tagInt32:
		if len(src) < 5 {
			return 0, 0, mperr.UnexpectedEnd(1, 4, len(src)-1)
		}
		return int64(int32(binary.LittleEndian.Uint32(src[1:5]))), 5, nil
	case tagUint64:
		if len(src) < 9 {
			return 0, 0, mperr.UnexpectedEnd(1, 8, len(src)-1)
		}
		return int64(binary.LittleEndian.Uint64(src[1:9])), 9, nil
	case tagInt64:
		if len(src) < 9 {
			return 0, 0, mperr.UnexpectedEnd(1, 8, len(src)-1)
		}
		return int64(binary.LittleEndian.Uint64(src[1:9])), 9, nil
	default:
		// Unreachable: every int8 value is covered by tagMinDirect..127 or
		// one of the eight named tags above.
		return 0, 0, mperr.New(mperr.KindDeserialization, "varint: unreachable tag")
	}
}

// DecodeUint64 decodes a varint from src and reinterprets the value as a
// uint64, so every form AppendUint64 writes (including its tagInt64 form)
// round-trips. No form is rejected: a negative value comes back as its
// two's-complement uint64.
func DecodeUint64(src []byte) (uint64, int, error) {
	v, n, err := DecodeInt64(src)
	if err != nil {
		return 0, 0, err
	}
	return uint64(v), n, nil
}

// Len returns the number of bytes AppendInt64 would emit for v.
func Len(v int64) int {
	switch {
	case v >= int64(tagMinDirect) && v <= 127:
		return 1
	case v >= -128 && v <= 255:
		return 2
	case v >= -32768 && v <= 65535:
		return 3
	case v >= -2147483648 && v <= 4294967295:
		return 5
	default:
		return 9
	}
}

func appendUint16(dst []byte, v uint16) []byte { return binary.LittleEndian.AppendUint16(dst, v) }
func appendUint32(dst []byte, v uint32) []byte { return binary.LittleEndian.AppendUint32(dst, v) }
func appendUint64(dst []byte, v uint64) []byte { return binary.LittleEndian.AppendUint64(dst, v) }
