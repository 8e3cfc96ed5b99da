package memorypack

import (
	"fmt"
	"reflect"

	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/schema"
	"github.com/aalhour/gomemorypack/internal/wireval"
)

// Writer and Reader are re-exported so custom Marshaler/Unmarshaler
// implementations can be written without importing an internal package.
type Writer = iostream.Writer
type Reader = iostream.Reader

// Int128 and Uint128 carry a peer's native 128-bit integer field as two
// 64-bit halves (low half first), since Go has no 128-bit integer kind.
// A struct field of either type encodes as 16 little-endian bytes, like
// every other fixed-width scalar.
type Int128 = wireval.Int128
type Uint128 = wireval.Uint128

// MultiDimArray is the field type for a rank-N rectangular array.
type MultiDimArray[T any] = wireval.MultiDimArray[T]

// NewWriter returns a Writer with its buffer pre-allocated to capacity,
// for use with EncodeInto when batching several values into one buffer.
func NewWriter(capacity int) *Writer { return iostream.NewWriter(capacity) }

// NewReader wraps data for sequential decoding with DecodeFrom. data
// must outlive the Reader and any zero-copy fields decoded from it.
func NewReader(data []byte) *Reader { return iostream.NewReader(data) }

// Marshaler is implemented by types that encode themselves directly,
// bypassing the reflection-derived plan entirely — the escape hatch for
// a hand-tuned hot-path type, mirroring the reference generator's
// IMemoryPackable<T> for types with bespoke Serialize logic.
type Marshaler interface {
	MarshalMemoryPack(w *Writer) error
}

// Unmarshaler is Marshaler's decode-side counterpart.
type Unmarshaler interface {
	UnmarshalMemoryPack(r *Reader) error
}

// Encode serializes v into a freshly allocated byte slice using
// DefaultOptions.
func Encode[T any](v T) ([]byte, error) {
	return EncodeOptions(v, DefaultOptions())
}

// EncodeOptions is Encode with explicit buffer-sizing Options.
func EncodeOptions[T any](v T, opts Options) ([]byte, error) {
	w := iostream.NewWriter(opts.InitialBufferSize)
	if err := EncodeInto(w, v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeInto serializes v into an existing Writer, appending to whatever
// it already holds. Useful for batching several values into one buffer
// without a per-value allocation.
func EncodeInto[T any](w *Writer, v T) error {
	if m, ok := any(v).(Marshaler); ok {
		return m.MarshalMemoryPack(w)
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Interface {
		// reflect.ValueOf unboxes an interface to its dynamic type; re-box
		// so the schema layer sees the interface and dispatches it as a
		// registered tagged union rather than a bare struct.
		boxed := reflect.New(t).Elem()
		if v := reflect.ValueOf(v); v.IsValid() {
			boxed.Set(v)
		}
		return schema.EncodeValue(w, boxed)
	}
	return schema.EncodeValue(w, reflect.ValueOf(v))
}

// Decode deserializes a single T from the start of data. Trailing bytes
// after that value are not an error, mirroring the reference
// deserializer's behavior of reading only as much as the value needs.
func Decode[T any](data []byte) (T, error) {
	r := iostream.NewReader(data)
	return DecodeFrom[T](r)
}

// DecodeFrom reads one T from r, advancing its cursor past exactly the
// bytes that value occupies.
func DecodeFrom[T any](r *Reader) (T, error) {
	var zero T
	if u, ok := any(&zero).(Unmarshaler); ok {
		err := u.UnmarshalMemoryPack(r)
		return zero, err
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	v, err := schema.DecodeValue(r, t)
	if err != nil {
		return zero, err
	}
	out, ok := v.Interface().(T)
	if !ok {
		if t.Kind() == reflect.Interface && v.IsZero() {
			return zero, nil // absent union member
		}
		return zero, fmt.Errorf("memorypack: decoded %s, want %T", v.Type(), zero)
	}
	return out, nil
}

// Register declares T's aggregate shape mode explicitly. Call it during
// program initialization, before any Encode/Decode call involving T;
// T defaults to ModeRegular if never registered.
func Register[T any](mode ShapeMode) error {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return schema.Register(t, schema.ShapeMode(mode))
}

// RegisterEnum declares T (a named integer type) as an enum with the
// given decode policy and valid discriminants.
func RegisterEnum[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](policy EnumPolicy, members ...T) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	widened := make([]int64, len(members))
	for i, m := range members {
		widened[i] = int64(m)
	}
	schema.RegisterEnum(t, schema.EnumPolicy(policy), widened)
}

// RegisterFlags declares T (a named integer type) as a bit-flag set.
func RegisterFlags[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64]() {
	t := reflect.TypeOf((*T)(nil)).Elem()
	schema.RegisterFlags(t)
}

// RegisterTransparent declares T (a struct with exactly one wire-visible
// field wrapping a 32-bit integer) as a transparent wrapper: its wire
// form is just the inner value, with no field-count byte.
func RegisterTransparent[T any]() {
	t := reflect.TypeOf((*T)(nil)).Elem()
	schema.RegisterTransparent(t)
}

// Flag-set helpers. The C# generator synthesizes bitwise operators on a
// flag set's wrapping struct; Go has no operator overloading, so these
// are plain generic functions over any named integer type instead —
// RegisterFlags needs no wrapping struct in Go (see schema.RegisterFlags)
// since a named integer type already serializes as a bare scalar.
type flagsInt interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// FlagsUnion is the bitwise-or of a and b.
func FlagsUnion[T flagsInt](a, b T) T { return a | b }

// FlagsIntersect is the bitwise-and of a and b.
func FlagsIntersect[T flagsInt](a, b T) T { return a & b }

// FlagsXor is the bitwise-xor of a and b.
func FlagsXor[T flagsInt](a, b T) T { return a ^ b }

// FlagsComplement is the bitwise-not of a.
func FlagsComplement[T flagsInt](a T) T { return ^a }

// FlagsContains reports whether flags has every bit set in mask.
func FlagsContains[T flagsInt](flags, mask T) bool { return flags&mask == mask }

// FlagsIsEmpty reports whether flags has no bits set.
func FlagsIsEmpty[T flagsInt](flags T) bool { return flags == 0 }

// RegisterUnion declares Iface's tagged-union members, in tag order
// (member i gets tag i). Iface must be an interface type, given as the
// type argument; each member is passed as a value of its concrete type,
// e.g. RegisterUnion[Shape](CircleShape{}, SquareShape{}).
func RegisterUnion[Iface any](members ...any) error {
	iface := reflect.TypeOf((*Iface)(nil)).Elem()
	types := make([]reflect.Type, len(members))
	for i, m := range members {
		types[i] = reflect.TypeOf(m)
	}
	return schema.RegisterUnion(iface, types)
}

// ShapeMode selects which of the three MemoryPack aggregate encodings a
// registered type uses.
type ShapeMode = schema.ShapeMode

const (
	ModeRegular         = schema.ModeRegular
	ModeVersionTolerant = schema.ModeVersionTolerant
	ModeCircular        = schema.ModeCircular
)

// EnumPolicy selects how a registered enum's decoder treats a wire value
// outside the set of members it was registered with.
type EnumPolicy = schema.EnumPolicy

const (
	EnumSafe   = schema.EnumSafe
	EnumUnsafe = schema.EnumUnsafe
)
