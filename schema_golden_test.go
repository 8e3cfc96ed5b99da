package memorypack

import (
	"bytes"
	"errors"
	"testing"
)

// The tests in this file pin the wire format byte-for-byte against the
// reference implementation's documented layouts, one scenario per
// aggregate feature: a plain regular-mode struct, enum discriminants
// under both decode policies, tagged-union dispatch, version-tolerant
// field skipping, the empty/absent collection sentinels, and a two-node
// circular graph.

type sensorReading struct {
	ID       int32
	Name     string
	Value    float64
	IsActive bool
}

func TestGoldenRegularStruct(t *testing.T) {
	in := sensorReading{ID: 42, Name: "Test Data", Value: 3.14159, IsActive: true}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{
		0x04,                   // field count
		0x2A, 0x00, 0x00, 0x00, // ID = 42
		0xF6, 0xFF, 0xFF, 0xFF, // string marker = ^9
		0x09, 0x00, 0x00, 0x00, // UTF-16 code-unit count
		'T', 'e', 's', 't', ' ', 'D', 'a', 't', 'a',
		0x6E, 0x86, 0x1B, 0xF0, 0xF9, 0x21, 0x09, 0x40, // Value = 3.14159
		0x01, // IsActive
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("Encode() =\n% x, want\n% x", data, want)
	}

	out, err := Decode[sensorReading](data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Fatalf("Decode() = %+v, want %+v", out, in)
	}
}

type rgbColor int32

const (
	rgbRed rgbColor = iota
	rgbGreen
	rgbBlue
)

type looseColor int32

func TestGoldenEnumDiscriminant(t *testing.T) {
	RegisterEnum[rgbColor](EnumSafe, rgbRed, rgbGreen, rgbBlue)
	RegisterEnum[looseColor](EnumUnsafe, 0, 1, 2)

	data, err := Encode(rgbGreen)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, []byte{0x01, 0x00, 0x00, 0x00}) {
		t.Fatalf("Encode(rgbGreen) = % x", data)
	}

	outOfDomain := []byte{0x05, 0x00, 0x00, 0x00}
	if _, err := Decode[rgbColor](outOfDomain); err == nil {
		t.Fatal("safe-mode decode accepted discriminant 5")
	} else if !errors.Is(err, ErrUnknownEnum) {
		t.Fatalf("safe-mode decode error = %v, want ErrUnknownEnum", err)
	}

	loose, err := Decode[looseColor](outOfDomain)
	if err != nil {
		t.Fatalf("unsafe-mode decode: %v", err)
	}
	if loose != 5 {
		t.Fatalf("unsafe-mode decode = %d, want 5", loose)
	}
}

type payloadUnion interface{ isPayload() }

type fooPayload struct{ XYZ int32 }
type barPayload struct{ OPQ string }

func (fooPayload) isPayload() {}
func (barPayload) isPayload() {}

func TestGoldenUnionDispatch(t *testing.T) {
	if err := RegisterUnion[payloadUnion](fooPayload{}, barPayload{}); err != nil {
		t.Fatalf("RegisterUnion: %v", err)
	}

	var in payloadUnion = fooPayload{XYZ: 999}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{
		0x00,                   // tag: first registered member
		0x01,                   // fooPayload field count
		0xE7, 0x03, 0x00, 0x00, // XYZ = 999
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("Encode() = % x, want % x", data, want)
	}

	out, err := Decode[payloadUnion](data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	foo, ok := out.(fooPayload)
	if !ok || foo.XYZ != 999 {
		t.Fatalf("Decode() = %#v, want fooPayload{999}", out)
	}

	if _, err := Decode[payloadUnion]([]byte{0x7E}); err == nil {
		t.Fatal("decode accepted unknown union tag 126")
	} else if !errors.Is(err, ErrUnknownUnionTag) {
		t.Fatalf("unknown-tag error = %v, want ErrUnknownUnionTag", err)
	}
}

type telemetryV3 struct {
	Property1 int32
	Property2 string
	Property3 float64
}

type telemetryV2 struct {
	Property1 int32
	Property2 string
}

func TestGoldenVersionTolerantForwardCompat(t *testing.T) {
	Register[telemetryV3](ModeVersionTolerant)
	Register[telemetryV2](ModeVersionTolerant)

	data, err := Encode(telemetryV3{Property1: 1000, Property2: "Hi", Property3: 99.99})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	r := NewReader(data)
	out, err := DecodeFrom[telemetryV2](r)
	if err != nil {
		t.Fatalf("DecodeFrom: %v", err)
	}
	if out.Property1 != 1000 || out.Property2 != "Hi" {
		t.Fatalf("DecodeFrom() = %+v", out)
	}
	// The unknown trailing field must be consumed whole, leaving the
	// cursor exactly at the end of the value.
	if r.Position() != len(data) {
		t.Fatalf("cursor at %d after decode, want %d", r.Position(), len(data))
	}
}

func TestGoldenEmptyAndAbsentSequence(t *testing.T) {
	empty, err := Encode([]int32{})
	if err != nil {
		t.Fatalf("Encode(empty): %v", err)
	}
	if !bytes.Equal(empty, []byte{0x00, 0x00, 0x00, 0x00}) {
		t.Fatalf("Encode(empty) = % x", empty)
	}

	absent, err := Encode([]int32(nil))
	if err != nil {
		t.Fatalf("Encode(nil): %v", err)
	}
	if !bytes.Equal(absent, []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Fatalf("Encode(nil) = % x", absent)
	}

	outEmpty, err := Decode[[]int32](empty)
	if err != nil {
		t.Fatalf("Decode(empty): %v", err)
	}
	if outEmpty == nil || len(outEmpty) != 0 {
		t.Fatalf("Decode(empty) = %#v, want non-nil empty slice", outEmpty)
	}
	outAbsent, err := Decode[[]int32](absent)
	if err != nil {
		t.Fatalf("Decode(absent): %v", err)
	}
	if outAbsent != nil {
		t.Fatalf("Decode(absent) = %#v, want nil", outAbsent)
	}
}

type chainNode struct {
	Value int32
	Next  *chainNode
}

func TestGoldenCircularTwoNodeCycle(t *testing.T) {
	Register[chainNode](ModeCircular)

	a := &chainNode{Value: 1}
	b := &chainNode{Value: 2}
	a.Next, b.Next = b, a

	data, err := Encode(a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{
		0x02,       // A: member count
		0x04, 0x0A, // A: field lengths (Value=4, Next=10)
		0x00,                   // A: id 0
		0x01, 0x00, 0x00, 0x00, // A.Value = 1
		0x02,       // B: member count (first encounter, inline)
		0x04, 0x02, // B: field lengths (Value=4, Next=2)
		0x01,                   // B: id 1
		0x02, 0x00, 0x00, 0x00, // B.Value = 2
		0xFA, 0x00, // B.Next: back-reference to id 0
	}
	if !bytes.Equal(data, want) {
		t.Fatalf("Encode() =\n% x, want\n% x", data, want)
	}

	out, err := Decode[*chainNode](data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Value != 1 || out.Next == nil || out.Next.Value != 2 {
		t.Fatalf("Decode() = %+v", out)
	}
	if out.Next.Next != out {
		t.Fatalf("cycle not reconstructed: out.Next.Next=%p, out=%p", out.Next.Next, out)
	}
}
