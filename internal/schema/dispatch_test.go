package schema

import (
	"reflect"
	"testing"

	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/wireval"
)

type trafficLight int32

const (
	trafficRed trafficLight = iota
	trafficYellow
	trafficGreen
)

type signal struct {
	Light trafficLight
}

func TestEnumFieldDispatchRejectsUnknown(t *testing.T) {
	ty := reflect.TypeOf(trafficLight(0))
	RegisterEnum(ty, EnumSafe, []int64{int64(trafficRed), int64(trafficYellow), int64(trafficGreen)})

	w := iostream.NewWriter(0)
	if err := EncodeStruct(w, reflect.ValueOf(signal{Light: trafficGreen})); err != nil {
		t.Fatalf("EncodeStruct: %v", err)
	}

	var out signal
	r := iostream.NewReader(w.Bytes())
	if err := DecodeStruct(r, reflect.ValueOf(&out).Elem()); err != nil {
		t.Fatalf("DecodeStruct: %v", err)
	}
	if out.Light != trafficGreen {
		t.Fatalf("decoded Light = %v, want %v", out.Light, trafficGreen)
	}

	// A wire value with no matching member must be rejected during the
	// normal struct-field decode path, not just via a direct
	// CheckEnumValue call.
	bad := iostream.NewWriter(0)
	bad.WriteU8(1)
	bad.WriteI32(99)
	if err := DecodeStruct(iostream.NewReader(bad.Bytes()), reflect.ValueOf(&signal{}).Elem()); err == nil {
		t.Fatal("DecodeStruct accepted an unknown enum discriminant under EnumSafe")
	}
}

type namedShape interface{ isNamedShape() }

type triangleShape struct{ Base, Height float64 }
type hexagonShape struct{ Side float64 }

func (triangleShape) isNamedShape() {}
func (hexagonShape) isNamedShape()  {}

type drawing struct {
	Label string
	Shape namedShape
}

func TestUnionFieldDispatch(t *testing.T) {
	iface := reflect.TypeOf((*namedShape)(nil)).Elem()
	if err := RegisterUnion(iface, []reflect.Type{
		reflect.TypeOf(triangleShape{}),
		reflect.TypeOf(hexagonShape{}),
	}); err != nil {
		t.Fatalf("RegisterUnion: %v", err)
	}

	in := drawing{Label: "fig1", Shape: hexagonShape{Side: 2.5}}
	w := iostream.NewWriter(0)
	if err := EncodeStruct(w, reflect.ValueOf(in)); err != nil {
		t.Fatalf("EncodeStruct: %v", err)
	}

	var out drawing
	r := iostream.NewReader(w.Bytes())
	if err := DecodeStruct(r, reflect.ValueOf(&out).Elem()); err != nil {
		t.Fatalf("DecodeStruct: %v", err)
	}
	got, ok := out.Shape.(hexagonShape)
	if !ok {
		t.Fatalf("decoded Shape = %#v, want hexagonShape", out.Shape)
	}
	if got.Side != 2.5 || out.Label != "fig1" {
		t.Fatalf("decoded = %+v", out)
	}
}

type meters float64

type distance struct {
	Value meters
}

func TestTransparentWrapperHasNoCountByte(t *testing.T) {
	RegisterTransparent(reflect.TypeOf(distance{}))

	w := iostream.NewWriter(0)
	if err := EncodeStruct(w, reflect.ValueOf(distance{Value: 12.5})); err != nil {
		t.Fatalf("EncodeStruct: %v", err)
	}
	if len(w.Bytes()) != 8 {
		t.Fatalf("transparent wrapper encoded %d bytes, want 8 (bare float64, no count byte)", len(w.Bytes()))
	}

	var out distance
	r := iostream.NewReader(w.Bytes())
	if err := DecodeStruct(r, reflect.ValueOf(&out).Elem()); err != nil {
		t.Fatalf("DecodeStruct: %v", err)
	}
	if out.Value != 12.5 {
		t.Fatalf("decoded Value = %v, want 12.5", out.Value)
	}
}

type box struct {
	Tag   string
	Limit *int32
}

func TestNilablePointerFieldOptionalForm(t *testing.T) {
	five := int32(5)
	present := box{Tag: "present", Limit: &five}
	w := iostream.NewWriter(0)
	if err := EncodeStruct(w, reflect.ValueOf(present)); err != nil {
		t.Fatalf("EncodeStruct(present): %v", err)
	}
	var outPresent box
	if err := DecodeStruct(iostream.NewReader(w.Bytes()), reflect.ValueOf(&outPresent).Elem()); err != nil {
		t.Fatalf("DecodeStruct(present): %v", err)
	}
	if outPresent.Limit == nil || *outPresent.Limit != 5 {
		t.Fatalf("decoded Limit = %v, want pointer to 5", outPresent.Limit)
	}

	absent := box{Tag: "absent"}
	w2 := iostream.NewWriter(0)
	if err := EncodeStruct(w2, reflect.ValueOf(absent)); err != nil {
		t.Fatalf("EncodeStruct(absent): %v", err)
	}
	var outAbsent box
	if err := DecodeStruct(iostream.NewReader(w2.Bytes()), reflect.ValueOf(&outAbsent).Elem()); err != nil {
		t.Fatalf("DecodeStruct(absent): %v", err)
	}
	if outAbsent.Limit != nil {
		t.Fatalf("decoded Limit = %v, want nil", outAbsent.Limit)
	}
}

type ring struct {
	Value int32
	Next  *ring
}

func TestCircularPointerFieldOptionBoxAbsent(t *testing.T) {
	SetMode(reflect.TypeOf(ring{}), ModeCircular)

	solo := ring{Value: 7}
	w := iostream.NewWriter(0)
	if err := encodeValue(w, reflect.ValueOf(&solo.Next).Elem(), false); err != nil {
		t.Fatalf("encode nil *ring: %v", err)
	}
	if !reflect.DeepEqual(w.Bytes(), []byte{optionBoxAbsent}) {
		t.Fatalf("nil circular pointer encoded % x, want [%x]", w.Bytes(), optionBoxAbsent)
	}

	r := iostream.NewReader(w.Bytes())
	out, err := decodeValue(r, reflect.TypeOf((*ring)(nil)), false)
	if err != nil {
		t.Fatalf("decode nil *ring: %v", err)
	}
	if !out.IsNil() {
		t.Fatalf("decoded = %v, want nil", out)
	}
}

type ledgerEntry struct {
	Balance wireval.Int128
	Supply  wireval.Uint128
}

func TestInt128FieldDispatch(t *testing.T) {
	in := ledgerEntry{
		Balance: wireval.Int128{Lo: 0x0123456789ABCDEF, Hi: -1},
		Supply:  wireval.Uint128{Lo: 2, Hi: 1},
	}
	w := iostream.NewWriter(0)
	if err := EncodeStruct(w, reflect.ValueOf(in)); err != nil {
		t.Fatalf("EncodeStruct: %v", err)
	}
	want := []byte{
		0x02, // field count
		0xEF, 0xCD, 0xAB, 0x89, 0x67, 0x45, 0x23, 0x01, // Balance.Lo
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, // Balance.Hi = -1
		0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Supply.Lo
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Supply.Hi
	}
	if !reflect.DeepEqual(w.Bytes(), want) {
		t.Fatalf("encoded =\n% x, want\n% x", w.Bytes(), want)
	}

	var out ledgerEntry
	r := iostream.NewReader(w.Bytes())
	if err := DecodeStruct(r, reflect.ValueOf(&out).Elem()); err != nil {
		t.Fatalf("DecodeStruct: %v", err)
	}
	if out != in {
		t.Fatalf("decoded = %+v, want %+v", out, in)
	}
}

type grid struct {
	Name  string
	Cells wireval.MultiDimArray[int32]
}

func TestMultiDimArrayFieldDispatch(t *testing.T) {
	in := grid{
		Name: "g",
		Cells: wireval.MultiDimArray[int32]{
			Dims: []int32{2, 3},
			Flat: []int32{1, 2, 3, 4, 5, 6},
		},
	}
	w := iostream.NewWriter(0)
	if err := EncodeStruct(w, reflect.ValueOf(in)); err != nil {
		t.Fatalf("EncodeStruct: %v", err)
	}

	var out grid
	r := iostream.NewReader(w.Bytes())
	if err := DecodeStruct(r, reflect.ValueOf(&out).Elem()); err != nil {
		t.Fatalf("DecodeStruct: %v", err)
	}
	if out.Name != "g" || !reflect.DeepEqual(out.Cells.Dims, in.Cells.Dims) || !reflect.DeepEqual(out.Cells.Flat, in.Cells.Flat) {
		t.Fatalf("decoded = %+v, want %+v", out, in)
	}
}

func TestMultiDimArrayFieldAbsent(t *testing.T) {
	in := grid{Name: "empty"}
	w := iostream.NewWriter(0)
	if err := EncodeStruct(w, reflect.ValueOf(in)); err != nil {
		t.Fatalf("EncodeStruct: %v", err)
	}

	var out grid
	r := iostream.NewReader(w.Bytes())
	if err := DecodeStruct(r, reflect.ValueOf(&out).Elem()); err != nil {
		t.Fatalf("DecodeStruct: %v", err)
	}
	if out.Cells.Flat != nil {
		t.Fatalf("decoded Cells.Flat = %v, want nil", out.Cells.Flat)
	}
}
