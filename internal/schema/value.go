package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/mperr"
	"github.com/aalhour/gomemorypack/internal/wireval"
)

// encodeReflectValue adapts encodeValue to the element-encode callback
// shape wireval's generic container functions expect, for the (typical)
// case of a non-zero-copy element.
func encodeReflectValue(w *iostream.Writer, v reflect.Value) error {
	return encodeValue(w, v, false)
}

// EncodeValue is the exported entry point the facade package uses to
// encode a value of any supported kind — struct, slice, map, pointer, or
// primitive — without needing to know in advance which case applies.
func EncodeValue(w *iostream.Writer, v reflect.Value) error {
	return encodeValue(w, v, false)
}

// DecodeValue is EncodeValue's decode-side counterpart.
func DecodeValue(r *iostream.Reader, t reflect.Type) (reflect.Value, error) {
	return decodeValue(r, t, false)
}

// encodeValue writes v (addressable or not) using the wire form implied
// by its Go type. zeroCopy only affects string and []byte fields; it is
// ignored for every other kind, mirroring the C# generator's behavior of
// accepting but not acting on ZeroCopy attributes that don't apply.
func encodeValue(w *iostream.Writer, v reflect.Value, zeroCopy bool) error {
	switch v.Kind() {
	case reflect.Bool:
		w.WriteBool(v.Bool())
	case reflect.Int8:
		w.WriteI8(int8(v.Int()))
	case reflect.Int16:
		w.WriteI16(int16(v.Int()))
	case reflect.Int32:
		w.WriteI32(int32(v.Int()))
	case reflect.Int:
		w.WriteI32(int32(v.Int()))
	case reflect.Int64:
		w.WriteI64(v.Int())
	case reflect.Uint8:
		w.WriteU8(uint8(v.Uint()))
	case reflect.Uint16:
		w.WriteU16(uint16(v.Uint()))
	case reflect.Uint32, reflect.Uint:
		w.WriteU32(uint32(v.Uint()))
	case reflect.Uint64:
		w.WriteU64(v.Uint())
	case reflect.Float32:
		w.WriteF32(float32(v.Float()))
	case reflect.Float64:
		w.WriteF64(v.Float())
	case reflect.String:
		w.WriteNullableString(v.String(), true)
	case reflect.Slice:
		return encodeSlice(w, v, zeroCopy)
	case reflect.Array:
		return encodeArray(w, v, zeroCopy)
	case reflect.Map:
		return encodeMap(w, v)
	case reflect.Ptr:
		return encodePtr(w, v)
	case reflect.Struct:
		switch v.Type() {
		case int128Type:
			w.WriteI128(v.Field(1).Int(), v.Field(0).Uint())
			return nil
		case uint128Type:
			w.WriteU128(v.Field(1).Uint(), v.Field(0).Uint())
			return nil
		}
		if isMultiDimArray(v.Type()) {
			return encodeMultiDimArray(w, v)
		}
		return EncodeStruct(w, v)
	case reflect.Interface:
		return EncodeUnion(w, v.Type(), v)
	default:
		return fmt.Errorf("schema: unsupported field kind %s", v.Kind())
	}
	return nil
}

// The two 128-bit scalar wrapper types are matched by identity: they are
// fixed structs, not generic instantiations, so no name-prefix detection
// is needed the way it is for MultiDimArray below. Field(0) is the low
// half, Field(1) the high half.
var (
	int128Type  = reflect.TypeOf(wireval.Int128{})
	uint128Type = reflect.TypeOf(wireval.Uint128{})
)

// isMultiDimArray reports whether t is an instantiation of
// internal/wireval.MultiDimArray[T], schema's representation for a
// rank-r rectangular array field. Go has no generics-aware reflect.Type
// comparison across type parameters, so detection goes by the generic
// type's qualified name prefix instead.
func isMultiDimArray(t reflect.Type) bool {
	return t.Kind() == reflect.Struct &&
		strings.HasSuffix(t.PkgPath(), "/internal/wireval") &&
		strings.HasPrefix(t.Name(), "MultiDimArray[")
}

func encodeMultiDimArray(w *iostream.Writer, v reflect.Value) error {
	flat := v.FieldByName("Flat")
	if flat.IsNil() {
		return wireval.WriteMultiDimArray[reflect.Value](w, wireval.MultiDimArray[reflect.Value]{}, false, encodeReflectValue)
	}
	dims := v.FieldByName("Dims")
	dimsOut := make([]int32, dims.Len())
	for i := range dimsOut {
		dimsOut[i] = int32(dims.Index(i).Int())
	}
	flatOut := make([]reflect.Value, flat.Len())
	for i := range flatOut {
		flatOut[i] = flat.Index(i)
	}
	return wireval.WriteMultiDimArray(w, wireval.MultiDimArray[reflect.Value]{Dims: dimsOut, Flat: flatOut}, true, encodeReflectValue)
}

func decodeMultiDimArray(r *iostream.Reader, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	flatField := out.FieldByName("Flat")
	elemType := flatField.Type().Elem()
	decode := func(r *iostream.Reader) (reflect.Value, error) { return decodeValue(r, elemType, false) }
	arr, ok, err := wireval.ReadMultiDimArray(r, decode)
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok {
		return out, nil
	}
	flat := reflect.MakeSlice(flatField.Type(), len(arr.Flat), len(arr.Flat))
	for i, ev := range arr.Flat {
		flat.Index(i).Set(ev)
	}
	out.FieldByName("Dims").Set(reflect.ValueOf(arr.Dims))
	flatField.Set(flat)
	return out, nil
}

func encodeSlice(w *iostream.Writer, v reflect.Value, zeroCopy bool) error {
	if v.Type().Elem().Kind() == reflect.Uint8 {
		if v.IsNil() {
			w.WriteFixed32Length(-1)
			return nil
		}
		w.WriteFixed32Length(int32(v.Len()))
		w.AppendBytes(v.Bytes())
		return nil
	}
	encode := func(w *iostream.Writer, ev reflect.Value) error { return encodeValue(w, ev, zeroCopy) }
	if v.IsNil() {
		return wireval.WriteSlice[reflect.Value](w, nil, false, encode)
	}
	elems := make([]reflect.Value, v.Len())
	for i := range elems {
		elems[i] = v.Index(i)
	}
	return wireval.WriteSlice(w, elems, true, encode)
}

func encodeArray(w *iostream.Writer, v reflect.Value, zeroCopy bool) error {
	w.WriteFixed32Length(int32(v.Len()))
	for i := 0; i < v.Len(); i++ {
		if err := encodeValue(w, v.Index(i), zeroCopy); err != nil {
			return err
		}
	}
	return nil
}

func encodeMap(w *iostream.Writer, v reflect.Value) error {
	if v.IsNil() {
		return wireval.WriteMap[reflect.Value, reflect.Value](w, nil, false, encodeReflectValue, encodeReflectValue)
	}
	pairs := make([]wireval.Pair[reflect.Value, reflect.Value], 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		pairs = append(pairs, wireval.Pair[reflect.Value, reflect.Value]{Key: iter.Key(), Val: iter.Value()})
	}
	return wireval.WriteMap(w, pairs, true, encodeReflectValue, encodeReflectValue)
}

// encodePtr writes a pointer field. A pointer to a circular-mode struct
// gets the option-boxed inline discriminator circular mode uses: byte
// 255 for absent, or the normal circular encoding (whose own leading
// byte is never 255) for present. Every other pointer uses the generic
// Optional wire form: an i32 has-value flag followed by the payload,
// which is always written — absent encodes the pointee type's zero
// value.
func encodePtr(w *iostream.Writer, v reflect.Value) error {
	if v.Type().Elem().Kind() == reflect.Struct {
		if d, err := Describe(v.Type().Elem()); err == nil && d.Mode == ModeCircular {
			if v.IsNil() {
				w.WriteU8(optionBoxAbsent)
				return nil
			}
			return encodeCircularPtr(w, v)
		}
	}
	if v.IsNil() {
		return wireval.WriteOptional(w, reflect.Zero(v.Type().Elem()), false, encodeReflectValue)
	}
	return wireval.WriteOptional(w, v.Elem(), true, encodeReflectValue)
}

// decodeValue reads a value of type t, returning a settable reflect.Value.
func decodeValue(r *iostream.Reader, t reflect.Type, zeroCopy bool) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Bool:
		b, err := r.ReadBool()
		return reflect.ValueOf(b).Convert(t), err
	case reflect.Int8:
		x, err := r.ReadI8()
		return reflect.ValueOf(x).Convert(t), err
	case reflect.Int16:
		x, err := r.ReadI16()
		return reflect.ValueOf(x).Convert(t), err
	case reflect.Int32, reflect.Int:
		x, err := r.ReadI32()
		if err != nil {
			return reflect.Value{}, err
		}
		if err := CheckEnumValue(t, int64(x)); err != nil {
			return reflect.Value{}, err
		}
		if t.Kind() == reflect.Int {
			return reflect.ValueOf(int(x)), nil
		}
		return reflect.ValueOf(x).Convert(t), nil
	case reflect.Int64:
		x, err := r.ReadI64()
		return reflect.ValueOf(x).Convert(t), err
	case reflect.Uint8:
		x, err := r.ReadU8()
		return reflect.ValueOf(x).Convert(t), err
	case reflect.Uint16:
		x, err := r.ReadU16()
		return reflect.ValueOf(x).Convert(t), err
	case reflect.Uint32, reflect.Uint:
		x, err := r.ReadU32()
		if t.Kind() == reflect.Uint {
			return reflect.ValueOf(uint(x)), err
		}
		return reflect.ValueOf(x).Convert(t), err
	case reflect.Uint64:
		x, err := r.ReadU64()
		return reflect.ValueOf(x).Convert(t), err
	case reflect.Float32:
		x, err := r.ReadF32()
		return reflect.ValueOf(x).Convert(t), err
	case reflect.Float64:
		x, err := r.ReadF64()
		return reflect.ValueOf(x).Convert(t), err
	case reflect.String:
		if zeroCopy {
			s, _, err := r.BorrowString()
			return reflect.ValueOf(s).Convert(t), err
		}
		s, _, err := r.ReadNullableString()
		return reflect.ValueOf(s).Convert(t), err
	case reflect.Slice:
		return decodeSlice(r, t, zeroCopy)
	case reflect.Array:
		return decodeArray(r, t, zeroCopy)
	case reflect.Map:
		return decodeMap(r, t)
	case reflect.Ptr:
		return decodePtr(r, t)
	case reflect.Struct:
		switch t {
		case int128Type:
			v, err := wireval.ReadInt128(r)
			return reflect.ValueOf(v), err
		case uint128Type:
			v, err := wireval.ReadUint128(r)
			return reflect.ValueOf(v), err
		}
		if isMultiDimArray(t) {
			return decodeMultiDimArray(r, t)
		}
		v := reflect.New(t).Elem()
		err := DecodeStruct(r, v)
		return v, err
	case reflect.Interface:
		return DecodeUnion(r, t)
	default:
		return reflect.Value{}, fmt.Errorf("schema: unsupported field kind %s", t.Kind())
	}
}

func decodeSlice(r *iostream.Reader, t reflect.Type, zeroCopy bool) (reflect.Value, error) {
	if t.Elem().Kind() == reflect.Uint8 {
		n, err := r.ReadI32()
		if err != nil {
			return reflect.Value{}, err
		}
		if n == -1 {
			return reflect.Zero(t), nil
		}
		if n < 0 {
			return reflect.Value{}, mperr.InvalidLength(n)
		}
		var b []byte
		var rerr error
		if zeroCopy {
			b, rerr = r.BorrowBytes(int(n))
		} else {
			b, rerr = r.ReadBytes(int(n))
		}
		if rerr != nil {
			return reflect.Value{}, rerr
		}
		out := reflect.New(t).Elem()
		out.SetBytes(b)
		return out, nil
	}
	elemType := t.Elem()
	decode := func(r *iostream.Reader) (reflect.Value, error) { return decodeValue(r, elemType, zeroCopy) }
	elems, ok, err := wireval.ReadSlice(r, decode)
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok {
		return reflect.Zero(t), nil
	}
	out := reflect.MakeSlice(t, len(elems), len(elems))
	for i, elem := range elems {
		out.Index(i).Set(elem)
	}
	return out, nil
}

func decodeArray(r *iostream.Reader, t reflect.Type, zeroCopy bool) (reflect.Value, error) {
	n, err := r.ReadI32()
	if err != nil {
		return reflect.Value{}, err
	}
	if int(n) != t.Len() {
		return reflect.Value{}, mperr.Domain(fmt.Sprintf("array length mismatch: wire has %d, type wants %d", n, t.Len()))
	}
	out := reflect.New(t).Elem()
	for i := 0; i < t.Len(); i++ {
		elem, err := decodeValue(r, t.Elem(), zeroCopy)
		if err != nil {
			return reflect.Value{}, err
		}
		out.Index(i).Set(elem)
	}
	return out, nil
}

func decodeMap(r *iostream.Reader, t reflect.Type) (reflect.Value, error) {
	keyType, valType := t.Key(), t.Elem()
	decodeKey := func(r *iostream.Reader) (reflect.Value, error) { return decodeValue(r, keyType, false) }
	decodeVal := func(r *iostream.Reader) (reflect.Value, error) { return decodeValue(r, valType, false) }
	pairs, ok, err := wireval.ReadMap(r, decodeKey, decodeVal)
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok {
		return reflect.Zero(t), nil
	}
	out := reflect.MakeMapWithSize(t, len(pairs))
	for _, p := range pairs {
		out.SetMapIndex(p.Key, p.Val)
	}
	return out, nil
}

// optionBoxAbsent is the circular-mode option-box discriminator for a nil
// pointer field. It reuses the same reserved byte range as the
// back-reference sentinel: a genuine member-count-or-backref byte never
// reaches 255 since member counts are bounded at 249 and the
// back-reference sentinel is 250.
const optionBoxAbsent = 255

func decodePtr(r *iostream.Reader, t reflect.Type) (reflect.Value, error) {
	if t.Elem().Kind() == reflect.Struct {
		if d, err := Describe(t.Elem()); err == nil && d.Mode == ModeCircular {
			b, err := r.PeekByte()
			if err != nil {
				return reflect.Value{}, err
			}
			if b == optionBoxAbsent {
				if err := r.Skip(1); err != nil {
					return reflect.Value{}, err
				}
				return reflect.Zero(t), nil
			}
			return decodeCircularPtr(r, t)
		}
	}
	elemType := t.Elem()
	decode := func(r *iostream.Reader) (reflect.Value, error) { return decodeValue(r, elemType, false) }
	inner, ok, err := wireval.ReadOptional(r, decode)
	if err != nil {
		return reflect.Value{}, err
	}
	if !ok {
		return reflect.Zero(t), nil
	}
	out := reflect.New(elemType)
	out.Elem().Set(inner)
	return out, nil
}
