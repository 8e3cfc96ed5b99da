package schema

import (
	"reflect"

	"github.com/aalhour/gomemorypack/internal/iostream"
)

// EncodeStruct writes v — which must hold a struct value — using
// whichever shape mode its Descriptor selects. encodeValue's struct case
// (and so EncodeValue, which the facade package calls) goes through it.
func EncodeStruct(w *iostream.Writer, v reflect.Value) error {
	if IsTransparent(v.Type()) {
		return encodeTransparent(w, v)
	}
	d, err := Describe(v.Type())
	if err != nil {
		return err
	}
	switch d.Mode {
	case ModeVersionTolerant:
		return encodeVersionTolerant(w, v, d)
	case ModeCircular:
		return encodeCircular(w, v, d)
	default:
		return encodeRegular(w, v, d)
	}
}

// DecodeStruct reads into v — which must be an addressable struct value
// — using whichever shape mode v's type's Descriptor selects.
func DecodeStruct(r *iostream.Reader, v reflect.Value) error {
	if IsTransparent(v.Type()) {
		return decodeTransparent(r, v)
	}
	d, err := Describe(v.Type())
	if err != nil {
		return err
	}
	switch d.Mode {
	case ModeVersionTolerant:
		return decodeVersionTolerant(r, v, d)
	case ModeCircular:
		return decodeCircular(r, v, d)
	default:
		return decodeRegular(r, v, d)
	}
}

// encodeRegular writes a single field-count byte followed by each
// field's payload in declaration/order-tag order. A unit struct (no
// wire-visible fields) writes nothing at all, not even a zero count —
// there is nothing to version-check against in regular mode, so the
// count byte would be pure overhead.
func encodeRegular(w *iostream.Writer, v reflect.Value, d *Descriptor) error {
	if d.Unit {
		return nil
	}
	w.WriteU8(uint8(len(d.Fields)))
	for _, f := range d.Fields {
		if err := encodeValue(w, v.Field(f.Index), f.ZeroCopy); err != nil {
			return err
		}
	}
	return nil
}

func decodeRegular(r *iostream.Reader, v reflect.Value, d *Descriptor) error {
	if d.Unit {
		return nil
	}
	count, err := r.ReadU8()
	if err != nil {
		return err
	}
	for i, f := range d.Fields {
		if i >= int(count) {
			break
		}
		fv, err := decodeValue(r, v.Field(f.Index).Type(), f.ZeroCopy)
		if err != nil {
			return err
		}
		v.Field(f.Index).Set(fv)
	}
	// Extra wire fields beyond what this type declares (an older reader
	// decoding a newer writer's regular-mode payload) are not skippable:
	// regular mode carries no per-field length, so trailing fields would
	// corrupt the cursor. Regular mode is documented as requiring exact
	// schema agreement; version-tolerant mode exists for the other case.
	return nil
}
