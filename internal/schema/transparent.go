package schema

import (
	"fmt"
	"reflect"

	"github.com/aalhour/gomemorypack/internal/iostream"
)

// transparentRegistry marks struct types declared as a transparent
// single-field wrapper over a 32-bit integer: such a type's wire form is
// just the inner value, with no field-count byte at all. Flag sets don't
// go through this registry at all: a Go named integer type already
// serializes as a bare scalar via encodeValue's integer cases, so
// RegisterFlags needs no wrapper struct and never touches this map (see
// RegisterFlags in registry.go).
var transparentRegistry = make(map[reflect.Type]bool)

// RegisterTransparent declares t (a single-field struct wrapping a 32-bit
// integer) as a transparent wrapper.
func RegisterTransparent(t reflect.Type) {
	transparentRegistry[t] = true
}

// IsTransparent reports whether t was registered as a transparent wrapper.
func IsTransparent(t reflect.Type) bool {
	return transparentRegistry[t]
}

// encodeTransparent writes v's single field directly, with none of the
// regular mode's field-count byte.
func encodeTransparent(w *iostream.Writer, v reflect.Value) error {
	d, err := Describe(v.Type())
	if err != nil {
		return err
	}
	if len(d.Fields) != 1 {
		return fmt.Errorf("schema: %s: transparent wrapper must have exactly one wire-visible field, has %d", v.Type(), len(d.Fields))
	}
	return encodeValue(w, v.Field(d.Fields[0].Index), false)
}

// decodeTransparent reads v's single field directly from the inner value,
// the decode-side counterpart of encodeTransparent.
func decodeTransparent(r *iostream.Reader, v reflect.Value) error {
	d, err := Describe(v.Type())
	if err != nil {
		return err
	}
	if len(d.Fields) != 1 {
		return fmt.Errorf("schema: %s: transparent wrapper must have exactly one wire-visible field, has %d", v.Type(), len(d.Fields))
	}
	f := d.Fields[0]
	fv, err := decodeValue(r, v.Field(f.Index).Type(), f.ZeroCopy)
	if err != nil {
		return err
	}
	v.Field(f.Index).Set(fv)
	return nil
}
