package schema

import (
	"fmt"
	"reflect"

	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/mperr"
	"github.com/aalhour/gomemorypack/internal/refstate"
	"github.com/aalhour/gomemorypack/internal/varint"
)

// sentinelBackReference is the member-count byte value reserved to mean
// "what follows is a reference id, not a field payload" — chosen above
// the 249-member ceiling so it can never collide with a real count.
const sentinelBackReference = 250

// maxCircularFields is the largest field count a circular-mode struct
// may declare, since 250..255 are reserved.
const maxCircularFields = 249

// encodeCircular writes either a back-reference (sentinel byte + varint
// id, no payload) if v's address has already been serialized once in
// this call, or a fresh entry the first time an address is seen:
//
//	[member_count:u8] [length_1:varint]..[length_k:varint] [id:varint] [payload_1]..[payload_k]
//
// the version-tolerant layout augmented with the assigned reference id
// between the length block and the payload block. v must be
// addressable; only pointer fields route through here with a genuinely
// reusable address, since a circular-mode struct embedded by value can
// never itself form a cycle (Go disallows infinitely-sized structs).
func encodeCircular(w *iostream.Writer, v reflect.Value, d *Descriptor) error {
	if d.MemberCount > maxCircularFields {
		return fmt.Errorf("schema: %s: circular mode supports at most %d fields, has %d", v.Type(), maxCircularFields, d.MemberCount)
	}
	if !v.CanAddr() {
		return fmt.Errorf("schema: %s: circular-mode value is not addressable", v.Type())
	}
	ptr := v.Addr().Pointer()
	already, id := w.RefState().GetOrAdd(ptr)
	if already {
		w.WriteU8(sentinelBackReference)
		w.AppendBytes(varint.AppendInt(nil, int(id)))
		return nil
	}
	return encodeCircularBody(w, d, id, func(idx int) reflect.Value { return v.Field(idx) })
}

// encodeCircularBody writes the shared (count, lengths, id, payloads) body
// used by both by-value and pointer circular encoding once a fresh id has
// been assigned. fieldByIndex is keyed by the struct's reflect.StructField
// index, not by wire position, since member_count may exceed len(d.Fields)
// when an explicit order tag leaves a gap.
func encodeCircularBody(w *iostream.Writer, d *Descriptor, id uint64, fieldByIndex func(int) reflect.Value) error {
	w.WriteU8(uint8(d.MemberCount))
	payloads := make([][]byte, d.MemberCount)
	for i, f := range d.Positions {
		if f == nil {
			continue
		}
		scratch := iostream.NewScratchWriter(w, 16)
		if err := encodeValue(scratch, fieldByIndex(f.Index), f.ZeroCopy); err != nil {
			return err
		}
		payloads[i] = scratch.Bytes()
	}
	for _, p := range payloads {
		w.AppendBytes(varint.AppendInt(nil, len(p)))
	}
	w.AppendBytes(varint.AppendInt(nil, int(id)))
	for _, p := range payloads {
		w.AppendBytes(p)
	}
	return nil
}

// decodeCircular mirrors encodeCircular for a fixed, already-addressable
// destination v. A back-reference copies the entry previously stored
// under that id by value; a fresh entry decodes fields directly into v
// and records v's value under its wire id for any later back-reference.
func decodeCircular(r *iostream.Reader, v reflect.Value, d *Descriptor) error {
	tag, err := r.ReadU8()
	if err != nil {
		return err
	}
	if tag == sentinelBackReference {
		id, err := readRefID(r)
		if err != nil {
			return err
		}
		prev, err := refstate.Lookup[reflect.Value](r.RefState(), id)
		if err != nil {
			return err
		}
		v.Set(prev)
		return nil
	}
	lengths, err := readFieldLengths(r, int(tag))
	if err != nil {
		return err
	}
	id, err := readRefID(r)
	if err != nil {
		return err
	}
	if err := r.RefState().Add(id, v); err != nil {
		return err
	}
	if err := decodeCircularPayloads(r, lengths, d, func(idx int) reflect.Value { return v.Field(idx) }); err != nil {
		return err
	}
	return r.RefState().Update(id, v)
}

// readFieldLengths reads the k-entry varint length block that follows a
// circular-mode (or version-tolerant) member-count byte.
func readFieldLengths(r *iostream.Reader, k int) ([]int64, error) {
	lengths := make([]int64, k)
	for i := range lengths {
		n, width, err := varint.DecodeInt64(r.Peek(varint.MaxLen))
		if err != nil {
			return nil, err
		}
		if err := r.Skip(width); err != nil {
			return nil, err
		}
		lengths[i] = n
	}
	return lengths, nil
}

// decodeCircularPayloads reads the payload block following lengths,
// setting each field at a known wire position via fieldByIndex (keyed by
// struct field index, looked up through d.Positions). Lengths beyond
// d.Positions' count (wire has more members than this schema knows) are
// skipped whole, as are positions this schema leaves as a gap. A
// zero-length entry at a position this type does declare a field for
// substitutes that field's zero value instead of decoding an empty
// payload.
func decodeCircularPayloads(r *iostream.Reader, lengths []int64, d *Descriptor, fieldByIndex func(int) reflect.Value) error {
	for i, n := range lengths {
		payload, err := r.ReadBytes(int(n))
		if err != nil {
			return err
		}
		if i >= len(d.Positions) {
			continue
		}
		f := d.Positions[i]
		if f == nil {
			continue
		}
		field := fieldByIndex(f.Index)
		if n == 0 {
			field.Set(reflect.Zero(field.Type()))
			continue
		}
		sub := iostream.NewSubReader(r, payload)
		fv, err := decodeValue(sub, field.Type(), f.ZeroCopy)
		if err != nil {
			return err
		}
		field.Set(fv)
	}
	return nil
}

func readRefID(r *iostream.Reader) (uint64, error) {
	v, width, err := varint.DecodeInt64(r.Peek(varint.MaxLen))
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, mperr.InvalidReferenceID(uint64(v))
	}
	if err := r.Skip(width); err != nil {
		return 0, err
	}
	return uint64(v), nil
}

// encodeCircularPtr and decodeCircularPtr give *T fields true
// pointer-identity semantics: every occurrence of the same underlying
// object decodes to the exact same Go pointer, supporting real cyclic
// graphs (a *Node field that eventually points back to an ancestor).
// encodeValue/decodeValue's generic Ptr handling delegates here whenever
// the pointee's Descriptor is ModeCircular.
func encodeCircularPtr(w *iostream.Writer, v reflect.Value) error {
	ptr := v.Pointer()
	already, id := w.RefState().GetOrAdd(ptr)
	if already {
		w.WriteU8(sentinelBackReference)
		w.AppendBytes(varint.AppendInt(nil, int(id)))
		return nil
	}
	elem := v.Elem()
	d, err := Describe(elem.Type())
	if err != nil {
		return err
	}
	if d.MemberCount > maxCircularFields {
		return fmt.Errorf("schema: %s: circular mode supports at most %d fields, has %d", elem.Type(), maxCircularFields, d.MemberCount)
	}
	return encodeCircularBody(w, d, id, func(idx int) reflect.Value { return elem.Field(idx) })
}

func decodeCircularPtr(r *iostream.Reader, t reflect.Type) (reflect.Value, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return reflect.Value{}, err
	}
	if tag == sentinelBackReference {
		id, err := readRefID(r)
		if err != nil {
			return reflect.Value{}, err
		}
		return refstate.Lookup[reflect.Value](r.RefState(), id)
	}
	lengths, err := readFieldLengths(r, int(tag))
	if err != nil {
		return reflect.Value{}, err
	}
	id, err := readRefID(r)
	if err != nil {
		return reflect.Value{}, err
	}
	out := reflect.New(t.Elem())
	if err := r.RefState().Add(id, out); err != nil {
		return reflect.Value{}, err
	}
	d, err := Describe(t.Elem())
	if err != nil {
		return reflect.Value{}, err
	}
	elem := out.Elem()
	if err := decodeCircularPayloads(r, lengths, d, func(idx int) reflect.Value { return elem.Field(idx) }); err != nil {
		return reflect.Value{}, err
	}
	return out, r.RefState().Update(id, out)
}
