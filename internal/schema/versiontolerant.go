package schema

import (
	"reflect"

	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/varint"
)

// encodeVersionTolerant writes a member-count byte, then a block of k
// varint-encoded byte lengths (one per member), then the block of k
// payloads concatenated in order:
//
//	[member_count:u8] [length_1:varint]..[length_k:varint] [payload_1]..[payload_k]
//
// member_count is max(order)+1 across the type's fields, not the number
// of fields present: an explicit order tag may leave a gap (e.g. a field
// removed from a later struct version but whose wire position is kept
// reserved so that fields declared after it don't shift). A gap position
// writes a zero-length entry and no payload bytes, matching what a
// decoder sees when a writer of this same version encodes it.
//
// Each field is encoded into its own scratch Writer first so its length
// is known up front before either block is emitted — the "always-varint"
// variant of the two the format permits, simpler than compact-patching a
// reserved fixed-width slot and equally wire-valid since the length is
// self-describing either way.
func encodeVersionTolerant(w *iostream.Writer, v reflect.Value, d *Descriptor) error {
	w.WriteU8(uint8(d.MemberCount))
	payloads := make([][]byte, d.MemberCount)
	for i, f := range d.Positions {
		if f == nil {
			continue
		}
		scratch := iostream.NewScratchWriter(w, 16)
		if err := encodeValue(scratch, v.Field(f.Index), f.ZeroCopy); err != nil {
			return err
		}
		payloads[i] = scratch.Bytes()
	}
	for _, p := range payloads {
		w.AppendBytes(varint.AppendInt(nil, len(p)))
	}
	for _, p := range payloads {
		w.AppendBytes(p)
	}
	return nil
}

// decodeVersionTolerant reads a member-count byte, then the block of k
// varint lengths, then decodes each payload from the trailing payload
// block in turn. Members present on the wire but unknown to this version
// of the type (an older reader facing a newer writer) are skipped whole
// via their length prefix. Members this type declares but the wire
// payload lacks (a newer reader facing an older writer) are left at
// their Go zero value. A zero-length entry at a position this type does
// declare a field for — a deliberate gap left by the writer, or simply
// an absent optional value — substitutes that field's zero value rather
// than attempting to decode an empty payload.
func decodeVersionTolerant(r *iostream.Reader, v reflect.Value, d *Descriptor) error {
	count, err := r.ReadU8()
	if err != nil {
		return err
	}
	lengths := make([]int64, count)
	for i := range lengths {
		n, width, err := varint.DecodeInt64(r.Peek(varint.MaxLen))
		if err != nil {
			return err
		}
		if err := r.Skip(width); err != nil {
			return err
		}
		lengths[i] = n
	}
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
		field := v.Field(f.Index)
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
