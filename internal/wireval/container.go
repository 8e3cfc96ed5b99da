// Package wireval implements the generic container codecs layered on top
// of internal/iostream's primitive reader/writer: sequences (slices),
// sets, maps, fixed-rank multi-dimensional arrays, and the generic
// "optional value" wrapper used for nullable non-string payloads.
//
// None of these routines know how to encode the element type itself —
// each takes an encode/decode callback for a single element, leaving
// per-record interpretation to the caller and only owning the
// length-prefix/cursor bookkeeping. The element callback is what
// internal/schema supplies once it has resolved a concrete Go type.
package wireval

import (
	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/mperr"
)

// WriteSlice writes a sequence of n elements using the fixed32 length
// prefix convention: -1 for a nil slice, 0 for empty, otherwise the
// element count followed by each element in order.
func WriteSlice[T any](w *iostream.Writer, s []T, present bool, encode func(*iostream.Writer, T) error) error {
	if !present {
		w.WriteFixed32Length(-1)
		return nil
	}
	w.WriteFixed32Length(int32(len(s)))
	for _, v := range s {
		if err := encode(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadSlice reads a sequence written by WriteSlice. ok reports whether
// the -1 absent marker was present; when ok is false the returned slice
// is nil.
func ReadSlice[T any](r *iostream.Reader, decode func(*iostream.Reader) (T, error)) (out []T, ok bool, err error) {
	n, err := r.ReadI32()
	if err != nil {
		return nil, false, err
	}
	if n == -1 {
		return nil, false, nil
	}
	if n < 0 {
		return nil, false, mperr.InvalidLength(n)
	}
	out = make([]T, 0, n)
	for i := int32(0); i < n; i++ {
		v, err := decode(r)
		if err != nil {
			return nil, false, err
		}
		out = append(out, v)
	}
	return out, true, nil
}

// Pair is one key/value entry of a map as written on the wire: an
// ordered sequence rather than a Go map, since a caller's key type may
// be a reflect.Value (compared by internal representation, not by the
// logical value it wraps) where a native map[K]V would silently
// mishandle duplicate keys. Resolving duplicates — last write wins — is
// left to the caller applying the pairs in order.
type Pair[K any, V any] struct {
	Key K
	Val V
}

// WriteMap writes entries in the given order using the same fixed32
// length-prefix convention as WriteSlice. The wire format imposes no
// ordering or uniqueness requirement of its own; a decoder applying
// duplicate keys in order naturally keeps the last value seen.
func WriteMap[K any, V any](w *iostream.Writer, pairs []Pair[K, V], present bool, encodeKey func(*iostream.Writer, K) error, encodeVal func(*iostream.Writer, V) error) error {
	if !present {
		w.WriteFixed32Length(-1)
		return nil
	}
	w.WriteFixed32Length(int32(len(pairs)))
	for _, p := range pairs {
		if err := encodeKey(w, p.Key); err != nil {
			return err
		}
		if err := encodeVal(w, p.Val); err != nil {
			return err
		}
	}
	return nil
}

// ReadMap reads the entries written by WriteMap, in wire order. The
// caller is expected to apply them in the returned order (e.g. via
// successive reflect.Value.SetMapIndex calls) so that a later entry
// sharing an earlier entry's key naturally overwrites it, matching the
// reference decoder's last-write-wins behavior for duplicate keys.
func ReadMap[K any, V any](r *iostream.Reader, decodeKey func(*iostream.Reader) (K, error), decodeVal func(*iostream.Reader) (V, error)) (out []Pair[K, V], ok bool, err error) {
	n, err := r.ReadI32()
	if err != nil {
		return nil, false, err
	}
	if n == -1 {
		return nil, false, nil
	}
	if n < 0 {
		return nil, false, mperr.InvalidLength(n)
	}
	out = make([]Pair[K, V], 0, n)
	for i := int32(0); i < n; i++ {
		k, err := decodeKey(r)
		if err != nil {
			return nil, false, err
		}
		v, err := decodeVal(r)
		if err != nil {
			return nil, false, err
		}
		out = append(out, Pair[K, V]{Key: k, Val: v})
	}
	return out, true, nil
}

// WriteOptional writes the generic "has value" wrapper: an i32 flag (1 or
// 0) followed by the payload, which is always written even when absent
// (the caller passes the type's default in that case). Used for nullable
// non-string scalar and aggregate fields, where there is no dedicated
// sentinel the way there is for strings and sequences.
func WriteOptional[T any](w *iostream.Writer, v T, present bool, encode func(*iostream.Writer, T) error) error {
	if !present {
		w.WriteI32(0)
		return encode(w, v)
	}
	w.WriteI32(1)
	return encode(w, v)
}

// ReadOptional reads a value written by WriteOptional. The payload is
// always consumed regardless of the flag, since the encoder always wrote
// one; an absent value's payload is discarded in favor of T's zero value.
func ReadOptional[T any](r *iostream.Reader, decode func(*iostream.Reader) (T, error)) (value T, ok bool, err error) {
	flag, err := r.ReadI32()
	if err != nil {
		var zero T
		return zero, false, err
	}
	v, err := decode(r)
	if err != nil {
		var zero T
		return zero, false, err
	}
	if flag == 0 {
		var zero T
		return zero, false, nil
	}
	return v, true, nil
}
