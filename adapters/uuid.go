// Package adapters binds a handful of well-known non-primitive Go types
// to fixed MemoryPack wire layouts that mirror what the C# generator
// emits for the equivalent BCL types: Guid, decimal, DateTime, BigInteger,
// and the System.Numerics vector types. Two helpers keep Go's own byte
// order instead: WriteUUID and WriteBigInt (see their docs). None of
// these are part of the
// core schema/wireval layers — they're opt-in helpers a registered
// struct field can call from a custom Marshaler, the same role
// first-class "feature" serializers play in the reference generator.
package adapters

import (
	"github.com/google/uuid"

	"github.com/aalhour/gomemorypack/internal/iostream"
)

// WriteUUID writes id as its raw 16 bytes in uuid.UUID's own (RFC 4122,
// big-endian) order: a fixed 16-byte block with no length prefix, like
// Guid's. The bytes are not reordered into .NET Guid's mixed-endian
// field layout.
func WriteUUID(w *iostream.Writer, id uuid.UUID) {
	w.AppendBytes(id[:])
}

// ReadUUID reads a 16-byte UUID.
func ReadUUID(r *iostream.Reader) (uuid.UUID, error) {
	raw, err := r.ReadBytes(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var out uuid.UUID
	copy(out[:], raw)
	return out, nil
}
