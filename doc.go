// Package memorypack implements a binary object serializer wire-compatible
// with the C# MemoryPack format: the same varint tag scheme, the same
// four aggregate shape modes (regular, version-tolerant, circular,
// zero-copy), and the same string and container encodings documented
// for the reference implementation.
//
// A type need not do anything special to become encodable — Encode and
// Decode fall back to a reflection-derived plan the first time they see
// a new struct type, the same way encoding/json handles an undecorated
// struct. Register, RegisterEnum, RegisterUnion, and RegisterFlags exist
// for the cases the reference implementation handles with an attribute:
// picking a non-default shape mode, declaring an enum's valid
// discriminants, or declaring a tagged-union interface's members.
package memorypack
