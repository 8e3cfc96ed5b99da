package schema

import (
	"fmt"
	"reflect"

	"github.com/aalhour/gomemorypack/internal/iostream"
	"github.com/aalhour/gomemorypack/internal/mperr"
)

// maxUnionTags is the maximum number of distinct concrete types a union may
// register, since tag 250 and above are reserved the same way circular
// mode reserves them for back-references.
const maxUnionTags = 249

// UnionDescriptor maps an interface type's registered concrete
// implementations to small stable tag bytes, in registration order —
// the Go analogue of a C# MemoryPackUnion attribute list.
type UnionDescriptor struct {
	Interface reflect.Type
	tagOf     map[reflect.Type]byte
	typeOf    map[byte]reflect.Type
}

// registry of interface type -> *UnionDescriptor. A plain map guarded by
// nothing is sufficient since registration only happens during program
// init, never concurrently with Encode/Decode.
var unionRegistry = newUnionRegistry()

type unionRegistryT struct {
	m map[reflect.Type]*UnionDescriptor
}

func newUnionRegistry() *unionRegistryT {
	return &unionRegistryT{m: make(map[reflect.Type]*UnionDescriptor)}
}

// RegisterUnion declares that iface's wire union consists of members, in
// order; each member's concrete type is tagged with its position
// (0-based). Must be called before the first Encode/Decode involving
// iface.
func RegisterUnion(iface reflect.Type, members []reflect.Type) error {
	if len(members) > maxUnionTags {
		return fmt.Errorf("schema: union %s: at most %d members, got %d", iface, maxUnionTags, len(members))
	}
	d := &UnionDescriptor{
		Interface: iface,
		tagOf:     make(map[reflect.Type]byte, len(members)),
		typeOf:    make(map[byte]reflect.Type, len(members)),
	}
	for i, m := range members {
		d.tagOf[m] = byte(i)
		d.typeOf[byte(i)] = m
	}
	unionRegistry.m[iface] = d
	return nil
}

func lookupUnion(iface reflect.Type) (*UnionDescriptor, bool) {
	d, ok := unionRegistry.m[iface]
	return d, ok
}

// EncodeUnion writes v (an interface value whose dynamic type must be a
// registered member of iface) as a tag byte followed by the concrete
// value's own encoding.
func EncodeUnion(w *iostream.Writer, iface reflect.Type, v reflect.Value) error {
	d, ok := lookupUnion(iface)
	if !ok {
		return fmt.Errorf("schema: %s is not a registered union interface", iface)
	}
	if v.IsNil() {
		w.WriteU8(sentinelBackReference) // no member selected; reuses the same reserved byte as "absent"
		return nil
	}
	concrete := v.Elem()
	tag, ok := d.tagOf[concrete.Type()]
	if !ok {
		return fmt.Errorf("schema: %s: type %s is not a registered union member", iface, concrete.Type())
	}
	w.WriteU8(tag)
	return encodeValue(w, concrete, false)
}

// DecodeUnion reads a tag byte and, for a non-absent tag, decodes the
// corresponding member type and returns it boxed as iface.
func DecodeUnion(r *iostream.Reader, iface reflect.Type) (reflect.Value, error) {
	d, ok := lookupUnion(iface)
	if !ok {
		return reflect.Value{}, fmt.Errorf("schema: %s is not a registered union interface", iface)
	}
	tag, err := r.ReadU8()
	if err != nil {
		return reflect.Value{}, err
	}
	if tag == sentinelBackReference {
		return reflect.Zero(iface), nil
	}
	memberType, ok := d.typeOf[tag]
	if !ok {
		return reflect.Value{}, mperr.UnknownUnionTag(tag)
	}
	isPtr := memberType.Kind() == reflect.Ptr
	target := memberType
	if isPtr {
		target = memberType.Elem()
	}
	v, err := decodeValue(r, target, false)
	if err != nil {
		return reflect.Value{}, err
	}
	if isPtr {
		p := reflect.New(target)
		p.Elem().Set(v)
		return p, nil
	}
	return v, nil
}
