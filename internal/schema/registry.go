package schema

import (
	"fmt"
	"reflect"

	"github.com/aalhour/gomemorypack/internal/logging"
	"github.com/aalhour/gomemorypack/internal/mperr"
)

// EnumPolicy selects how a registered enum type's decoder treats a wire
// value outside the set of members it was registered with.
type EnumPolicy int

const (
	// EnumSafe rejects any discriminant not in the registered member set.
	EnumSafe EnumPolicy = iota
	// EnumUnsafe accepts any discriminant matching the underlying integer
	// width, constructing the enum value even if it names no known member
	// — for forward-compatible "unknown future member" handling.
	EnumUnsafe
)

type enumEntry struct {
	policy  EnumPolicy
	members map[int64]bool
}

var enumRegistry = make(map[reflect.Type]enumEntry)

// RegisterEnum declares t (a named integer type) as an enum with the
// given policy and member discriminants. Discriminants are widened to
// int64 for comparison regardless of t's underlying width/signedness.
func RegisterEnum(t reflect.Type, policy EnumPolicy, members []int64) {
	set := make(map[int64]bool, len(members))
	for _, m := range members {
		set[m] = true
	}
	enumRegistry[t] = enumEntry{policy: policy, members: set}
}

// CheckEnumValue validates v (already decoded as t's underlying integer
// kind) against t's registered policy. Unregistered enum types pass
// through unchecked, equivalent to EnumUnsafe.
func CheckEnumValue(t reflect.Type, v int64) error {
	e, ok := enumRegistry[t]
	if !ok || e.policy == EnumUnsafe {
		if ok && !e.members[v] {
			logger().Warnf("%s%s: decoded unregistered discriminant %d under EnumUnsafe", logging.NSRegistry, t, v)
		}
		return nil
	}
	if !e.members[v] {
		return mperr.UnknownEnumDiscriminant(int32(v))
	}
	return nil
}

// RegisterFlags declares that t (a named integer type) is a bit-flag set.
// Unlike the C# source, which must wrap a flag set in a struct to attach
// a [MemoryPackable] attribute, a Go named integer type (type Perms
// int32) already serializes as a bare scalar through encodeValue's
// integer cases — the same transparent-wrapper wire form, with no
// wrapping struct required. RegisterTransparent is still available for
// the struct-wrapper case proper.
func RegisterFlags(t reflect.Type) {
	flagRegistry[t] = true
}

var flagRegistry = make(map[reflect.Type]bool)

// IsFlags reports whether t was registered via RegisterFlags.
func IsFlags(t reflect.Type) bool {
	return flagRegistry[t]
}

// Register declares t's aggregate shape mode explicitly, the Go
// analogue of a C# [MemoryPackable(GenerateType.VersionTolerant)]
// attribute. t must not have been described yet; calling Register after
// t's Descriptor has already been cached is a programming error, since
// the cached descriptor would silently disagree with the new mode.
func Register(t reflect.Type, mode ShapeMode) error {
	if _, ok := cache.Load(t); ok {
		err := fmt.Errorf("schema: %s already described before Register(%s) was called", t, mode)
		logger().Fatalf("%s%s", logging.NSRegistry, err)
		return err
	}
	if prev, ok := modeOverrides.Load(t); ok && prev.(ShapeMode) != mode {
		logger().Warnf("%s%s: re-registered as %s, was %s", logging.NSRegistry, t, mode, prev.(ShapeMode))
	}
	SetMode(t, mode)
	return nil
}
