// Package schema is the reflection-based equivalent of MemoryPack's C#
// source generator: since Go has no attribute macros, each aggregate
// type's wire shape is derived once, on first use, by inspecting its
// reflect.Type and any explicit Register call, then cached for the
// lifetime of the process.
//
// The cache (a sync.Map keyed by reflect.Type) mirrors encoding/json's
// internal typeFields cache. The descriptor itself is a flat,
// precomputed plan the encoder/decoder walks without re-deriving
// reflection metadata on every call.
package schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/aalhour/gomemorypack/internal/logging"
)

// ShapeMode selects which of the three MemoryPack aggregate encodings a
// type uses (zero-copy is a per-field tag, not a mode). The zero value,
// ModeRegular, is the default for any type that hasn't been explicitly
// Register-ed otherwise.
type ShapeMode int

const (
	ModeRegular ShapeMode = iota
	ModeVersionTolerant
	ModeCircular
)

func (m ShapeMode) String() string {
	switch m {
	case ModeRegular:
		return "regular"
	case ModeVersionTolerant:
		return "version-tolerant"
	case ModeCircular:
		return "circular"
	default:
		return fmt.Sprintf("ShapeMode(%d)", int(m))
	}
}

// Descriptor is the fully resolved wire plan for one struct type.
type Descriptor struct {
	Type   reflect.Type
	Mode   ShapeMode
	Fields []FieldDescriptor
	// Unit reports whether the aggregate has zero wire-visible members
	// (no fields, or every field skipped) — such types emit nothing at
	// all in regular mode; version-tolerant and circular mode still write
	// a zero member-count byte (circular mode also its reference id).
	Unit bool
	// MemberCount is the member-count byte version-tolerant and circular
	// mode emit: max(FieldOrder)+1 across Fields, not len(Fields). An
	// explicit order tag may leave gaps below this count (e.g. a field
	// removed from a later struct version but whose order is kept
	// reserved); Positions makes those gaps addressable.
	MemberCount int
	// Positions maps a wire position (0..MemberCount-1) to the field
	// declared at that order, or nil if the position is a deliberate
	// gap. Only meaningful for ModeVersionTolerant and ModeCircular.
	Positions []*FieldDescriptor
}

// FieldDescriptor is one wire-visible struct field, in final emission
// order.
type FieldDescriptor struct {
	Name       string
	Index      int // reflect.StructField index within the struct
	ZeroCopy   bool
	FieldOrder int // declared or inferred order; sets MemberCount and Positions, and compile rejects ties
}

var (
	cache         sync.Map // reflect.Type -> *Descriptor
	modeOverrides sync.Map // reflect.Type -> ShapeMode, set by explicit Register calls
)

// SetMode records an explicit shape-mode override for t, to be honored
// the next time t is described. Must be called before the type's first
// Encode/Decode; a change after the descriptor has already been cached
// has no effect, matching the C# attribute model where the shape is
// fixed at compile time.
func SetMode(t reflect.Type, mode ShapeMode) {
	modeOverrides.Store(t, mode)
}

// Describe returns the cached Descriptor for t, computing and caching it
// on first use. t must be a struct type (after pointer indirection is
// resolved by the caller).
func Describe(t reflect.Type) (*Descriptor, error) {
	if v, ok := cache.Load(t); ok {
		return v.(*Descriptor), nil
	}
	d, err := compile(t)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(t, d)
	return actual.(*Descriptor), nil
}

func compile(t reflect.Type) (*Descriptor, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %s is not a struct type", t)
	}
	mode := ModeRegular
	if m, ok := modeOverrides.Load(t); ok {
		mode = m.(ShapeMode)
	} else {
		logger().Debugf("%s%s: no explicit Register call, defaulting to regular mode", logging.NSSchema, t)
	}

	type candidate struct {
		FieldDescriptor
		declOrder int
	}
	var candidates []candidate
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" && !sf.Anonymous {
			continue // unexported
		}
		tag := parseFieldTag(sf.Tag.Get("mp"))
		if tag.skip || strings.HasPrefix(sf.Name, "_") {
			continue
		}
		order := i
		if tag.hasOrder {
			order = tag.order
		}
		candidates = append(candidates, candidate{
			FieldDescriptor: FieldDescriptor{
				Name:       sf.Name,
				Index:      i,
				ZeroCopy:   tag.zeroCopy,
				FieldOrder: order,
			},
			declOrder: i,
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].FieldOrder < candidates[b].FieldOrder
	})
	for i := 1; i < len(candidates); i++ {
		if candidates[i].FieldOrder == candidates[i-1].FieldOrder {
			return nil, fmt.Errorf("schema: %s: fields %q and %q both declare order=%d",
				t, candidates[i-1].Name, candidates[i].Name, candidates[i].FieldOrder)
		}
	}

	fields := make([]FieldDescriptor, len(candidates))
	for i, c := range candidates {
		fields[i] = c.FieldDescriptor
	}

	memberCount := 0
	for _, f := range fields {
		if f.FieldOrder+1 > memberCount {
			memberCount = f.FieldOrder + 1
		}
	}
	positions := make([]*FieldDescriptor, memberCount)
	for i := range fields {
		positions[fields[i].FieldOrder] = &fields[i]
	}

	return &Descriptor{
		Type:        t,
		Mode:        mode,
		Fields:      fields,
		Unit:        len(fields) == 0,
		MemberCount: memberCount,
		Positions:   positions,
	}, nil
}
