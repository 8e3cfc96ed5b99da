// Package refstate implements the per-call bookkeeping circular-mode
// aggregates need to detect and reconstruct cyclic object graphs: an
// object-identity-to-id map on the encode side, and an id-to-object map on
// the decode side. Both are created lazily on first use within a call and
// discarded when the call returns — there is no process-lifetime state.
//
// Identity is a uintptr derived from the pointer a schema-emitted routine
// is serializing; the decode side stores `any` values and recovers the
// concrete type through a type assertion on lookup.
package refstate

import "github.com/aalhour/gomemorypack/internal/mperr"

// EncodeState assigns a monotonically increasing id to each distinct
// object identity encountered during one top-level encode call.
type EncodeState struct {
	nextID uint64
	ids    map[uintptr]uint64
}

// NewEncodeState returns an empty EncodeState.
func NewEncodeState() *EncodeState {
	return &EncodeState{ids: make(map[uintptr]uint64)}
}

// GetOrAdd returns (true, id) if ptr was already assigned an id in this
// call, or (false, id) after assigning it a fresh one.
func (s *EncodeState) GetOrAdd(ptr uintptr) (alreadyPresent bool, id uint64) {
	if id, ok := s.ids[ptr]; ok {
		return true, id
	}
	id = s.nextID
	s.nextID++
	s.ids[ptr] = id
	return false, id
}

// DecodeState maps circular-mode reference ids to the (possibly
// provisional) decoded object for that id.
type DecodeState struct {
	objects map[uint64]any
}

// NewDecodeState returns an empty DecodeState.
func NewDecodeState() *DecodeState {
	return &DecodeState{objects: make(map[uint64]any)}
}

// Add installs value under id. It fails if id is already present, since
// the decoder is expected to call Add exactly once per id (to install the
// provisional default-valued object) before any inner field can refer
// back to it.
func (s *DecodeState) Add(id uint64, value any) error {
	if _, exists := s.objects[id]; exists {
		return mperr.New(mperr.KindDeserialization, "reference id already added")
	}
	s.objects[id] = value
	return nil
}

// Update replaces the value previously installed under id with the
// finalized, fully-decoded object.
func (s *DecodeState) Update(id uint64, value any) error {
	if _, exists := s.objects[id]; !exists {
		return mperr.New(mperr.KindDeserialization, "reference id not found for update")
	}
	s.objects[id] = value
	return nil
}

// Lookup returns the object stored under id, type-asserted to T. It fails
// if id is unknown or the stored value is not a T.
func Lookup[T any](s *DecodeState, id uint64) (T, error) {
	var zero T
	raw, ok := s.objects[id]
	if !ok {
		return zero, mperr.InvalidReferenceID(id)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, mperr.InvalidReferenceID(id)
	}
	return v, nil
}
