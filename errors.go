package memorypack

import "github.com/aalhour/gomemorypack/internal/mperr"

// Sentinel errors Encode/Decode can return. Use errors.Is to test for
// these; they compare by failure kind, not by message text, so wrapped
// instances with different detail strings still match.
var (
	ErrUnexpectedEnd      = mperr.ErrUnexpectedEnd
	ErrBufferTooSmall     = mperr.ErrBufferTooSmall
	ErrInvalidUTF8        = mperr.ErrInvalidUTF8
	ErrInvalidLength      = mperr.ErrInvalidLength
	ErrUTF16InZeroCopy    = mperr.ErrUTF16InZeroCopy
	ErrUnknownUnionTag    = mperr.ErrUnknownUnionTag
	ErrUnknownEnum        = mperr.ErrUnknownDiscriminant
	ErrInvalidReferenceID = mperr.ErrInvalidReferenceID
)
