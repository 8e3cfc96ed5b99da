// Package mperr defines the closed error taxonomy shared by every layer of
// the codec: the byte reader/writer, the varint codec, the container
// codecs, and the reflection-based schema emitter all surface failures
// through this package so that callers can match on a single set of kinds
// regardless of which layer detected the problem.
package mperr

import (
	"errors"
	"fmt"
)

// Kind enumerates the closed set of failure categories the codec can
// surface. Callers should match on Kind via errors.As, not on message text.
type Kind int

const (
	// KindIO wraps a failure from the underlying byte source (used for
	// user-supplied io.Reader/io.Writer adapters; the in-memory Reader and
	// Writer never originate this kind themselves).
	KindIO Kind = iota
	// KindInvalidUTF8 is reported when a decoded string is not valid UTF-8.
	KindInvalidUTF8
	// KindInvalidLength is reported when a declared length is negative and
	// is not the -1 "absent" sentinel.
	KindInvalidLength
	// KindSerialization is a domain error raised while encoding (e.g. a
	// value outside the range a feature adapter can represent on the wire).
	KindSerialization
	// KindDeserialization is a structural error raised while decoding:
	// unknown union tag, unknown enum discriminant in safe mode, invalid
	// reference id, invalid Unicode scalar, unexpected end of buffer,
	// buffer too small.
	KindDeserialization
	// KindUTF16Unsupported is raised when a zero-copy reader encounters the
	// legacy UTF-16 string form, which cannot be borrowed without
	// transcoding.
	KindUTF16Unsupported
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInvalidUTF8:
		return "invalid-utf8"
	case KindInvalidLength:
		return "invalid-length"
	case KindSerialization:
		return "serialization"
	case KindDeserialization:
		return "deserialization"
	case KindUTF16Unsupported:
		return "utf16-unsupported-in-zerocopy"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned by every package in this
// module. It carries a Kind for programmatic dispatch, a human-readable
// message, and an optional wrapped cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("memorypack: %s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("memorypack: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a sentinel for e's Kind, so that
// errors.Is(err, mperr.ErrUnexpectedEnd) works without exposing *Error's
// internals.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == sentinelMsg
}

const sentinelMsg = "<sentinel>"

func sentinel(k Kind) *Error { return &Error{Kind: k, Msg: sentinelMsg} }

// Sentinels for errors.Is comparisons against a Kind regardless of message.
var (
	ErrUnexpectedEnd       = sentinel(KindDeserialization)
	ErrBufferTooSmall      = sentinel(KindDeserialization)
	ErrInvalidUTF8         = sentinel(KindInvalidUTF8)
	ErrInvalidLength       = sentinel(KindInvalidLength)
	ErrUTF16InZeroCopy     = sentinel(KindUTF16Unsupported)
	ErrUnknownUnionTag     = sentinel(KindDeserialization)
	ErrUnknownDiscriminant = sentinel(KindDeserialization)
	ErrInvalidReferenceID  = sentinel(KindDeserialization)
	ErrInvalidUnicodeChar  = sentinel(KindDeserialization)
)

// New constructs a plain error of the given kind.
func New(k Kind, msg string) *Error {
	return &Error{Kind: k, Msg: msg}
}

// Wrap constructs an error of the given kind wrapping cause.
func Wrap(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Msg: msg, Cause: cause}
}

// UnexpectedEnd reports that a read at byte position pos needed want more
// bytes than remained in the input.
func UnexpectedEnd(pos, want, remaining int) *Error {
	return &Error{
		Kind: KindDeserialization,
		Msg:  fmt.Sprintf("unexpected end of buffer at offset %d: need %d bytes, have %d", pos, want, remaining),
	}
}

// BufferTooSmall reports that a declared length exceeds the remaining input.
func BufferTooSmall(declared, remaining int) *Error {
	return &Error{
		Kind: KindDeserialization,
		Msg:  fmt.Sprintf("declared length %d exceeds remaining buffer of %d bytes", declared, remaining),
	}
}

// InvalidLength reports a negative length that is not the -1 sentinel.
func InvalidLength(n int32) *Error {
	return &Error{Kind: KindInvalidLength, Msg: fmt.Sprintf("invalid declared length %d", n)}
}

// InvalidUTF8 reports that decoded bytes are not valid UTF-8.
func InvalidUTF8() *Error {
	return &Error{Kind: KindInvalidUTF8, Msg: "decoded bytes are not valid UTF-8"}
}

// UTF16InZeroCopy reports that a zero-copy reader encountered the UTF-16
// string form, which it cannot borrow.
func UTF16InZeroCopy() *Error {
	return &Error{Kind: KindUTF16Unsupported, Msg: "zero-copy mode cannot borrow a UTF-16-encoded string"}
}

// UnknownUnionTag reports a union tag with no registered variant.
func UnknownUnionTag(tag byte) *Error {
	return &Error{Kind: KindDeserialization, Msg: fmt.Sprintf("unknown union tag %d", tag)}
}

// UnknownEnumDiscriminant reports a discriminant with no known variant in
// safe decode mode.
func UnknownEnumDiscriminant(v int32) *Error {
	return &Error{Kind: KindDeserialization, Msg: fmt.Sprintf("unknown enum discriminant %d", v)}
}

// InvalidReferenceID reports a circular-mode back-reference with no
// matching id in the decode-side reference table.
func InvalidReferenceID(id uint64) *Error {
	return &Error{Kind: KindDeserialization, Msg: fmt.Sprintf("invalid reference id %d", id)}
}

// InvalidUnicodeScalar reports a 16-bit code unit that is an unpaired
// surrogate and therefore not a valid standalone Unicode scalar.
func InvalidUnicodeScalar(v uint16) *Error {
	return &Error{Kind: KindDeserialization, Msg: fmt.Sprintf("invalid unicode scalar 0x%04x", v)}
}

// Domain reports a serialization-side domain error, e.g. a value a feature
// adapter cannot represent on the wire.
func Domain(msg string) *Error {
	return &Error{Kind: KindSerialization, Msg: msg}
}

// As is a narrow convenience wrapper over errors.As for *Error, used by
// callers that only care about the Kind.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
