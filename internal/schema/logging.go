package schema

import (
	"sync/atomic"

	"github.com/aalhour/gomemorypack/internal/logging"
)

// activeLogger holds the package-wide logger schema reports through. It
// defaults to logging.Discard so a caller who never opts in pays nothing;
// SetLogger swaps it for a real one, matching the rest of the
// reflection-derived plan's "resolved once, used everywhere" shape.
var activeLogger atomic.Pointer[logging.Logger]

func init() {
	var l logging.Logger = logging.Discard
	activeLogger.Store(&l)
}

// SetLogger replaces the logger schema, registry, and codec conditions
// report through. Safe to call concurrently with Describe/Encode/Decode.
func SetLogger(l logging.Logger) {
	if logging.IsNil(l) {
		l = logging.Discard
	}
	activeLogger.Store(&l)
}

func logger() logging.Logger {
	return *activeLogger.Load()
}
