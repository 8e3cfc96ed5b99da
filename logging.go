package memorypack

import (
	"io"

	"github.com/aalhour/gomemorypack/internal/logging"
	"github.com/aalhour/gomemorypack/internal/schema"
)

// Logger is an alias for the logging.Logger interface.
type Logger = logging.Logger

// FatalHandler is an alias for logging.FatalHandler.
type FatalHandler = logging.FatalHandler

// Discard is a Logger that drops every message; it's the default until
// SetLogger is called.
var Discard = logging.Discard

// NewLogger builds a Logger that writes lines at level and above to w,
// in the same "YYYY/MM/DD HH:MM:SS LEVEL [component] message" format the
// schema package's own conditions are reported in.
func NewLogger(w io.Writer, level Level) *logging.DefaultLogger {
	return logging.NewLogger(w, level)
}

// Level mirrors logging.Level.
type Level = logging.Level

const (
	LevelWarn  = logging.LevelWarn
	LevelDebug = logging.LevelDebug
)

// SetLogger replaces the logger schema compilation, Register and enum
// decoding report through — a type falling back to ModeRegular with no
// explicit Register call, a Register call for an already-described type,
// or an EnumUnsafe decode hitting a discriminant outside the registered
// member set. Union decoding does not log. The default is Discard.
func SetLogger(l Logger) {
	schema.SetLogger(l)
}
