package memorypack

// Options configures the buffer-sizing behavior of Encode. It carries no
// feature toggles — shape mode and zero-copy behavior are per-type
// decisions made through Register and struct tags, not process-wide
// settings, per the "no process-wide mutable state" invariant.
type Options struct {
	// InitialBufferSize sizes the scratch Writer's backing array before
	// the first Encode call for a given value, to cut down on
	// reallocation for callers who know their typical payload size.
	InitialBufferSize int
}

// DefaultOptions returns the Options Encode uses when none are supplied.
func DefaultOptions() Options {
	return Options{InitialBufferSize: 256}
}
