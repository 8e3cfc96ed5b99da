package schema

import "strconv"

// fieldTag is the parsed form of a struct field's `mp:"..."` tag, the
// per-field analogue of a C# [MemoryPackOrder]/[MemoryPackIgnore]/
// [MemoryPackZeroCopy] attribute triple: a comma-separated key[=value]
// tag grammar in the style of encoding/json's own struct tags.
type fieldTag struct {
	order    int
	hasOrder bool
	skip     bool
	zeroCopy bool
}

func parseFieldTag(raw string) fieldTag {
	var t fieldTag
	if raw == "" {
		return t
	}
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			part := raw[start:i]
			start = i + 1
			if part == "" {
				continue
			}
			key, val, hasVal := cutOnce(part, '=')
			switch key {
			case "skip", "ignore":
				t.skip = true
			case "zerocopy":
				t.zeroCopy = true
			case "order":
				if hasVal {
					if n, err := strconv.Atoi(val); err == nil {
						t.order = n
						t.hasOrder = true
					}
				}
			}
		}
	}
	return t
}

func cutOnce(s string, sep byte) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
