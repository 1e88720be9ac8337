package markup

import "strings"

// nesting returns how many bytes of an opener or closer start s, and the
// depth change they cause. Only template and link brackets count.
func nesting(s string) (width, delta int) {
	switch {
	case strings.HasPrefix(s, "{{"), strings.HasPrefix(s, "[["):
		return 2, 1
	case strings.HasPrefix(s, "}}"), strings.HasPrefix(s, "]]"):
		return 2, -1
	}
	return 0, 0
}

// indexTopLevel returns the byte index of the first sep that is not inside
// a template or link, or -1.
func indexTopLevel(s, sep string) int {
	depth := 0
	for i := 0; i < len(s); {
		if w, d := nesting(s[i:]); w > 0 {
			depth += d
			if depth < 0 {
				depth = 0
			}
			i += w
			continue
		}
		if depth == 0 && strings.HasPrefix(s[i:], sep) {
			return i
		}
		i++
	}
	return -1
}

// splitTopLevel splits s on every sep that is not inside a template or
// link. It always returns at least one element.
func splitTopLevel(s, sep string) []string {
	var parts []string
	for {
		idx := indexTopLevel(s, sep)
		if idx < 0 {
			return append(parts, s)
		}
		parts = append(parts, s[:idx])
		s = s[idx+len(sep):]
	}
}
