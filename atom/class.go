package atom

import "strings"

// maxClassSize is the largest character class the extractor will enumerate.
const maxClassSize = 256

// expandClass returns the characters of a bracket expression body (without the
// brackets).
//
// Supported forms are a plain enumeration ("abc") or a single range ("a-z").
// Negated classes, escapes, POSIX classes, several ranges, or a range mixed
// with other characters report ok == false.
func expandClass(body string) (chars []rune, ok bool) {
	if body == "" || body[0] == '^' ||
		strings.ContainsRune(body, '\\') || strings.Contains(body, "[:") {
		return nil, false
	}

	runes := []rune(body)
	var singles []rune
	var lo, hi rune
	ranges := 0
	for i := 0; i < len(runes); i++ {
		if i+2 < len(runes) && runes[i+1] == '-' {
			lo, hi = runes[i], runes[i+2]
			ranges++
			i += 2
			continue
		}
		singles = append(singles, runes[i])
	}

	switch {
	case ranges == 0:
		chars = dedupeRunes(singles)
	case ranges == 1 && len(singles) == 0 && lo <= hi:
		if int(hi-lo) >= maxClassSize {
			return nil, false
		}
		chars = make([]rune, 0, hi-lo+1)
		for r := lo; r <= hi; r++ {
			chars = append(chars, r)
		}
	default:
		return nil, false
	}
	if len(chars) > maxClassSize {
		return nil, false
	}
	return chars, true
}

// dedupeRunes removes repeated runes, keeping first occurrences in order.
func dedupeRunes(in []rune) []rune {
	seen := make(map[rune]struct{}, len(in))
	out := make([]rune, 0, len(in))
	for _, r := range in {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// crossProduct returns every prefix+literal+char combination, prefixes outermost.
//
// Example:
//
//	crossProduct([]string{"a", "b"}, "x", []rune("12"))
//	// ["ax1", "ax2", "bx1", "bx2"]
func crossProduct(prefixes []string, literal string, chars []rune) []string {
	out := make([]string, 0, len(prefixes)*len(chars))
	for _, p := range prefixes {
		for _, c := range chars {
			out = append(out, p+literal+string(c))
		}
	}
	return out
}
