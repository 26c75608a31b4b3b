// Package rewrite implements RE2-style rewrite templates.
//
// A template is literal text interleaved with backreferences:
//
//	\0 .. \9   the text of capture group N (\0 is the whole match)
//	\\         a literal backslash
//
// Any other use of a backslash is malformed. Indices are a single digit, so at
// most nine groups can be referenced.
//
// Example:
//
//	out, err := rewrite.Expand(`\2, \1`, []string{"John Smith", "John", "Smith"})
//	// out = "Smith, John"
package rewrite

import (
	"strings"
	"unicode/utf8"
)

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// MaxBackreference returns the largest N of any \N in template, or 0 if there is none.
//
// Only a digit immediately after a backslash counts; indices are a single digit.
//
// Example:
//
//	n := rewrite.MaxBackreference(`a\1b\9c`)
//	// n = 9
func MaxBackreference(template string) int {
	maxIndex := 0
	for i := 0; i+1 < len(template); i++ {
		if template[i] != '\\' || !isDigit(template[i+1]) {
			continue
		}
		if n := int(template[i+1] - '0'); n > maxIndex {
			maxIndex = n
		}
		i++
	}
	return maxIndex
}

// Check reports whether template is well formed and references at most
// captureCount groups.
//
// Referencing fewer groups than are available is allowed. The returned error is
// a *TemplateError wrapping ErrTrailingEscape, ErrInvalidEscape or
// ErrBackreferenceOutOfRange.
//
// Example:
//
//	err := rewrite.Check(`\1-\3`, 2)
//	// errors.Is(err, rewrite.ErrBackreferenceOutOfRange) == true
func Check(template string, captureCount int) error {
	maxIndex, maxOffset := -1, 0
	for i := 0; i < len(template); i++ {
		if template[i] != '\\' {
			continue
		}
		i++
		if i == len(template) {
			return syntaxError(template, i-1, ErrTrailingEscape)
		}
		c := template[i]
		if c == '\\' {
			continue
		}
		if !isDigit(c) {
			return syntaxError(template, i-1, ErrInvalidEscape)
		}
		if n := int(c - '0'); n > maxIndex {
			maxIndex, maxOffset = n, i-1
		}
	}
	if maxIndex > captureCount {
		return rangeError(template, maxOffset, maxIndex)
	}
	return nil
}

// Validate reports whether Check(template, captureCount) succeeds.
//
// Example:
//
//	rewrite.Validate(`\1\2`, 2) // true
//	rewrite.Validate(`\3`, 2)   // false
//	rewrite.Validate(`\`, 0)    // false
func Validate(template string, captureCount int) bool {
	return Check(template, captureCount) == nil
}

// ConvertToHostSyntax rewrites every \N into ${N}.
//
// Every other escape pair, including an escaped backslash, and a trailing
// backslash produce no output. Expand keeps an escaped backslash as '\'.
//
// Example:
//
//	s := rewrite.ConvertToHostSyntax(`\1 and \2`)
//	// s = "${1} and ${2}"
func ConvertToHostSyntax(template string) string {
	var b strings.Builder
	b.Grow(len(template) + len(template)/2)
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(template) {
			break
		}
		if isDigit(template[i]) {
			b.WriteString("${")
			b.WriteByte(template[i])
			b.WriteByte('}')
			continue
		}
		// drop the whole escaped character, not just its first byte
		_, size := utf8.DecodeRuneInString(template[i:])
		i += size - 1
	}
	return b.String()
}

// Expand substitutes captures into template.
//
// captures[N] is the text of group N. An empty capture contributes nothing.
// A \N with N >= len(captures) fails with ErrBackreferenceOutOfRange; a
// malformed escape fails with ErrTrailingEscape or ErrInvalidEscape.
//
// Example:
//
//	out, _ := rewrite.Expand(`\1-\2`, []string{"whole", "X", "Y"})
//	// out = "X-Y"
func Expand(template string, captures []string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 == len(template) {
			return "", syntaxError(template, i, ErrTrailingEscape)
		}
		next := template[i+1]
		switch {
		case isDigit(next):
			n := int(next - '0')
			if n >= len(captures) {
				return "", rangeError(template, i, n)
			}
			b.WriteString(captures[n])
		case next == '\\':
			b.WriteByte('\\')
		default:
			return "", syntaxError(template, i, ErrInvalidEscape)
		}
		i++
	}
	return b.String(), nil
}
