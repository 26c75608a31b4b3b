package re2compat

import (
	"unicode/utf8"

	"github.com/coregx/re2compat/rewrite"
)

// template compiles rw and checks it against the regex's groups.
func (r *Regex) template(rw string) (*rewrite.Template, bool) {
	t, err := rewrite.Compile(rw)
	if err != nil || t.MaxIndex() > r.groups {
		return nil, false
	}
	return t, true
}

// Replace replaces the first match of re in str with rw.
//
// Returns str unchanged and false if there is no match, or if rw is malformed
// or references more groups than re has.
//
// Example:
//
//	re := re2compat.MustCompile(`(\w+) (\w+)`, re2compat.Options{})
//	out, ok := re2compat.Replace("hello world foo", re, `\2 \1`)
//	// out = "world hello foo", ok = true
func Replace(str string, re *Regex, rw string) (string, bool) {
	t, ok := re.template(rw)
	if !ok {
		return str, false
	}
	loc := re.re.FindStringSubmatchIndex(str)
	if loc == nil {
		return str, false
	}

	dst := make([]byte, 0, len(str)+len(rw))
	dst = append(dst, str[:loc[0]]...)
	dst, err := t.AppendMatch(dst, str, loc)
	if err != nil {
		return str, false
	}
	dst = append(dst, str[loc[1]:]...)
	return string(dst), true
}

// GlobalReplace replaces every non-overlapping match of re in str with rw and
// returns the result and the number of replacements.
//
// An empty match is not allowed directly after a previous match, and the
// search advances one rune past an empty match, so "" against "abc" yields 4
// replacements.
//
// Returns str unchanged and 0 under the same conditions as Replace.
//
// Example:
//
//	re := re2compat.MustCompile(`b+`, re2compat.Options{})
//	out, n := re2compat.GlobalReplace("abbcbd", re, `[\0]`)
//	// out = "a[bb]c[b]d", n = 2
func GlobalReplace(str string, re *Regex, rw string) (string, int) {
	t, ok := re.template(rw)
	if !ok {
		return str, 0
	}
	locs := re.re.FindAllStringSubmatchIndex(str, -1)
	if len(locs) == 0 {
		return str, 0
	}

	dst := make([]byte, 0, len(str)+len(locs)*len(rw))
	last, prevEnd, n := 0, -1, 0
	for _, loc := range locs {
		if loc[0] == loc[1] && (loc[0] == prevEnd || !runeStart(str, loc[0])) {
			continue
		}
		dst = append(dst, str[last:loc[0]]...)
		var err error
		dst, err = t.AppendMatch(dst, str, loc)
		if err != nil {
			return str, 0
		}
		last, prevEnd = loc[1], loc[1]
		n++
	}
	if n == 0 {
		return str, 0
	}
	dst = append(dst, str[last:]...)
	return string(dst), n
}

// runeStart reports whether i is a rune boundary in s.
func runeStart(s string, i int) bool {
	return i >= len(s) || utf8.RuneStart(s[i])
}

// Extract applies rw to the first match of re in text and returns only the
// expansion. Text around the match is discarded.
//
// Example:
//
//	re := re2compat.MustCompile(`(\w+)@(\w+)\.com`, re2compat.Options{})
//	out, ok := re2compat.Extract("mail bob@example.com now", re, `\2!\1`)
//	// out = "example!bob", ok = true
func Extract(text string, re *Regex, rw string) (string, bool) {
	t, ok := re.template(rw)
	if !ok {
		return "", false
	}
	loc := re.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", false
	}
	dst, err := t.AppendMatch(nil, text, loc)
	if err != nil {
		return "", false
	}
	return string(dst), true
}
