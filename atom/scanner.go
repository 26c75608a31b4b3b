package atom

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// metaChars are the characters that disqualify a group branch from being an atom.
const metaChars = `.*+?[]{}\^$`

// scanner is the state of a single left-to-right pass over a lower-cased pattern.
//
// Invariant: pos only moves forward and never exceeds len(pattern).
type scanner struct {
	source  string // pattern as given, for error reporting
	pattern string // lower-cased pattern being scanned
	offsets []int  // offsets[i] is the source offset of pattern[i]
	config  Config
	pos     int

	literal strings.Builder // pending literal run
	cross   []string        // pending cross product of character classes
	out     *Set
}

func newScanner(source string, config Config) *scanner {
	if config.MinAtomLen < 1 {
		config.MinAtomLen = 1
	}
	pattern, offsets := lower(source)
	return &scanner{
		source:  source,
		pattern: pattern,
		offsets: offsets,
		config:  config,
		out:     NewSet(),
	}
}

// lower lower-cases source rune by rune and maps each byte of the result back
// to the start of the source rune it came from. Invalid bytes are kept as is.
func lower(source string) (string, []int) {
	var b strings.Builder
	b.Grow(len(source))
	offsets := make([]int, 0, len(source)+1)
	for i := 0; i < len(source); {
		r, size := utf8.DecodeRuneInString(source[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteByte(source[i])
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
		for len(offsets) < b.Len() {
			offsets = append(offsets, i)
		}
		i += size
	}
	offsets = append(offsets, len(source))
	return b.String(), offsets
}

func (s *scanner) run() error {
	for s.pos < len(s.pattern) {
		var err error
		switch c := s.pattern[s.pos]; c {
		case '(':
			err = s.group()
		case '[':
			err = s.class()
		case '{':
			err = s.repetition()
		case '\\':
			s.escape()
		case '.':
			s.flush()
			s.pos++
		case '*', '+':
			s.pos++
		default:
			s.literal.WriteByte(c)
			s.pos++
		}
		if err != nil {
			return err
		}
	}
	s.flush()
	return nil
}

// flush emits the pending state as atoms and clears it.
// With a pending cross product, each entry is suffixed with the pending literal.
func (s *scanner) flush() {
	lit := s.literal.String()
	s.literal.Reset()
	if len(s.cross) == 0 {
		s.emit(lit)
		return
	}
	for _, prefix := range s.cross {
		s.emit(prefix + lit)
	}
	s.cross = nil
}

func (s *scanner) emit(atom string) {
	if len(atom) >= s.config.MinAtomLen {
		s.out.Add(atom)
	}
}

// closing returns the offset of the first closer byte after the opening
// delimiter at s.pos.
func (s *scanner) closing(open, closer byte) (int, error) {
	if i := strings.IndexByte(s.pattern[s.pos+1:], closer); i >= 0 {
		return s.pos + 1 + i, nil
	}
	return 0, &PatternError{
		Pattern:   s.source,
		Offset:    s.offsets[s.pos],
		Construct: open,
		Err:       ErrMalformedPattern,
	}
}

// group handles '(' up to the first ')'. Nested groups are not balanced.
//
// The group's atoms are kept only when it is followed by '.', '{' or the end of
// the pattern. Any other continuation drops them. The pending literal carries
// across the group.
func (s *scanner) group() error {
	end, err := s.closing('(', ')')
	if err != nil {
		return err
	}
	body := s.pattern[s.pos+1 : end]
	s.pos = end + 1

	candidates := s.branches(body)
	if len(candidates) == 0 {
		return nil
	}
	if s.pos < len(s.pattern) {
		if next := s.pattern[s.pos]; next != '.' && next != '{' {
			return nil
		}
	}
	s.out.Add(candidates...)
	return nil
}

// branches splits a group body on '|' and returns the branches long enough to
// be atoms, shortest first, after absorption.
func (s *scanner) branches(body string) []string {
	switch {
	case strings.HasPrefix(body, "?:"):
		body = body[2:]
	case strings.HasPrefix(body, "?"):
		// flags or a named group
		return nil
	}

	var out []string
	for _, b := range strings.Split(body, "|") {
		b = strings.ReplaceAll(b, "(", "")
		if len(b) < s.config.MinAtomLen || strings.ContainsAny(b, metaChars) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) < len(out[j])
	})
	return absorb(out)
}

// class handles '[' up to the first ']'.
func (s *scanner) class() error {
	end, err := s.closing('[', ']')
	if err != nil {
		return err
	}
	body := s.pattern[s.pos+1 : end]
	s.pos = end + 1

	if s.pos < len(s.pattern) && s.pattern[s.pos] == '+' {
		s.pos++
		s.flush()
		return nil
	}

	chars, ok := expandClass(body)
	if !ok {
		s.flush()
		return nil
	}

	prefixes := s.cross
	if len(prefixes) == 0 {
		prefixes = []string{""}
	}
	if limit := s.config.MaxCrossProduct; limit > 0 && len(prefixes)*len(chars) > limit {
		s.flush()
		return nil
	}

	s.cross = crossProduct(prefixes, s.literal.String(), chars)
	s.literal.Reset()
	return nil
}

// repetition skips a bounded repetition '{n,m}'. Pending state is kept.
func (s *scanner) repetition() error {
	end, err := s.closing('{', '}')
	if err != nil {
		return err
	}
	s.pos = end + 1
	return nil
}

// escape flushes pending state and drops the escaped character.
func (s *scanner) escape() {
	s.flush()
	s.pos++
	if s.pos < len(s.pattern) {
		_, size := utf8.DecodeRuneInString(s.pattern[s.pos:])
		s.pos += size
	}
}
