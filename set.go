package re2compat

import (
	"errors"
)

// Anchor selects how Set patterns are anchored.
type Anchor int

const (
	// Unanchored patterns may match anywhere in the text.
	Unanchored Anchor = iota

	// AnchorStart patterns must match at the start of the text.
	AnchorStart

	// AnchorBoth patterns must match the whole text.
	AnchorBoth
)

// String returns the anchor name.
func (a Anchor) String() string {
	switch a {
	case Unanchored:
		return "Unanchored"
	case AnchorStart:
		return "AnchorStart"
	case AnchorBoth:
		return "AnchorBoth"
	default:
		return "Unknown"
	}
}

// wrap anchors a pattern expression.
func (a Anchor) wrap(expr string) string {
	switch a {
	case AnchorStart:
		return `\A(?:` + expr + `)`
	case AnchorBoth:
		return `\A(?:` + expr + `)\z`
	default:
		return expr
	}
}

// Set matches a text against many patterns at once and reports which matched.
//
// Patterns are added with Add, then the set is frozen with Compile.
// Add is not safe for concurrent use; Match is, once the set is compiled.
//
// Example:
//
//	s := re2compat.NewSet(re2compat.Options{}, re2compat.Unanchored)
//	s.Add(`foo\d+`)
//	s.Add(`bar`)
//	s.Compile()
//	s.Match("foo42 baz") // [0]
type Set struct {
	options  Options
	anchor   Anchor
	patterns []string
	regexes  []*Regex
	compiled bool
}

// NewSet creates an empty set.
func NewSet(opts Options, anchor Anchor) *Set {
	return &Set{options: opts, anchor: anchor}
}

// Add adds pattern to the set and returns its index.
//
// The pattern is compiled immediately so errors are reported here, as a
// *CompileError naming pattern.
func (s *Set) Add(pattern string) (int, error) {
	if s.compiled {
		return -1, ErrSetCompiled
	}

	opts := s.options
	expr := pattern
	if opts.Literal {
		expr = QuoteMeta(pattern)
		opts.Literal = false
	}

	re, err := Compile(s.anchor.wrap(expr), opts)
	if err != nil {
		var cerr *CompileError
		if errors.As(err, &cerr) {
			return -1, &CompileError{Pattern: pattern, Err: cerr.Err}
		}
		return -1, err
	}

	s.patterns = append(s.patterns, pattern)
	s.regexes = append(s.regexes, re)
	return len(s.patterns) - 1, nil
}

// Compile freezes the set. No patterns may be added afterwards.
func (s *Set) Compile() error {
	if s.compiled {
		return ErrSetCompiled
	}
	if len(s.patterns) == 0 {
		return ErrSetEmpty
	}
	s.compiled = true
	return nil
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	return len(s.patterns)
}

// Pattern returns the pattern with index i, as passed to Add.
func (s *Set) Pattern(i int) string {
	return s.patterns[i]
}

// Match returns the indices, in increasing order, of the patterns matching text.
// Returns nil when nothing matches or the set is not compiled; use MatchErr to
// tell the two apart.
func (s *Set) Match(text string) []int {
	ids, _ := s.MatchErr(text)
	return ids
}

// MatchErr is like Match but returns ErrSetNotCompiled before Compile.
func (s *Set) MatchErr(text string) ([]int, error) {
	if !s.compiled {
		return nil, ErrSetNotCompiled
	}
	var ids []int
	for i, re := range s.regexes {
		if re.re.MatchString(text) {
			ids = append(ids, i)
		}
	}
	return ids, nil
}
