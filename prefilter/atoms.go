// Package prefilter finds which atoms occur in a text.
//
// Atoms are literal substrings extracted from regex patterns (see package atom).
// A multi-pattern filter asks the matcher which atoms occur in the input and
// only runs the full regex engine on patterns whose atoms were all seen.
//
// The matcher is an Aho-Corasick automaton over the lower-cased atoms, so a
// single pass finds every atom regardless of how many patterns contributed them.
//
// Example usage:
//
//	m, _ := prefilter.NewAtomMatcher([]string{"hello", "world"})
//	ids := m.Match([]byte("Hello there"))
//	// ids == [0]
package prefilter

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/coregx/ahocorasick"
)

// ErrEmptyAtom indicates an empty string was passed as an atom.
var ErrEmptyAtom = errors.New("prefilter: empty atom")

// AtomMatcher reports which of a fixed list of atoms occur in a text.
//
// Matching is case-insensitive: atoms and text are both lower-cased.
// An AtomMatcher is immutable after construction and safe for concurrent use.
type AtomMatcher struct {
	atoms   [][]byte
	byFirst [256][]int // atom ids bucketed by first byte
	auto    *ahocorasick.Automaton
}

// NewAtomMatcher builds a matcher for atoms. Atom ids are indices into atoms;
// duplicates are allowed and are reported under every id they occupy.
//
// An empty list yields a matcher that never matches.
func NewAtomMatcher(atoms []string) (*AtomMatcher, error) {
	m := &AtomMatcher{atoms: make([][]byte, len(atoms))}
	if len(atoms) == 0 {
		return m, nil
	}

	builder := ahocorasick.NewBuilder()
	added := make(map[string]struct{}, len(atoms))
	for id, a := range atoms {
		if a == "" {
			return nil, fmt.Errorf("%w at index %d", ErrEmptyAtom, id)
		}
		lower := strings.ToLower(a)
		m.atoms[id] = []byte(lower)
		m.byFirst[lower[0]] = append(m.byFirst[lower[0]], id)
		if _, dup := added[lower]; dup {
			continue
		}
		added[lower] = struct{}{}
		builder.AddPattern([]byte(lower))
	}

	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("prefilter: build automaton: %w", err)
	}
	m.auto = auto
	return m, nil
}

// Len returns the number of atoms.
func (m *AtomMatcher) Len() int {
	return len(m.atoms)
}

// Atom returns the lower-cased atom with the given id.
func (m *AtomMatcher) Atom(id int) string {
	return string(m.atoms[id])
}

// IsMatch reports whether any atom occurs in text.
func (m *AtomMatcher) IsMatch(text []byte) bool {
	if m.auto == nil || len(text) == 0 {
		return false
	}
	return m.auto.IsMatch(bytes.ToLower(text))
}

// Match returns the sorted ids of every atom occurring in text.
//
// The automaton only reports one match per search, so every position up to the
// end of each reported match is checked against the atoms sharing its first
// byte. This also finds atoms that overlap or share a start with the reported one.
func (m *AtomMatcher) Match(text []byte) []int {
	if m.auto == nil || len(text) == 0 {
		return nil
	}
	lower := bytes.ToLower(text)
	seen := make([]bool, len(m.atoms))
	var ids []int

	for at := 0; at < len(lower); {
		hit := m.auto.Find(lower, at)
		if hit == nil {
			break
		}
		for pos := at; pos < hit.End; pos++ {
			for _, id := range m.byFirst[lower[pos]] {
				if !seen[id] && bytes.HasPrefix(lower[pos:], m.atoms[id]) {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
		at = hit.End
	}

	sort.Ints(ids)
	return ids
}
