// Package atom extracts literal substrings ("atoms") from regex patterns.
//
// Atoms are a cheap pre-filter: if a pattern yields the atoms ["hello", "world"],
// any text that can match the pattern is expected to contain them, so a
// multi-pattern scanner only has to run the real engine on patterns whose atoms
// were all seen.
//
// Extraction is a best-effort heuristic. It recognizes concatenation, bounded
// alternation and small character classes, and disengages on everything it
// cannot reduce to fixed literals. Callers must always confirm a candidate with
// the real engine.
//
// Key concepts:
//   - An Atom is a lower-cased literal of at least the configured minimum length
//   - A Set is the ordered result, with no atom a substring of another
//   - Absorption drops an atom already implied by a longer one
package atom

import "strings"

// Set is an ordered collection of atoms.
//
// After Absorb, no atom in the set is a substring of a different atom in the set.
// Order otherwise follows the order in which atoms were added.
//
// Example:
//
//	s := atom.NewSet("abc", "abcdef", "xyz")
//	s.Absorb()
//	fmt.Println(s.Strings()) // Output: [abcdef xyz]
type Set struct {
	atoms []string
}

// NewSet creates a set holding the given atoms in order. No absorption is applied.
func NewSet(atoms ...string) *Set {
	return &Set{atoms: atoms}
}

// Len returns the number of atoms in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.atoms)
}

// Get returns the atom at index i.
// Panics if i is out of bounds.
func (s *Set) Get(i int) string {
	return s.atoms[i]
}

// IsEmpty returns true if the set has no atoms.
func (s *Set) IsEmpty() bool {
	return s == nil || len(s.atoms) == 0
}

// Strings returns a copy of the atoms in order.
func (s *Set) Strings() []string {
	if s.IsEmpty() {
		return nil
	}
	out := make([]string, len(s.atoms))
	copy(out, s.atoms)
	return out
}

// Contains reports whether atom is in the set.
func (s *Set) Contains(atom string) bool {
	if s == nil {
		return false
	}
	for _, a := range s.atoms {
		if a == atom {
			return true
		}
	}
	return false
}

// Add appends atoms to the set without absorption.
func (s *Set) Add(atoms ...string) {
	s.atoms = append(s.atoms, atoms...)
}

// Absorb removes every atom that is a substring of a different atom in the set.
//
// For prefilter purposes the longer atom implies the shorter one, so the shorter
// one is redundant. When the same string appears more than once, only the last
// occurrence is kept.
//
// Time complexity: O(n² * m) where n = number of atoms, m = average atom length
//
// Example:
//
//	s := atom.NewSet("abc", "abc123", "ghi789", "abc1234")
//	s.Absorb()
//	fmt.Println(s.Strings()) // Output: [ghi789 abc1234]
func (s *Set) Absorb() {
	if s.IsEmpty() {
		return
	}
	s.atoms = absorb(s.atoms)
}

// absorb returns the atoms of in, in order, minus those absorbed by another.
func absorb(in []string) []string {
	kept := make([]string, 0, len(in))
	for i, a := range in {
		if !absorbed(in, i, a) {
			kept = append(kept, a)
		}
	}
	return kept
}

// absorbed reports whether in[i] is covered by a longer atom, or by an equal
// atom later in the slice.
func absorbed(in []string, i int, a string) bool {
	for j, b := range in {
		if j == i || len(b) < len(a) {
			continue
		}
		if len(b) == len(a) {
			if j > i && b == a {
				return true
			}
			continue
		}
		if strings.Contains(b, a) {
			return true
		}
	}
	return false
}
