// Package filtered matches a text against many regexes, running the regex
// engine only on patterns whose atoms occur in the text.
//
// Each pattern is reduced to atoms (see package atom). A pattern is a candidate
// for a text when it has no atoms, or when every one of its atoms occurs in the
// text. Only candidates are run through the regex engine.
//
// Requiring every atom is a heuristic: a pattern with top-level alternation,
// such as "foo|barbaz", is only a candidate when both branches' atoms occur.
// SlowFirstMatch ignores atoms when exact results are required.
//
// Usage:
//
//	s := filtered.New(filtered.WithMinAtomLen(3))
//	s.Add(`hello.*world`)
//	s.Add(`error \d+`)
//	s.Compile()
//	ids := s.Scan("hello big world") // [0]
package filtered

import (
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/coregx/re2compat"
	"github.com/coregx/re2compat/atom"
	"github.com/coregx/re2compat/prefilter"
)

// Common errors
var (
	// ErrAlreadyCompiled indicates Add or Compile was called after Compile
	ErrAlreadyCompiled = errors.New("filtered: set already compiled")

	// ErrNoPatterns indicates Compile was called with no valid patterns
	ErrNoPatterns = errors.New("filtered: no patterns")

	// ErrNotCompiled indicates a match operation before Compile
	ErrNotCompiled = errors.New("filtered: set not compiled")
)

// Set is a collection of regexes filtered by atoms.
//
// Add and Compile must not race with each other. After Compile, every
// method is safe for concurrent use.
type Set struct {
	mu sync.RWMutex

	logger     *zap.Logger
	minAtomLen int
	options    re2compat.Options

	regexes  []*re2compat.Regex
	atomIDs  [][]int // per pattern, ids into atoms
	atoms    []string
	matcher  *prefilter.AtomMatcher
	compiled bool

	stats counters
}

// New creates an empty Set.
func New(opts ...Option) *Set {
	s := &Set{
		logger:     zap.NewNop(),
		minAtomLen: atom.DefaultMinAtomLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add compiles pattern and adds it to the set, returning its id.
//
// Invalid patterns are logged and skipped: they get no id and do not
// shift the ids of later patterns.
func (s *Set) Add(pattern string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.compiled {
		return -1, ErrAlreadyCompiled
	}
	re, err := re2compat.Compile(pattern, s.options)
	if err != nil {
		s.logger.Warn("Skipping invalid pattern", zap.String("pattern", pattern), zap.Error(err))
		return -1, err
	}
	s.regexes = append(s.regexes, re)
	return len(s.regexes) - 1, nil
}

// Compile extracts the atoms of every pattern and builds the atom matcher.
//
// Returns the atoms; an atom's index in the slice is its id, as used by
// AllPotentials, FirstMatch and AllMatches. A pattern whose atoms cannot be
// extracted is treated as having none, so it is always a candidate.
func (s *Set) Compile() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.compiled {
		return nil, ErrAlreadyCompiled
	}
	if len(s.regexes) == 0 {
		return nil, ErrNoPatterns
	}

	extractor := atom.New(atom.Config{
		MinAtomLen:      s.minAtomLen,
		MaxCrossProduct: atom.DefaultMaxCrossProduct,
	})

	index := make(map[string]int)
	s.atomIDs = make([][]int, len(s.regexes))
	for i, re := range s.regexes {
		src := re.Pattern()
		if s.options.Literal {
			src = re2compat.QuoteMeta(src)
		}
		set, err := extractor.Extract(src)
		if err != nil {
			s.logger.Debug("Atom extraction failed, pattern is unfiltered",
				zap.String("pattern", re.Pattern()), zap.Error(err))
			continue
		}
		for _, a := range set.Strings() {
			id, ok := index[a]
			if !ok {
				id = len(s.atoms)
				index[a] = id
				s.atoms = append(s.atoms, a)
			}
			s.atomIDs[i] = append(s.atomIDs[i], id)
		}
	}

	m, err := prefilter.NewAtomMatcher(s.atoms)
	if err != nil {
		return nil, err
	}
	s.matcher = m
	s.compiled = true

	s.logger.Debug("Compiled filtered set",
		zap.Int("patterns", len(s.regexes)),
		zap.Int("atoms", len(s.atoms)))

	atoms := make([]string, len(s.atoms))
	copy(atoms, s.atoms)
	return atoms, nil
}

// Size returns the number of patterns in the set.
func (s *Set) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.regexes)
}

// Pattern returns the pattern with the given id.
func (s *Set) Pattern(id int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regexes[id].Pattern()
}

// Regex returns the compiled regex with the given id.
func (s *Set) Regex(id int) *re2compat.Regex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.regexes[id]
}

// Atoms returns the atoms of the pattern with the given id.
func (s *Set) Atoms(id int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id >= len(s.atomIDs) {
		return nil
	}
	out := make([]string, 0, len(s.atomIDs[id]))
	for _, a := range s.atomIDs[id] {
		out = append(out, s.atoms[a])
	}
	return out
}

// MatchAtoms returns the ids of the atoms occurring in text.
func (s *Set) MatchAtoms(text string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.compiled {
		s.logger.Warn("MatchAtoms called before Compile")
		return nil
	}
	return s.matcher.Match([]byte(text))
}

// AllPotentials returns, in increasing order, the ids of the patterns that are
// candidates given the atoms present.
func (s *Set) AllPotentials(atomIDs []int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.compiled {
		s.logger.Warn("AllPotentials called before Compile")
		return nil
	}
	return s.potentials(atomIDs)
}

func (s *Set) potentials(atomIDs []int) []int {
	present := make([]bool, len(s.atoms))
	for _, id := range atomIDs {
		if id >= 0 && id < len(present) {
			present[id] = true
		}
	}

	var out []int
next:
	for i, ids := range s.atomIDs {
		for _, id := range ids {
			if !present[id] {
				continue next
			}
		}
		out = append(out, i)
	}
	return out
}

// FirstMatch returns the lowest id of a candidate pattern that matches text,
// or -1 if none does.
func (s *Set) FirstMatch(text string, atomIDs []int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.compiled {
		s.logger.Warn("FirstMatch called before Compile")
		return -1
	}
	for _, id := range s.potentials(atomIDs) {
		if s.run(id, text) {
			return id
		}
	}
	return -1
}

// AllMatches returns the ids of every candidate pattern that matches text.
func (s *Set) AllMatches(text string, atomIDs []int) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.compiled {
		s.logger.Warn("AllMatches called before Compile")
		return nil
	}
	var out []int
	for _, id := range s.potentials(atomIDs) {
		if s.run(id, text) {
			out = append(out, id)
		}
	}
	return out
}

// SlowFirstMatch returns the lowest id of any pattern matching text, without
// consulting atoms. It works before Compile.
func (s *Set) SlowFirstMatch(text string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id := range s.regexes {
		if s.run(id, text) {
			return id
		}
	}
	return -1
}

// Scan returns the ids of every pattern matching text, using the set's own
// atom matcher.
func (s *Set) Scan(text string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.compiled {
		s.logger.Warn("Scan called before Compile")
		return nil
	}
	var out []int
	for _, id := range s.potentials(s.matcher.Match([]byte(text))) {
		if s.run(id, text) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Set) run(id int, text string) bool {
	s.stats.regexRuns.Add(1)
	if s.regexes[id].PartialMatch(text) {
		s.stats.regexMatches.Add(1)
		return true
	}
	return false
}

// Stats returns a snapshot of the set's counters.
func (s *Set) Stats() Stats {
	return Stats{
		RegexRuns:    s.stats.regexRuns.Load(),
		RegexMatches: s.stats.regexMatches.Load(),
	}
}

// ResetStats zeroes the counters.
func (s *Set) ResetStats() {
	s.stats.regexRuns.Store(0)
	s.stats.regexMatches.Store(0)
}

// Stats tracks how often the regex engine ran, for tuning MinAtomLen.
type Stats struct {
	// RegexRuns counts candidate patterns run through the regex engine
	RegexRuns uint64

	// RegexMatches counts runs that matched
	RegexMatches uint64
}

type counters struct {
	regexRuns    atomic.Uint64
	regexMatches atomic.Uint64
}
