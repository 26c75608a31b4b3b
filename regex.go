// Package re2compat provides an RE2-style API on top of the coregex engine.
//
// It covers the parts of RE2 that go beyond plain matching:
//   - Rewrite templates with \1-style backreferences (Replace, GlobalReplace, Extract)
//   - Pattern sets matched in one call (Set)
//   - Atom-based multi-pattern filtering (package filtered)
//
// Matching itself is delegated to github.com/coregx/coregex; this package only
// adapts options, anchoring and rewrite semantics.
//
// Basic usage:
//
//	re := re2compat.MustCompile(`(\w+)@(\w+)\.com`, re2compat.DefaultOptions())
//	out, n := re2compat.GlobalReplace("a@b.com, c@d.com", re, `\2:\1`)
//	// out = "b:a, d:c", n = 2
//
// Rewrite templates:
//   - \0 is the whole match, \1 to \9 are capture groups
//   - \\ is a literal backslash
//   - any other backslash makes the template invalid
package re2compat

import (
	"fmt"
	"strings"

	"github.com/coregx/coregex"

	"github.com/coregx/re2compat/rewrite"
)

// Options controls how a pattern is compiled.
//
// The zero value is a case-sensitive, single-line, greedy regex.
type Options struct {
	// CaseInsensitive makes the pattern match regardless of letter case ((?i)).
	// Folded letters reach the engine as classes, e.g. (?i)ab as [Aa][Bb].
	CaseInsensitive bool

	// Multiline makes ^ and $ match at line boundaries ((?m)).
	Multiline bool

	// DotMatchesNewline lets '.' match '\n' ((?s)).
	DotMatchesNewline bool

	// SwapGreed makes x* lazy and x*? greedy ((?U)).
	SwapGreed bool

	// Literal treats the pattern as a literal string, not a regex.
	Literal bool
}

// DefaultOptions returns the default compile options.
func DefaultOptions() Options {
	return Options{}
}

// flags returns the inline flag prefix for the options, e.g. "(?is)".
func (o Options) flags() string {
	var b strings.Builder
	if o.CaseInsensitive {
		b.WriteByte('i')
	}
	if o.Multiline {
		b.WriteByte('m')
	}
	if o.DotMatchesNewline {
		b.WriteByte('s')
	}
	if o.SwapGreed {
		b.WriteByte('U')
	}
	if b.Len() == 0 {
		return ""
	}
	return "(?" + b.String() + ")"
}

// Regex is a compiled pattern.
//
// A Regex is safe to use concurrently from multiple goroutines.
//
// Example:
//
//	re := re2compat.MustCompile(`h(.*)o`, re2compat.DefaultOptions())
//	re.PartialMatch("say hello") // true
//	re.FullMatch("say hello")    // false
type Regex struct {
	pattern string
	options Options
	groups  int
	re      *coregex.Regex // unanchored
	full    *coregex.Regex // anchored at both ends
}

// Compile compiles pattern with the given options.
//
// Returns a *CompileError wrapping ErrCompile if the pattern is invalid.
//
// Example:
//
//	re, err := re2compat.Compile(`(\d+)-(\d+)`, re2compat.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(re.NumberOfCapturingGroups()) // 2
func Compile(pattern string, opts Options) (*Regex, error) {
	expr := pattern
	if opts.Literal {
		expr = coregex.QuoteMeta(pattern)
	}
	expr = foldCase(opts.flags() + expr)

	re, err := coregex.Compile(expr)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	full, err := coregex.Compile(`\A(?:` + expr + `)\z`)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Err: err}
	}

	return &Regex{
		pattern: pattern,
		options: opts,
		groups:  len(re.SubexpNames()) - 1,
		re:      re,
		full:    full,
	}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(pattern string, opts Options) *Regex {
	re, err := Compile(pattern, opts)
	if err != nil {
		panic(fmt.Sprintf("re2compat: Compile(%q): %v", pattern, err))
	}
	return re
}

// QuoteMeta returns a pattern matching the literal text s.
//
// Example:
//
//	re2compat.QuoteMeta("1.5+2") // `1\.5\+2`
func QuoteMeta(s string) string {
	return coregex.QuoteMeta(s)
}

// Pattern returns the pattern as passed to Compile.
func (r *Regex) Pattern() string {
	return r.pattern
}

// Options returns the options the regex was compiled with.
func (r *Regex) Options() Options {
	return r.options
}

// NumberOfCapturingGroups returns the number of parenthesized groups,
// not counting the whole match.
func (r *Regex) NumberOfCapturingGroups() int {
	return r.groups
}

// PartialMatch reports whether the pattern matches anywhere in text.
func (r *Regex) PartialMatch(text string) bool {
	return r.re.MatchString(text)
}

// Match is an alias for PartialMatch.
func (r *Regex) Match(text string) bool {
	return r.re.MatchString(text)
}

// FullMatch reports whether the pattern matches all of text.
func (r *Regex) FullMatch(text string) bool {
	return r.full.MatchString(text)
}

// Captures returns the text of the whole match and each group for the leftmost
// match in text, or nil if there is none. Groups that did not participate are
// empty strings.
func (r *Regex) Captures(text string) []string {
	loc := r.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return nil
	}
	caps := make([]string, len(loc)/2)
	for i := range caps {
		if loc[2*i] >= 0 {
			caps[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return caps
}

// CheckRewriteString reports whether rewrite is well formed and references
// no more groups than the regex has.
//
// Example:
//
//	re := re2compat.MustCompile(`(a)(b)`, re2compat.Options{})
//	re.CheckRewriteString(`\2\1`) // nil
//	re.CheckRewriteString(`\3`)   // error: backreference out of range
func (r *Regex) CheckRewriteString(rw string) error {
	return rewrite.Check(rw, r.groups)
}

// Rewrite expands rw against captures, as returned by Captures.
func (r *Regex) Rewrite(rw string, captures []string) (string, error) {
	return rewrite.Expand(rw, captures)
}

// HostTemplate converts rw into the ${N} template syntax understood by
// regexp.Expand-style APIs. Escaped backslashes are dropped.
func (r *Regex) HostTemplate(rw string) string {
	return rewrite.ConvertToHostSyntax(rw)
}

// MaxSubmatch returns the largest group index referenced by rw.
//
// Example:
//
//	re2compat.MaxSubmatch(`foo \2,\1`) // 2
func MaxSubmatch(rw string) int {
	return rewrite.MaxBackreference(rw)
}
