package re2compat

import (
	"regexp/syntax"
	"slices"
	"unicode"
)

// foldCase rewrites case-insensitive parts of expr into explicit character
// classes, so "(?i)ab" becomes "[Aa][Bb]". The engine only sees patterns
// without the i flag.
//
// Patterns without case-insensitive parts are returned unchanged, as are
// patterns that do not parse; the engine reports those.
func foldCase(expr string) string {
	re, err := syntax.Parse(expr, syntax.Perl)
	if err != nil || !hasFoldCase(re) {
		return expr
	}
	unfold(re)
	return re.String()
}

func hasFoldCase(re *syntax.Regexp) bool {
	if re.Flags&syntax.FoldCase != 0 {
		return true
	}
	for _, sub := range re.Sub {
		if hasFoldCase(sub) {
			return true
		}
	}
	return false
}

// unfold clears FoldCase throughout re. Folded literals become a concatenation
// of one class per rune; classes were already folded by the parser.
func unfold(re *syntax.Regexp) {
	for _, sub := range re.Sub {
		unfold(sub)
	}
	if re.Flags&syntax.FoldCase == 0 {
		return
	}
	re.Flags &^= syntax.FoldCase
	if re.Op != syntax.OpLiteral {
		return
	}

	subs := make([]*syntax.Regexp, 0, len(re.Rune))
	for _, r := range re.Rune {
		subs = append(subs, foldRune(r, re.Flags))
	}
	if len(subs) == 1 {
		*re = *subs[0]
		return
	}
	*re = syntax.Regexp{Op: syntax.OpConcat, Flags: re.Flags, Sub: subs}
}

// foldRune returns a node matching r and every rune in its case-folding orbit.
func foldRune(r rune, flags syntax.Flags) *syntax.Regexp {
	orbit := []rune{r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		orbit = append(orbit, f)
	}
	if len(orbit) == 1 {
		return &syntax.Regexp{Op: syntax.OpLiteral, Flags: flags, Rune: orbit}
	}

	slices.Sort(orbit)
	ranges := make([]rune, 0, 2*len(orbit))
	for _, f := range orbit {
		ranges = append(ranges, f, f)
	}
	return &syntax.Regexp{Op: syntax.OpCharClass, Flags: flags, Rune: ranges}
}
