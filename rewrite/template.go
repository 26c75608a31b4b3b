package rewrite

import "strings"

// Template is a pre-parsed rewrite template.
//
// A Template is immutable and safe for concurrent use.
//
// Example:
//
//	t := rewrite.MustCompile(`<\1>`)
//	out, _ := t.Expand([]string{"a", "b"})
//	// out = "<b>"
type Template struct {
	source   string
	pieces   []piece
	maxIndex int
}

// piece is either a literal run (index < 0) or a backreference.
type piece struct {
	text   string
	index  int
	offset int
}

// Compile parses template.
//
// Returns a *TemplateError wrapping ErrTrailingEscape or ErrInvalidEscape if the
// template is malformed. Backreference bounds are checked at expansion time.
func Compile(template string) (*Template, error) {
	t := &Template{source: template, maxIndex: -1}
	var lit strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '\\' {
			lit.WriteByte(c)
			continue
		}
		if i+1 == len(template) {
			return nil, syntaxError(template, i, ErrTrailingEscape)
		}
		next := template[i+1]
		switch {
		case next == '\\':
			lit.WriteByte('\\')
		case isDigit(next):
			t.addLiteral(&lit)
			n := int(next - '0')
			t.pieces = append(t.pieces, piece{index: n, offset: i})
			if n > t.maxIndex {
				t.maxIndex = n
			}
		default:
			return nil, syntaxError(template, i, ErrInvalidEscape)
		}
		i++
	}
	t.addLiteral(&lit)
	return t, nil
}

// MustCompile is like Compile but panics if the template is malformed.
func MustCompile(template string) *Template {
	t, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Template) addLiteral(lit *strings.Builder) {
	if lit.Len() == 0 {
		return
	}
	t.pieces = append(t.pieces, piece{text: lit.String(), index: -1})
	lit.Reset()
}

// String returns the source text of the template.
func (t *Template) String() string {
	return t.source
}

// MaxIndex returns the largest referenced capture index, or -1 if the template
// has no backreferences.
func (t *Template) MaxIndex() int {
	return t.maxIndex
}

// Expand substitutes captures into the template. See the package-level Expand.
func (t *Template) Expand(captures []string) (string, error) {
	dst, err := t.Append(nil, captures)
	if err != nil {
		return "", err
	}
	return string(dst), nil
}

// Append appends the expansion of the template against captures to dst.
func (t *Template) Append(dst []byte, captures []string) ([]byte, error) {
	for _, p := range t.pieces {
		if p.index < 0 {
			dst = append(dst, p.text...)
			continue
		}
		if p.index >= len(captures) {
			return dst, rangeError(t.source, p.offset, p.index)
		}
		dst = append(dst, captures[p.index]...)
	}
	return dst, nil
}

// AppendMatch appends the expansion of the template to dst, taking capture
// text from src.
//
// match holds index pairs as returned by FindStringSubmatchIndex: group N is
// src[match[2*N]:match[2*N+1]]. Groups that did not participate (-1 indices)
// contribute nothing.
func (t *Template) AppendMatch(dst []byte, src string, match []int) ([]byte, error) {
	for _, p := range t.pieces {
		if p.index < 0 {
			dst = append(dst, p.text...)
			continue
		}
		slot := 2 * p.index
		if slot+1 >= len(match) {
			return dst, rangeError(t.source, p.offset, p.index)
		}
		if match[slot] >= 0 && match[slot+1] >= match[slot] {
			dst = append(dst, src[match[slot]:match[slot+1]]...)
		}
	}
	return dst, nil
}
