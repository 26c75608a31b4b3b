package atom

import (
	"errors"
	"fmt"
)

// ErrMalformedPattern indicates a group, character class or bounded repetition
// that is never closed. The scanner stops instead of reading past the pattern.
var ErrMalformedPattern = errors.New("malformed pattern")

// PatternError wraps ErrMalformedPattern with the location of the offending construct.
type PatternError struct {
	Pattern   string
	Offset    int  // byte offset of the opening delimiter
	Construct byte // '(', '[' or '{'
	Err       error
}

// Error implements the error interface
func (e *PatternError) Error() string {
	return fmt.Sprintf("atom: unterminated %q at offset %d in pattern %q: %v",
		e.Construct, e.Offset, e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *PatternError) Unwrap() error {
	return e.Err
}
