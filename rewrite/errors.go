package rewrite

import (
	"errors"
	"fmt"
)

// Common rewrite errors
var (
	// ErrMalformedTemplate is the parent of every syntax error in a template.
	ErrMalformedTemplate = errors.New("malformed rewrite template")

	// ErrTrailingEscape indicates a template ending in an unpaired backslash.
	ErrTrailingEscape = fmt.Errorf("%w: '\\' not allowed at end", ErrMalformedTemplate)

	// ErrInvalidEscape indicates a backslash followed by neither a digit nor a backslash.
	ErrInvalidEscape = fmt.Errorf("%w: '\\' must be followed by a digit or '\\'", ErrMalformedTemplate)

	// ErrBackreferenceOutOfRange indicates a \N reference past the available captures.
	ErrBackreferenceOutOfRange = errors.New("backreference out of range")
)

// TemplateError wraps a rewrite error with its location in the template.
type TemplateError struct {
	Template string
	Offset   int // byte offset of the offending backslash
	Index    int // referenced capture index, -1 when not applicable
	Err      error
}

// Error implements the error interface
func (e *TemplateError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("rewrite: %v: \\%d at offset %d in %q", e.Err, e.Index, e.Offset, e.Template)
	}
	return fmt.Sprintf("rewrite: %v at offset %d in %q", e.Err, e.Offset, e.Template)
}

// Unwrap returns the underlying error
func (e *TemplateError) Unwrap() error {
	return e.Err
}

func syntaxError(template string, offset int, err error) *TemplateError {
	return &TemplateError{Template: template, Offset: offset, Index: -1, Err: err}
}

func rangeError(template string, offset, index int) *TemplateError {
	return &TemplateError{Template: template, Offset: offset, Index: index, Err: ErrBackreferenceOutOfRange}
}
