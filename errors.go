package re2compat

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrCompile indicates a pattern the engine rejected
	ErrCompile = errors.New("regex compilation failed")

	// ErrSetCompiled indicates Add was called on a compiled Set
	ErrSetCompiled = errors.New("set already compiled")

	// ErrSetNotCompiled indicates Match was called before Compile
	ErrSetNotCompiled = errors.New("set not compiled")

	// ErrSetEmpty indicates Compile was called on a Set with no patterns
	ErrSetEmpty = errors.New("set has no patterns")
)

// CompileError wraps an engine error with the pattern that caused it.
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("re2compat: compile %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCompile, so errors.Is works without
// losing the engine error.
func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}
