package filtered

import (
	"go.uber.org/zap"

	"github.com/coregx/re2compat"
)

// Option configures a Set.
type Option func(*Set)

// WithMinAtomLen sets the minimum atom length. Shorter atoms are not used for
// filtering. Values below 1 are treated as 1.
func WithMinAtomLen(n int) Option {
	return func(s *Set) {
		if n < 1 {
			n = 1
		}
		s.minAtomLen = n
	}
}

// WithLogger sets the logger for skipped patterns and misuse warnings.
// A nil logger is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Set) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOptions sets the compile options applied to every pattern.
func WithOptions(opts re2compat.Options) Option {
	return func(s *Set) {
		s.options = opts
	}
}
