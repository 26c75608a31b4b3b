package atom

// DefaultMinAtomLen is the minimum atom length used by DefaultConfig.
const DefaultMinAtomLen = 3

// DefaultMaxCrossProduct bounds the number of strings a run of character
// classes may expand to before the extractor gives up on it.
const DefaultMaxCrossProduct = 1024

// Config configures atom extraction.
//
// Example:
//
//	config := atom.Config{
//	    MinAtomLen:      4,
//	    MaxCrossProduct: 256,
//	}
//	extractor := atom.New(config)
type Config struct {
	// MinAtomLen is the minimum length, in bytes, of an emitted atom.
	// Short atoms match almost everything and make poor filters.
	// Values below 1 are treated as 1: empty atoms are never emitted.
	MinAtomLen int

	// MaxCrossProduct limits the expansion of consecutive character classes.
	// [a-z][a-z][a-z] alone expands to 17576 strings; once a class would push
	// the pending product past this limit, the class is treated like an
	// unbounded one and contributes nothing. Zero or negative means unlimited.
	MaxCrossProduct int
}

// DefaultConfig returns the default extractor configuration.
//
// Defaults:
//   - MinAtomLen: 3
//   - MaxCrossProduct: 1024
func DefaultConfig() Config {
	return Config{
		MinAtomLen:      DefaultMinAtomLen,
		MaxCrossProduct: DefaultMaxCrossProduct,
	}
}

// Extractor extracts atoms from regex patterns.
//
// An Extractor holds only its configuration and is safe for concurrent use.
//
// Algorithm overview:
//  1. Lower-case the pattern (atom matching is case-insensitive)
//  2. Scan left to right, accumulating a pending literal and a pending
//     cross product of character classes
//  3. Flush pending state as atoms at '.', escapes and the end of the pattern
//  4. Absorb atoms that are substrings of longer atoms
//
// Example:
//
//	extractor := atom.New(atom.DefaultConfig())
//	set, _ := extractor.Extract("hello.world")
//	// set = ["hello", "world"]
type Extractor struct {
	config Config
}

// New creates a new Extractor with the given configuration.
func New(config Config) *Extractor {
	if config.MinAtomLen < 1 {
		config.MinAtomLen = 1
	}
	return &Extractor{config: config}
}

// Config returns the extractor configuration.
func (e *Extractor) Config() Config {
	return e.config
}

// Extract scans pattern and returns its atom set.
//
// Handles these constructs:
//   - '(a|b|c)': branches become candidate atoms, kept only when the group is
//     followed by '.', '{' or the end of the pattern; pending text is kept
//   - '[abc]', '[a-z]': expanded and combined with pending text as a cross product
//   - '[...]+': unbounded, flushes pending state and is otherwise ignored
//   - '{n,m}': skipped without flushing
//   - '.', '\x': flush pending state; the escaped character is dropped
//   - '*', '+': skipped
//   - anything else, including '|', '?', '^' and '$': part of the pending literal
//
// Returns an error wrapping ErrMalformedPattern if a '(', '[' or '{' is never closed.
//
// Examples:
//
//	"hello"              → ["hello"]
//	"abc.def"            → ["abc", "def"]
//	"a[bc]d"             → ["abd", "acd"]
//	"(foo|bar).baz"      → ["foo", "bar", "baz"]
//	"x[a-c]+yz"          → [] (both sides too short)
//	"abc(x|y)def"        → ["abcdef"]
func (e *Extractor) Extract(pattern string) (*Set, error) {
	sc := newScanner(pattern, e.config)
	if err := sc.run(); err != nil {
		return nil, err
	}
	sc.out.Absorb()
	return sc.out, nil
}

// Extract returns the atoms of pattern that are at least minLen bytes long.
//
// Cross products are limited to DefaultMaxCrossProduct. Use New with a Config
// for finer control.
//
// Example:
//
//	atoms, _ := atom.Extract("(abc123|abc|ghi789|abc1234).", 3)
//	fmt.Println(atoms) // Output: [ghi789 abc1234]
func Extract(pattern string, minLen int) ([]string, error) {
	set, err := New(Config{MinAtomLen: minLen, MaxCrossProduct: DefaultMaxCrossProduct}).Extract(pattern)
	if err != nil {
		return nil, err
	}
	return set.Strings(), nil
}
