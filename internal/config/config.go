// Package config loads the rule files used by the re2compat scan command.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/coregx/re2compat"
	"github.com/coregx/re2compat/atom"
)

// ErrInvalidConfig is wrapped by every validation error.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds a scan configuration.
type Config struct {
	// Atom extraction
	MinAtomLen int `yaml:"min_atom_len" env:"RE2COMPAT_MIN_ATOM_LEN"`

	// Concurrency
	Workers int `yaml:"workers" env:"RE2COMPAT_WORKERS"`

	// File selection, doublestar globs relative to each scanned root
	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	Rules []Rule `yaml:"rules"`
}

// Rule is a named pattern, optionally with a rewrite applied to its first match.
type Rule struct {
	Name            string           `yaml:"name"`
	Pattern         string           `yaml:"pattern"`
	CaseInsensitive bool             `yaml:"case_insensitive"`
	Rewrite         string           `yaml:"rewrite"`
	compiled        *re2compat.Regex `yaml:"-"`
}

// Options returns the compile options for the rule.
func (r *Rule) Options() re2compat.Options {
	return re2compat.Options{CaseInsensitive: r.CaseInsensitive}
}

// Regex returns the compiled pattern, set by Validate.
func (r *Rule) Regex() *re2compat.Regex {
	return r.compiled
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MinAtomLen: atom.DefaultMinAtomLen,
		Workers:    runtime.NumCPU(),
		Include:    []string{"**"},
		Exclude:    []string{".git/**", "**/.git/**"},
	}
}

// Load reads the rule file at path over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	// #nosec G304 - the rule file path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	if err := Parse(cfg, data); err != nil {
		return nil, err
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML data into cfg. Fields missing from data keep their values.
func Parse(cfg *Config, data []byte) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse rule file: %w", err)
	}
	return nil
}

// loadFromEnv overrides numeric settings from environment variables
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("RE2COMPAT_MIN_ATOM_LEN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RE2COMPAT_MIN_ATOM_LEN: %w", err)
		}
		cfg.MinAtomLen = n
	}

	if v := os.Getenv("RE2COMPAT_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RE2COMPAT_WORKERS: %w", err)
		}
		cfg.Workers = n
	}

	return nil
}

// Validate checks the configuration and compiles every rule.
func (c *Config) Validate() error {
	if c.MinAtomLen < 0 {
		return fmt.Errorf("%w: min_atom_len must be non-negative, got %d", ErrInvalidConfig, c.MinAtomLen)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be non-negative, got %d", ErrInvalidConfig, c.Workers)
	}
	if len(c.Rules) == 0 {
		return fmt.Errorf("%w: no rules", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Rules))
	for i := range c.Rules {
		r := &c.Rules[i]
		if r.Name == "" {
			return fmt.Errorf("%w: rule %d has no name", ErrInvalidConfig, i)
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate rule name %q", ErrInvalidConfig, r.Name)
		}
		seen[r.Name] = true

		if r.Pattern == "" {
			return fmt.Errorf("%w: rule %q has no pattern", ErrInvalidConfig, r.Name)
		}
		re, err := re2compat.Compile(r.Pattern, r.Options())
		if err != nil {
			return fmt.Errorf("%w: rule %q: %w", ErrInvalidConfig, r.Name, err)
		}
		if r.Rewrite != "" {
			if err := re.CheckRewriteString(r.Rewrite); err != nil {
				return fmt.Errorf("%w: rule %q: %w", ErrInvalidConfig, r.Name, err)
			}
		}
		r.compiled = re
	}
	return nil
}
