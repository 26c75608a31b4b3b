package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/re2compat"
	"github.com/coregx/re2compat/rewrite"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.MinAtomLen)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, []string{"**"}, cfg.Include)
	assert.Contains(t, cfg.Exclude, ".git/**")
	assert.Empty(t, cfg.Rules)
}

func TestLoad(t *testing.T) {
	path := writeRules(t, `
min_atom_len: 4
workers: 2
include:
  - "**/*.log"
rules:
  - name: email
    pattern: '(\w+)@(\w+)\.com'
    rewrite: '\2:\1'
  - name: timeout
    pattern: 'TIMEOUT after \d+s'
    case_insensitive: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.MinAtomLen)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{"**/*.log"}, cfg.Include)
	// Not in the file, so the default survives.
	assert.Equal(t, DefaultConfig().Exclude, cfg.Exclude)

	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, "email", cfg.Rules[0].Name)
	assert.Equal(t, `\2:\1`, cfg.Rules[0].Rewrite)
	assert.True(t, cfg.Rules[1].CaseInsensitive)
	assert.Equal(t, re2compat.Options{CaseInsensitive: true}, cfg.Rules[1].Options())

	re := cfg.Rules[1].Regex()
	require.NotNil(t, re)
	assert.True(t, re.PartialMatch("timeout after 30s"))
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeRules(t, `
workers: 2
rules:
  - name: a
    pattern: abc
`)
	t.Setenv("RE2COMPAT_WORKERS", "7")
	t.Setenv("RE2COMPAT_MIN_ATOM_LEN", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, 5, cfg.MinAtomLen)

	t.Setenv("RE2COMPAT_WORKERS", "many")
	_, err = Load(path)
	assert.ErrorContains(t, err, "RE2COMPAT_WORKERS")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeRules(t, "rules: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse rule file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no rules", `workers: 1`, "no rules"},
		{"negative workers", "workers: -1\nrules: [{name: a, pattern: a}]", "workers must be non-negative"},
		{"negative min len", "min_atom_len: -2\nrules: [{name: a, pattern: a}]", "min_atom_len must be non-negative"},
		{"missing name", "rules: [{pattern: a}]", "has no name"},
		{"missing pattern", "rules: [{name: a}]", `rule "a" has no pattern`},
		{"duplicate", "rules: [{name: a, pattern: a}, {name: a, pattern: b}]", `duplicate rule name "a"`},
		{"bad pattern", "rules: [{name: a, pattern: 'a('}]", `rule "a"`},
		{"bad rewrite", `rules: [{name: a, pattern: '(a)', rewrite: '\2'}]`, "backreference out of range"},
		{"malformed rewrite", `rules: [{name: a, pattern: '(a)', rewrite: '\q'}]`, "malformed rewrite template"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			require.NoError(t, Parse(cfg, []byte(tt.yaml)))

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateWrapsCauses(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Parse(cfg, []byte(`rules: [{name: a, pattern: '(a)', rewrite: '\2'}]`)))

	err := cfg.Validate()
	assert.True(t, errors.Is(err, rewrite.ErrBackreferenceOutOfRange))

	cfg = DefaultConfig()
	require.NoError(t, Parse(cfg, []byte(`rules: [{name: a, pattern: 'a('}]`)))
	assert.ErrorIs(t, cfg.Validate(), re2compat.ErrCompile)
}
