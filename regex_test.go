package re2compat

import (
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestCompileOptions(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		opts    Options
		input   string
		want    bool
	}{
		{"default case sensitive", `hello`, Options{}, "HELLO", false},
		{"case insensitive", `hello`, Options{CaseInsensitive: true}, "HELLO", true},
		{"dot no newline", `a.b`, Options{}, "a\nb", false},
		{"dot newline", `a.b`, Options{DotMatchesNewline: true}, "a\nb", true},
		{"single line anchor", `^b$`, Options{}, "a\nb\nc", false},
		{"multiline anchor", `^b$`, Options{Multiline: true}, "a\nb\nc", true},
		{"literal", `1.5+2`, Options{Literal: true}, "x 1.5+2 y", true},
		{"literal no meta", `1.5+2`, Options{Literal: true}, "1x55552", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile(tt.pattern, tt.opts)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.pattern, err)
			}
			if got := re.PartialMatch(tt.input); got != tt.want {
				t.Errorf("PartialMatch(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if re.Pattern() != tt.pattern {
				t.Errorf("Pattern() = %q, want %q", re.Pattern(), tt.pattern)
			}
		})
	}
}

func TestOptionsFlags(t *testing.T) {
	tests := []struct {
		opts Options
		want string
	}{
		{Options{}, ""},
		{Options{CaseInsensitive: true}, "(?i)"},
		{Options{CaseInsensitive: true, DotMatchesNewline: true}, "(?is)"},
		{Options{Multiline: true, SwapGreed: true}, "(?mU)"},
		{Options{Literal: true}, ""},
	}

	for _, tt := range tests {
		if got := tt.opts.flags(); got != tt.want {
			t.Errorf("%+v.flags() = %q, want %q", tt.opts, got, tt.want)
		}
	}
}

func TestSwapGreed(t *testing.T) {
	re := MustCompile(`a+`, Options{SwapGreed: true})
	if got := re.Captures("aaa"); len(got) != 1 || got[0] != "a" {
		t.Errorf("Captures = %q, want [a]", got)
	}
}

func TestCompileError(t *testing.T) {
	_, err := Compile(`a(b`, Options{})
	if err == nil {
		t.Fatal("Compile(`a(b`) succeeded, want error")
	}
	if !errors.Is(err, ErrCompile) {
		t.Errorf("error %v does not match ErrCompile", err)
	}
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Fatalf("error is %T, want *CompileError", err)
	}
	if cerr.Pattern != `a(b` {
		t.Errorf("CompileError.Pattern = %q, want %q", cerr.Pattern, `a(b`)
	}
	if cerr.Unwrap() == nil {
		t.Error("CompileError.Unwrap() = nil, want engine error")
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic on invalid pattern")
		}
	}()
	MustCompile(`[`, Options{})
}

func TestNumberOfCapturingGroups(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{`abc`, 0},
		{`(a)`, 1},
		{`(a)(b)(c)`, 3},
		{`(?:a)(b)`, 1},
		{`(?P<name>a)(b(c))`, 3},
	}

	for _, tt := range tests {
		re := MustCompile(tt.pattern, Options{})
		if got := re.NumberOfCapturingGroups(); got != tt.want {
			t.Errorf("NumberOfCapturingGroups(%q) = %d, want %d", tt.pattern, got, tt.want)
		}
	}
}

func TestFullMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		full    bool
		partial bool
	}{
		{`h.*o`, "hello", true, true},
		{`h.*o`, "say hello", false, true},
		{`a|ab`, "ab", true, true},
		{`\d+`, "123", true, true},
		{`\d+`, "123x", false, true},
		{`x`, "abc", false, false},
	}

	for _, tt := range tests {
		re := MustCompile(tt.pattern, Options{})
		if got := re.FullMatch(tt.input); got != tt.full {
			t.Errorf("FullMatch(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.full)
		}
		if got := re.PartialMatch(tt.input); got != tt.partial {
			t.Errorf("PartialMatch(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.partial)
		}
		if re.Match(tt.input) != re.PartialMatch(tt.input) {
			t.Errorf("Match and PartialMatch disagree for %q on %q", tt.pattern, tt.input)
		}
	}
}

func TestCaptures(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)?\.com`, Options{})

	got := re.Captures("mail bob@.com")
	want := []string{"bob@.com", "bob", ""}
	if len(got) != len(want) {
		t.Fatalf("Captures = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Captures[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if re.Captures("nothing here") != nil {
		t.Error("Captures on non-matching text should be nil")
	}
}

func TestCheckRewriteString(t *testing.T) {
	re := MustCompile(`(a)(b)`, Options{})
	tests := []struct {
		rewrite string
		ok      bool
	}{
		{`\0\1\2`, true},
		{`plain`, true},
		{`\\`, true},
		{`\3`, false},
		{`\x`, false},
		{`abc\`, false},
	}

	for _, tt := range tests {
		err := re.CheckRewriteString(tt.rewrite)
		if (err == nil) != tt.ok {
			t.Errorf("CheckRewriteString(%q) = %v, want ok=%v", tt.rewrite, err, tt.ok)
		}
	}
}

func TestRegexRewrite(t *testing.T) {
	re := MustCompile(`(\w+) (\w+)`, Options{})
	caps := re.Captures("hello world")
	got, err := re.Rewrite(`\2-\1`, caps)
	if err != nil {
		t.Fatalf("Rewrite error: %v", err)
	}
	if got != "world-hello" {
		t.Errorf("Rewrite = %q, want %q", got, "world-hello")
	}

	if _, err := re.Rewrite(`\3`, caps); err == nil {
		t.Error("Rewrite(`\\3`) succeeded, want out of range error")
	}
}

func TestHostTemplate(t *testing.T) {
	re := MustCompile(`(a)`, Options{})
	if got := re.HostTemplate(`x\1y\\z`); got != "x${1}yz" {
		t.Errorf("HostTemplate = %q, want %q", got, "x${1}yz")
	}
}

func TestMaxSubmatch(t *testing.T) {
	tests := []struct {
		rewrite string
		want    int
	}{
		{`foo \2,\1`, 2},
		{`no refs`, 0},
		{`\0`, 0},
		{`\9`, 9},
	}

	for _, tt := range tests {
		if got := MaxSubmatch(tt.rewrite); got != tt.want {
			t.Errorf("MaxSubmatch(%q) = %d, want %d", tt.rewrite, got, tt.want)
		}
	}
}

func TestQuoteMeta(t *testing.T) {
	for _, s := range []string{"1.5+2", "[a]", `\d`, "plain", "(x|y)*"} {
		re := MustCompile(QuoteMeta(s), Options{})
		if !re.FullMatch(s) {
			t.Errorf("QuoteMeta(%q) = %q does not match itself", s, QuoteMeta(s))
		}
	}
}

func TestCaseInsensitive(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		opts    Options
		input   string
		want    bool
	}{
		{"option upper pattern", `TIMEOUT after \d+s`, Options{CaseInsensitive: true}, "timeout after 30s", true},
		{"option lower pattern", `timeout`, Options{CaseInsensitive: true}, "Request TIMEOUT", true},
		{"inline flag", `(?i)Timeout`, Options{}, "timeout after 30s warning", true},
		{"inline flag upper input", `(?i)Timeout`, Options{}, "TIMEOUT", true},
		{"scoped flag", `(?i:ab)c`, Options{}, "ABc", true},
		{"scoped flag outside", `(?i:ab)c`, Options{}, "ABC", false},
		{"class", `[a-c]x`, Options{CaseInsensitive: true}, "BX", true},
		{"kelvin sign", `k`, Options{CaseInsensitive: true}, "K", true},
		{"digits unaffected", `a1`, Options{CaseInsensitive: true}, "A1", true},
		{"still literal", `abc`, Options{CaseInsensitive: true}, "abd", false},
		{"literal option", `A.B`, Options{CaseInsensitive: true, Literal: true}, "a.b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern, tt.opts)
			if got := re.PartialMatch(tt.input); got != tt.want {
				t.Errorf("PartialMatch(%q) with %q = %v, want %v", tt.input, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestCaseInsensitiveCaptures(t *testing.T) {
	re := MustCompile(`(\w+)@(EXAMPLE)\.COM`, Options{CaseInsensitive: true})
	if re.NumberOfCapturingGroups() != 2 {
		t.Fatalf("NumberOfCapturingGroups = %d, want 2", re.NumberOfCapturingGroups())
	}
	caps := re.Captures("mail Bob@example.com")
	if len(caps) != 3 || caps[1] != "Bob" || caps[2] != "example" {
		t.Errorf("Captures = %q, want [Bob@example.com Bob example]", caps)
	}
	if !re.FullMatch("BOB@Example.Com") {
		t.Error("FullMatch should ignore case")
	}
}

// TestFoldCase checks the rewritten pattern against the standard library,
// which handles (?i) itself
func TestFoldCase(t *testing.T) {
	if got := foldCase(`a(b)c`); got != `a(b)c` {
		t.Errorf("foldCase without (?i) = %q, want input unchanged", got)
	}
	if got := foldCase(`a(`); got != `a(` {
		t.Errorf("foldCase on invalid pattern = %q, want input unchanged", got)
	}

	patterns := []string{`(?i)hello`, `(?i)h[a-c]llo\d`, `(?i:ab)c`, `(?i)(k+)|x`, `(?i)straße`}
	inputs := []string{"HELLO", "hello", "Hbllo1", "ABc", "ABC", "KKk", "X", "STRAẞE", "abc"}
	for _, p := range patterns {
		folded := foldCase(p)
		if strings.Contains(folded, "(?i") {
			t.Errorf("foldCase(%q) = %q still has the i flag", p, folded)
		}
		want := regexp.MustCompile(p)
		got := regexp.MustCompile(folded)
		for _, in := range inputs {
			if got.MatchString(in) != want.MatchString(in) {
				t.Errorf("foldCase(%q) = %q: MatchString(%q) = %v, want %v",
					p, folded, in, got.MatchString(in), want.MatchString(in))
			}
		}
	}
}
