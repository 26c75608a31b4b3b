package rewrite

import (
	"errors"
	"testing"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		template string
		maxIndex int
		pieces   int
	}{
		{``, -1, 0},
		{`abc`, -1, 1},
		{`\1`, 1, 1},
		{`a\1b\2c`, 2, 5},
		{`a\\b`, -1, 1},
		{`\0\0`, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			tmpl, err := Compile(tt.template)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tt.template, err)
			}
			if tmpl.MaxIndex() != tt.maxIndex {
				t.Errorf("MaxIndex() = %d, want %d", tmpl.MaxIndex(), tt.maxIndex)
			}
			if len(tmpl.pieces) != tt.pieces {
				t.Errorf("len(pieces) = %d, want %d", len(tmpl.pieces), tt.pieces)
			}
			if tmpl.String() != tt.template {
				t.Errorf("String() = %q, want %q", tmpl.String(), tt.template)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	if _, err := Compile(`abc\`); !errors.Is(err, ErrTrailingEscape) {
		t.Errorf("Compile(trailing) error = %v", err)
	}
	if _, err := Compile(`\q`); !errors.Is(err, ErrInvalidEscape) {
		t.Errorf("Compile(invalid) error = %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic on a malformed template")
		}
	}()
	MustCompile(`\`)
}

// TestTemplateMatchesExpand checks the compiled form agrees with Expand
func TestTemplateMatchesExpand(t *testing.T) {
	captures := []string{"whole", "one", "", "three"}
	templates := []string{`\1-\3`, `[\2]`, `x\\y\0`, `none`, `\3\3\3`}

	for _, tmpl := range templates {
		want, wantErr := Expand(tmpl, captures)
		got, err := MustCompile(tmpl).Expand(captures)
		if got != want || (err == nil) != (wantErr == nil) {
			t.Errorf("Template(%q).Expand = %q, %v; Expand = %q, %v", tmpl, got, err, want, wantErr)
		}
	}

	if _, err := MustCompile(`\4`).Expand(captures); !errors.Is(err, ErrBackreferenceOutOfRange) {
		t.Errorf("expected ErrBackreferenceOutOfRange, got %v", err)
	}
}

func TestTemplateAppend(t *testing.T) {
	tmpl := MustCompile(`<\2:\1>`)
	dst, err := tmpl.Append([]byte("> "), []string{"ab", "a", "b"})
	if err != nil {
		t.Fatalf("Append error: %v", err)
	}
	if string(dst) != "> <b:a>" {
		t.Errorf("Append = %q, want %q", dst, "> <b:a>")
	}

	dst, err = tmpl.Append([]byte("> "), []string{"a", "a"})
	if !errors.Is(err, ErrBackreferenceOutOfRange) {
		t.Errorf("Append with too few captures error = %v, want ErrBackreferenceOutOfRange", err)
	}
	if string(dst[:2]) != "> " {
		t.Errorf("Append overwrote dst prefix: %q", dst)
	}
}

func TestTemplateAppendMatch(t *testing.T) {
	src := "user@example.com"
	// groups: 0 = whole, 1 = "user", 2 = "example", 3 = did not participate
	match := []int{0, 16, 0, 4, 5, 12, -1, -1}

	tests := []struct {
		template string
		want     string
	}{
		{`\2:\1`, "example:user"},
		{`[\3]`, "[]"},
		{`\0!`, "user@example.com!"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			got, err := MustCompile(tt.template).AppendMatch([]byte("> "), src, match)
			if err != nil {
				t.Fatalf("AppendMatch error: %v", err)
			}
			if string(got) != "> "+tt.want {
				t.Errorf("AppendMatch = %q, want %q", got, "> "+tt.want)
			}
		})
	}

	if _, err := MustCompile(`\4`).AppendMatch(nil, src, match); !errors.Is(err, ErrBackreferenceOutOfRange) {
		t.Errorf("expected ErrBackreferenceOutOfRange, got %v", err)
	}
}
