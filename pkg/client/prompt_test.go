package client

import (
	"errors"
	"strings"
	"testing"
)

func TestSectionPrompt(t *testing.T) {
	prompt := SectionPrompt("submit text button", 4)

	if !strings.Contains(prompt, "submit text button") {
		t.Error("prompt does not mention the target")
	}
	if !strings.Contains(prompt, "(1-16)") {
		t.Error("prompt does not state the section range for a 4x4 grid")
	}
	if !strings.Contains(prompt, "red-numbered") {
		t.Error("prompt does not reference the red numbering")
	}
}

func TestParseCellNumber(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  int
		valid bool
	}{
		{"bare number", "14", 14, true},
		{"padded", "  7 \n", 7, true},
		{"sentence", "The target is in section 12.", 12, true},
		{"code fence", "```\n9\n```", 9, true},
		{"backticks", "`3`", 3, true},
		{"repeated same number", "Section 5. Answer: 5", 5, true},
		{"negative", "-2", -2, true},
		{"empty", "", 0, false},
		{"no number", "top left corner", 0, false},
		{"ambiguous", "either 3 or 7", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseCellNumber(tt.raw)
		if tt.valid {
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.name, err)
				continue
			}
			if got != tt.want {
				t.Errorf("%s: ParseCellNumber = %d, want %d", tt.name, got, tt.want)
			}
		} else {
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("%s: error = %v, want ErrMalformedResponse", tt.name, err)
			}
		}
	}
}
