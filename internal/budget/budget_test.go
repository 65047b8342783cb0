package budget

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func Test_Estimate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"a", 1},        // < 4 chars → 1
		{"abcd", 1},     // exactly 4 chars → 1
		{"abcde", 1},    // 5 chars → 1
		{"abcdefgh", 2}, // 8 chars → 2
		{strings.Repeat("x", 400), 100},
	}
	for _, tc := range cases {
		got := Estimate(tc.input)
		if got != tc.want {
			t.Errorf("Estimate(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func Test_Truncate_NoTrimNeeded(t *testing.T) {
	t.Parallel()
	s := strings.Repeat("x", 100)
	if got := Truncate(s, 1000); got != s {
		t.Errorf("short input must be returned unchanged")
	}
}

func Test_Truncate_CutsToBudget(t *testing.T) {
	t.Parallel()
	s := strings.Repeat("x", 1000)
	got := Truncate(s, 10)
	if len(got) != 40 {
		t.Errorf("want 40 bytes after truncation to 10 tokens, got %d", len(got))
	}
	if Estimate(got) > 10 {
		t.Errorf("truncated text still estimates %d tokens", Estimate(got))
	}
}

func Test_Truncate_DefaultBudget(t *testing.T) {
	t.Parallel()
	s := strings.Repeat("x", 4*DefaultMaxContextTokens+400)
	got := Truncate(s, 0)
	if Estimate(got) > DefaultMaxContextTokens {
		t.Errorf("want estimate <= %d, got %d", DefaultMaxContextTokens, Estimate(got))
	}
}

func Test_Truncate_RuneBoundary(t *testing.T) {
	t.Parallel()
	// Korean text: each rune is 3 bytes, so a byte cut at 4*maxTokens lands
	// mid-rune; the result must still be valid UTF-8.
	s := strings.Repeat("요", 1000)
	got := Truncate(s, 10)
	if !utf8.ValidString(got) {
		t.Error("truncated text is not valid UTF-8")
	}
	if len(got) > 40 {
		t.Errorf("want at most 40 bytes, got %d", len(got))
	}
	if len(got) == 0 {
		t.Error("truncation removed everything")
	}
}
