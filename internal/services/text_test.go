package services

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"carriage returns", "a\r\nb\r\n", "a\nb"},
		{"trailing blanks", "line one  \t\nline two", "line one\nline two"},
		{"outer whitespace", "  \n topic \n ", "topic"},
		{"inner spaces kept", "a   b", "a   b"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanText(tc.in); got != tc.want {
				t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncateForGeneration(t *testing.T) {
	long := strings.Repeat("å", 50)
	got := TruncateForGeneration("  "+long+"  ", 20)
	if n := len([]rune(got)); n != 20 {
		t.Fatalf("expected 20 runes, got %d", n)
	}
	if strings.HasSuffix(got, "…") {
		t.Error("generation truncation must not append an ellipsis")
	}

	if got := TruncateForGeneration("short\r\n", 100); got != "short" {
		t.Errorf("expected cleaned text, got %q", got)
	}

	huge := strings.Repeat("x", MaxGenerationChars+10)
	if got := TruncateForGeneration(huge, 0); len(got) != MaxGenerationChars {
		t.Errorf("default limit: got %d chars", len(got))
	}
}

func TestClampCount(t *testing.T) {
	cases := map[string]int{
		"abc":      10,
		"1":        3,
		"99":       25,
		"7":        7,
		"7.9":      7,
		" 12 ":     12,
		"":         10,
		"-4":       3,
		"Infinity": 10,
		"NaN":      10,
		"1e1":      10,
	}
	for in, want := range cases {
		if got := ClampCount(in); got != want {
			t.Errorf("ClampCount(%q) = %d, want %d", in, got, want)
		}
	}
}
