package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxGenerationChars bounds the material handed to the backend.
	MaxGenerationChars = 12000

	DefaultCount = 10
	MinCount     = 3
	MaxCount     = 25
)

var trailingBlanks = regexp.MustCompile(`[ \t]+\n`)

// CleanText strips carriage returns and trailing blanks before newlines, then trims.
func CleanText(raw string) string {
	s := strings.ReplaceAll(raw, "\r", "")
	s = trailingBlanks.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}

// TruncateForGeneration cleans raw and cuts it to at most maxChars runes.
// No ellipsis is appended. A non-positive maxChars uses MaxGenerationChars.
func TruncateForGeneration(raw string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = MaxGenerationChars
	}
	s := CleanText(raw)
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

// ClampCount converts a requested item count into the supported range.
// Missing or non-numeric input yields DefaultCount.
func ClampCount(raw string) int {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return DefaultCount
	}
	return int(math.Max(MinCount, math.Min(MaxCount, math.Floor(n))))
}

func clampCount(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}
