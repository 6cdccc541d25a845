package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"study-buddy/internal/models"
)

// extractJSONObject returns the span from the first '{' to the last '}'.
// A reply holding both braces in the wrong order yields an empty span,
// which then fails to decode.
func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 {
		return "", ErrUpstreamFormat
	}
	if end < start {
		return "", nil
	}
	return raw[start : end+1], nil
}

// ParseCandidate extracts the single JSON object in a backend reply and
// flattens it into a Candidate without trusting any field's shape.
func ParseCandidate(raw string) (*models.Candidate, error) {
	slice, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal([]byte(slice), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamParse, err)
	}
	obj, _ := doc.(map[string]any)

	c := &models.Candidate{Mode: stringify(obj["mode"])}
	for _, item := range asList(obj["flashcards"]) {
		fields, _ := item.(map[string]any)
		c.Flashcards = append(c.Flashcards, models.CandidateCard{
			Front: stringify(fields["front"]),
			Back:  stringify(fields["back"]),
		})
	}
	for _, item := range asList(obj["quiz"]) {
		fields, _ := item.(map[string]any)
		q := models.CandidateQuestion{
			Type:     stringify(fields["type"]),
			Level:    stringify(fields["level"]),
			Question: stringify(fields["question"]),
			Answer:   stringify(fields["answer"]),
		}
		for _, opt := range asList(fields["options"]) {
			q.Options = append(q.Options, optionString(opt))
		}
		c.Quiz = append(c.Quiz, q)
	}
	return c, nil
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

// stringify renders a decoded JSON scalar as text. Falsy values, objects,
// and nested lists become empty strings.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return ""
	default:
		return ""
	}
}

// optionString renders one entry of an options list. Unlike stringify it
// keeps zero and false, so "0" stays a real choice.
func optionString(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return stringify(v)
	}
}
