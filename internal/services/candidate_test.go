package services

import (
	"errors"
	"testing"

	"study-buddy/internal/models"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		err  error
	}{
		{"bare", `{"a":1}`, `{"a":1}`, nil},
		{"fenced", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, nil},
		{"prose around", `Sure! {"mode":"quiz"} Hope it helps.`, `{"mode":"quiz"}`, nil},
		{"no braces", "I cannot help with that.", "", ErrUpstreamFormat},
		{"only open", "{ oops", "", ErrUpstreamFormat},
		{"reversed", "} and {", "", nil},
		{"adjacent reversed", "}{", "", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSONObject(tc.in)
			if !errors.Is(err, tc.err) {
				t.Fatalf("err = %v, want %v", err, tc.err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseCandidateErrors(t *testing.T) {
	if _, err := ParseCandidate("no json here"); !errors.Is(err, ErrUpstreamFormat) {
		t.Errorf("expected format error, got %v", err)
	}
	_, err := ParseCandidate(`{"mode": "quiz", "quiz": [ {"type": } ]}`)
	if !errors.Is(err, ErrUpstreamParse) {
		t.Errorf("expected parse error, got %v", err)
	}
	if KindOf(err) != KindUpstreamParse {
		t.Errorf("kind = %q", KindOf(err))
	}
	for _, raw := range []string{"}{", "oops } then {"} {
		if _, err := ParseCandidate(raw); !errors.Is(err, ErrUpstreamParse) {
			t.Errorf("%q: expected parse error, got %v", raw, err)
		}
	}
}

func TestParseCandidateLooseShapes(t *testing.T) {
	raw := `Here you go:
{
  "mode": "quiz",
  "flashcards": "not a list",
  "quiz": [
    {"type": "multiple_choice", "level": 2, "question": "Q1?", "options": ["A) x", 7, null, {"k":"v"}, 0, false], "answer": true},
    "stray string",
    {"type": null, "question": ["nested"], "answer": 0}
  ]
}`
	c, err := ParseCandidate(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Mode != "quiz" {
		t.Errorf("mode = %q", c.Mode)
	}
	if len(c.Flashcards) != 0 {
		t.Errorf("flashcards should be empty, got %+v", c.Flashcards)
	}
	if len(c.Quiz) != 3 {
		t.Fatalf("expected 3 quiz items, got %d", len(c.Quiz))
	}

	first := c.Quiz[0]
	if first.Level != "2" || first.Answer != "true" {
		t.Errorf("scalars not stringified: %+v", first)
	}
	wantOpts := []string{"A) x", "7", "", "", "0", "false"}
	for i, o := range wantOpts {
		if first.Options[i] != o {
			t.Errorf("option %d = %q, want %q", i, first.Options[i], o)
		}
	}

	if c.Quiz[1].Question != "" || c.Quiz[2].Question != "" || c.Quiz[2].Type != "" || c.Quiz[2].Answer != "" {
		t.Errorf("malformed items should flatten to empty fields: %+v %+v", c.Quiz[1], c.Quiz[2])
	}
}

func TestParseCandidateArrayReply(t *testing.T) {
	c, err := ParseCandidate(`[{"front":"a","back":"b"}]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Mode != "" || len(c.Flashcards) != 0 || len(c.Quiz) != 0 {
		t.Errorf("only the inner object is read, got %+v", c)
	}
}

func TestZeroOptionKeepsMultipleChoice(t *testing.T) {
	c, err := ParseCandidate(`{"mode":"quiz","quiz":[{"type":"multiple_choice","question":"Smallest natural number?","options":[0,1,2,3],"answer":0}]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := c.Quiz[0].Options; len(got) != 4 || got[0] != "0" {
		t.Fatalf("options = %q", got)
	}
	quiz := NormalizeQuiz(c.Quiz, 1)
	if len(quiz) != 1 || quiz[0].Type != models.MultipleChoice {
		t.Fatalf("question coerced away from multiple choice: %+v", quiz)
	}
	if quiz[0].Options[0] != "0" || quiz[0].Answer != "0" {
		t.Errorf("unexpected options/answer: %+v", quiz[0])
	}
}
