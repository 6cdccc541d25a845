package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"study-buddy/internal/models"
)

type fakeBackend struct {
	reply string
	err   error

	calls int
	input string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Complete(_ context.Context, _, input string) (string, error) {
	f.calls++
	f.input = input
	return f.reply, f.err
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []models.Generation
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, g models.Generation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, g)
	return r.err
}

func TestGenerateFallbackFlashcards(t *testing.T) {
	rec := &fakeRecorder{}
	svc := NewGenerationService(nil, rec, nil)

	artifact, err := svc.Generate(context.Background(), GenerateRequest{
		Mode:         models.ModeFlashcards,
		Count:        5,
		MaterialText: "Human body",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if artifact.Mode != models.ModeFlashcards || len(artifact.Flashcards) != 5 || artifact.Quiz != nil {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
	if n := strings.Count(artifact.ExportText, "Flashcard "); n != 5 {
		t.Errorf("export has %d flashcard blocks", n)
	}
	if artifact.ID == "" {
		t.Error("artifact id missing")
	}

	if len(rec.entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(rec.entries))
	}
	entry := rec.entries[0]
	if entry.Status != StatusOK || entry.Backend != "fallback" || entry.Strategy != models.StrategyTopic || entry.ArtifactID != artifact.ID {
		t.Errorf("unexpected entry: %+v", entry)
	}
	if entry.InputLength != 10 {
		t.Errorf("input length = %d", entry.InputLength)
	}
}

func TestGenerateFallbackQuiz(t *testing.T) {
	svc := NewGenerationService(nil, nil, nil)
	artifact, err := svc.Generate(context.Background(), GenerateRequest{
		Mode:         models.ModeQuiz,
		Count:        DefaultCount,
		MaterialText: "Plate tectonics",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(artifact.Quiz) != DefaultCount || artifact.Flashcards != nil {
		t.Fatalf("unexpected artifact: %+v", artifact)
	}
	if artifact.ExportText != BuildExportQuiz(artifact.Quiz) {
		t.Error("export text does not match quiz")
	}
}

func TestGenerateRejectsInput(t *testing.T) {
	backend := &fakeBackend{reply: `{}`}
	rec := &fakeRecorder{}
	svc := NewGenerationService(backend, rec, nil)

	cases := []struct {
		name string
		req  GenerateRequest
		msg  string
	}{
		{"short text", GenerateRequest{Mode: models.ModeQuiz, Count: 5, MaterialText: "ab"}, MsgNoMaterial},
		{"empty text", GenerateRequest{Mode: models.ModeFlashcards, Count: 5}, MsgNoMaterial},
		{"unknown mode", GenerateRequest{Mode: "essay", Count: 5, MaterialText: "Human body"}, MsgUnknownMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			artifact, err := svc.Generate(context.Background(), tc.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
			if err.Error() != tc.msg {
				t.Errorf("message = %q", err.Error())
			}
			if artifact != nil {
				t.Error("no artifact expected")
			}
		})
	}
	if backend.calls != 0 {
		t.Errorf("backend must not be called for rejected input, got %d calls", backend.calls)
	}
	for _, e := range rec.entries {
		if e.Status != StatusError || e.ErrorKind != KindInvalidInput {
			t.Errorf("unexpected entry: %+v", e)
		}
	}
}

func TestGenerateWithBackend(t *testing.T) {
	backend := &fakeBackend{reply: "```json\n" + `{"mode":"flashcards","flashcards":[
		{"front":"What is a cell?","back":"The basic unit of life."},
		{"front":"What is DNA?","back":"Genetic material."}
	]}` + "\n```"}
	svc := NewGenerationService(backend, nil, nil)

	artifact, err := svc.Generate(context.Background(), GenerateRequest{
		Mode:         models.ModeFlashcards,
		Count:        3,
		MaterialText: "Cell biology",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if backend.calls != 1 {
		t.Errorf("expected exactly one backend call, got %d", backend.calls)
	}
	if len(artifact.Flashcards) != 3 {
		t.Fatalf("got %d cards", len(artifact.Flashcards))
	}
	if artifact.Flashcards[0].Front != "What is a cell?" || artifact.Flashcards[2] != placeholderCard {
		t.Errorf("unexpected deck: %+v", artifact.Flashcards)
	}
	if svc.BackendName() != "fake" {
		t.Errorf("backend name = %q", svc.BackendName())
	}
}

func TestGenerateIgnoresBackendMode(t *testing.T) {
	backend := &fakeBackend{reply: `{"mode":"flashcards","flashcards":[{"front":"a","back":"b"}]}`}
	svc := NewGenerationService(backend, nil, nil)

	artifact, err := svc.Generate(context.Background(), GenerateRequest{
		Mode:         models.ModeQuiz,
		Count:        3,
		MaterialText: "Cell biology",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if artifact.Mode != models.ModeQuiz || len(artifact.Quiz) != 3 || artifact.Flashcards != nil {
		t.Errorf("requested mode must win: %+v", artifact)
	}
}

func TestGenerateBackendFailures(t *testing.T) {
	cases := []struct {
		name    string
		backend *fakeBackend
		want    error
		kind    string
	}{
		{"transport", &fakeBackend{err: errors.New("429 too many requests")}, ErrUpstream, KindUpstream},
		{"no json", &fakeBackend{reply: "Sorry, I can't."}, ErrUpstreamFormat, KindUpstreamFormat},
		{"bad json", &fakeBackend{reply: `{"mode":"quiz",}`}, ErrUpstreamParse, KindUpstreamParse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &fakeRecorder{}
			svc := NewGenerationService(tc.backend, rec, nil)
			_, err := svc.Generate(context.Background(), GenerateRequest{
				Mode:         models.ModeQuiz,
				Count:        5,
				MaterialText: "Cell biology",
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if tc.backend.calls != 1 {
				t.Errorf("expected one call and no retry, got %d", tc.backend.calls)
			}
			if len(rec.entries) != 1 || rec.entries[0].ErrorKind != tc.kind {
				t.Errorf("unexpected history: %+v", rec.entries)
			}
		})
	}
}

func TestGeneratePromptStrategy(t *testing.T) {
	backend := &fakeBackend{reply: `{}`}
	svc := NewGenerationService(backend, nil, nil)

	if _, err := svc.Generate(context.Background(), GenerateRequest{Mode: models.ModeQuiz, Count: 4, MaterialText: "Volcanoes"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(backend.input, "TOPIC MODE") || !strings.Contains(backend.input, "exactly 4 quiz questions") {
		t.Errorf("topic prompt missing directives:\n%s", backend.input)
	}

	long := strings.Repeat("Magma rises through the crust. ", 20)
	if _, err := svc.Generate(context.Background(), GenerateRequest{Mode: models.ModeFlashcards, Count: 6, MaterialText: long}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(backend.input, "MATERIAL MODE") || !strings.Contains(backend.input, "exactly 6 flashcards") {
		t.Errorf("material prompt missing directives:\n%s", backend.input)
	}
	if !strings.HasSuffix(backend.input, long) {
		t.Error("material must close the prompt")
	}
}

func TestGenerateSurvivesRecorderFailure(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	svc := NewGenerationService(nil, rec, nil)
	if _, err := svc.Generate(context.Background(), GenerateRequest{Mode: models.ModeQuiz, Count: 3, MaterialText: "Rivers"}); err != nil {
		t.Fatalf("history failure must not fail the request: %v", err)
	}
}
