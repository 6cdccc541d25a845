package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"study-buddy/internal/logger"
	"study-buddy/internal/models"
)

const (
	minMaterialLen = 3

	MsgNoMaterial  = "Enter a topic, paste some text, or choose a PDF."
	MsgUnknownMode = "mode must be 'flashcards' or 'quiz'"
)

// GenerateRequest is a generation call whose count has been through
// ClampCount and whose text has been through TruncateForGeneration.
type GenerateRequest struct {
	Mode         models.Mode
	Count        int
	MaterialText string
}

// Recorder persists generation outcomes. HistoryService implements it.
type Recorder interface {
	Record(ctx context.Context, g models.Generation) error
}

// GenerationService runs the prompt, backend-or-fallback, validate, export pipeline.
type GenerationService struct {
	backend  Backend
	recorder Recorder
	log      *logger.Logger
}

// NewGenerationService wires the pipeline. A nil backend selects the
// deterministic fallback; a nil recorder disables history.
func NewGenerationService(backend Backend, recorder Recorder, log *logger.Logger) *GenerationService {
	if log == nil {
		log = logger.NewNop()
	}
	return &GenerationService{backend: backend, recorder: recorder, log: log}
}

// BackendName reports which generator serves requests.
func (s *GenerationService) BackendName() string {
	if s.backend == nil {
		return "fallback"
	}
	return s.backend.Name()
}

// Generate produces a validated artifact. It issues at most one backend call
// and never retries.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (*models.Artifact, error) {
	start := time.Now()
	strategy := strategyFor(req.MaterialText)

	artifact, err := s.generate(ctx, req, strategy)
	elapsed := time.Since(start)

	log := s.log.With(
		"mode", req.Mode,
		"count", req.Count,
		"strategy", strategy,
		"backend", s.BackendName(),
		"duration_ms", elapsed.Milliseconds(),
	)
	if err != nil {
		log.Warn("generation failed", "kind", KindOf(err), "error", err)
	} else {
		log.Info("generation complete", "artifact_id", artifact.ID)
	}

	s.record(ctx, req, strategy, artifact, err, elapsed)
	return artifact, err
}

func (s *GenerationService) generate(ctx context.Context, req GenerateRequest, strategy models.Strategy) (*models.Artifact, error) {
	if req.Mode != models.ModeFlashcards && req.Mode != models.ModeQuiz {
		return nil, invalidInput(MsgUnknownMode)
	}
	if len([]rune(req.MaterialText)) < minMaterialLen {
		return nil, invalidInput(MsgNoMaterial)
	}
	count := clampCount(req.Count)

	var candidate *models.Candidate
	if s.backend == nil {
		candidate = fallbackCandidate(req.Mode, req.MaterialText, count)
	} else {
		raw, err := s.backend.Complete(ctx, systemPrompt, buildPrompt(req.Mode, count, strategy, req.MaterialText))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		candidate, err = ParseCandidate(raw)
		if err != nil {
			s.log.Debug("unparsable backend reply", "raw", raw)
			return nil, err
		}
	}

	artifact := &models.Artifact{ID: uuid.NewString(), Mode: req.Mode}
	if req.Mode == models.ModeQuiz {
		artifact.Quiz = NormalizeQuiz(candidate.Quiz, count)
	} else {
		artifact.Flashcards = NormalizeFlashcards(candidate.Flashcards, count)
	}
	artifact.ExportText = BuildExport(artifact)
	return artifact, nil
}

func (s *GenerationService) record(ctx context.Context, req GenerateRequest, strategy models.Strategy, artifact *models.Artifact, genErr error, elapsed time.Duration) {
	if s.recorder == nil {
		return
	}
	entry := models.Generation{
		Mode:        req.Mode,
		Count:       req.Count,
		Strategy:    strategy,
		Backend:     s.BackendName(),
		Status:      StatusOK,
		ErrorKind:   KindOf(genErr),
		InputLength: len([]rune(req.MaterialText)),
		DurationMS:  elapsed.Milliseconds(),
		CreatedAt:   time.Now().UTC(),
	}
	if genErr != nil {
		entry.Status = StatusError
	}
	if artifact != nil {
		entry.ArtifactID = artifact.ID
	}
	// The request outcome stands even if history cannot be written.
	if err := s.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		s.log.Warn("record generation", "error", err)
	}
}
