package services

import (
	"fmt"
	"strings"

	"study-buddy/internal/models"
)

// BuildExportFlashcards renders cards as a plain-text document.
func BuildExportFlashcards(cards []models.Flashcard) string {
	var b strings.Builder
	for i, c := range cards {
		fmt.Fprintf(&b, "Flashcard %d\n", i+1)
		fmt.Fprintf(&b, "Front: %s\n", c.Front)
		fmt.Fprintf(&b, "Back: %s\n\n", c.Back)
	}
	return strings.TrimSpace(b.String())
}

func typeLabel(t models.QuizType) string {
	switch t {
	case models.MultipleChoice:
		return "Multiple choice"
	case models.TrueFalse:
		return "True/False"
	default:
		return "Short answer"
	}
}

// BuildExportQuiz renders questions as a plain-text document.
func BuildExportQuiz(questions []models.QuizQuestion) string {
	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "Question %d (%s, %s)\n", i+1, typeLabel(q.Type), q.Level)
		b.WriteString(q.Question + "\n")
		for _, opt := range q.Options {
			b.WriteString(opt + "\n")
		}
		fmt.Fprintf(&b, "Answer: %s\n\n", q.Answer)
	}
	return strings.TrimSpace(b.String())
}

// BuildExport renders whichever section the artifact carries.
func BuildExport(a *models.Artifact) string {
	if a.Mode == models.ModeQuiz {
		return BuildExportQuiz(a.Quiz)
	}
	return BuildExportFlashcards(a.Flashcards)
}
