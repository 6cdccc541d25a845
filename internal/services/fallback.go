package services

import (
	"fmt"
	"strings"

	"study-buddy/internal/models"
)

const fallbackTopicLen = 80

func fallbackTopic(topicOrText string) string {
	runes := []rune(strings.Join(strings.Fields(CleanText(topicOrText)), " "))
	if len(runes) > fallbackTopicLen {
		runes = runes[:fallbackTopicLen]
	}
	topic := strings.TrimSpace(string(runes))
	if topic == "" {
		return "Topic"
	}
	return topic
}

func levelFor(i int) string {
	switch i % 3 {
	case 0:
		return "easy"
	case 1:
		return "medium"
	default:
		return "hard"
	}
}

// FallbackFlashcards builds a deterministic deck used when no backend is configured.
func FallbackFlashcards(topicOrText string, count int) []models.Flashcard {
	topic := fallbackTopic(topicOrText)
	cards := make([]models.Flashcard, 0, max(count, 0))
	for range max(count, 0) {
		cards = append(cards, models.Flashcard{
			Front: fmt.Sprintf("What does a key concept in \"%s\" mean?", topic),
			Back:  "Short answer. (Set OPENAI_API_KEY for better results.)",
		})
	}
	return cards
}

// FallbackQuiz builds a deterministic true/false quiz used when no backend is
// configured. Levels rotate easy, medium, hard by position.
func FallbackQuiz(topicOrText string, count int) []models.QuizQuestion {
	topic := fallbackTopic(topicOrText)
	qs := make([]models.QuizQuestion, 0, max(count, 0))
	for i := range max(count, 0) {
		qs = append(qs, models.QuizQuestion{
			Type:     models.TrueFalse,
			Level:    levelFor(i),
			Question: fmt.Sprintf("Question %d: this material is about %s.", i+1, topic),
			Options:  []string{OptionTrue, OptionFalse},
			Answer:   OptionTrue,
		})
	}
	return qs
}

func fallbackCandidate(mode models.Mode, topicOrText string, count int) *models.Candidate {
	c := &models.Candidate{Mode: string(mode)}
	if mode == models.ModeQuiz {
		for _, q := range FallbackQuiz(topicOrText, count) {
			c.Quiz = append(c.Quiz, models.CandidateQuestion{
				Type:     string(q.Type),
				Level:    q.Level,
				Question: q.Question,
				Options:  q.Options,
				Answer:   q.Answer,
			})
		}
		return c
	}
	for _, card := range FallbackFlashcards(topicOrText, count) {
		c.Flashcards = append(c.Flashcards, models.CandidateCard{Front: card.Front, Back: card.Back})
	}
	return c
}
