package services

import (
	"regexp"
	"slices"
	"strings"

	"study-buddy/internal/models"
)

// Field limits, in runes.
const (
	maxFrontLen    = 160
	maxBackLen     = 320
	maxQuestionLen = 240
	maxAnswerLen   = 200
	maxOptionLen   = 80
	maxLevelLen    = 40
	maxTypeLen     = 40
)

const (
	OptionTrue  = "True"
	OptionFalse = "False"

	defaultLevel       = "medium"
	defaultShortAnswer = "Short answer key based on the material."
)

var (
	placeholderCard = models.Flashcard{Front: "Concept?", Back: "Short answer."}

	placeholderQuestion = models.QuizQuestion{
		Type:     models.ShortAnswer,
		Level:    "easy",
		Question: "Explain a key concept from the material (briefly).",
		Options:  []string{},
		Answer:   "Short answer key.",
	}

	letterPrefix = regexp.MustCompile(`^[A-D]\)`)
)

// sanitize collapses internal whitespace, trims, and cuts to limit runes,
// ending with an ellipsis when cut.
func sanitize(input string, limit int) string {
	collapsed := strings.Join(strings.Fields(input), " ")
	runes := []rune(collapsed)
	if len(runes) <= limit {
		return collapsed
	}
	return string(runes[:limit-1]) + "…"
}

// NormalizeFlashcards coerces candidates into exactly count schema-valid cards.
func NormalizeFlashcards(candidates []models.CandidateCard, count int) []models.Flashcard {
	if count < 0 {
		count = 0
	}
	out := make([]models.Flashcard, 0, count)
	for _, c := range candidates {
		if len(out) == count {
			break
		}
		card := models.Flashcard{
			Front: sanitize(c.Front, maxFrontLen),
			Back:  sanitize(c.Back, maxBackLen),
		}
		if card.Front == "" {
			card.Front = placeholderCard.Front
		}
		if card.Back == "" {
			card.Back = placeholderCard.Back
		}
		out = append(out, card)
	}
	for len(out) < count {
		out = append(out, placeholderCard)
	}
	return out
}

// NormalizeQuiz coerces candidates into exactly count schema-valid,
// deduplicated questions.
func NormalizeQuiz(candidates []models.CandidateQuestion, count int) []models.QuizQuestion {
	if count < 0 {
		count = 0
	}
	out := make([]models.QuizQuestion, 0, count)
	seen := make(map[string]struct{}, count)
	for _, c := range candidates {
		if len(out) >= count {
			break
		}
		q := normalizeQuestion(c)
		key := questionKey(q.Question)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
	}
	for len(out) < count {
		q := placeholderQuestion
		q.Options = []string{}
		out = append(out, q)
	}
	return out[:count]
}

func normalizeQuestion(c models.CandidateQuestion) models.QuizQuestion {
	q := models.QuizQuestion{
		Type:     models.ParseQuizType(strings.ToLower(sanitize(c.Type, maxTypeLen))),
		Level:    sanitize(c.Level, maxLevelLen),
		Question: sanitize(c.Question, maxQuestionLen),
		Answer:   sanitize(c.Answer, maxAnswerLen),
		Options:  []string{},
	}
	if q.Level == "" {
		q.Level = defaultLevel
	}
	for _, opt := range c.Options {
		if o := sanitize(opt, maxOptionLen); o != "" {
			q.Options = append(q.Options, o)
		}
	}

	switch q.Type {
	case models.TrueFalse:
		q.Options = []string{OptionTrue, OptionFalse}
		q.Answer = inferTrueFalse(q.Answer)
	case models.MultipleChoice:
		if len(q.Options) != 4 {
			q.Type = models.ShortAnswer
			q.Options = []string{}
		} else {
			q.Answer = matchOption(q.Answer, q.Options)
		}
	}

	if q.Type == models.ShortAnswer {
		q.Options = []string{}
		if q.Answer == "" {
			q.Answer = defaultShortAnswer
		}
	}
	return q
}

func inferTrueFalse(answer string) string {
	a := strings.ToLower(answer)
	switch {
	case strings.Contains(a, "false"):
		return OptionFalse
	case strings.Contains(a, "true"):
		return OptionTrue
	default:
		return OptionTrue
	}
}

// matchOption returns the option the answer refers to: verbatim, then by
// "A)"-style letter prefix, then the first option.
func matchOption(answer string, options []string) string {
	if slices.Contains(options, answer) {
		return answer
	}
	if prefix := letterPrefix.FindString(answer); prefix != "" {
		for _, o := range options {
			if strings.HasPrefix(o, prefix) {
				return o
			}
		}
	}
	return options[0]
}

func questionKey(question string) string {
	return strings.Join(strings.Fields(strings.ToLower(question)), " ")
}
