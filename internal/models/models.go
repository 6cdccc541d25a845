package models

import "time"

// Mode selects which artifact a generation request produces.
type Mode string

const (
	ModeFlashcards Mode = "flashcards"
	ModeQuiz       Mode = "quiz"
)

// ParseMode maps a request value to a Mode. An empty value selects flashcards.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case "", ModeFlashcards:
		return ModeFlashcards, true
	case ModeQuiz:
		return ModeQuiz, true
	default:
		return "", false
	}
}

// QuizType is the closed set of question shapes a quiz may contain.
type QuizType string

const (
	MultipleChoice QuizType = "multiple_choice"
	TrueFalse      QuizType = "true_false"
	ShortAnswer    QuizType = "short_answer"
)

// ParseQuizType returns the matching variant, or ShortAnswer for anything unknown.
func ParseQuizType(raw string) QuizType {
	switch QuizType(raw) {
	case MultipleChoice:
		return MultipleChoice
	case TrueFalse:
		return TrueFalse
	default:
		return ShortAnswer
	}
}

// AutoGraded reports whether answers to this type are checked by option equality.
func (t QuizType) AutoGraded() bool {
	return t == MultipleChoice || t == TrueFalse
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type QuizQuestion struct {
	Type     QuizType `json:"type"`
	Level    string   `json:"level"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// Artifact is a validated flashcard deck or quiz together with its export document.
// Exactly one of Flashcards and Quiz is populated, matching Mode.
type Artifact struct {
	ID         string         `json:"id,omitempty"`
	Mode       Mode           `json:"mode"`
	Flashcards []Flashcard    `json:"flashcards,omitempty"`
	Quiz       []QuizQuestion `json:"quiz,omitempty"`
	ExportText string         `json:"exportText"`
}

// Len returns the number of items in the populated section.
func (a *Artifact) Len() int {
	if a == nil {
		return 0
	}
	if a.Mode == ModeQuiz {
		return len(a.Quiz)
	}
	return len(a.Flashcards)
}

// Candidate is an artifact as received from a generative backend, before
// validation. Every field has already been flattened to a string, but no
// length, shape, or type rule has been applied.
type Candidate struct {
	Mode       string
	Flashcards []CandidateCard
	Quiz       []CandidateQuestion
}

type CandidateCard struct {
	Front string
	Back  string
}

type CandidateQuestion struct {
	Type     string
	Level    string
	Question string
	Options  []string
	Answer   string
}

// Strategy records how the source text was treated when prompting.
type Strategy string

const (
	StrategyTopic    Strategy = "topic"
	StrategyMaterial Strategy = "material"
)

// Generation is a single request outcome kept in the history log. It never
// carries artifact content.
type Generation struct {
	ID          int64     `json:"id"`
	ArtifactID  string    `json:"artifactId,omitempty"`
	Mode        Mode      `json:"mode"`
	Count       int       `json:"count"`
	Strategy    Strategy  `json:"strategy"`
	Backend     string    `json:"backend"`
	Status      string    `json:"status"`
	ErrorKind   string    `json:"errorKind,omitempty"`
	InputLength int       `json:"inputLength"`
	DurationMS  int64     `json:"durationMs"`
	CreatedAt   time.Time `json:"createdAt"`
}
