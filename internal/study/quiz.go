package study

import (
	"slices"

	"study-buddy/internal/models"
)

// Mark is how an option is highlighted after a question is checked.
type Mark int

const (
	MarkNone Mark = iota
	MarkCorrect
	MarkWrong
)

// Verdict is the outcome of checking the current question.
type Verdict int

const (
	// VerdictUngraded means the stored answer was only revealed.
	VerdictUngraded Verdict = iota
	VerdictCorrect
	VerdictWrong
)

// QuizSession walks a quiz one question at a time. Selection, typed text,
// and the checked flag belong to the current question and are cleared
// whenever the cursor moves.
type QuizSession struct {
	sequence
	questions []models.QuizQuestion

	selected string
	typed    string
	checked  bool
	finished bool

	// graded holds the latest verdict per artifact index for auto-graded questions.
	graded map[int]bool

	opts options
}

func NewQuizSession(questions []models.QuizQuestion, opts ...Option) *QuizSession {
	return &QuizSession{
		sequence:  newSequence(len(questions)),
		questions: questions,
		graded:    make(map[int]bool),
		opts:      buildOptions(opts),
	}
}

// Current returns the question under the cursor.
func (s *QuizSession) Current() (models.QuizQuestion, bool) {
	i, ok := s.current()
	if !ok {
		return models.QuizQuestion{}, false
	}
	return s.questions[i], true
}

func (s *QuizSession) Selected() string  { return s.selected }
func (s *QuizSession) TypedText() string { return s.typed }
func (s *QuizSession) Checked() bool     { return s.checked }

// Finished reports whether Next was called on the last question.
func (s *QuizSession) Finished() bool { return s.finished }

// Select chooses one of the current question's options. It is ignored once
// the question is checked or when option is not offered.
func (s *QuizSession) Select(option string) bool {
	q, ok := s.Current()
	if !ok || s.checked || !slices.Contains(q.Options, option) {
		return false
	}
	s.selected = option
	return true
}

// Typed stores free-text input for the current question until it is checked.
func (s *QuizSession) Typed(text string) bool {
	if s.checked || s.len() == 0 {
		return false
	}
	s.typed = text
	return true
}

// Check locks the current question. Multiple choice and true/false answers
// are graded by equality with the stored answer; short answers never are.
// Checking again returns the first verdict.
func (s *QuizSession) Check() Verdict {
	i, ok := s.current()
	if !ok {
		return VerdictUngraded
	}
	q := s.questions[i]
	if !s.checked {
		s.checked = true
		if q.Type.AutoGraded() {
			s.graded[i] = s.selected == q.Answer
		}
	}
	return s.verdict(i, q)
}

func (s *QuizSession) verdict(i int, q models.QuizQuestion) Verdict {
	if !s.checked || !q.Type.AutoGraded() {
		return VerdictUngraded
	}
	if s.graded[i] {
		return VerdictCorrect
	}
	return VerdictWrong
}

// Mark reports how option should be shown for the current question.
func (s *QuizSession) Mark(option string) Mark {
	q, ok := s.Current()
	if !ok || !s.checked || !q.Type.AutoGraded() {
		return MarkNone
	}
	switch option {
	case q.Answer:
		return MarkCorrect
	case s.selected:
		return MarkWrong
	default:
		return MarkNone
	}
}

// Next moves to the following question. On the last question it leaves the
// cursor in place, marks the quiz finished, and reports false.
func (s *QuizSession) Next() bool {
	if !s.advance() {
		if s.atLast() {
			s.finished = true
		}
		return false
	}
	s.resetQuestion()
	return true
}

// Prev moves to the previous question. It reports false at the first one.
func (s *QuizSession) Prev() bool {
	if !s.retreat() {
		return false
	}
	s.resetQuestion()
	s.finished = false
	return true
}

// Shuffle permutes the questions and starts a fresh attempt.
func (s *QuizSession) Shuffle() {
	s.shuffle(s.opts.rng)
	s.resetAttempt()
}

// Restart starts a fresh attempt from the first question in the current order.
func (s *QuizSession) Restart() {
	s.index = 0
	s.resetAttempt()
}

// Score counts correct answers among checked auto-graded questions, and how
// many auto-graded questions the quiz has.
func (s *QuizSession) Score() (correct, gradable int) {
	for _, q := range s.questions {
		if q.Type.AutoGraded() {
			gradable++
		}
	}
	for _, ok := range s.graded {
		if ok {
			correct++
		}
	}
	return correct, gradable
}

func (s *QuizSession) resetQuestion() {
	s.selected = ""
	s.typed = ""
	s.checked = false
}

func (s *QuizSession) resetAttempt() {
	s.resetQuestion()
	s.finished = false
	clear(s.graded)
}
