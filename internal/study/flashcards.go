package study

import (
	"fmt"
	"slices"
	"strings"

	fsrs "github.com/open-spaced-repetition/go-fsrs"

	"study-buddy/internal/models"
)

// FlashcardSession walks a deck one card at a time.
type FlashcardSession struct {
	sequence
	cards   []models.Flashcard
	flipped bool

	opts    options
	params  fsrs.Parameters
	reviews map[int]fsrs.Card
	again   []int
}

// NewFlashcardSession starts at the first card in artifact order, front side up.
func NewFlashcardSession(cards []models.Flashcard, opts ...Option) *FlashcardSession {
	return &FlashcardSession{
		sequence: newSequence(len(cards)),
		cards:    cards,
		opts:     buildOptions(opts),
		params:   fsrs.DefaultParam(),
		reviews:  make(map[int]fsrs.Card),
	}
}

// Current returns the card under the cursor.
func (s *FlashcardSession) Current() (models.Flashcard, bool) {
	i, ok := s.current()
	if !ok {
		return models.Flashcard{}, false
	}
	return s.cards[i], true
}

func (s *FlashcardSession) Flipped() bool { return s.flipped }

// Flip toggles between front and back.
func (s *FlashcardSession) Flip() { s.flipped = !s.flipped }

// Next moves forward one card. It reports false at the last card.
func (s *FlashcardSession) Next() bool {
	if !s.advance() {
		return false
	}
	s.flipped = false
	return true
}

// Prev moves back one card. It reports false at the first card.
func (s *FlashcardSession) Prev() bool {
	if !s.retreat() {
		return false
	}
	s.flipped = false
	return true
}

// Shuffle permutes the deck and returns to its first card.
func (s *FlashcardSession) Shuffle() {
	s.shuffle(s.opts.rng)
	s.flipped = false
}

// Restart returns to the first card, keeping the current order.
func (s *FlashcardSession) Restart() {
	s.index = 0
	s.flipped = false
}

// Rate records a self-assessment for the current card and returns its
// updated schedule.
func (s *FlashcardSession) Rate(rating fsrs.Rating) (fsrs.Card, error) {
	i, ok := s.current()
	if !ok {
		return fsrs.Card{}, fmt.Errorf("rate: empty deck")
	}
	now := s.opts.now().UTC()
	card, seen := s.reviews[i]
	if !seen {
		card = fsrs.Card{Due: now, State: fsrs.New}
	}

	scheduling := s.params.Repeat(card, now)
	info, ok := scheduling[rating]
	if !ok {
		return fsrs.Card{}, fmt.Errorf("rating %d not supported", rating)
	}
	s.reviews[i] = info.Card

	s.again = slices.DeleteFunc(s.again, func(j int) bool { return j == i })
	if rating == fsrs.Again {
		s.again = append(s.again, i)
	}
	return info.Card, nil
}

// Review returns the schedule of the current card, if it has been rated.
func (s *FlashcardSession) Review() (fsrs.Card, bool) {
	i, ok := s.current()
	if !ok {
		return fsrs.Card{}, false
	}
	card, seen := s.reviews[i]
	return card, seen
}

// AgainQueue lists the cards whose latest rating was Again, oldest first.
func (s *FlashcardSession) AgainQueue() []models.Flashcard {
	out := make([]models.Flashcard, 0, len(s.again))
	for _, i := range s.again {
		out = append(out, s.cards[i])
	}
	return out
}

func ParseRating(raw string) (fsrs.Rating, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "again", "1":
		return fsrs.Again, nil
	case "hard", "2":
		return fsrs.Hard, nil
	case "good", "3":
		return fsrs.Good, nil
	case "easy", "4":
		return fsrs.Easy, nil
	default:
		return 0, fmt.Errorf("unknown rating %q", raw)
	}
}
