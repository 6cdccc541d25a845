package services

import (
	"reflect"
	"strings"
	"testing"

	"study-buddy/internal/models"
)

func TestFallbackTopic(t *testing.T) {
	if got := fallbackTopic("   \n\t "); got != "Topic" {
		t.Errorf("blank input: got %q", got)
	}
	if got := fallbackTopic("  human \n\n anatomy  "); got != "human anatomy" {
		t.Errorf("got %q", got)
	}
	long := strings.Repeat("x", 200)
	if got := fallbackTopic(long); len(got) != fallbackTopicLen {
		t.Errorf("topic not capped: %d", len(got))
	}
}

func TestFallbackFlashcards(t *testing.T) {
	cards := FallbackFlashcards("Photosynthesis", 4)
	if len(cards) != 4 {
		t.Fatalf("got %d cards", len(cards))
	}
	if cards[0].Front != `What does a key concept in "Photosynthesis" mean?` {
		t.Errorf("front = %q", cards[0].Front)
	}
	if !strings.Contains(cards[0].Back, "OPENAI_API_KEY") {
		t.Errorf("back should mention the key: %q", cards[0].Back)
	}
}

func TestFallbackQuizLevelsRotate(t *testing.T) {
	qs := FallbackQuiz("Cells", 5)
	want := []string{"easy", "medium", "hard", "easy", "medium"}
	for i, q := range qs {
		if q.Level != want[i] {
			t.Errorf("question %d level = %q, want %q", i, q.Level, want[i])
		}
		if q.Type != models.TrueFalse || q.Answer != OptionTrue {
			t.Errorf("question %d = %+v", i, q)
		}
	}
}

func TestFallbackSurvivesNormalizationUnchanged(t *testing.T) {
	for _, count := range []int{MinCount, DefaultCount, MaxCount} {
		quiz := FallbackQuiz("Cells", count)
		if got := NormalizeQuiz(questionsToCandidates(quiz), count); !reflect.DeepEqual(got, quiz) {
			t.Errorf("count %d: normalization changed fallback quiz", count)
		}

		cards := FallbackFlashcards("Cells", count)
		c := fallbackCandidate(models.ModeFlashcards, "Cells", count)
		if got := NormalizeFlashcards(c.Flashcards, count); !reflect.DeepEqual(got, cards) {
			t.Errorf("count %d: normalization changed fallback deck", count)
		}
	}
}

func TestFallbackCandidateMatchesMode(t *testing.T) {
	c := fallbackCandidate(models.ModeQuiz, "Cells", 3)
	if len(c.Quiz) != 3 || len(c.Flashcards) != 0 {
		t.Errorf("quiz candidate = %+v", c)
	}
	c = fallbackCandidate(models.ModeFlashcards, "Cells", 3)
	if len(c.Flashcards) != 3 || len(c.Quiz) != 0 {
		t.Errorf("flashcard candidate = %+v", c)
	}
}
