package services

import (
	"fmt"

	"study-buddy/internal/models"
)

// topicModeThreshold is the input length, in runes, below which the input is
// treated as a bare topic rather than source material.
const topicModeThreshold = 250

const systemPrompt = `You are Study Buddy, a study content generator.

GOAL
Create quizzes and flashcards that are clear, correct, and ready to use in a study app.

HARD RULES
- No long paragraphs in questions or answers.
- Flashcards: front at most 1 sentence; back at most 2-3 sentences.
- Quiz question: at most 2 sentences (exceptionally 4).
- No duplicates: the same question must never appear twice.
- A quiz must cover different parts of the material, not the same thing over and over.

QUIZ TYPES
- multiple_choice: exactly 4 short options (A-D). answer must be exactly one of the options.
- true_false: options must be ["True","False"]. answer must be "True" or "False".
- short_answer: options must be [] (empty list). answer is a short key (1-2 sentences).

TWO MODES
- If the input is long: rely mainly on the material, summarize internally, do not quote.
- If the input is short (a topic): use general knowledge.

OUTPUT
Respond ONLY with valid JSON.

Flashcards:
{"mode":"flashcards","flashcards":[{"front":"...","back":"..."}]}

Quiz:
{"mode":"quiz","quiz":[{"type":"...","level":"...","question":"...","options":[...],"answer":"..."}]}

No study tips, no follow-up questions.`

func strategyFor(materialText string) models.Strategy {
	if len([]rune(materialText)) < topicModeThreshold {
		return models.StrategyTopic
	}
	return models.StrategyMaterial
}

func schemaHint(mode models.Mode, count int) string {
	if mode == models.ModeFlashcards {
		return fmt.Sprintf(`Create exactly %d flashcards.
Rules:
- front: at most 1 sentence / at most 120 characters
- back: at most 2-3 sentences / at most 280 characters
- no duplicates
Return ONLY JSON:
{"mode":"flashcards","flashcards":[{"front":"...","back":"..."}]}`, count)
	}
	return fmt.Sprintf(`Create exactly %d quiz questions with mixed types.
Rules:
- no duplicates
- cover different parts of the material
- question: at most 2 sentences (exceptionally 4) / at most 240 characters
- true_false: 1 short statement, options ["True","False"], answer = True or False
- multiple_choice: exactly 4 short options (A)-D)), answer must be exactly one of the options
- short_answer: options [], answer is a short key
Return ONLY JSON:
{"mode":"quiz","quiz":[{"type":"...","level":"...","question":"...","options":[...],"answer":"..."}]}`, count)
}

func sourceRule(strategy models.Strategy) string {
	if strategy == models.StrategyTopic {
		return "TOPIC MODE: The input is short. Use general knowledge about the topic."
	}
	return "MATERIAL MODE: The input is long. Summarize internally and write questions without quoting long passages."
}

func buildPrompt(mode models.Mode, count int, strategy models.Strategy, materialText string) string {
	return fmt.Sprintf(`RESPOND ONLY WITH JSON.

INSTRUCTION:
%s

%s

MATERIAL/TOPIC:
%s`, schemaHint(mode, count), sourceRule(strategy), materialText)
}
