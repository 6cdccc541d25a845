package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"study-buddy/internal/models"
	"study-buddy/internal/study"
)

const flashcardHelp = "commands: [f]lip [n]ext [p]rev [s]huffle [r]estart rate <again|hard|good|easy> [q]uit"

const quizHelp = "commands: <option number> | t <answer> | [c]heck [n]ext [p]rev [s]huffle [r]estart [q]uit"

func run(in io.Reader, out io.Writer, artifact *models.Artifact, shuffle bool, opts ...study.Option) error {
	scanner := bufio.NewScanner(in)
	if artifact.Mode == models.ModeQuiz {
		s := study.NewQuizSession(artifact.Quiz, opts...)
		if shuffle {
			s.Shuffle()
		}
		return quizLoop(scanner, out, s)
	}
	s := study.NewFlashcardSession(artifact.Flashcards, opts...)
	if shuffle {
		s.Shuffle()
	}
	return flashcardLoop(scanner, out, s)
}

func flashcardLoop(scanner *bufio.Scanner, out io.Writer, s *study.FlashcardSession) error {
	fmt.Fprintln(out, flashcardHelp)
	for {
		showFlashcard(out, s)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch strings.ToLower(cmd) {
		case "", "f", "flip":
			s.Flip()
		case "n", "next":
			if !s.Next() {
				fmt.Fprintln(out, "last card")
			}
		case "p", "prev":
			if !s.Prev() {
				fmt.Fprintln(out, "first card")
			}
		case "s", "shuffle":
			s.Shuffle()
		case "r", "restart":
			s.Restart()
		case "rate":
			rating, err := study.ParseRating(arg)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			card, err := s.Rate(rating)
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintf(out, "next review %s, %d to repeat\n", card.Due.Local().Format("2006-01-02 15:04"), len(s.AgainQueue()))
		case "q", "quit":
			return nil
		default:
			fmt.Fprintln(out, flashcardHelp)
		}
	}
}

func showFlashcard(out io.Writer, s *study.FlashcardSession) {
	card, ok := s.Current()
	if !ok {
		return
	}
	pos, total := s.Progress()
	side, text := "Front", card.Front
	if s.Flipped() {
		side, text = "Back", card.Back
	}
	fmt.Fprintf(out, "\n[%d/%d] %s: %s\n", pos, total, side, text)
}

func quizLoop(scanner *bufio.Scanner, out io.Writer, s *study.QuizSession) error {
	fmt.Fprintln(out, quizHelp)
	for {
		showQuestion(out, s)
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")

		if n, err := strconv.Atoi(cmd); err == nil {
			q, _ := s.Current()
			if n < 1 || n > len(q.Options) || !s.Select(q.Options[n-1]) {
				fmt.Fprintln(out, "cannot select that option")
			}
			continue
		}

		switch strings.ToLower(cmd) {
		case "t", "type":
			if !s.Typed(arg) {
				fmt.Fprintln(out, "already checked")
			}
		case "c", "check":
			reportVerdict(out, s)
		case "n", "next":
			if !s.Next() && s.Finished() {
				correct, gradable := s.Score()
				fmt.Fprintf(out, "finished: %d/%d auto-graded correct\n", correct, gradable)
			}
		case "p", "prev":
			if !s.Prev() {
				fmt.Fprintln(out, "first question")
			}
		case "s", "shuffle":
			s.Shuffle()
		case "r", "restart":
			s.Restart()
		case "q", "quit":
			return nil
		default:
			fmt.Fprintln(out, quizHelp)
		}
	}
}

func showQuestion(out io.Writer, s *study.QuizSession) {
	q, ok := s.Current()
	if !ok {
		return
	}
	pos, total := s.Progress()
	fmt.Fprintf(out, "\n[%d/%d] (%s) %s\n", pos, total, q.Level, q.Question)
	for i, opt := range q.Options {
		marker := " "
		switch {
		case s.Mark(opt) == study.MarkCorrect:
			marker = "+"
		case s.Mark(opt) == study.MarkWrong:
			marker = "x"
		case opt == s.Selected():
			marker = "*"
		}
		fmt.Fprintf(out, " %s %d. %s\n", marker, i+1, opt)
	}
	if q.Type == models.ShortAnswer && s.TypedText() != "" {
		fmt.Fprintf(out, "   your answer: %s\n", s.TypedText())
	}
}

func reportVerdict(out io.Writer, s *study.QuizSession) {
	q, _ := s.Current()
	switch s.Check() {
	case study.VerdictCorrect:
		fmt.Fprintln(out, "correct")
	case study.VerdictWrong:
		fmt.Fprintf(out, "wrong, answer: %s\n", q.Answer)
	default:
		fmt.Fprintf(out, "answer: %s\n", q.Answer)
	}
}
