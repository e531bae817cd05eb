package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mcquiz/internal/quiz"
	"mcquiz/internal/quiz/csvlog"
	"mcquiz/internal/quizfile"
)

const sampleQuizCSV = `Question,A,B,C,D,Answer
Largest planet?,Mars,Jupiter,Venus,Earth,B
Roman god of war?,Mars,Neptune,Jupiter,Apollo,"""B"""
Founders of Rome?,Romulus and Remus,Castor and Pollux,Cain and Abel,Ares and Eros,'a'
Broken row,only,three
`

func writeQuizFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "quiz.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestRunPlaysQuizAndRecordsAttempt(t *testing.T) {
	results := csvlog.New(filepath.Join(t.TempDir(), "results.csv"))
	input := strings.Join([]string{
		"",  // start
		"b", // Q1 correct
		"",
		"a", // Q2 incorrect
		"",
		"?", // Q3 revealed
		"",
		"history",
		"quit",
	}, "\n") + "\n"

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(input), &out, Config{
		QuizPath: writeQuizFile(t, sampleQuizCSV),
		User:     "alice",
		Results:  results,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{
		"3 questions loaded, 1 rows skipped.",
		"warning: row 5:",
		"Q1: Largest planet?",
		"Correct!",
		"Incorrect.",
		"Correct Answer: Romulus and Remus",
		"Remaining Questions: 2 | Correct: 1 | Incorrect: 0",
		"Score: 33.33%",
		"Review Incorrect Questions:",
		"Quiz results recorded.",
		"All Past Quiz Results",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}

	entries, err := results.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one recorded attempt, got %d", len(entries))
	}
	entry := entries[0]
	if entry.User != "alice" || entry.CorrectCount != 1 || entry.IncorrectCount != 2 || entry.TotalQuestions != 3 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if !strings.Contains(entry.IncorrectDetails, "Your: none") {
		t.Fatalf("revealed question missing from details: %q", entry.IncorrectDetails)
	}
}

func TestRunWithoutUserDoesNotRecord(t *testing.T) {
	results := csvlog.New(filepath.Join(t.TempDir(), "results.csv"))
	input := "\nb\n\nb\n\na\n\n"

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(input), &out, Config{
		QuizPath: writeQuizFile(t, sampleQuizCSV),
		Results:  results,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "User name not set. Results cannot be saved.") {
		t.Fatalf("expected missing-user warning:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Score: 100.00%") {
		t.Fatalf("expected perfect score:\n%s", out.String())
	}

	entries, err := results.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected nothing recorded, got %d entries", len(entries))
	}
}

func TestRunRetriesInvalidLetterAndRestarts(t *testing.T) {
	input := strings.Join([]string{
		"",
		"e",       // invalid
		"b",       // Q1 correct
		"restart", // from feedback
		"?",       // Q1 again
		"quit",
	}, "\n") + "\n"

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(input), &out, Config{
		QuizPath: writeQuizFile(t, sampleQuizCSV),
		Results:  csvlog.New(filepath.Join(t.TempDir(), "results.csv")),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Invalid input. Please enter a letter A-D") {
		t.Fatalf("expected invalid input message:\n%s", text)
	}
	if !strings.Contains(text, "Restarting quiz with 3 questions.") {
		t.Fatalf("expected restart message:\n%s", text)
	}
	if strings.Count(text, "Q1: Largest planet?") != 2 {
		t.Fatalf("expected Q1 to be shown twice:\n%s", text)
	}
}

func TestRunReportsUnusableFile(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(""), &out, Config{
		QuizPath: writeQuizFile(t, "Question,A,B,C,D,Answer\nBad,1,2,3,4,Z\n"),
	})
	if !errors.Is(err, quiz.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if !strings.Contains(out.String(), "0 questions loaded, 1 rows skipped.") {
		t.Fatalf("expected load report:\n%s", out.String())
	}

	err = Run(context.Background(), strings.NewReader(""), &out, Config{QuizPath: "quiz.txt"})
	if !errors.Is(err, quizfile.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestRunEndsCleanlyOnEOF(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader("\nb"), &out, Config{
		QuizPath: writeQuizFile(t, sampleQuizCSV),
	})
	if err != nil {
		t.Fatalf("Run failed on EOF: %v", err)
	}
	if !strings.Contains(out.String(), "Correct!") {
		t.Fatalf("expected trailing answer without newline to be processed:\n%s", out.String())
	}
}
