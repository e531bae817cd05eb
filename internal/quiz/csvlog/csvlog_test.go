package csvlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mcquiz/internal/quiz"
)

func newTestLog(t *testing.T) *FileLog {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "results.csv"))
}

func sampleEntry(user string, ts time.Time) quiz.HistoryEntry {
	return quiz.HistoryEntry{
		Timestamp:        ts,
		User:             user,
		CorrectCount:     1,
		IncorrectCount:   2,
		TotalQuestions:   3,
		IncorrectDetails: `Q: Say "hi", twice | A: hi, hi | Your: none; Q: Line` + "\n" + `break | A: x | Your: y`,
	}
}

func assertSameEntry(t *testing.T, got, want quiz.HistoryEntry) {
	t.Helper()
	if !got.Timestamp.Equal(want.Timestamp) ||
		got.User != want.User ||
		got.CorrectCount != want.CorrectCount ||
		got.IncorrectCount != want.IncorrectCount ||
		got.TotalQuestions != want.TotalQuestions ||
		got.IncorrectDetails != want.IncorrectDetails {
		t.Fatalf("entry = %+v, want %+v", got, want)
	}
}

func TestReadAllMissingFileIsEmpty(t *testing.T) {
	log := newTestLog(t)

	entries, err := log.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", entries)
	}
}

func TestAppendCreatesHeaderAndPreservesOrder(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 2, 3, 4, 5, 123456789, time.UTC)

	first := sampleEntry("alice", base)
	second := sampleEntry("bob", base.Add(time.Minute))
	second.CorrectCount, second.IncorrectCount, second.IncorrectDetails = 3, 0, ""

	for _, entry := range []quiz.HistoryEntry{first, second} {
		if err := log.Append(ctx, entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	data, err := os.ReadFile(log.Path())
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if header != "Timestamp,User,Correct Count,Incorrect Count,Total Questions,Incorrect Details" {
		t.Fatalf("unexpected header line: %q", header)
	}

	entries, err := log.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	assertSameEntry(t, entries[0], first)
	assertSameEntry(t, entries[1], second)
}

func TestAppendLeavesNoTempFiles(t *testing.T) {
	log := newTestLog(t)
	if err := log.Append(context.Background(), sampleEntry("alice", time.Now())); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	items, err := os.ReadDir(filepath.Dir(log.Path()))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(items) != 1 || items[0].Name() != "results.csv" {
		names := make([]string, 0, len(items))
		for _, item := range items {
			names = append(names, item.Name())
		}
		t.Fatalf("unexpected directory contents: %v", names)
	}
}

func TestAppendRefusesForeignFileAndLeavesItUntouched(t *testing.T) {
	log := newTestLog(t)
	original := []byte("name,score\nalice,3\n")
	if err := os.WriteFile(log.Path(), original, 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	err := log.Append(context.Background(), sampleEntry("bob", time.Now()))
	if !errors.Is(err, quiz.ErrUnexpectedHeader) {
		t.Fatalf("expected ErrUnexpectedHeader, got %v", err)
	}

	after, readErr := os.ReadFile(log.Path())
	if readErr != nil {
		t.Fatalf("ReadFile failed: %v", readErr)
	}
	if string(after) != string(original) {
		t.Fatalf("file modified after failed append: %q", after)
	}
}

func TestAppendFailsWhenDirectoryMissing(t *testing.T) {
	log := New(filepath.Join(t.TempDir(), "missing", "results.csv"))
	if err := log.Append(context.Background(), sampleEntry("alice", time.Now())); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestReadAllAcceptsLegacyRows(t *testing.T) {
	log := newTestLog(t)
	legacy := "Timestamp,User,Correct Count,Incorrect Count,Total Questions,Incorrect Details\n" +
		"2024-05-01T10:11:12.345678,carol,2,1,3,Q: a | A: b | Your: No answer\n"
	if err := os.WriteFile(log.Path(), []byte(legacy), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	entries, err := log.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 1 || entries[0].User != "carol" || entries[0].Timestamp.Year() != 2024 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	if err := log.Append(context.Background(), sampleEntry("dave", time.Now())); err != nil {
		t.Fatalf("Append to legacy file failed: %v", err)
	}
	entries, err = log.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 2 || entries[1].User != "dave" {
		t.Fatalf("unexpected entries after append: %+v", entries)
	}
}

func TestReadAllRejectsCorruptCounts(t *testing.T) {
	log := newTestLog(t)
	data := "Timestamp,User,Correct Count,Incorrect Count,Total Questions,Incorrect Details\n" +
		"2024-05-01T10:11:12Z,carol,two,1,3,\n"
	if err := os.WriteFile(log.Path(), []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := log.ReadAll(context.Background()); err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Fatalf("expected row 2 decode error, got %v", err)
	}
}

func TestAppendRoundTripsDetailsFromCarriageReturnCells(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()

	entry := sampleEntry("alice", time.Date(2025, 3, 14, 9, 26, 53, 123456000, time.UTC))
	entry.IncorrectDetails = quiz.FormatIncorrectDetails([]quiz.IncorrectDetail{
		{Question: "Cell with\r\nWindows break", CorrectAnswer: "x", UserAnswer: quiz.NoAnswer},
		{Question: "Cell with\rold break", CorrectAnswer: "y", UserAnswer: "z"},
	})

	if err := log.Append(ctx, entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	got, err := log.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	assertSameEntry(t, got[0], entry)
}
