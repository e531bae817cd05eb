package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mcquiz/internal/quiz"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(path)
		_ = os.Remove(path + "-journal")
	})
	return store
}

func TestStoreReadAllEmpty(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", entries)
	}
}

func TestStoreAppendThenReadAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 123).UTC()

	want := []quiz.HistoryEntry{
		{Timestamp: base, User: "alice", CorrectCount: 2, IncorrectCount: 1, TotalQuestions: 3, IncorrectDetails: "Q: a | A: b | Your: none"},
		{Timestamp: base.Add(-time.Hour), User: "bob", CorrectCount: 3, IncorrectCount: 0, TotalQuestions: 3},
	}
	for _, entry := range want {
		if err := store.Append(ctx, entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for idx := range want {
		if !got[idx].Timestamp.Equal(want[idx].Timestamp) {
			t.Fatalf("entry %d timestamp = %v, want %v", idx, got[idx].Timestamp, want[idx].Timestamp)
		}
		got[idx].Timestamp = want[idx].Timestamp
		if got[idx] != want[idx] {
			t.Fatalf("entry %d = %+v, want %+v", idx, got[idx], want[idx])
		}
	}
}

func TestStoreAppendHonorsCanceledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := store.Append(ctx, quiz.HistoryEntry{User: "alice", Timestamp: time.Now()}); err == nil {
		t.Fatalf("expected error for canceled context")
	}

	entries, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("canceled append left %d rows", len(entries))
	}
}
