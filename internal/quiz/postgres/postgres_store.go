package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"mcquiz/internal/quiz"
)

// Store is a quiz.ResultsLog backed by a PostgreSQL table.
type Store struct {
	db *sql.DB
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	store := &Store{db: db}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS quiz_attempts (
		seq               BIGSERIAL PRIMARY KEY,
		attempt_id        UUID NOT NULL UNIQUE,
		recorded_at       TIMESTAMP WITH TIME ZONE NOT NULL,
		username          TEXT NOT NULL,
		correct_count     INTEGER NOT NULL,
		incorrect_count   INTEGER NOT NULL,
		total_questions   INTEGER NOT NULL,
		incorrect_details TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_quiz_attempts_username ON quiz_attempts(username);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Append is a single INSERT, which PostgreSQL commits atomically. The
// timestamp is stored at microsecond precision.
func (s *Store) Append(ctx context.Context, entry quiz.HistoryEntry) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO quiz_attempts (attempt_id, recorded_at, username, correct_count, incorrect_count, total_questions, incorrect_details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.NewString(),
		entry.Timestamp.UTC().Truncate(time.Microsecond),
		entry.User,
		entry.CorrectCount,
		entry.IncorrectCount,
		entry.TotalQuestions,
		entry.IncorrectDetails,
	)
	return err
}

func (s *Store) ReadAll(ctx context.Context) ([]quiz.HistoryEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT recorded_at, username, correct_count, incorrect_count, total_questions, incorrect_details
		 FROM quiz_attempts
		 ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]quiz.HistoryEntry, 0)
	for rows.Next() {
		var (
			entry      quiz.HistoryEntry
			recordedAt time.Time
		)
		if err := rows.Scan(&recordedAt, &entry.User, &entry.CorrectCount, &entry.IncorrectCount, &entry.TotalQuestions, &entry.IncorrectDetails); err != nil {
			return nil, err
		}
		entry.Timestamp = recordedAt.UTC()
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
