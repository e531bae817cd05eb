package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mcquiz/internal/quiz"
)

// Append inserts one attempt row inside its own transaction; a failed insert
// rolls back and leaves the table as it was.
func (s *Store) Append(ctx context.Context, entry quiz.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO attempts (attempt_id, recorded_at_unix, username, correct_count, incorrect_count, total_questions, incorrect_details)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		entry.Timestamp.UTC().UnixNano(),
		entry.User,
		entry.CorrectCount,
		entry.IncorrectCount,
		entry.TotalQuestions,
		entry.IncorrectDetails,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) ReadAll(ctx context.Context) ([]quiz.HistoryEntry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT recorded_at_unix, username, correct_count, incorrect_count, total_questions, incorrect_details
		 FROM attempts
		 ORDER BY seq ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]quiz.HistoryEntry, 0)
	for rows.Next() {
		var (
			entry        quiz.HistoryEntry
			recordedAtNs int64
		)
		if err := rows.Scan(&recordedAtNs, &entry.User, &entry.CorrectCount, &entry.IncorrectCount, &entry.TotalQuestions, &entry.IncorrectDetails); err != nil {
			return nil, err
		}
		entry.Timestamp = time.Unix(0, recordedAtNs).UTC()
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
