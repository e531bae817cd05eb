package quiz

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidUsername  = errors.New("invalid username")
	ErrUnexpectedHeader = errors.New("unexpected results log header")
	ErrAlreadyRecorded  = errors.New("attempt already recorded")
)

// HistoryTimeLayout is how front ends display HistoryEntry timestamps.
const HistoryTimeLayout = "2006-01-02 15:04:05"

// HistoryHeader is the fixed column layout of the results log.
var HistoryHeader = []string{
	"Timestamp",
	"User",
	"Correct Count",
	"Incorrect Count",
	"Total Questions",
	"Incorrect Details",
}

// HistoryEntry is one completed attempt as persisted by a ResultsLog.
type HistoryEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	User             string    `json:"user"`
	CorrectCount     int       `json:"correct_count"`
	IncorrectCount   int       `json:"incorrect_count"`
	TotalQuestions   int       `json:"total_questions"`
	IncorrectDetails string    `json:"incorrect_details"`
}

// NewHistoryEntry builds the entry for a finished attempt by user at ts.
func NewHistoryEntry(user string, summary Summary, ts time.Time) (HistoryEntry, error) {
	user, err := normalizeUsername(user)
	if err != nil {
		return HistoryEntry{}, err
	}
	return HistoryEntry{
		Timestamp:        ts,
		User:             user,
		CorrectCount:     summary.Correct,
		IncorrectCount:   summary.Incorrect,
		TotalQuestions:   summary.Total,
		IncorrectDetails: FormatIncorrectDetails(summary.IncorrectDetails),
	}, nil
}

// ResultsLog is an append-only store of attempts. Implementations must make
// each Append atomic: after a failed Append the store is unchanged. A single
// writer process is assumed.
type ResultsLog interface {
	Append(ctx context.Context, entry HistoryEntry) error
	// ReadAll returns entries in append order, or an empty slice when nothing
	// was ever appended.
	ReadAll(ctx context.Context) ([]HistoryEntry, error)
	Close() error
}

// UnknownUser is the placeholder name front ends show before a user is set.
// It is never recorded.
const UnknownUser = "Unknown"

func normalizeUsername(username string) (string, error) {
	normalized := strings.TrimSpace(username)
	if normalized == "" || normalized == UnknownUser {
		return "", ErrInvalidUsername
	}
	return normalized, nil
}
