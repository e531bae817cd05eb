package quiz

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedRow      = errors.New("malformed row")
	ErrNoQuestions       = errors.New("no valid questions")
	ErrInvalidTransition = errors.New("invalid session transition")
	ErrAlreadyAnswered   = errors.New("question already answered")
	ErrNotYetAnswered    = errors.New("question not yet answered")
	ErrOutOfRange        = errors.New("question index out of range")
	ErrNotFinished       = errors.New("session not finished")
	ErrInvalidLetter     = errors.New("letter must be one of A, B, C, D")
)

// RowError describes one skipped input row. Row is the 1-based position in
// the input, counting the header as row 1.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func (e *RowError) Unwrap() error {
	return ErrMalformedRow
}
