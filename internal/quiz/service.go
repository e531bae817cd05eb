package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service ties loading, sessions and the results log together for a front
// end. It is not safe for concurrent use.
type Service struct {
	results  ResultsLog
	now      func() time.Time
	recorded map[string]struct{}
}

func NewService(results ResultsLog) *Service {
	return &Service{
		results:  results,
		now:      time.Now,
		recorded: make(map[string]struct{}),
	}
}

// LoadQuiz validates rows and returns a fresh, not-yet-started session. The
// report is returned even when no row was usable.
func (s *Service) LoadQuiz(rows [][]string) (LoadReport, *Session, error) {
	report := LoadRows(rows)
	session, err := NewSession(report.Questions)
	if err != nil {
		return report, nil, err
	}
	return report, session, nil
}

// Record appends the finished attempt held by session on behalf of user.
// An attempt is recorded at most once; Restart starts a new attempt.
func (s *Service) Record(ctx context.Context, session *Session, user string) (HistoryEntry, error) {
	if s.results == nil {
		return HistoryEntry{}, errors.New("results log is not configured")
	}

	summary, err := Summarize(session)
	if err != nil {
		return HistoryEntry{}, err
	}
	if _, done := s.recorded[session.ID()]; done {
		return HistoryEntry{}, ErrAlreadyRecorded
	}

	entry, err := NewHistoryEntry(user, summary, s.now().UTC().Truncate(time.Microsecond))
	if err != nil {
		return HistoryEntry{}, err
	}

	if err := s.results.Append(ctx, entry); err != nil {
		return HistoryEntry{}, fmt.Errorf("attempt not recorded: %w", err)
	}
	s.recorded[session.ID()] = struct{}{}
	return entry, nil
}

// Recorded reports whether the session's current attempt was already logged.
func (s *Service) Recorded(session *Session) bool {
	if session == nil {
		return false
	}
	_, done := s.recorded[session.ID()]
	return done
}

func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	if s.results == nil {
		return nil, errors.New("results log is not configured")
	}
	return s.results.ReadAll(ctx)
}
