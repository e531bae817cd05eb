package quiz

import (
	"fmt"

	"github.com/google/uuid"
)

type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusFinished
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInProgress:
		return "in_progress"
	case StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

type Outcome int

const (
	OutcomeCorrect Outcome = iota + 1
	OutcomeIncorrect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

// AnswerRecord is the single resolution of one question. SelectedLetter is ""
// when the answer was revealed.
type AnswerRecord struct {
	Question       Question
	SelectedLetter string
	Outcome        Outcome
	Revealed       bool
}

func (r AnswerRecord) Correct() bool {
	return r.Outcome == OutcomeCorrect
}

// Session is one attempt over a fixed question list. It is owned by a single
// caller and is not safe for concurrent use.
//
// Invariants:
//   - len(records) == index, or index+1 while the current question is
//     resolved but not yet advanced past.
//   - index == len(questions) only when status is StatusFinished.
type Session struct {
	id        string
	questions []Question
	index     int
	records   []AnswerRecord
	status    Status
}

// NewSession copies questions so later changes by the caller cannot leak in.
func NewSession(questions []Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	owned := make([]Question, len(questions))
	for idx, question := range questions {
		owned[idx] = question.clone()
	}

	return &Session{
		id:        uuid.NewString(),
		questions: owned,
		records:   make([]AnswerRecord, 0, len(owned)),
		status:    StatusNotStarted,
	}, nil
}

// ID identifies the current attempt. It changes on Restart.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) Status() Status {
	return s.status
}

// Index is the position of the current question.
func (s *Session) Index() int {
	return s.index
}

func (s *Session) Total() int {
	return len(s.questions)
}

// Remaining counts questions not yet advanced past, the current one included.
func (s *Session) Remaining() int {
	return len(s.questions) - s.index
}

func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	for idx, question := range s.questions {
		out[idx] = question.clone()
	}
	return out
}

func (s *Session) Records() []AnswerRecord {
	out := make([]AnswerRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Resolved reports whether the current question already has a record.
func (s *Session) Resolved() bool {
	return len(s.records) > s.index
}

// LastRecord returns the record of the current question when it is resolved,
// or of the last question once the session is finished.
func (s *Session) LastRecord() (AnswerRecord, bool) {
	if len(s.records) == 0 {
		return AnswerRecord{}, false
	}
	return s.records[len(s.records)-1], true
}

// Tally returns the running counts over resolved questions.
func (s *Session) Tally() (correct, incorrect int) {
	for _, record := range s.records {
		if record.Correct() {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}

func (s *Session) Start() error {
	if s.status != StatusNotStarted {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.status)
	}
	s.status = StatusInProgress
	return nil
}

func (s *Session) CurrentQuestion() (Question, error) {
	if err := s.requireInProgress("current question"); err != nil {
		return Question{}, err
	}
	if s.index >= len(s.questions) {
		return Question{}, ErrOutOfRange
	}
	return s.questions[s.index].clone(), nil
}

func (s *Session) SubmitAnswer(letter string) (AnswerRecord, error) {
	question, err := s.resolvable("submit answer")
	if err != nil {
		return AnswerRecord{}, err
	}

	normalized := NormalizeLetter(letter)
	if normalized == "" {
		return AnswerRecord{}, fmt.Errorf("%w: got %q", ErrInvalidLetter, letter)
	}

	outcome := OutcomeIncorrect
	if normalized == question.CorrectLetter {
		outcome = OutcomeCorrect
	}

	record := AnswerRecord{
		Question:       question,
		SelectedLetter: normalized,
		Outcome:        outcome,
	}
	s.records = append(s.records, record)
	return record, nil
}

// RevealAnswer resolves the current question as incorrect with no selection.
func (s *Session) RevealAnswer() (AnswerRecord, error) {
	question, err := s.resolvable("reveal answer")
	if err != nil {
		return AnswerRecord{}, err
	}

	record := AnswerRecord{
		Question: question,
		Outcome:  OutcomeIncorrect,
		Revealed: true,
	}
	s.records = append(s.records, record)
	return record, nil
}

func (s *Session) Advance() error {
	if err := s.requireInProgress("advance"); err != nil {
		return err
	}
	if s.index >= len(s.questions) {
		return ErrOutOfRange
	}
	if !s.Resolved() {
		return ErrNotYetAnswered
	}

	s.index++
	if s.index == len(s.questions) {
		s.status = StatusFinished
	}
	return nil
}

// Restart begins a new attempt over the same questions.
func (s *Session) Restart() error {
	if s.status != StatusInProgress && s.status != StatusFinished {
		return fmt.Errorf("%w: restart from %s", ErrInvalidTransition, s.status)
	}
	s.id = uuid.NewString()
	s.index = 0
	s.records = make([]AnswerRecord, 0, len(s.questions))
	s.status = StatusInProgress
	return nil
}

func (s *Session) resolvable(op string) (Question, error) {
	if err := s.requireInProgress(op); err != nil {
		return Question{}, err
	}
	if s.index >= len(s.questions) {
		return Question{}, ErrOutOfRange
	}
	if s.Resolved() {
		return Question{}, ErrAlreadyAnswered
	}
	return s.questions[s.index].clone(), nil
}

func (s *Session) requireInProgress(op string) error {
	if s.status != StatusInProgress {
		return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, s.status)
	}
	return nil
}
