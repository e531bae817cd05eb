package httpapi

import "mcquiz/internal/quiz"

type sessionRequest struct {
	SessionID string `json:"session_id"`
	Letter    string `json:"letter,omitempty"`
	User      string `json:"user,omitempty"`
}

type loadResponse struct {
	SessionID string   `json:"session_id"`
	Loaded    int      `json:"loaded"`
	Skipped   int      `json:"skipped"`
	Report    string   `json:"report"`
	Warnings  []string `json:"warnings,omitempty"`
}

type questionResponse struct {
	Number   int           `json:"number"`
	Question string        `json:"question"`
	Options  []quiz.Option `json:"options"`
}

type answerResponse struct {
	Question       string `json:"question"`
	SelectedLetter string `json:"selected_letter,omitempty"`
	CorrectLetter  string `json:"correct_letter"`
	CorrectAnswer  string `json:"correct_answer"`
	Outcome        string `json:"outcome"`
	Revealed       bool   `json:"revealed"`
}

type stateResponse struct {
	SessionID  string            `json:"session_id"`
	AttemptID  string            `json:"attempt_id"`
	Status     string            `json:"status"`
	Index      int               `json:"index"`
	Total      int               `json:"total"`
	Remaining  int               `json:"remaining"`
	Correct    int               `json:"correct_count"`
	Incorrect  int               `json:"incorrect_count"`
	Question   *questionResponse `json:"question,omitempty"`
	LastAnswer *answerResponse   `json:"last_answer,omitempty"`
}

type summaryResponse struct {
	quiz.Summary
	Percent  float64 `json:"percent"`
	Recorded bool    `json:"recorded"`
}

type historyEntryResponse struct {
	quiz.HistoryEntry
	RecordedAt string `json:"recorded_at"`
}

type historyResponse struct {
	Entries []historyEntryResponse `json:"entries"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Warnings []string `json:"warnings,omitempty"`
}
