package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"mcquiz/internal/quiz"
	"mcquiz/internal/quizfile"
)

var errUnreadableFile = errors.New("quiz file could not be read")

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoQuiz):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no quiz loaded"})
	case errors.Is(err, ErrStaleSession),
		errors.Is(err, quiz.ErrInvalidTransition),
		errors.Is(err, quiz.ErrAlreadyAnswered),
		errors.Is(err, quiz.ErrNotYetAnswered),
		errors.Is(err, quiz.ErrOutOfRange),
		errors.Is(err, quiz.ErrNotFinished),
		errors.Is(err, quiz.ErrAlreadyRecorded):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, ErrNoSessionID),
		errors.Is(err, quiz.ErrInvalidLetter),
		errors.Is(err, quiz.ErrInvalidUsername),
		errors.Is(err, quiz.ErrNoQuestions),
		errors.Is(err, quizfile.ErrUnsupportedFormat),
		errors.Is(err, quizfile.ErrEmptyFile),
		errors.Is(err, errUnreadableFile):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Printf("[HTTP] request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func writeUploadError(w http.ResponseWriter, err error, limit int64) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: fmt.Sprintf("quiz file exceeds %d bytes", limit)})
	case errors.Is(err, http.ErrMissingFile):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "file field is required"})
	default:
		writeServiceError(w, err)
	}
}

// decodeSessionRequest reads the JSON body when there is one. A session_id
// query parameter fills in for a missing body field.
func decodeSessionRequest(r *http.Request) (sessionRequest, error) {
	var request sessionRequest
	if r.Body != nil && r.Method != http.MethodGet {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
			return sessionRequest{}, errors.New("invalid JSON body")
		}
	}
	if strings.TrimSpace(request.SessionID) == "" {
		request.SessionID = r.URL.Query().Get("session_id")
	}
	return request, nil
}

// uploadFormat resolves the file format from ?format, then the uploaded file
// name, then the request Content-Type.
func uploadFormat(r *http.Request, filename string) (quizfile.Format, error) {
	if value := r.URL.Query().Get("format"); value != "" {
		return quizfile.ParseFormat(value)
	}
	if filename != "" {
		return quizfile.FormatFromName(filename)
	}

	switch contentType := strings.ToLower(r.Header.Get("Content-Type")); {
	case strings.HasPrefix(contentType, "text/csv"):
		return quizfile.FormatCSV, nil
	case strings.HasPrefix(contentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
		return quizfile.FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: pass ?format=csv or ?format=xlsx", quizfile.ErrUnsupportedFormat)
	}
}

// readQuizFile keeps the quizfile sentinels and the body size error intact
// and reports any other parse failure as an unreadable file.
func readQuizFile(r io.Reader, format quizfile.Format) ([][]string, error) {
	rows, err := quizfile.Read(r, format)
	if err == nil {
		return rows, nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, quizfile.ErrEmptyFile) || errors.Is(err, quizfile.ErrUnsupportedFormat) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %v", errUnreadableFile, err)
}

func warningsOf(report quiz.LoadReport) []string {
	if len(report.Skipped) == 0 {
		return nil
	}
	warnings := make([]string, 0, len(report.Skipped))
	for _, skipped := range report.Skipped {
		warnings = append(warnings, skipped.Error())
	}
	return warnings
}

func toStateResponse(sessionID string, session *quiz.Session) stateResponse {
	correct, incorrect := session.Tally()
	response := stateResponse{
		SessionID: sessionID,
		AttemptID: session.ID(),
		Status:    session.Status().String(),
		Index:     session.Index(),
		Total:     session.Total(),
		Remaining: session.Remaining(),
		Correct:   correct,
		Incorrect: incorrect,
	}

	if question, err := session.CurrentQuestion(); err == nil {
		response.Question = &questionResponse{
			Number:   session.Index() + 1,
			Question: question.Text,
			Options:  question.Options,
		}
	}
	if session.Resolved() {
		if record, ok := session.LastRecord(); ok {
			answer := toAnswerResponse(record)
			response.LastAnswer = &answer
		}
	}
	return response
}

func toAnswerResponse(record quiz.AnswerRecord) answerResponse {
	return answerResponse{
		Question:       record.Question.Text,
		SelectedLetter: record.SelectedLetter,
		CorrectLetter:  record.Question.CorrectLetter,
		CorrectAnswer:  record.Question.CorrectText(),
		Outcome:        record.Outcome.String(),
		Revealed:       record.Revealed,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
