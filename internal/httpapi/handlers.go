package httpapi

import (
	"fmt"
	"log"
	"mime"
	"net/http"
	"strings"

	"mcquiz/internal/quiz"
)

func (a *API) HandleLoadQuiz(w http.ResponseWriter, r *http.Request) {
	rows, err := a.readUpload(w, r)
	if err != nil {
		writeUploadError(w, err, a.maxUploadBytes)
		return
	}

	report, session, err := a.service.LoadQuiz(rows)
	warnings := warningsOf(report)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: report.String(), Warnings: warnings})
		return
	}

	sessionID := a.replace(session)
	log.Printf("[LOAD] session=%s %s", sessionID, report)

	writeJSON(w, http.StatusCreated, loadResponse{
		SessionID: sessionID,
		Loaded:    report.Loaded(),
		Skipped:   report.SkippedCount(),
		Report:    report.String(),
		Warnings:  warnings,
	})
}

func (a *API) readUpload(w http.ResponseWriter, r *http.Request) ([][]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadBytes)
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()

		format, err := uploadFormat(r, header.Filename)
		if err != nil {
			return nil, err
		}
		return readQuizFile(file, format)
	}

	format, err := uploadFormat(r, "")
	if err != nil {
		return nil, err
	}
	return readQuizFile(r.Body, format)
}

func (a *API) HandleStart(w http.ResponseWriter, r *http.Request) {
	a.handleSessionAction(w, r, func(session *quiz.Session, _ sessionRequest) error {
		return session.Start()
	})
}

func (a *API) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	a.handleSessionAction(w, r, func(*quiz.Session, sessionRequest) error {
		return nil
	})
}

func (a *API) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	a.handleSessionAction(w, r, func(session *quiz.Session, request sessionRequest) error {
		_, err := session.SubmitAnswer(request.Letter)
		return err
	})
}

func (a *API) HandleReveal(w http.ResponseWriter, r *http.Request) {
	a.handleSessionAction(w, r, func(session *quiz.Session, _ sessionRequest) error {
		_, err := session.RevealAnswer()
		return err
	})
}

func (a *API) HandleNext(w http.ResponseWriter, r *http.Request) {
	a.handleSessionAction(w, r, func(session *quiz.Session, _ sessionRequest) error {
		return session.Advance()
	})
}

func (a *API) HandleRestart(w http.ResponseWriter, r *http.Request) {
	a.handleSessionAction(w, r, func(session *quiz.Session, _ sessionRequest) error {
		return session.Restart()
	})
}

// handleSessionAction runs action against the current session and responds
// with the resulting state.
func (a *API) handleSessionAction(w http.ResponseWriter, r *http.Request, action func(*quiz.Session, sessionRequest) error) {
	request, err := decodeSessionRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var response stateResponse
	err = a.withSession(request.SessionID, func(session *quiz.Session) error {
		if err := action(session, request); err != nil {
			return err
		}
		response = toStateResponse(request.SessionID, session)
		return nil
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleSummary(w http.ResponseWriter, r *http.Request) {
	request, err := decodeSessionRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var response summaryResponse
	err = a.withSession(request.SessionID, func(session *quiz.Session) error {
		summary, err := quiz.Summarize(session)
		if err != nil {
			return err
		}
		response = summaryResponse{
			Summary:  summary,
			Percent:  summary.Percent(),
			Recorded: a.service.Recorded(session),
		}
		return nil
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (a *API) HandleRecord(w http.ResponseWriter, r *http.Request) {
	request, err := decodeSessionRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	user := strings.TrimSpace(request.User)
	if user == "" {
		user = a.defaultUser
	}

	var entry quiz.HistoryEntry
	err = a.withSession(request.SessionID, func(session *quiz.Session) error {
		entry, err = a.service.Record(r.Context(), session, user)
		return err
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("[HISTORY] recorded attempt user=%s score=%d/%d", entry.User, entry.CorrectCount, entry.TotalQuestions)
	writeJSON(w, http.StatusCreated, entry)
}

func (a *API) HandleHistory(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	entries, err := a.service.History(r.Context())
	a.mu.Unlock()
	if err != nil {
		writeServiceError(w, fmt.Errorf("failed to read history: %w", err))
		return
	}
	response := historyResponse{Entries: make([]historyEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		response.Entries = append(response.Entries, historyEntryResponse{
			HistoryEntry: entry,
			RecordedAt:   entry.Timestamp.Local().Format(quiz.HistoryTimeLayout),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
