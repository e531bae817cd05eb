package httpapi

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"mcquiz/internal/quiz"
)

var (
	ErrNoQuiz       = errors.New("no quiz loaded")
	ErrStaleSession = errors.New("session was replaced by a newer quiz")
	ErrNoSessionID  = errors.New("session_id is required")
)

// API holds the single loaded quiz. Every session call is serialized on mu,
// and a call naming any session other than the current one is rejected.
type API struct {
	service        *quiz.Service
	maxUploadBytes int64
	defaultUser    string

	mu        sync.Mutex
	sessionID string
	session   *quiz.Session
}

func NewAPI(service *quiz.Service, maxUploadBytes int64, defaultUser string) *API {
	return &API{
		service:        service,
		maxUploadBytes: maxUploadBytes,
		defaultUser:    strings.TrimSpace(defaultUser),
	}
}

// replace installs a freshly loaded session and returns its handle id.
// The previous session, if any, is discarded unrecorded.
func (a *API) replace(session *quiz.Session) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.session = session
	a.sessionID = uuid.NewString()
	return a.sessionID
}

func (a *API) withSession(id string, fn func(*quiz.Session) error) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNoSessionID
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session == nil {
		return ErrNoQuiz
	}
	if id != a.sessionID {
		return ErrStaleSession
	}
	return fn(a.session)
}
