package httpapi

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const maxLoggedErrorBytes = 512

func NewRouter(api *API) http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/quiz", api.HandleLoadQuiz).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/start", api.HandleStart).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/question", api.HandleQuestion).Methods(http.MethodGet)
	v1.HandleFunc("/quiz/answer", api.HandleAnswer).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/reveal", api.HandleReveal).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/next", api.HandleNext).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/restart", api.HandleRestart).Methods(http.MethodPost)
	v1.HandleFunc("/quiz/summary", api.HandleSummary).Methods(http.MethodGet)
	v1.HandleFunc("/quiz/record", api.HandleRecord).Methods(http.MethodPost)
	v1.HandleFunc("/history", api.HandleHistory).Methods(http.MethodGet)

	r.HandleFunc("/health", HandleHealth).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}

// statusRecorder captures the status and size of a response, and keeps up
// to maxLogBytes of the body for logging failed requests.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	logBody      bytes.Buffer
	maxLogBytes  int
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n

	if room := r.maxLogBytes - r.logBody.Len(); room > 0 {
		if len(p) > room {
			r.logBody.Write(p[:room])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}
	return n, err
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxLoggedErrorBytes,
		}

		next.ServeHTTP(recorder, req)

		elapsed := time.Since(start).Round(time.Millisecond)
		if recorder.statusCode < http.StatusBadRequest {
			log.Printf("[HTTP] %s %s -> %d (%d bytes, %s)", req.Method, req.URL.Path, recorder.statusCode, recorder.bytesWritten, elapsed)
			return
		}

		body := bytes.TrimSpace(recorder.logBody.Bytes())
		suffix := ""
		if recorder.truncated {
			suffix = "..."
		}
		log.Printf("[HTTP] %s %s -> %d (%d bytes, %s): %s%s", req.Method, req.URL.Path, recorder.statusCode, recorder.bytesWritten, elapsed, body, suffix)
	})
}
