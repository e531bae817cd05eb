package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"mcquiz/internal/config"
	"mcquiz/internal/httpapi"
	"mcquiz/internal/quiz"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[STARTUP] invalid configuration: %v", err)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	backend := flag.String("backend", cfg.ResultsBackend, "results backend: csv, sqlite or postgres")
	resultsPath := flag.String("results", cfg.ResultsPath, "results file for the csv or sqlite backend")
	dsn := flag.String("dsn", cfg.DatabaseURL, "postgres connection string")
	user := flag.String("user", cfg.User, "default user for recorded attempts")
	flag.Parse()

	cfg.Addr = *addr
	cfg.ResultsBackend = *backend
	cfg.ResultsPath = *resultsPath
	cfg.DatabaseURL = *dsn
	cfg.User = *user

	results, err := config.OpenResultsLog(context.Background(), cfg)
	if err != nil {
		log.Fatalf("[STARTUP] failed to open results log: %v", err)
	}
	defer results.Close()

	api := httpapi.NewAPI(quiz.NewService(results), cfg.MaxUploadBytes, cfg.User)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("[STARTUP] quiz-service listening on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("[STARTUP] server failed: %v", err)
	}
}
