// Package config reads service settings from the environment and an optional
// .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"mcquiz/internal/quiz"
	"mcquiz/internal/quiz/csvlog"
	"mcquiz/internal/quiz/postgres"
	"mcquiz/internal/quiz/sqlite"
)

const (
	BackendCSV      = "csv"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"

	defaultAddr           = ":8080"
	defaultMaxUploadBytes = 10 << 20
)

type Config struct {
	Addr           string
	ResultsBackend string
	ResultsPath    string
	DatabaseURL    string
	User           string
	MaxUploadBytes int64
}

// Load reads .env when present and then the process environment; values
// already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := Config{
		Addr:           getEnv("ADDR", defaultAddr),
		ResultsBackend: strings.ToLower(getEnv("RESULTS_BACKEND", BackendCSV)),
		ResultsPath:    getEnv("RESULTS_PATH", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		User:           getEnv("QUIZ_USER", ""),
		MaxUploadBytes: defaultMaxUploadBytes,
	}

	if raw := getEnv("MAX_UPLOAD_BYTES", ""); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || value <= 0 {
			return Config{}, errors.New("MAX_UPLOAD_BYTES must be a positive integer")
		}
		cfg.MaxUploadBytes = value
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.ResultsBackend {
	case BackendCSV, BackendSQLite:
		return nil
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required for the postgres results backend")
		}
		return nil
	default:
		return fmt.Errorf("unknown results backend %q", c.ResultsBackend)
	}
}

// OpenResultsLog opens the configured backend. The caller owns Close.
func OpenResultsLog(ctx context.Context, cfg Config) (quiz.ResultsLog, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.ResultsBackend {
	case BackendSQLite:
		log.Printf("[CONFIG] results backend=sqlite path=%s", orDefault(cfg.ResultsPath, sqlite.DefaultPath))
		return sqlite.NewStore(cfg.ResultsPath)
	case BackendPostgres:
		log.Printf("[CONFIG] results backend=postgres")
		return postgres.NewStore(ctx, cfg.DatabaseURL)
	default:
		store := csvlog.New(cfg.ResultsPath)
		log.Printf("[CONFIG] results backend=csv path=%s", store.Path())
		return store, nil
	}
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
