package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mcquiz/internal/cli"
	"mcquiz/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	file := flag.String("file", "", "quiz file to load (.csv or .xlsx)")
	user := flag.String("user", cfg.User, "user name recorded with results")
	backend := flag.String("backend", cfg.ResultsBackend, "results backend: csv, sqlite or postgres")
	resultsPath := flag.String("results", cfg.ResultsPath, "results file for the csv or sqlite backend")
	dsn := flag.String("dsn", cfg.DatabaseURL, "postgres connection string")
	flag.Parse()

	quizPath := *file
	if quizPath == "" && flag.NArg() > 0 {
		quizPath = flag.Arg(0)
	}
	if quizPath == "" {
		flag.Usage()
		return fmt.Errorf("a quiz file is required")
	}

	cfg.ResultsBackend = *backend
	cfg.ResultsPath = *resultsPath
	cfg.DatabaseURL = *dsn

	ctx := context.Background()
	results, err := config.OpenResultsLog(ctx, cfg)
	if err != nil {
		return err
	}
	defer results.Close()

	return cli.Run(ctx, os.Stdin, os.Stdout, cli.Config{
		QuizPath: quizPath,
		User:     *user,
		Results:  results,
	})
}
