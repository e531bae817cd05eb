package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"mcquiz/internal/quiz"
	"mcquiz/internal/quizfile"
)

type Config struct {
	QuizPath string
	User     string
	Results  quiz.ResultsLog
}

type app struct {
	service *quiz.Service
	session *quiz.Session
	reader  *bufio.Reader
	out     io.Writer
	user    string
	shown   string
}

var errQuit = errors.New("quit")

// Run loads the quiz at cfg.QuizPath and drives one session over in/out
// until the user quits or input ends.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	rows, err := quizfile.ReadFile(cfg.QuizPath)
	if err != nil {
		return err
	}

	service := quiz.NewService(cfg.Results)
	report, session, err := service.LoadQuiz(rows)
	printReport(out, cfg.QuizPath, report)
	if err != nil {
		return err
	}

	a := &app{
		service: service,
		session: session,
		reader:  bufio.NewReader(in),
		out:     out,
		user:    strings.TrimSpace(cfg.User),
	}

	fmt.Fprintln(out, "Press Enter to start. Commands: history, quit.")
	for {
		err := a.step(ctx)
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (a *app) step(ctx context.Context) error {
	switch a.session.Status() {
	case quiz.StatusNotStarted:
		return a.stepNotStarted(ctx)
	case quiz.StatusFinished:
		return a.stepFinished(ctx)
	default:
		if a.session.Resolved() {
			return a.stepFeedback(ctx)
		}
		return a.stepQuestion(ctx)
	}
}

func (a *app) stepNotStarted(ctx context.Context) error {
	command, err := a.readCommand("> ")
	if err != nil {
		return err
	}

	switch command {
	case "", "start":
		return a.session.Start()
	case "history":
		return a.printHistory(ctx)
	case "quit", "exit":
		return errQuit
	default:
		fmt.Fprintln(a.out, "Press Enter to start, or type history or quit.")
		return nil
	}
}

func (a *app) stepQuestion(ctx context.Context) error {
	question, err := a.session.CurrentQuestion()
	if err != nil {
		return err
	}
	printQuestion(a.out, a.session.Index()+1, question)

	for {
		command, err := a.readCommand("Answer (A-D, ? to show answer): ")
		if err != nil {
			return err
		}

		switch command {
		case "?":
			record, err := a.session.RevealAnswer()
			if err != nil {
				return err
			}
			printFeedback(a.out, record, true)
			return nil
		case "restart":
			return a.restart()
		case "history":
			if err := a.printHistory(ctx); err != nil {
				return err
			}
			continue
		case "quit", "exit":
			return errQuit
		}

		record, err := a.session.SubmitAnswer(command)
		if errors.Is(err, quiz.ErrInvalidLetter) {
			fmt.Fprintln(a.out, "Invalid input. Please enter a letter A-D, or ? to show the answer.")
			continue
		}
		if err != nil {
			return err
		}
		printFeedback(a.out, record, false)
		return nil
	}
}

func (a *app) stepFeedback(ctx context.Context) error {
	command, err := a.readCommand("Press Enter for the next question: ")
	if err != nil {
		return err
	}

	switch command {
	case "", "next":
		if err := a.session.Advance(); err != nil {
			return err
		}
		if a.session.Status() == quiz.StatusInProgress {
			correct, incorrect := a.session.Tally()
			fmt.Fprintf(a.out, "Remaining Questions: %d | Correct: %d | Incorrect: %d\n", a.session.Remaining(), correct, incorrect)
		}
		return nil
	case "restart":
		return a.restart()
	case "history":
		return a.printHistory(ctx)
	case "quit", "exit":
		return errQuit
	default:
		fmt.Fprintln(a.out, "Press Enter to continue, or type restart or quit.")
		return nil
	}
}

func (a *app) stepFinished(ctx context.Context) error {
	if a.shown != a.session.ID() {
		a.shown = a.session.ID()
		summary, err := quiz.Summarize(a.session)
		if err != nil {
			return err
		}
		printSummary(a.out, summary)
		a.record(ctx)
		fmt.Fprintln(a.out, "Commands: restart, history, quit.")
	}

	command, err := a.readCommand("> ")
	if err != nil {
		return err
	}

	switch command {
	case "restart":
		return a.restart()
	case "history":
		return a.printHistory(ctx)
	case "quit", "exit", "":
		return errQuit
	default:
		fmt.Fprintln(a.out, "Type restart, history or quit.")
		return nil
	}
}

func (a *app) record(ctx context.Context) {
	if a.user == "" {
		fmt.Fprintln(a.out, "User name not set. Results cannot be saved.")
		return
	}

	if _, err := a.service.Record(ctx, a.session, a.user); err != nil {
		log.Printf("[HISTORY] failed to record attempt for %s: %v", a.user, err)
		fmt.Fprintln(a.out, "Quiz results could not be saved.")
		return
	}
	fmt.Fprintln(a.out, "Quiz results recorded.")
}

func (a *app) restart() error {
	if err := a.session.Restart(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "\nRestarting quiz with %d questions.\n", a.session.Total())
	return nil
}

func (a *app) printHistory(ctx context.Context) error {
	entries, err := a.service.History(ctx)
	if err != nil {
		log.Printf("[HISTORY] failed to read results: %v", err)
		fmt.Fprintln(a.out, "Past quiz results could not be loaded.")
		return nil
	}
	printHistory(a.out, entries)
	return nil
}

func (a *app) readCommand(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	line, err := a.reader.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(line)), nil
}

func printReport(out io.Writer, path string, report quiz.LoadReport) {
	for _, skipped := range report.Skipped {
		fmt.Fprintf(out, "warning: %s, skipping question\n", skipped.Error())
	}
	fmt.Fprintf(out, "%s: %s\n", path, report)
}

func printQuestion(out io.Writer, number int, question quiz.Question) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Q%d: %s\n\n", number, question.Text)
	for _, option := range question.Options {
		fmt.Fprintf(out, "%s: %s\n", option.Letter, option.Text)
	}
	fmt.Fprintln(out)
}

func printFeedback(out io.Writer, record quiz.AnswerRecord, revealed bool) {
	fmt.Fprintln(out)
	switch {
	case revealed:
	case record.Correct():
		fmt.Fprintln(out, "Correct!")
	default:
		fmt.Fprintln(out, "Incorrect.")
	}
	fmt.Fprintf(out, "Correct Answer: %s\n", record.Question.CorrectText())
}

func printSummary(out io.Writer, summary quiz.Summary) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Quiz Completed!")
	fmt.Fprintf(out, "Total Questions: %d\n", summary.Total)
	fmt.Fprintf(out, "Correct Answers: %d / %d\n", summary.Correct, summary.Total)
	fmt.Fprintf(out, "Incorrect Answers: %d / %d\n", summary.Incorrect, summary.Total)
	fmt.Fprintf(out, "Score: %.2f%%\n", summary.Percent())

	if len(summary.IncorrectDetails) == 0 {
		return
	}

	fmt.Fprintln(out, "\nReview Incorrect Questions:")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Question\tCorrect Answer\tYour Answer")
	for _, item := range summary.IncorrectDetails {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", item.Question, item.CorrectAnswer, item.UserAnswer)
	}
	_ = tw.Flush()
}

func printHistory(out io.Writer, entries []quiz.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No past quiz results found.")
		return
	}

	fmt.Fprintln(out, "All Past Quiz Results")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(quiz.HistoryHeader, "\t"))
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			entry.Timestamp.Local().Format(quiz.HistoryTimeLayout),
			entry.User,
			entry.CorrectCount,
			entry.IncorrectCount,
			entry.TotalQuestions,
			entry.IncorrectDetails,
		)
	}
	_ = tw.Flush()
}
