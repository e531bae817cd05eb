package quiz

import (
	"fmt"
	"strings"
)

const (
	colQuestion = iota
	colOptionA
	colOptionB
	colOptionC
	colOptionD
	colCorrectLetter

	requiredColumns
)

// LoadReport is the outcome of Load. Skipped rows never produce a Question.
type LoadReport struct {
	Questions []Question
	Skipped   []RowError
}

func (r LoadReport) Loaded() int {
	return len(r.Questions)
}

func (r LoadReport) SkippedCount() int {
	return len(r.Skipped)
}

func (r LoadReport) String() string {
	return fmt.Sprintf("%d questions loaded, %d rows skipped.", r.Loaded(), r.SkippedCount())
}

// Load turns raw tabular rows into questions. The first row is a header and
// is always dropped. Cells past the sixth column are ignored.
func Load(rows [][]string) ([]Question, []RowError) {
	if len(rows) == 0 {
		return []Question{}, []RowError{}
	}

	questions := make([]Question, 0, len(rows)-1)
	skipped := make([]RowError, 0)

	for idx, row := range rows[1:] {
		question, reason := parseRow(row)
		if reason != "" {
			skipped = append(skipped, RowError{Row: idx + 2, Reason: reason})
			continue
		}
		questions = append(questions, question)
	}

	return questions, skipped
}

// LoadRows is Load wrapped into a LoadReport.
func LoadRows(rows [][]string) LoadReport {
	questions, skipped := Load(rows)
	return LoadReport{Questions: questions, Skipped: skipped}
}

func parseRow(row []string) (Question, string) {
	if len(row) < requiredColumns {
		return Question{}, fmt.Sprintf("expected at least %d cells, got %d", requiredColumns, len(row))
	}

	raw := row[colCorrectLetter]
	letter := NormalizeCorrectLetter(raw)
	idx := LetterIndex(letter)
	if idx < 0 {
		return Question{}, fmt.Sprintf("invalid correct answer letter %q (parsed as %q)", raw, letter)
	}

	text := row[colQuestion]
	if strings.TrimSpace(text) == "" {
		return Question{}, "empty question text"
	}

	options := [OptionCount]string{
		row[colOptionA],
		row[colOptionB],
		row[colOptionC],
		row[colOptionD],
	}
	if strings.TrimSpace(options[idx]) == "" {
		return Question{}, fmt.Sprintf("correct answer %s points at an empty option", letter)
	}

	return newQuestion(text, options, letter), ""
}
