package quiz

import "strings"

// NoAnswer stands in for the user's answer when a question was revealed.
const NoAnswer = "none"

type IncorrectDetail struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
}

type Summary struct {
	Correct          int               `json:"correct_count"`
	Incorrect        int               `json:"incorrect_count"`
	Total            int               `json:"total"`
	IncorrectDetails []IncorrectDetail `json:"incorrect_details"`
}

// Percent is the share of correct answers in [0, 100].
func (s Summary) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// Summarize reduces a finished session. It does not modify the session and
// returns the same Summary on every call until the session is restarted.
func Summarize(session *Session) (Summary, error) {
	if session == nil || session.status != StatusFinished {
		return Summary{}, ErrNotFinished
	}

	summary := Summary{
		Total:            len(session.questions),
		IncorrectDetails: make([]IncorrectDetail, 0),
	}

	for _, record := range session.records {
		if record.Correct() {
			summary.Correct++
			continue
		}

		userAnswer := NoAnswer
		if record.SelectedLetter != "" {
			userAnswer = record.Question.OptionText(record.SelectedLetter)
		}
		summary.IncorrectDetails = append(summary.IncorrectDetails, IncorrectDetail{
			Question:      record.Question.Text,
			CorrectAnswer: record.Question.CorrectText(),
			UserAnswer:    userAnswer,
		})
	}
	summary.Incorrect = summary.Total - summary.Correct

	return summary, nil
}

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// FormatIncorrectDetails renders details as the single text field stored in
// the results log. Line endings are normalized to "\n".
func FormatIncorrectDetails(details []IncorrectDetail) string {
	parts := make([]string, 0, len(details))
	for _, item := range details {
		parts = append(parts, "Q: "+item.Question+" | A: "+item.CorrectAnswer+" | Your: "+item.UserAnswer)
	}
	return lineEndings.Replace(strings.Join(parts, "; "))
}
