package quiz

import "strings"

// Letters are the option labels, by position.
const Letters = "ABCD"

const OptionCount = len(Letters)

type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Question is one validated row of a quiz definition. Options always holds
// exactly four entries labeled A-D in order.
type Question struct {
	Text          string   `json:"question"`
	Options       []Option `json:"options"`
	CorrectLetter string   `json:"correct_letter"`
}

// OptionText returns the text of the option labeled letter, or "" when the
// letter does not name an option.
func (q Question) OptionText(letter string) string {
	idx := LetterIndex(letter)
	if idx < 0 || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx].Text
}

func (q Question) CorrectText() string {
	return q.OptionText(q.CorrectLetter)
}

func (q Question) clone() Question {
	options := make([]Option, len(q.Options))
	copy(options, q.Options)
	q.Options = options
	return q
}

func newQuestion(text string, optionTexts [OptionCount]string, correctLetter string) Question {
	options := make([]Option, OptionCount)
	for idx := range optionTexts {
		options[idx] = Option{
			Letter: string(Letters[idx]),
			Text:   optionTexts[idx],
		}
	}
	return Question{
		Text:          text,
		Options:       options,
		CorrectLetter: correctLetter,
	}
}

// LetterIndex maps A-D to 0-3 and anything else to -1.
func LetterIndex(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	return strings.IndexByte(Letters, letter[0])
}

// NormalizeLetter trims and uppercases an answer typed by a user. It returns
// "" unless the result is one of A-D.
func NormalizeLetter(answer string) string {
	letter := strings.ToUpper(strings.TrimSpace(answer))
	if LetterIndex(letter) < 0 {
		return ""
	}
	return letter
}

// StripQuotes removes exactly one layer of matching single or double quotes
// wrapping s. Unmatched or nested quotes beyond the first layer are kept.
func StripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first != last || (first != '"' && first != '\'') {
		return s
	}
	return s[1 : len(s)-1]
}

// NormalizeCorrectLetter applies the correct-letter cell rules: trim, strip
// one quote layer, uppercase. The result is not validated.
func NormalizeCorrectLetter(raw string) string {
	return strings.ToUpper(StripQuotes(strings.TrimSpace(raw)))
}
