package exam

import (
	"fmt"
	"regexp"
	"strings"
)

// QuestionType describes how a question is presented and answered.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeFillBlank      QuestionType = "fill_blank"
	TypeListening      QuestionType = "listening"
	TypeTrueFalse      QuestionType = "true_false"
)

// Category is one of the four fixed exam sections. The values carry the
// German section names because they double as display labels and as the
// enum sent to the generation provider.
type Category string

const (
	CategoryListening  Category = "Listening (Hören)"
	CategoryReading    Category = "Reading (Lesen)"
	CategoryGrammar    Category = "Grammar (Grammatik)"
	CategoryVocabulary Category = "Vocabulary (Wortschatz)"
)

// Categories lists the sections in presentation order. The composer merges
// generated questions in exactly this order.
var Categories = []Category{
	CategoryListening,
	CategoryReading,
	CategoryGrammar,
	CategoryVocabulary,
}

// TrueFalseOptions is the fixed option pair used when a generator omits
// options on a true_false question.
var TrueFalseOptions = []string{"Richtig", "Falsch"}

// Question is a single exam question as produced by the generation
// capability and consumed by the session controller.
type Question struct {
	ID           string       `json:"id"`
	Type         QuestionType `json:"type"`
	Category     Category     `json:"category"`
	QuestionText string       `json:"questionText"`

	// Options is present for multiple_choice, listening and true_false
	// questions and absent for fill_blank.
	Options []string `json:"options,omitempty"`

	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`

	// ListeningScript is the German text spoken aloud. Set iff Type is
	// TypeListening.
	ListeningScript string `json:"listeningScript,omitempty"`

	// ContextText is a short reading passage (email, note, ad, sign).
	ContextText string `json:"contextText,omitempty"`

	// ImageDescription is a prompt for an on-demand illustration, used by
	// image-grounded vocabulary questions.
	ImageDescription string `json:"imageDescription,omitempty"`
}

// NeedsOptions reports whether this question type requires a non-empty
// option list.
func (t QuestionType) NeedsOptions() bool {
	switch t {
	case TypeMultipleChoice, TypeListening, TypeTrueFalse:
		return true
	}
	return false
}

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TypeMultipleChoice, TypeFillBlank, TypeListening, TypeTrueFalse:
		return true
	}
	return false
}

// Short returns the English half of the category label, e.g. "Listening".
func (c Category) Short() string {
	if i := strings.Index(string(c), " ("); i > 0 {
		return string(c)[:i]
	}
	return string(c)
}

// German returns the German half of the category label, e.g. "Hören".
func (c Category) German() string {
	s := string(c)
	start := strings.Index(s, "(")
	end := strings.Index(s, ")")
	if start >= 0 && end > start {
		return s[start+1 : end]
	}
	return s
}

var phonePattern = regexp.MustCompile(`^\+?[\d\s-]{8,}$`)

// UserInfo holds the details collected before the result screen.
// Immutable once attached to a completed session.
type UserInfo struct {
	Name           string
	NativeLanguage string
	Phone          string
}

// Validate checks the user info the same way the sign-up form does:
// every field required, phone loosely matched as digits with separators.
func (u UserInfo) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(u.NativeLanguage) == "" {
		return fmt.Errorf("native language is required")
	}
	phone := strings.TrimSpace(u.Phone)
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}
	if !phonePattern.MatchString(phone) {
		return fmt.Errorf("invalid phone number %q", u.Phone)
	}
	return nil
}
