package exam

import "fmt"

// Normalize checks a generator-produced question against the schema
// invariants and fills the one defaulted field the generators are known
// to omit: the fixed Richtig/Falsch pair on true_false questions.
//
// A non-nil error means the question is malformed and must be dropped at
// the boundary rather than entering the session.
func Normalize(q *Question) error {
	if q == nil {
		return fmt.Errorf("nil question")
	}
	if !q.Type.Valid() {
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	if q.QuestionText == "" {
		return fmt.Errorf("empty question text")
	}
	if q.CorrectAnswer == "" {
		return fmt.Errorf("empty correct answer")
	}

	if q.Type == TypeTrueFalse && len(q.Options) == 0 {
		q.Options = append([]string(nil), TrueFalseOptions...)
	}

	if q.Type.NeedsOptions() {
		if len(q.Options) == 0 {
			return fmt.Errorf("type %s requires options", q.Type)
		}
		if !answerInOptions(q.CorrectAnswer, q.Options) {
			return fmt.Errorf("correct answer %q not among options", q.CorrectAnswer)
		}
	} else {
		// fill_blank is free text; a stray option list is dropped.
		q.Options = nil
	}

	if q.Type == TypeListening && q.ListeningScript == "" {
		return fmt.Errorf("listening question without script")
	}

	return nil
}

// answerInOptions matches with the same tolerance the evaluator uses, so a
// question is only accepted when submitting the rendered option would score.
func answerInOptions(answer string, options []string) bool {
	for _, o := range options {
		if Evaluate(o, answer) {
			return true
		}
	}
	return false
}
