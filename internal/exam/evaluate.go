package exam

import "strings"

// Evaluate compares a submitted answer to the canonical answer.
// The comparison is case-insensitive and ignores surrounding whitespace.
// No partial credit, no fuzzy matching; the same rule applies to every
// question type, including free-text fill_blank answers.
func Evaluate(submitted, canonical string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(canonical))
}
