// Package session owns the exam state machine: generation, the
// per-question answer loop, info collection and completion.
package session

import (
	"maps"
	"slices"

	"sprachtest/internal/exam"
)

// Status is the lifecycle state of an exam session.
type Status string

const (
	StatusIdle           Status = "idle"
	StatusLoading        Status = "loading"
	StatusActive         Status = "active"
	StatusCollectingInfo Status = "collecting_info"
	StatusCompleted      Status = "completed"
	StatusError          Status = "error"
)

// Snapshot is an immutable view of the session at one point in time.
// Transitions produce a new snapshot; callers never mutate one.
type Snapshot struct {
	SessionID string
	Status    Status

	Questions    []exam.Question
	CurrentIndex int
	Answers      map[string]string
	Score        int

	UserInfo *exam.UserInfo

	// Warning carries non-fatal problems (partial generation, failed
	// result submission). Empty when everything went fine.
	Warning string

	// ErrMsg is the user-facing message when Status is StatusError.
	ErrMsg string
}

// CurrentQuestion returns the question being answered, or nil when the
// session is not active or the index has run past the end.
func (s Snapshot) CurrentQuestion() *exam.Question {
	if s.Status != StatusActive {
		return nil
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// Total returns the number of questions in this run.
func (s Snapshot) Total() int {
	return len(s.Questions)
}

// Percentage returns the rounded score percentage, 0 for an empty run.
func (s Snapshot) Percentage() int {
	if len(s.Questions) == 0 {
		return 0
	}
	return int(float64(s.Score)/float64(len(s.Questions))*100 + 0.5)
}

// clone deep-copies the snapshot so callers can hold it across
// subsequent transitions.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Questions = slices.Clone(s.Questions)
	out.Answers = maps.Clone(s.Answers)
	if s.UserInfo != nil {
		info := *s.UserInfo
		out.UserInfo = &info
	}
	return out
}
