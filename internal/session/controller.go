package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"sprachtest/internal/exam"
	"sprachtest/internal/examgen"
	"sprachtest/internal/report"
)

// ErrGeneric is the user-facing message for a total generation failure.
// The underlying cause is logged, not shown.
const ErrGeneric = "Failed to generate the exam. Please try again."

// Composer produces one complete exam run.
type Composer interface {
	Compose(ctx context.Context) (*examgen.Result, error)
}

// Controller drives a single exam session. All transitions are applied
// under one lock; at most one exam runs per controller. Starting a new
// exam while one is loading discards the in-flight result.
type Controller struct {
	composer Composer
	reporter report.Reporter

	// Warn receives non-fatal problems raised outside a transition,
	// currently only result-submission failures. Nil means dropped.
	Warn func(msg string)

	now func() time.Time

	mu         sync.Mutex
	generation uint64
	snap       Snapshot
}

// NewController creates a controller in the idle state.
func NewController(composer Composer, reporter report.Reporter) *Controller {
	if reporter == nil {
		reporter = report.NopReporter{}
	}
	return &Controller{
		composer: composer,
		reporter: reporter,
		now:      time.Now,
		snap:     Snapshot{Status: StatusIdle},
	}
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.clone()
}

// Start generates a fresh exam. It blocks while composition runs, so
// callers drive it from their own goroutine and poll Snapshot (or use
// the returned value) for the outcome. Any previous session state is
// discarded up front.
func (c *Controller) Start(ctx context.Context) Snapshot {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.snap = Snapshot{
		SessionID: uuid.NewString(),
		Status:    StatusLoading,
	}
	c.mu.Unlock()

	result, err := c.composer.Compose(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A reset or a newer Start superseded this load; its result is
	// discarded without touching the session.
	if c.generation != gen {
		return c.snap.clone()
	}

	if err != nil {
		c.snap.Status = StatusError
		c.snap.ErrMsg = ErrGeneric
		return c.snap.clone()
	}

	c.snap.Status = StatusActive
	c.snap.Questions = result.Questions
	c.snap.CurrentIndex = 0
	c.snap.Answers = make(map[string]string)
	c.snap.Score = 0
	c.snap.Warning = result.Warning()
	return c.snap.clone()
}

// SubmitAnswer records the answer for the current question, scores it
// and advances. After the last question the session moves to
// collecting_info. Valid only while active.
func (c *Controller) SubmitAnswer(answer string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap.Status != StatusActive {
		return c.snap.clone(), fmt.Errorf("cannot submit answer in state %q", c.snap.Status)
	}

	q := c.snap.Questions[c.snap.CurrentIndex]
	if exam.Evaluate(answer, q.CorrectAnswer) {
		c.snap.Score++
	}
	c.snap.Answers[q.ID] = answer
	c.snap.CurrentIndex++

	if c.snap.CurrentIndex >= len(c.snap.Questions) {
		c.snap.Status = StatusCollectingInfo
	}

	return c.snap.clone(), nil
}

// SubmitUserInfo validates and attaches the user details, hands the
// result to the reporter in the background and completes the session.
// A reporting failure never blocks completion; it surfaces through the
// Warn callback. Valid only while collecting info.
func (c *Controller) SubmitUserInfo(info exam.UserInfo) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap.Status != StatusCollectingInfo {
		return c.snap.clone(), fmt.Errorf("cannot submit user info in state %q", c.snap.Status)
	}
	if err := info.Validate(); err != nil {
		return c.snap.clone(), err
	}

	result := report.Result{
		User:      info,
		Score:     c.snap.Score,
		Total:     len(c.snap.Questions),
		Timestamp: c.now(),
	}
	go c.submitReport(result)

	c.snap.UserInfo = &info
	c.snap.Status = StatusCompleted
	return c.snap.clone(), nil
}

func (c *Controller) submitReport(result report.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			c.warn(fmt.Sprintf("Could not save your result: %v", r))
		}
	}()

	c.reporter.Submit(ctx, result)
}

func (c *Controller) warn(msg string) {
	if c.Warn != nil {
		c.Warn(msg)
	}
}

// Reset returns the session to idle from any state, dropping all
// progress. Calling it repeatedly is harmless. An in-flight Start is
// invalidated: its result will be discarded when it settles.
func (c *Controller) Reset() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.snap = Snapshot{Status: StatusIdle}
	return c.snap.clone()
}
