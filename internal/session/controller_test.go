package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"sprachtest/internal/exam"
	"sprachtest/internal/examgen"
	"sprachtest/internal/report"
)

// stubComposer returns a canned result, optionally blocking until
// released so tests can interleave Reset with an in-flight Start.
type stubComposer struct {
	result  *examgen.Result
	err     error
	release chan struct{}
}

func (s *stubComposer) Compose(ctx context.Context) (*examgen.Result, error) {
	if s.release != nil {
		<-s.release
	}
	return s.result, s.err
}

// recordingReporter captures submissions for assertions.
type recordingReporter struct {
	mu      sync.Mutex
	results []report.Result
	done    chan struct{}
	panics  bool
}

func (r *recordingReporter) Submit(_ context.Context, result report.Result) {
	if r.panics {
		defer close(r.done)
		panic("reporter exploded")
	}
	r.mu.Lock()
	r.results = append(r.results, result)
	r.mu.Unlock()
	if r.done != nil {
		close(r.done)
	}
}

func twelveQuestions() *examgen.Result {
	var questions []exam.Question
	for i := range 12 {
		questions = append(questions, exam.Question{
			ID:            fmt.Sprintf("q-1-%d", i),
			Category:      exam.Categories[i/3],
			Type:          exam.TypeTrueFalse,
			QuestionText:  fmt.Sprintf("Frage %d", i),
			Options:       []string{"Richtig", "Falsch"},
			CorrectAnswer: "Richtig",
			Explanation:   "Fixture.",
		})
	}
	return &examgen.Result{Questions: questions}
}

func validInfo() exam.UserInfo {
	return exam.UserInfo{Name: "Anna", NativeLanguage: "Polish", Phone: "+48 123 456 789"}
}

func TestStart_Success(t *testing.T) {
	c := NewController(&stubComposer{result: twelveQuestions()}, nil)

	snap := c.Start(context.Background())
	if snap.Status != StatusActive {
		t.Fatalf("expected active, got %s", snap.Status)
	}
	if snap.CurrentIndex != 0 || snap.Score != 0 {
		t.Fatalf("expected fresh counters, got index=%d score=%d", snap.CurrentIndex, snap.Score)
	}
	if snap.Total() != 12 {
		t.Fatalf("expected 12 questions, got %d", snap.Total())
	}
	if snap.SessionID == "" {
		t.Fatal("expected a session ID")
	}
}

func TestStart_Failure(t *testing.T) {
	c := NewController(&stubComposer{err: examgen.ErrGenerationFailed}, nil)

	snap := c.Start(context.Background())
	if snap.Status != StatusError {
		t.Fatalf("expected error state, got %s", snap.Status)
	}
	if snap.ErrMsg != ErrGeneric {
		t.Fatalf("expected generic message, got %q", snap.ErrMsg)
	}
}

func TestStart_PartialWarning(t *testing.T) {
	result := twelveQuestions()
	result.Questions = result.Questions[:9]
	result.Failed = []exam.Category{exam.CategoryListening}

	c := NewController(&stubComposer{result: result}, nil)

	snap := c.Start(context.Background())
	if snap.Status != StatusActive {
		t.Fatalf("expected active, got %s", snap.Status)
	}
	if snap.Warning == "" {
		t.Fatal("expected a partial-generation warning")
	}
}

func TestSubmitAnswer_ScoresAndAdvances(t *testing.T) {
	c := NewController(&stubComposer{result: twelveQuestions()}, nil)
	c.Start(context.Background())

	snap, err := c.SubmitAnswer("richtig ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Score != 1 {
		t.Fatalf("case/space tolerant match should score, got %d", snap.Score)
	}
	if snap.CurrentIndex != 1 {
		t.Fatalf("expected advance to 1, got %d", snap.CurrentIndex)
	}

	snap, err = c.SubmitAnswer("Falsch")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Score != 1 {
		t.Fatalf("wrong answer must not score, got %d", snap.Score)
	}
	if snap.Answers["q-1-1"] != "Falsch" {
		t.Fatalf("answer not recorded: %v", snap.Answers)
	}
}

func TestSubmitAnswer_LastQuestionCollectsInfo(t *testing.T) {
	c := NewController(&stubComposer{result: twelveQuestions()}, nil)
	c.Start(context.Background())

	var snap Snapshot
	for range 12 {
		snap, _ = c.SubmitAnswer("Richtig")
	}
	if snap.Status != StatusCollectingInfo {
		t.Fatalf("expected collecting_info after last answer, got %s", snap.Status)
	}
	if snap.Score != 12 {
		t.Fatalf("expected full score, got %d", snap.Score)
	}

	if _, err := c.SubmitAnswer("Richtig"); err == nil {
		t.Fatal("expected error submitting past the end")
	}
}

func TestSubmitUserInfo_ReportsAndCompletes(t *testing.T) {
	rep := &recordingReporter{done: make(chan struct{})}
	c := NewController(&stubComposer{result: twelveQuestions()}, rep)
	c.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

	c.Start(context.Background())
	for range 12 {
		c.SubmitAnswer("Richtig")
	}

	snap, err := c.SubmitUserInfo(validInfo())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", snap.Status)
	}
	if snap.UserInfo == nil || snap.UserInfo.Name != "Anna" {
		t.Fatalf("user info not attached: %+v", snap.UserInfo)
	}

	select {
	case <-rep.done:
	case <-time.After(2 * time.Second):
		t.Fatal("reporter was never called")
	}
	rep.mu.Lock()
	defer rep.mu.Unlock()
	if len(rep.results) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(rep.results))
	}
	if rep.results[0].Score != 12 || rep.results[0].Total != 12 {
		t.Fatalf("wrong result: %+v", rep.results[0])
	}
}

func TestSubmitUserInfo_ReporterPanicStillCompletes(t *testing.T) {
	rep := &recordingReporter{done: make(chan struct{}), panics: true}
	c := NewController(&stubComposer{result: twelveQuestions()}, rep)
	var warned string
	c.Warn = func(msg string) { warned = msg }

	c.Start(context.Background())
	for range 12 {
		c.SubmitAnswer("Richtig")
	}

	snap, err := c.SubmitUserInfo(validInfo())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Status != StatusCompleted {
		t.Fatalf("reporter failure must not block completion, got %s", snap.Status)
	}

	select {
	case <-rep.done:
	case <-time.After(2 * time.Second):
		t.Fatal("reporter was never called")
	}
	// Give the recover path a moment to run after the panic.
	deadline := time.Now().Add(2 * time.Second)
	for warned == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if warned == "" {
		t.Fatal("expected a warning from the failed submission")
	}
}

func TestSubmitUserInfo_InvalidInfoRejected(t *testing.T) {
	c := NewController(&stubComposer{result: twelveQuestions()}, nil)
	c.Start(context.Background())
	for range 12 {
		c.SubmitAnswer("Richtig")
	}

	_, err := c.SubmitUserInfo(exam.UserInfo{Name: "Anna", NativeLanguage: "Polish", Phone: "abc"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := c.Snapshot().Status; got != StatusCollectingInfo {
		t.Fatalf("state must be unchanged on invalid info, got %s", got)
	}
}

func TestSubmitUserInfo_WrongState(t *testing.T) {
	c := NewController(&stubComposer{result: twelveQuestions()}, nil)
	if _, err := c.SubmitUserInfo(validInfo()); err == nil {
		t.Fatal("expected error in idle state")
	}
}

func TestReset_Idempotent(t *testing.T) {
	c := NewController(&stubComposer{result: twelveQuestions()}, nil)
	c.Start(context.Background())
	c.SubmitAnswer("Richtig")

	snap := c.Reset()
	if snap.Status != StatusIdle || len(snap.Questions) != 0 {
		t.Fatalf("expected empty idle session, got %+v", snap)
	}

	snap = c.Reset()
	if snap.Status != StatusIdle || len(snap.Questions) != 0 {
		t.Fatalf("second reset must look identical, got %+v", snap)
	}
}

func TestReset_DiscardsInFlightStart(t *testing.T) {
	composer := &stubComposer{result: twelveQuestions(), release: make(chan struct{})}
	c := NewController(composer, nil)

	started := make(chan Snapshot, 1)
	go func() {
		started <- c.Start(context.Background())
	}()

	// Wait for Start to enter loading before resetting.
	deadline := time.Now().Add(2 * time.Second)
	for c.Snapshot().Status != StatusLoading && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	c.Reset()
	close(composer.release)

	snap := <-started
	if snap.Status != StatusIdle {
		t.Fatalf("stale load must be discarded, got %s", snap.Status)
	}
	if got := c.Snapshot().Status; got != StatusIdle {
		t.Fatalf("session must stay idle, got %s", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewController(&stubComposer{result: twelveQuestions()}, nil)
	c.Start(context.Background())

	snap := c.Snapshot()
	snap.Questions[0].CorrectAnswer = "tampered"
	snap.Answers["x"] = "y"

	fresh := c.Snapshot()
	if fresh.Questions[0].CorrectAnswer == "tampered" {
		t.Fatal("snapshot mutation leaked into the session")
	}
	if _, ok := fresh.Answers["x"]; ok {
		t.Fatal("answer map mutation leaked into the session")
	}
}
