package examgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"sprachtest/internal/exam"
)

// ErrGenerationFailed means every section came back empty and there is
// no exam to run.
var ErrGenerationFailed = errors.New("failed to generate exam data")

// Result is a composed exam: the merged question list plus the sections
// that produced nothing. A non-empty Failed list means the exam runs
// short but still runs.
type Result struct {
	Questions []exam.Question
	Failed    []exam.Category
}

// Warning describes a partial generation in user-facing terms, or ""
// when all sections succeeded.
func (r *Result) Warning() string {
	if len(r.Failed) == 0 {
		return ""
	}
	names := make([]string, len(r.Failed))
	for i, c := range r.Failed {
		names[i] = c.Short()
	}
	return fmt.Sprintf("Some sections could not be generated: %s. The exam will be shorter than usual.",
		strings.Join(names, ", "))
}

// Composer fans out one generation call per section and merges the
// results into a single exam.
type Composer struct {
	gen Generator

	// now is stubbed in tests.
	now func() time.Time
}

// NewComposer creates a Composer over the given section generator.
func NewComposer(gen Generator) *Composer {
	return &Composer{gen: gen, now: time.Now}
}

// Compose generates all four sections concurrently and merges them in
// the fixed order Listening, Reading, Grammar, Vocabulary. A failed
// section contributes nothing; only when every section fails does
// Compose return ErrGenerationFailed.
func (c *Composer) Compose(ctx context.Context) (*Result, error) {
	seed := c.now().UnixMilli()

	sections := make([][]exam.Question, len(exam.Categories))
	sectionErrs := make([]error, len(exam.Categories))

	var wg sync.WaitGroup
	for i, category := range exam.Categories {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sections[i], sectionErrs[i] = c.gen.Section(ctx, category, seed)
		}()
	}
	wg.Wait()

	result := &Result{}
	for i, category := range exam.Categories {
		if sectionErrs[i] != nil || len(sections[i]) == 0 {
			result.Failed = append(result.Failed, category)
			continue
		}
		result.Questions = append(result.Questions, sections[i]...)
	}

	if len(result.Questions) == 0 {
		return nil, ErrGenerationFailed
	}

	// Model-assigned IDs are unreliable across sections, so every
	// question gets a fresh sequential ID for this run.
	for i := range result.Questions {
		result.Questions[i].ID = fmt.Sprintf("q-%d-%d", seed, i)
	}

	return result, nil
}
