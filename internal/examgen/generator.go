package examgen

import (
	"context"
	"encoding/json"
	"fmt"

	"sprachtest/internal/exam"
	"sprachtest/internal/llm"
)

// Generator produces the questions for a single exam section.
type Generator interface {
	Section(ctx context.Context, category exam.Category, seed int64) ([]exam.Question, error)
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// Section generates the questions for one category. Malformed questions
// are dropped rather than failing the section; a response that yields no
// usable questions at all is an error.
func (g *LLMGenerator) Section(ctx context.Context, category exam.Category, seed int64) ([]exam.Question, error) {
	ctx = llm.WithPurpose(ctx, "section-gen")

	userMsg := buildUserMessage(category, g.config.QuestionsPerSection, g.config.theme(), seed)

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      SectionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate %s section: %w", category.Short(), err)
	}

	var raw []exam.Question
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("parse %s section: %w", category.Short(), err)
	}

	questions := make([]exam.Question, 0, len(raw))
	for i := range raw {
		q := raw[i]
		// The section slot decides the category, not the model.
		q.Category = category
		if err := exam.Normalize(&q); err != nil {
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%s section yielded no usable questions", category.Short())
	}

	return questions, nil
}
