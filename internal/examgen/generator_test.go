package examgen

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"sprachtest/internal/exam"
	"sprachtest/internal/llm"
)

func TestSection_ParsesAndNormalizes(t *testing.T) {
	content := `[
		{
			"id": "model-1",
			"category": "Grammar (Grammatik)",
			"type": "multiple_choice",
			"questionText": "Ich ___ aus Deutschland.",
			"options": ["komme", "kommst", "kommt"],
			"correctAnswer": "komme",
			"explanation": "First person singular of kommen."
		},
		{
			"id": "model-2",
			"category": "Grammar (Grammatik)",
			"type": "true_false",
			"questionText": "Der Zug fährt um 8 Uhr ab.",
			"correctAnswer": "Richtig",
			"explanation": "Stated in the announcement."
		}
	]`

	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(content)})
	g := New(mock, DefaultConfig())

	questions, err := g.Section(context.Background(), exam.CategoryGrammar, 1700000000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	for _, q := range questions {
		if q.Category != exam.CategoryGrammar {
			t.Fatalf("expected section category, got %q", q.Category)
		}
	}
	// True/False without options gets the default pair.
	tf := questions[1]
	if len(tf.Options) != 2 || tf.Options[0] != "Richtig" || tf.Options[1] != "Falsch" {
		t.Fatalf("expected Richtig/Falsch defaults, got %v", tf.Options)
	}
}

func TestSection_DropsMalformedQuestions(t *testing.T) {
	content := `[
		{
			"id": "ok",
			"category": "Vocabulary (Wortschatz)",
			"type": "fill_blank",
			"questionText": "Ich trinke eine Tasse ___.",
			"correctAnswer": "Kaffee",
			"explanation": "Common beverage vocabulary."
		},
		{
			"id": "broken",
			"category": "Vocabulary (Wortschatz)",
			"type": "multiple_choice",
			"questionText": "Was ist das?",
			"correctAnswer": "der Stuhl",
			"explanation": "Missing options entirely."
		}
	]`

	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(content)})
	g := New(mock, DefaultConfig())

	questions, err := g.Section(context.Background(), exam.CategoryVocabulary, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("expected malformed question dropped, got %d questions", len(questions))
	}
	if questions[0].ID != "ok" {
		t.Fatalf("wrong question survived: %q", questions[0].ID)
	}
}

func TestSection_AllMalformedIsError(t *testing.T) {
	content := `[
		{
			"id": "broken",
			"category": "Listening (Hören)",
			"type": "listening",
			"questionText": "Wann fährt der Zug?",
			"options": ["8 Uhr", "9 Uhr"],
			"correctAnswer": "8 Uhr",
			"explanation": "No listening script."
		}
	]`

	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(content)})
	g := New(mock, DefaultConfig())

	_, err := g.Section(context.Background(), exam.CategoryListening, 1)
	if err == nil {
		t.Fatal("expected error when no question survives normalization")
	}
}

func TestSection_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	g := New(mock, DefaultConfig())

	_, err := g.Section(context.Background(), exam.CategoryReading, 1)
	if err == nil {
		t.Fatal("expected provider error to propagate")
	}
}

func TestBuildUserMessage(t *testing.T) {
	msg := buildUserMessage(exam.CategoryGrammar, 3, themes[0], 1700000000000)

	for _, want := range []string{
		"exactly 3 German A1 Level questions",
		`"Grammar (Grammatik)"`,
		"Public Transport",
		"1700000000000-Grammar (Grammatik)",
		"Verb conjugation",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}
