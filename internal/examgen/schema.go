package examgen

import "sprachtest/internal/llm"

// SectionSchema defines the JSON schema for LLM section generation
// responses: a flat array of exam questions.
var SectionSchema = &llm.Schema{
	Name:        "exam-section",
	Description: "A list of German A1 exam questions for one section",
	Definition: map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type": "string",
				},
				"category": map[string]any{
					"type": "string",
					"enum": []any{
						"Grammar (Grammatik)",
						"Vocabulary (Wortschatz)",
						"Listening (Hören)",
						"Reading (Lesen)",
					},
				},
				"type": map[string]any{
					"type": "string",
					"enum": []any{
						"multiple_choice",
						"fill_blank",
						"listening",
						"true_false",
					},
				},
				"questionText": map[string]any{
					"type": "string",
				},
				"options": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "string",
					},
					"description": "List of options. MUST provide 3-4 options for Multiple Choice and Listening. MUST provide ['Richtig', 'Falsch'] for True/False.",
				},
				"correctAnswer": map[string]any{
					"type": "string",
				},
				"explanation": map[string]any{
					"type":        "string",
					"description": "Short explanation in English.",
				},
				"listeningScript": map[string]any{
					"type":        "string",
					"description": "German text that will be spoken. Required ONLY for 'Listening (Hören)' questions.",
				},
				"contextText": map[string]any{
					"type":        "string",
					"description": "A short German paragraph, email, or advertisement. Required for 'Reading (Lesen)'.",
				},
				"imageDescription": map[string]any{
					"type":        "string",
					"description": "Visual description for 'Vocabulary (Wortschatz)' images. E.g., 'A red sofa in a living room'.",
				},
			},
			"required": []any{"id", "category", "type", "questionText", "correctAnswer", "explanation"},
		},
	},
}
