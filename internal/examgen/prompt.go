package examgen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"sprachtest/internal/exam"
)

const systemPrompt = `You are a German language examiner creating CEFR A1 placement test questions.

Rules:
- Generate exactly the requested number of questions for the given section.
- Strictly CEFR A1 level (Beginner). Simple vocabulary, present tense, short sentences.
- Ensure 'options' are ALWAYS provided for Multiple Choice, Listening, and True/False.
- True/False questions use exactly the options 'Richtig' and 'Falsch'.
- The correct answer must appear verbatim in the options when options are given.
- Explanations are short and in English.
- Do not repeat questions.`

// themes are the contextual settings a section draws its scenario from.
// One is picked at random per section so consecutive exam runs differ.
var themes = []string{
	"Public Transport (Bahnhof, Zug, Ticket)",
	"Shopping (Supermarkt, Kleidung, Preis)",
	"Housing (Wohnung, Möbel, Miete)",
	"Food & Dining (Restaurant, Essen, Trinken)",
	"Work & Professions (Büro, Beruf, Kollegen)",
	"Health (Arzt, Termin, Apotheke)",
	"Daily Routine (Uhrzeit, Aufstehen, Schule)",
	"Travel & Hotel (Urlaub, Rezeption, Flughafen)",
}

func pickTheme() string {
	return themes[rand.IntN(len(themes))]
}

// sectionInstructions holds the per-section content requirements.
var sectionInstructions = map[exam.Category]string{
	exam.CategoryListening: `Type: LISTENING.
Requirements:
- Provide 'listeningScript' for every question.
- 1 question: Short dialogue (2 people).
- 1 question: Public announcement (Train/Airport).
- 1 question: Phone message.
- Question text should ask about specific details (Time, Place, Who, Price).`,

	exam.CategoryReading: `Type: MULTIPLE_CHOICE or TRUE_FALSE.
Requirements:
- Provide 'contextText' (Emails, Notes, Ads, Signs) for every question.
- 2 questions: True/False (Richtig/Falsch) based on a short email.
- 1 question: Multiple Choice based on an advertisement or sign.`,

	exam.CategoryGrammar: `Type: MULTIPLE_CHOICE.
Requirements:
- Focus on: Verb conjugation, Articles (der/die/das/den), Prepositions (in, an, auf, bei), Modal verbs (können, müssen).
- No images or long context needed, just the sentence with a blank.`,

	exam.CategoryVocabulary: `Type: MULTIPLE_CHOICE or FILL_BLANK.
Requirements:
- 2 questions: Image-based (Provide 'imageDescription'). Ask "Was ist das?". VARY the objects (Furniture, Food, Clothing, Office). DO NOT USE APPLES.
- 1 question: Sentence completion (vocabulary in context).`,
}

// buildUserMessage constructs the section prompt. The seed ties the
// request to a specific exam run so the model does not reuse cached
// content across runs.
func buildUserMessage(category exam.Category, count int, theme string, seed int64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate exactly %d German A1 Level questions for the category: %q.\n", count, string(category))
	fmt.Fprintf(&b, "Theme focus: %q (but vary context slightly).\n", theme)
	fmt.Fprintf(&b, "Timestamp Seed: %d-%s\n\n", seed, category)

	b.WriteString(sectionInstructions[category])

	return b.String()
}
