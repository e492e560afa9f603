package examgen

// Config controls the behavior of section generation and composition.
type Config struct {
	// QuestionsPerSection is how many questions each section requests.
	QuestionsPerSection int

	// MaxTokens is the token budget per section response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// PickTheme selects the contextual theme for a section. Nil means
	// a random pick from the built-in theme list.
	PickTheme func() string
}

// DefaultConfig returns a Config with the standard exam shape:
// four sections of three questions each.
func DefaultConfig() Config {
	return Config{
		QuestionsPerSection: 3,
		MaxTokens:           4096,
		Temperature:         0.7,
	}
}

func (c Config) theme() string {
	if c.PickTheme != nil {
		return c.PickTheme()
	}
	return pickTheme()
}
