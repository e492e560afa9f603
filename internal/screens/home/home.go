package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"sprachtest/internal/audio"
	"sprachtest/internal/llm"
	"sprachtest/internal/router"
	"sprachtest/internal/screen"
	examscreen "sprachtest/internal/screens/exam"
	"sprachtest/internal/session"
	"sprachtest/internal/ui/components"
	"sprachtest/internal/ui/theme"
)

// HomeScreen is the start screen: exam intro plus the section overview.
type HomeScreen struct {
	menu components.Menu

	// unconfigured disables the exam entry when no provider is set up.
	unconfigured bool
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen. A nil controller disables the exam entry
// with a configuration hint instead of a crash.
func New(ctrl *session.Controller, synth llm.SpeechSynthesizer, imager llm.ImageGenerator, player *audio.Player) *HomeScreen {
	items := []components.MenuItem{
		{Label: "BEGIN MOCK TEST", Action: func() tea.Cmd {
			if ctrl == nil {
				return nil
			}
			return func() tea.Msg {
				return router.PushScreenMsg{
					Screen: examscreen.New(ctrl, synth, imager, player),
				}
			}
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{
		menu:         components.NewMenu(items),
		unconfigured: ctrl == nil,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections,
		theme.Title.Render("German A1 Mock Test"),
		theme.Subtitle.Render("Start Deutsch 1 Prep"),
		"",
		theme.Body.Render("A realistic 12-question exam covering all four sections:"),
		"",
		renderSectionGrid(),
		"",
		h.menu.View(),
	)

	if h.unconfigured {
		sections = append(sections,
			theme.Warning.Render("No LLM provider configured."),
			theme.Hint.Render("Set SPRACHTEST_GEMINI_API_KEY (or another provider key) and restart."),
		)
	}

	content := strings.Join(sections, "\n")
	card := theme.Card.Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

// renderSectionGrid shows the four fixed sections with their German
// names, matching the exam's presentation order.
func renderSectionGrid() string {
	entries := []struct {
		german  string
		english string
	}{
		{"Hören", "Listening"},
		{"Lesen", "Reading"},
		{"Grammatik", "Grammar"},
		{"Wortschatz", "Vocabulary"},
	}

	var cols []string
	for _, e := range entries {
		col := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(e.german) +
			"\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(e.english)
		cols = append(cols, lipgloss.NewStyle().Padding(0, 2).Render(col))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}
