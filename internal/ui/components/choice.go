package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"sprachtest/internal/ui/theme"
)

// Choice is an answer-option selector. After Reveal, the correct
// option renders green and a wrong pick renders red, matching the
// check-then-advance flow of the exam.
type Choice struct {
	Options  []string
	Selected int

	// Revealed locks the selector and shows correctness coloring.
	Revealed     bool
	CorrectIndex int
	ChosenIndex  int
}

// NewChoice creates a selector over the given options.
func NewChoice(options []string) Choice {
	return Choice{Options: options, ChosenIndex: -1, CorrectIndex: -1}
}

// Update handles keyboard navigation. Revealed selectors ignore input.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.Revealed {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Selected > 0 {
			c.Selected--
		}
	case "down", "j":
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	}

	return c, nil
}

// Reveal locks the selector and records the outcome for rendering.
func (c *Choice) Reveal(correctIndex int) {
	c.Revealed = true
	c.ChosenIndex = c.Selected
	c.CorrectIndex = correctIndex
}

// Value returns the currently selected option text.
func (c Choice) Value() string {
	if c.Selected < 0 || c.Selected >= len(c.Options) {
		return ""
	}
	return c.Options[c.Selected]
}

// View renders the option list.
func (c Choice) View() string {
	labels := []string{"A", "B", "C", "D", "E", "F"}

	var s string
	for i, opt := range c.Options {
		label := "?"
		if i < len(labels) {
			label = labels[i]
		}
		prefix := "  "
		if i == c.Selected && !c.Revealed {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		switch {
		case c.Revealed && i == c.CorrectIndex:
			s += theme.Correct.Render(line+"  ✓") + "\n"
		case c.Revealed && i == c.ChosenIndex:
			s += theme.Incorrect.Render(line+"  ✗") + "\n"
		case c.Revealed:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == c.Selected:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}
