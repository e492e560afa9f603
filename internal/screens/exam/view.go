package exam

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	examcore "sprachtest/internal/exam"
	"sprachtest/internal/session"
	"sprachtest/internal/ui/components"
	"sprachtest/internal/ui/layout"
	"sprachtest/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *ExamScreen) View(width, height int) string {
	switch s.snap.Status {
	case session.StatusLoading, session.StatusIdle:
		return s.renderLoading(width, height)
	case session.StatusError:
		return s.renderError(width, height)
	case session.StatusActive:
		return s.renderQuestion(width, height)
	case session.StatusCollectingInfo:
		return s.renderInfoForm(width, height)
	case session.StatusCompleted:
		return s.renderResult(width, height)
	}
	return ""
}

func (s *ExamScreen) spinnerFrame() string {
	return spinnerFrames[s.spinner%len(spinnerFrames)]
}

func (s *ExamScreen) renderLoading(width, height int) string {
	content := theme.Title.Render("Generating Exam") + "\n\n" +
		theme.Body.Render(s.spinnerFrame()+" Creating 12 unique A1 questions across 4 sections...") + "\n\n" +
		theme.Hint.Render("This may take a few moments")
	return layout.Center(theme.Card.Render(content), width, height)
}

func (s *ExamScreen) renderError(width, height int) string {
	content := theme.Incorrect.Render("Something went wrong") + "\n\n" +
		theme.Body.Render(s.snap.ErrMsg) + "\n\n" +
		theme.Hint.Render("Press R to try again, Esc for home")
	return layout.Center(theme.Card.Render(content), width, height)
}

func (s *ExamScreen) renderQuestion(width, height int) string {
	q := s.snap.CurrentQuestion()
	if q == nil {
		return ""
	}

	contentWidth := min(width-8, 76)
	var b strings.Builder

	// Progress bar over the whole run.
	percent := float64(s.snap.CurrentIndex) / float64(s.snap.Total())
	bar := components.NewProgressBar("", percent, false, contentWidth)
	b.WriteString(bar.View() + "\n\n")

	// Category badge.
	badge := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("◈ %s", q.Category))
	b.WriteString(badge + "\n\n")

	if s.warning != "" {
		b.WriteString(theme.Warning.Render("⚠ "+s.warning) + "\n\n")
	}

	// Question text.
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(contentWidth).
		Render(q.QuestionText) + "\n\n")

	// Reading passage.
	if q.ContextText != "" {
		b.WriteString(theme.Hint.Render("Read the text below:") + "\n")
		b.WriteString(theme.Passage.Width(contentWidth).Render(q.ContextText) + "\n\n")
	}

	// Listening playback status.
	if q.Type == examcore.TypeListening {
		b.WriteString(s.renderAudioLine() + "\n\n")
	}

	// Image status.
	if q.ImageDescription != "" {
		b.WriteString(s.renderImageLine(contentWidth) + "\n\n")
	}

	// Answer area.
	if q.Type == examcore.TypeFillBlank {
		b.WriteString(s.answer.View() + "\n")
		if s.answered && !s.correct {
			b.WriteString("\n" + theme.Hint.Render("Correct answer: ") +
				theme.Correct.Render(q.CorrectAnswer) + "\n")
		}
	} else {
		b.WriteString(theme.Hint.Render("Select the answer:") + "\n\n")
		b.WriteString(s.choice.View())
	}

	// Feedback with explanation after checking.
	if s.answered {
		b.WriteString("\n" + s.renderFeedback(q, contentWidth))
	}

	card := theme.Card.Width(contentWidth + 4).Render(b.String())
	return layout.Center(card, width, height)
}

func (s *ExamScreen) renderAudioLine() string {
	switch {
	case s.speechLoading:
		return theme.Hint.Render(s.spinnerFrame() + " Loading audio...")
	case s.playing:
		return theme.Body.Render("▶ Playing... (press P to restart)")
	case s.speechErr != "":
		return theme.Warning.Render("⚠ " + s.speechErr)
	default:
		return theme.Body.Render("♪ Press P to play the audio")
	}
}

func (s *ExamScreen) renderImageLine(contentWidth int) string {
	switch {
	case s.imageLoading:
		return theme.Hint.Render(s.spinnerFrame() + " Generating visual context...")
	case s.imageErr != "":
		return theme.Hint.Render("(" + s.imageErr + ")")
	case s.imagePath != "":
		return theme.Hint.Width(contentWidth).Render("🖼 Image saved to " + s.imagePath + " - open it to view")
	default:
		return ""
	}
}

func (s *ExamScreen) renderFeedback(q *examcore.Question, contentWidth int) string {
	var head string
	if s.correct {
		head = theme.Correct.Render("✓ Ausgezeichnet!")
	} else {
		head = theme.Incorrect.Render("✗ Incorrect")
	}
	body := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(contentWidth).
		Render(q.Explanation)
	return head + "\n" + body + "\n"
}

func (s *ExamScreen) renderInfoForm(width, height int) string {
	labels := []string{"Name", "Native language", "Phone"}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Almost done!") + "\n")
	b.WriteString(theme.Subtitle.Render("Enter your details to see your result") + "\n\n")

	for i, label := range labels {
		style := theme.Unselected
		if i == s.infoFocus {
			style = theme.Selected
		}
		b.WriteString(style.Render(label) + "\n")
		b.WriteString(s.infoInputs[i].View() + "\n\n")
	}

	if s.infoErr != "" {
		b.WriteString(theme.Incorrect.Render("✗ "+s.infoErr) + "\n")
	}

	return layout.Center(theme.Card.Render(b.String()), width, height)
}

// resultTier maps the final percentage to the banner copy.
func resultTier(percentage int) (title, subtitle string, style lipgloss.Style) {
	switch {
	case percentage >= 80:
		return "Ausgezeichnet!", "Outstanding performance! You mastered the A1 level.", theme.Correct
	case percentage >= 60:
		return "Gut gemacht!", "You passed the exam. Ready for the next step!", theme.Selected
	default:
		return "Nicht bestanden", "Keep practicing. Review your vocabulary and grammar.", theme.Warning
	}
}

func (s *ExamScreen) renderResult(width, height int) string {
	pct := s.snap.Percentage()
	title, subtitle, style := resultTier(pct)

	if s.snap.UserInfo != nil && s.snap.UserInfo.Name != "" {
		first, _, _ := strings.Cut(strings.TrimSpace(s.snap.UserInfo.Name), " ")
		title = fmt.Sprintf("%s, %s!", strings.TrimSuffix(title, "!"), first)
	}

	var b strings.Builder
	b.WriteString(style.Render(title) + "\n")
	b.WriteString(theme.Subtitle.Render(subtitle) + "\n\n")

	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Render(fmt.Sprintf("        %d%%        ", pct)) + "\n\n")

	b.WriteString(theme.Body.Render(fmt.Sprintf("Correct: %d    Total: %d", s.snap.Score, s.snap.Total())) + "\n")

	if s.warning != "" {
		b.WriteString("\n" + theme.Warning.Render("⚠ "+s.warning) + "\n")
	}

	b.WriteString("\n" + theme.Hint.Render("R  Try new exam    Esc  Back to home"))

	return layout.Center(theme.Card.Render(b.String()), width, height)
}
