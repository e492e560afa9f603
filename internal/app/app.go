package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"sprachtest/internal/audio"
	"sprachtest/internal/llm"
	"sprachtest/internal/router"
	"sprachtest/internal/screen"
	examscreen "sprachtest/internal/screens/exam"
	"sprachtest/internal/screens/home"
	"sprachtest/internal/session"
	"sprachtest/internal/ui/layout"
)

// Options carries the wired dependencies for the TUI.
type Options struct {
	Controller *session.Controller
	Speech     llm.SpeechSynthesizer
	Images     llm.ImageGenerator
	Player     *audio.Player
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Controller, opts.Speech, opts.Images, opts.Player)
	return AppModel{
		router: router.New(homeScreen),
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	headerInfo := ""
	if active != nil {
		title = active.Title()
		if hp, ok := active.(screen.HeaderInfoProvider); ok {
			headerInfo = hp.HeaderInfo()
		}
	}

	header := layout.RenderHeader(title, headerInfo, m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if hints := hp.KeyHints(); len(hints) > 0 {
			footerHints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program. The controller's warning channel
// is wired to the program so background failures reach the screen.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))

	if opts.Controller != nil {
		opts.Controller.Warn = func(msg string) {
			p.Send(examscreen.WarnMsg{Text: msg})
		}
	}

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
