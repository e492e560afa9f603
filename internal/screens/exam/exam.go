package exam

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	tea "charm.land/bubbletea/v2"

	"sprachtest/internal/audio"
	examcore "sprachtest/internal/exam"
	"sprachtest/internal/llm"
	"sprachtest/internal/router"
	"sprachtest/internal/screen"
	"sprachtest/internal/session"
	"sprachtest/internal/ui/components"
	"sprachtest/internal/ui/layout"
)

// infoFieldCount is the number of inputs on the user info form.
const infoFieldCount = 3

// ExamScreen runs one full exam: generation, the question loop, the
// info form and the result view. It mirrors the session statuses; all
// state transitions go through the session controller.
type ExamScreen struct {
	ctrl   *session.Controller
	synth  llm.SpeechSynthesizer
	imager llm.ImageGenerator
	player *audio.Player
	clips  *audio.Cache

	snap session.Snapshot

	// Per-question presentation state, reset on question change.
	currentQID string
	choice     components.Choice
	answer     components.TextInput
	answered   bool
	correct    bool

	speechLoading bool
	speechErr     string
	playing       bool

	imagePath    string
	imageLoading bool
	imageErr     string

	// User info form.
	infoInputs [infoFieldCount]components.TextInput
	infoFocus  int
	infoErr    string

	warning string
	spinner int
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.HeaderInfoProvider = (*ExamScreen)(nil)

// New creates an exam screen. The speech and image capabilities and the
// player may be nil; the affected features degrade to a notice.
func New(ctrl *session.Controller, synth llm.SpeechSynthesizer, imager llm.ImageGenerator, player *audio.Player) *ExamScreen {
	s := &ExamScreen{
		ctrl:   ctrl,
		synth:  synth,
		imager: imager,
		player: player,
		clips:  audio.NewCache(),
	}
	s.infoInputs[0] = components.NewTextInput("Full name", 60)
	s.infoInputs[1] = components.NewTextInput("Native language", 40)
	s.infoInputs[2] = components.NewTextInput("Phone number", 20)
	return s
}

func (s *ExamScreen) Init() tea.Cmd {
	return tea.Batch(s.startExam(), s.spinnerTick())
}

func (s *ExamScreen) Title() string {
	return "German A1 Mock Test"
}

func (s *ExamScreen) HeaderInfo() string {
	if s.snap.Status != session.StatusActive {
		return ""
	}
	return fmt.Sprintf("%d/%d", s.snap.CurrentIndex+1, s.snap.Total())
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	switch s.snap.Status {
	case session.StatusActive:
		hints := []layout.KeyHint{}
		if q := s.snap.CurrentQuestion(); q != nil && q.Type == examcore.TypeListening {
			hints = append(hints, layout.KeyHint{Key: "P", Description: "Play audio"})
		}
		if s.answered {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Next question"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Check answer"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Abandon"})
	case session.StatusCollectingInfo:
		return []layout.KeyHint{
			{Key: "Tab", Description: "Next field"},
			{Key: "Enter", Description: "Submit"},
		}
	case session.StatusCompleted:
		return []layout.KeyHint{
			{Key: "R", Description: "Try new exam"},
			{Key: "Esc", Description: "Back to home"},
		}
	case session.StatusError:
		return []layout.KeyHint{
			{Key: "R", Description: "Try again"},
			{Key: "Esc", Description: "Back to home"},
		}
	}
	return nil
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		return s.handleSession(msg)

	case speechReadyMsg:
		return s.handleSpeechReady(msg)

	case playbackDoneMsg:
		if msg.QuestionID == s.currentQID {
			s.playing = false
		}
		return s, nil

	case imageReadyMsg:
		return s.handleImageReady(msg)

	case WarnMsg:
		s.warning = msg.Text
		return s, nil

	case spinnerTickMsg:
		s.spinner++
		if s.snap.Status == session.StatusLoading || s.imageLoading || s.speechLoading {
			return s, s.spinnerTick()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToInputs(msg)
}

// startExam kicks off generation on the controller. Start blocks until
// composition settles, so it runs inside the command goroutine.
func (s *ExamScreen) startExam() tea.Cmd {
	return func() tea.Msg {
		return sessionMsg{Snap: s.ctrl.Start(context.Background())}
	}
}

func (s *ExamScreen) spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func (s *ExamScreen) handleSession(msg sessionMsg) (screen.Screen, tea.Cmd) {
	s.snap = msg.Snap
	if s.snap.Warning != "" {
		s.warning = s.snap.Warning
	}

	if s.snap.Status == session.StatusActive {
		return s, s.syncQuestion()
	}
	return s, nil
}

// syncQuestion resets per-question state when the current question
// changed and fires the enrichment fetches for the new one.
func (s *ExamScreen) syncQuestion() tea.Cmd {
	q := s.snap.CurrentQuestion()
	if q == nil || q.ID == s.currentQID {
		return nil
	}

	if s.player != nil {
		s.player.Stop()
	}

	s.currentQID = q.ID
	s.answered = false
	s.correct = false
	s.playing = false
	s.speechLoading = false
	s.speechErr = ""
	s.imagePath = ""
	s.imageLoading = false
	s.imageErr = ""

	options := q.Options
	if q.Type == examcore.TypeTrueFalse && len(options) == 0 {
		options = examcore.TrueFalseOptions
	}
	s.choice = components.NewChoice(options)
	s.answer = components.NewTextInput("Type your answer...", 60)

	var cmds []tea.Cmd
	if q.Type == examcore.TypeFillBlank {
		cmds = append(cmds, s.answer.Init())
	}
	if q.ImageDescription != "" && s.imager != nil {
		s.imageLoading = true
		cmds = append(cmds, s.fetchImage(q.ID, q.ImageDescription), s.spinnerTick())
	}
	return tea.Batch(cmds...)
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch s.snap.Status {
	case session.StatusActive:
		return s.handleQuestionKey(msg)
	case session.StatusCollectingInfo:
		return s.handleInfoKey(msg)
	case session.StatusCompleted, session.StatusError:
		switch msg.String() {
		case "r":
			s.reset()
			return s, tea.Batch(s.startExam(), s.spinnerTick())
		case "esc":
			s.ctrl.Reset()
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *ExamScreen) handleQuestionKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	q := s.snap.CurrentQuestion()
	if q == nil {
		return s, nil
	}

	key := msg.String()

	if key == "esc" {
		if s.player != nil {
			s.player.Stop()
		}
		s.ctrl.Reset()
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}

	if key == "p" && q.Type == examcore.TypeListening {
		return s, s.playSpeech(q)
	}

	if key == "enter" {
		return s.handleSubmit(q)
	}

	if q.Type == examcore.TypeFillBlank {
		if s.answered {
			return s, nil
		}
		var cmd tea.Cmd
		s.answer, cmd = s.answer.Update(msg)
		return s, cmd
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

// handleSubmit implements the check-then-advance flow: the first Enter
// reveals correctness and the explanation, the second records the
// answer with the controller and moves on.
func (s *ExamScreen) handleSubmit(q *examcore.Question) (screen.Screen, tea.Cmd) {
	submitted := s.submittedAnswer(q)

	if !s.answered {
		if submitted == "" {
			return s, nil
		}
		s.answered = true
		s.correct = examcore.Evaluate(submitted, q.CorrectAnswer)
		if q.Type == examcore.TypeFillBlank {
			s.answer.Submit(s.correct)
		} else {
			s.choice.Reveal(slices.IndexFunc(s.choice.Options, func(opt string) bool {
				return examcore.Evaluate(opt, q.CorrectAnswer)
			}))
		}
		return s, nil
	}

	snap, err := s.ctrl.SubmitAnswer(submitted)
	if err != nil {
		return s, nil
	}
	return s.handleSession(sessionMsg{Snap: snap})
}

func (s *ExamScreen) submittedAnswer(q *examcore.Question) string {
	if q.Type == examcore.TypeFillBlank {
		return s.answer.Value()
	}
	return s.choice.Value()
}

func (s *ExamScreen) handleInfoKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		s.infoFocus = (s.infoFocus + 1) % infoFieldCount
		return s, s.focusInfoField()
	case "shift+tab", "up":
		s.infoFocus = (s.infoFocus + infoFieldCount - 1) % infoFieldCount
		return s, s.focusInfoField()
	case "enter":
		if s.infoFocus < infoFieldCount-1 {
			s.infoFocus++
			return s, s.focusInfoField()
		}
		info := examcore.UserInfo{
			Name:           s.infoInputs[0].Value(),
			NativeLanguage: s.infoInputs[1].Value(),
			Phone:          s.infoInputs[2].Value(),
		}
		snap, err := s.ctrl.SubmitUserInfo(info)
		if err != nil {
			s.infoErr = err.Error()
			return s, nil
		}
		s.infoErr = ""
		return s.handleSession(sessionMsg{Snap: snap})
	}

	var cmd tea.Cmd
	s.infoInputs[s.infoFocus], cmd = s.infoInputs[s.infoFocus].Update(msg)
	return s, cmd
}

func (s *ExamScreen) focusInfoField() tea.Cmd {
	var cmds []tea.Cmd
	for i := range s.infoInputs {
		if i == s.infoFocus {
			cmds = append(cmds, s.infoInputs[i].Model.Focus())
		} else {
			s.infoInputs[i].Model.Blur()
		}
	}
	return tea.Batch(cmds...)
}

func (s *ExamScreen) forwardToInputs(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.snap.Status {
	case session.StatusActive:
		if q := s.snap.CurrentQuestion(); q != nil && q.Type == examcore.TypeFillBlank && !s.answered {
			s.answer, cmd = s.answer.Update(msg)
		}
	case session.StatusCollectingInfo:
		s.infoInputs[s.infoFocus], cmd = s.infoInputs[s.infoFocus].Update(msg)
	}
	return s, cmd
}

// playSpeech synthesizes (or reuses) the clip for the current question
// and starts playback. Replay while playing restarts from the top.
func (s *ExamScreen) playSpeech(q *examcore.Question) tea.Cmd {
	if s.synth == nil || s.player == nil {
		s.speechErr = "Audio playback is not available."
		return nil
	}
	if s.speechLoading {
		return nil
	}

	if clip := s.clips.Get(q.ID); clip != nil {
		return s.startPlayback(q.ID, clip)
	}

	s.speechLoading = true
	s.speechErr = ""
	qID, script := q.ID, q.ListeningScript
	return tea.Batch(s.spinnerTick(), func() tea.Msg {
		ctx := llm.WithPurpose(context.Background(), "speech")
		pcm, err := s.synth.Synthesize(ctx, script)
		if err != nil {
			return speechReadyMsg{QuestionID: qID, Err: err}
		}
		clip, err := audio.Decode(pcm)
		if err != nil {
			return speechReadyMsg{QuestionID: qID, Err: err}
		}
		return speechReadyMsg{QuestionID: qID, Clip: clip}
	})
}

func (s *ExamScreen) handleSpeechReady(msg speechReadyMsg) (screen.Screen, tea.Cmd) {
	// A resolved fetch for a stale question is discarded.
	if msg.QuestionID != s.currentQID {
		return s, nil
	}

	s.speechLoading = false
	if msg.Err != nil {
		s.speechErr = "Could not load the audio. Try again with P."
		return s, nil
	}

	s.clips.Put(msg.QuestionID, msg.Clip)
	return s, s.startPlayback(msg.QuestionID, msg.Clip)
}

func (s *ExamScreen) startPlayback(questionID string, clip *audio.Clip) tea.Cmd {
	done, err := s.player.Play(context.Background(), clip)
	if err != nil {
		s.speechErr = "Could not play the audio."
		return nil
	}
	s.playing = true
	return func() tea.Msg {
		<-done
		return playbackDoneMsg{QuestionID: questionID}
	}
}

// fetchImage generates the question illustration and writes it to a
// temp file; terminals cannot show it inline, so the view offers the
// path instead.
func (s *ExamScreen) fetchImage(questionID, description string) tea.Cmd {
	imager := s.imager
	return func() tea.Msg {
		ctx := llm.WithPurpose(context.Background(), "image")
		img, err := imager.GenerateImage(ctx, description)
		if err != nil {
			return imageReadyMsg{QuestionID: questionID, Err: err}
		}

		f, err := os.CreateTemp("", "sprachtest-*.png")
		if err != nil {
			return imageReadyMsg{QuestionID: questionID, Err: err}
		}
		if _, err := f.Write(img.Data); err != nil {
			f.Close()
			os.Remove(f.Name())
			return imageReadyMsg{QuestionID: questionID, Err: err}
		}
		f.Close()
		return imageReadyMsg{QuestionID: questionID, Path: f.Name()}
	}
}

func (s *ExamScreen) handleImageReady(msg imageReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.QuestionID != s.currentQID {
		if msg.Path != "" {
			os.Remove(msg.Path)
		}
		return s, nil
	}

	s.imageLoading = false
	if msg.Err != nil {
		s.imageErr = "No image available."
		return s, nil
	}
	s.imagePath = msg.Path
	return s, nil
}

// reset clears per-run presentation state before a retry.
func (s *ExamScreen) reset() {
	if s.player != nil {
		s.player.Stop()
	}
	s.clips.Reset()
	s.currentQID = ""
	s.warning = ""
	s.infoErr = ""
	s.infoFocus = 0
	for i := range s.infoInputs {
		s.infoInputs[i].Reset()
	}
	s.snap = session.Snapshot{Status: session.StatusLoading}
}
