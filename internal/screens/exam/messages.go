package exam

import (
	"time"

	"sprachtest/internal/audio"
	"sprachtest/internal/session"
)

// sessionMsg carries a fresh state snapshot after a transition that ran
// off the update loop (Start).
type sessionMsg struct {
	Snap session.Snapshot
}

// speechReadyMsg is sent when a listening script has been synthesized
// and decoded. Stale messages (question changed) are discarded by ID.
type speechReadyMsg struct {
	QuestionID string
	Clip       *audio.Clip
	Err        error
}

// playbackDoneMsg is sent when audio playback ends.
type playbackDoneMsg struct {
	QuestionID string
}

// imageReadyMsg is sent when a question illustration has been generated
// and written to disk. Stale messages are discarded by ID.
type imageReadyMsg struct {
	QuestionID string
	Path       string
	Err        error
}

// WarnMsg surfaces a non-fatal background problem, e.g. a failed
// result submission. Sent from outside the update loop.
type WarnMsg struct {
	Text string
}

// spinnerTickMsg animates the loading spinner.
type spinnerTickMsg time.Time
