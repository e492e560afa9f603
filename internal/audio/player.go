package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sync"
)

// Player plays clips through an external system audio command. At most
// one clip plays at a time: starting a new clip stops the current one.
type Player struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	command string
}

// NewPlayer locates a usable playback command. An error means no known
// player binary is installed.
func NewPlayer() (*Player, error) {
	cmd, err := findPlayerCommand()
	if err != nil {
		return nil, err
	}
	return &Player{command: cmd}, nil
}

func findPlayerCommand() (string, error) {
	var candidates []string
	if runtime.GOOS == "darwin" {
		candidates = []string{"afplay"}
	} else {
		candidates = []string{"paplay", "aplay", "ffplay"}
	}
	for _, c := range candidates {
		if _, err := exec.LookPath(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("no audio player found (tried %v)", candidates)
}

// Play stops any current playback, writes the clip to a temp WAV file
// and plays it. The returned channel closes when playback ends, whether
// it finished or was stopped.
func (p *Player) Play(ctx context.Context, clip *Clip) (<-chan struct{}, error) {
	p.Stop()

	f, err := os.CreateTemp("", "sprachtest-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp wav: %w", err)
	}
	if _, err := f.Write(EncodeWAV(clip)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("write temp wav: %w", err)
	}
	f.Close()

	playCtx, cancel := context.WithCancel(ctx)

	args := []string{f.Name()}
	if p.command == "ffplay" {
		args = []string{"-nodisp", "-autoexit", "-loglevel", "quiet", f.Name()}
	}
	cmd := exec.CommandContext(playCtx, p.command, args...)

	if err := cmd.Start(); err != nil {
		cancel()
		os.Remove(f.Name())
		return nil, fmt.Errorf("start player: %w", err)
	}

	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)
		defer os.Remove(f.Name())
		cmd.Wait()
	}()

	return done, nil
}

// Stop kills the current playback, if any, and waits for it to end.
func (p *Player) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.done
	p.cancel = nil
	p.done = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}
