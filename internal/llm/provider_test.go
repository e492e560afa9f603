package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_FIFO(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`"first"`)},
		MockResponse{Content: json.RawMessage(`"second"`)},
	)

	r1, err := m.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(r1.Content) != `"first"` {
		t.Fatalf("expected first response, got %s", r1.Content)
	}

	r2, _ := m.Generate(context.Background(), Request{})
	if string(r2.Content) != `"second"` {
		t.Fatalf("expected second response, got %s", r2.Content)
	}

	_, err = m.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable when drained, got %T", err)
	}

	if m.CallCount() != 3 {
		t.Fatalf("expected 3 recorded calls, got %d", m.CallCount())
	}
}

func TestMockProvider_CannedError(t *testing.T) {
	wantErr := &ErrRateLimit{}
	m := NewMockProvider(MockResponse{Err: wantErr})

	_, err := m.Generate(context.Background(), Request{})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected canned ErrRateLimit, got %T", err)
	}
}

func TestMockProvider_SpeechAndImage(t *testing.T) {
	m := NewMockProvider()
	m.SpeechPayload = []byte{0x00, 0x40, 0x00, 0xC0}
	m.ImagePayload = []byte("png-bytes")

	audio, err := m.Synthesize(context.Background(), "Guten Morgen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(audio) != 4 {
		t.Fatalf("expected 4 audio bytes, got %d", len(audio))
	}

	img, err := m.GenerateImage(context.Background(), "ein roter Apfel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(img.Data) != "png-bytes" {
		t.Fatalf("unexpected image payload %q", img.Data)
	}

	if len(m.SpeechCalls) != 1 || m.SpeechCalls[0] != "Guten Morgen" {
		t.Fatalf("speech call not recorded: %v", m.SpeechCalls)
	}
	if len(m.ImageCalls) != 1 {
		t.Fatalf("image call not recorded: %v", m.ImageCalls)
	}
}

func TestMockProvider_SpeechUnconfigured(t *testing.T) {
	m := NewMockProvider()
	_, err := m.Synthesize(context.Background(), "text")
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
}
