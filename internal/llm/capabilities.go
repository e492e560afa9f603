package llm

import "context"

// SpeechSampleRate is the sample rate of synthesized speech payloads.
// Both supported speech backends emit 16-bit little-endian PCM mono at
// this rate.
const SpeechSampleRate = 24000

// SpeechSynthesizer converts text into a raw audio payload.
type SpeechSynthesizer interface {
	// Synthesize returns the spoken rendition of text as raw signed
	// 16-bit little-endian PCM mono samples at SpeechSampleRate.
	// Base64 transport encoding is handled inside the provider; callers
	// always receive raw bytes.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Image is a single generated image resource.
type Image struct {
	Data     []byte
	MIMEType string
}

// ImageGenerator produces one image for a free-form text prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*Image, error)
}
