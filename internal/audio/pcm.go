// Package audio decodes the raw PCM speech returned by the synthesis
// capability and plays it through a system audio player.
package audio

import (
	"encoding/binary"
	"fmt"
	"time"
)

// SampleRate is the fixed rate of synthesized speech: 24 kHz mono.
const SampleRate = 24000

// Clip is decoded mono audio, samples normalized to [-1, 1).
type Clip struct {
	Samples    []float32
	SampleRate int
}

// Decode converts raw 16-bit little-endian PCM into a Clip. The byte
// length must be even; each sample is scaled by 1/32768.
func Decode(pcm []byte) (*Clip, error) {
	if len(pcm)%2 != 0 {
		return nil, fmt.Errorf("pcm data has odd length %d", len(pcm))
	}

	samples := make([]float32, len(pcm)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		samples[i] = float32(v) / 32768.0
	}

	return &Clip{Samples: samples, SampleRate: SampleRate}, nil
}

// Duration returns the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}
