package audio

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	// 16384 and -16384 as little-endian int16.
	pcm := []byte{0x00, 0x40, 0x00, 0xC0}

	clip, err := Decode(pcm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if clip.SampleRate != 24000 {
		t.Fatalf("expected 24000 Hz, got %d", clip.SampleRate)
	}
	if len(clip.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(clip.Samples))
	}
	if clip.Samples[0] != 0.5 {
		t.Errorf("sample 0 = %v, want 0.5", clip.Samples[0])
	}
	if clip.Samples[1] != -0.5 {
		t.Errorf("sample 1 = %v, want -0.5", clip.Samples[1])
	}
}

func TestDecode_OddLength(t *testing.T) {
	if _, err := Decode([]byte{0x00, 0x40, 0x00}); err == nil {
		t.Fatal("expected error for odd byte count")
	}
}

func TestDecode_Empty(t *testing.T) {
	clip, err := Decode(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clip.Samples) != 0 {
		t.Fatalf("expected no samples, got %d", len(clip.Samples))
	}
}

func TestDuration(t *testing.T) {
	clip := &Clip{Samples: make([]float32, 24000), SampleRate: 24000}
	if d := clip.Duration(); d != time.Second {
		t.Fatalf("expected 1s, got %v", d)
	}

	half := &Clip{Samples: make([]float32, 12000), SampleRate: 24000}
	if d := half.Duration(); d != 500*time.Millisecond {
		t.Fatalf("expected 500ms, got %v", d)
	}
}

func TestEncodeWAV(t *testing.T) {
	clip := &Clip{Samples: []float32{0.5, -0.5}, SampleRate: 24000}
	wav := EncodeWAV(clip)

	if len(wav) != 44+4 {
		t.Fatalf("expected 48 bytes, got %d", len(wav))
	}
	if !bytes.HasPrefix(wav, []byte("RIFF")) {
		t.Fatal("missing RIFF magic")
	}
	if string(wav[8:12]) != "WAVE" {
		t.Fatal("missing WAVE magic")
	}

	rate := binary.LittleEndian.Uint32(wav[24:28])
	if rate != 24000 {
		t.Fatalf("expected 24000 Hz in header, got %d", rate)
	}

	dataSize := binary.LittleEndian.Uint32(wav[40:44])
	if dataSize != 4 {
		t.Fatalf("expected 4 data bytes, got %d", dataSize)
	}

	s0 := int16(binary.LittleEndian.Uint16(wav[44:46]))
	s1 := int16(binary.LittleEndian.Uint16(wav[46:48]))
	if s0 != 16384 {
		t.Errorf("sample 0 = %d, want 16384", s0)
	}
	if s1 != -16384 {
		t.Errorf("sample 1 = %d, want -16384", s1)
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	if c.Get("q-1-0") != nil {
		t.Fatal("expected miss on empty cache")
	}

	clip := &Clip{Samples: []float32{0}, SampleRate: 24000}
	c.Put("q-1-0", clip)
	if c.Get("q-1-0") != clip {
		t.Fatal("expected cached clip back")
	}

	c.Reset()
	if c.Get("q-1-0") != nil {
		t.Fatal("expected empty cache after reset")
	}
}
