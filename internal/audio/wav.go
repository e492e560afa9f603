package audio

import (
	"bytes"
	"encoding/binary"
	"math"
)

// EncodeWAV serializes a clip as a 16-bit mono WAV file so it can be
// handed to an external player.
func EncodeWAV(clip *Clip) []byte {
	dataSize := len(clip.Samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))

	// RIFF header.
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk: PCM, mono, 16-bit.
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(clip.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(clip.SampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	// data chunk.
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range clip.Samples {
		v := math.Round(float64(s) * 32767)
		if v > 32767 {
			v = 32767
		}
		if v < -32768 {
			v = -32768
		}
		binary.Write(buf, binary.LittleEndian, int16(v))
	}

	return buf.Bytes()
}
