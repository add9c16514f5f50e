package voice

import (
	"bytes"
	"encoding/binary"
)

// Gemini speech output is 24 kHz signed 16-bit little-endian mono PCM.
const (
	SampleRate    = 24000
	bitsPerSample = 16
	channels      = 1
)

// WAV wraps raw PCM in a 44-byte RIFF header.
func WAV(pcm []byte) []byte {
	const (
		byteRate   = SampleRate * channels * bitsPerSample / 8
		blockAlign = channels * bitsPerSample / 8
	)

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(SampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}
