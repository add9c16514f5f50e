package voice

import (
	"encoding/binary"
	"testing"
)

func TestListenerToggle(t *testing.T) {
	t.Parallel()

	l := NewListener(nil)
	if l.Listening() {
		t.Fatalf("new listener should be idle")
	}
	if !l.Start() || l.Start() {
		t.Fatalf("expected only the first Start to change state")
	}
	if !l.Listening() {
		t.Fatalf("expected listening after Start")
	}
	if !l.Stop() || l.Stop() {
		t.Fatalf("expected only the first Stop to change state")
	}
}

func TestWAVHeader(t *testing.T) {
	t.Parallel()

	pcm := []byte{1, 2, 3, 4}
	wav := WAV(pcm)
	if len(wav) != 48 {
		t.Fatalf("expected 48 bytes, got %d", len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" || string(wav[36:40]) != "data" {
		t.Fatalf("bad chunk ids: %q", wav[:40])
	}
	if got := binary.LittleEndian.Uint32(wav[4:8]); got != 40 {
		t.Fatalf("riff size = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[24:28]); got != SampleRate {
		t.Fatalf("sample rate = %d", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 4 {
		t.Fatalf("data size = %d", got)
	}
}

func TestMIMEType(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		want string
		ok   bool
	}{
		"note.WAV":     {"audio/wav", true},
		"a/b/c.mp3":    {"audio/mp3", true},
		"question.txt": {"", false},
	}
	for path, tc := range tests {
		got, ok := MIMEType(path)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("MIMEType(%q) = %q, %v", path, got, ok)
		}
	}
}
