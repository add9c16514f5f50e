// Package voice holds the speech capabilities the chat loop can use around
// the text assistant. The assistant itself never sees audio.
package voice

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Transcriber turns recorded speech into an utterance.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Speaker synthesizes a reply. The returned bytes are a complete WAV file.
type Speaker interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// Listener is the capture toggle behind start/stop listening. It only tracks
// state; the caller decides where audio comes from while it is on.
type Listener struct {
	mu        sync.Mutex
	listening bool
	logger    *zap.Logger
}

func NewListener(logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Listener{logger: logger}
}

// Start turns capture on and reports whether it was off before.
func (l *Listener) Start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.listening {
		return false
	}
	l.listening = true
	l.logger.Debug("listening started")
	return true
}

// Stop turns capture off and reports whether it was on before.
func (l *Listener) Stop() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.listening {
		return false
	}
	l.listening = false
	l.logger.Debug("listening stopped")
	return true
}

func (l *Listener) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listening
}

var audioTypes = map[string]string{
	".wav":  "audio/wav",
	".mp3":  "audio/mp3",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".aac":  "audio/aac",
	".aiff": "audio/aiff",
}

// MIMEType guesses the audio type of a file from its extension.
func MIMEType(path string) (string, bool) {
	t, ok := audioTypes[strings.ToLower(filepath.Ext(path))]
	return t, ok
}
