package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeModels struct {
	mu    sync.Mutex
	calls []generateCall
	queue []fakeResponse
}

func (f *fakeModels) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, generateCall{model: model, contents: contents, config: config})
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var slept []time.Duration
	original := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	t.Cleanup(func() { sleep = original })
	return &slept
}

func TestTranscribeSendsAudioInline(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	models.enqueue(textResponse("  find jobs  "), nil)
	c := newClient(models, Config{Model: "gemini-test"}, zap.NewNop())

	text, err := c.Transcribe(context.Background(), []byte("RIFF...."), "audio/wav")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "find jobs" {
		t.Fatalf("unexpected transcript %q", text)
	}

	call := models.calls[0]
	if call.model != "gemini-test" {
		t.Fatalf("unexpected model %q", call.model)
	}
	parts := call.contents[0].Parts
	if len(parts) != 2 || parts[0].Text != transcribePrompt {
		t.Fatalf("expected prompt then audio, got %+v", parts)
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "audio/wav" {
		t.Fatalf("expected inline wav audio, got %+v", parts[1])
	}
}

func TestSpeakUsesVoiceAndWrapsWAV(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	models.enqueue(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{InlineData: &genai.Blob{Data: []byte{0, 1, 2, 3}, MIMEType: "audio/L16;codec=pcm;rate=24000"}}}},
		}},
	}, nil)
	c := newClient(models, Config{}, nil)

	wav, err := c.Speak(context.Background(), "Hello!")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(wav) != 48 || string(wav[:4]) != "RIFF" {
		t.Fatalf("expected a wav file, got %d bytes", len(wav))
	}

	call := models.calls[0]
	if call.model != defaultTTSModel {
		t.Fatalf("unexpected tts model %q", call.model)
	}
	if call.config == nil || call.config.SpeechConfig == nil ||
		call.config.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != defaultVoice {
		t.Fatalf("expected prebuilt voice %q", defaultVoice)
	}
	if len(call.config.ResponseModalities) != 1 || call.config.ResponseModalities[0] != "AUDIO" {
		t.Fatalf("expected AUDIO modality, got %v", call.config.ResponseModalities)
	}
}

func TestRetriesOnTemporaryError(t *testing.T) {
	slept := noSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(textResponse("retry ok"), nil)
	c := newClient(models, Config{MaxRetries: 2}, nil)

	text, err := c.Transcribe(context.Background(), []byte{1}, "audio/wav")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if text != "retry ok" || len(models.calls) != 2 {
		t.Fatalf("unexpected result %q after %d calls", text, len(models.calls))
	}
	if len(*slept) != 1 || (*slept)[0] != baseDelay {
		t.Fatalf("expected one base delay, got %v", *slept)
	}
}

func TestStopsAfterRetriesExhausted(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)
	c := newClient(models, Config{MaxRetries: 2}, nil)

	if _, err := c.Speak(context.Background(), "hi"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60 seconds",
	})
	c := newClient(models, Config{MaxRetries: 3}, nil)

	if _, err := c.Transcribe(context.Background(), []byte{1}, "audio/wav"); err == nil {
		t.Fatal("expected error when quota delay too long")
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(models.calls))
	}
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		want  time.Duration
		retry bool
	}{
		{"server error backs off", genai.APIError{Code: 500}, 2 * time.Second, true},
		{"short quota delay", genai.APIError{Code: 429, Message: "Please retry in 3.5s."}, 3500 * time.Millisecond, true},
		{"bad request", genai.APIError{Code: 400}, 0, false},
		{"plain error", errors.New("boom"), 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, retry := retryDelay(tc.err, 1)
			if got != tc.want || retry != tc.retry {
				t.Fatalf("retryDelay = %v, %v; want %v, %v", got, retry, tc.want, tc.retry)
			}
		})
	}
}

func TestEmptyInputsRejected(t *testing.T) {
	t.Parallel()

	c := newClient(&fakeModels{}, Config{}, nil)
	if _, err := c.Transcribe(context.Background(), nil, "audio/wav"); err == nil {
		t.Fatal("expected error for empty audio")
	}
	if _, err := c.Speak(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty text")
	}
}
