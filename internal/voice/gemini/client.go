// Package gemini implements the voice capabilities on the Google GenAI API:
// transcription through a multimodal prompt and synthesis through a TTS model.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/logger"
	"github.com/careerkitsune/careerkitsune-ai/internal/utils"
	"github.com/careerkitsune/careerkitsune-ai/internal/voice"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	provider        = "gemini"
	defaultModel    = "gemini-2.5-flash"
	defaultTTSModel = "gemini-2.5-flash-preview-tts"
	defaultVoice    = "Kore"

	baseDelay = time.Second
	// Quota errors asking to come back later than this are not retried.
	maxRetryDelay = 20 * time.Second

	transcribePrompt = "Transcribe this recording of a job seeker talking to their career assistant. Return only the spoken words as plain text."
)

var (
	sleep = utils.WaitFor

	retryAfterPattern = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)
)

// contentModel is the part of genai.Models the client needs.
type contentModel interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Config struct {
	APIKey     string `mapstructure:"api-key"`
	Model      string `mapstructure:"model"`
	TTSModel   string `mapstructure:"tts-model"`
	Voice      string `mapstructure:"voice"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type Client struct {
	models     contentModel
	model      string
	ttsModel   string
	voice      string
	maxRetries int
	logger     *zap.Logger
}

var (
	_ voice.Transcriber = (*Client)(nil)
	_ voice.Speaker     = (*Client)(nil)
)

// New creates a client on the Gemini API backend.
func New(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newClient(client.Models, cfg, log), nil
}

func newClient(models contentModel, cfg Config, log *zap.Logger) *Client {
	c := &Client{
		models:     models,
		model:      orDefault(cfg.Model, defaultModel),
		ttsModel:   orDefault(cfg.TTSModel, defaultTTSModel),
		voice:      orDefault(cfg.Voice, defaultVoice),
		maxRetries: cfg.MaxRetries,
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}
	c.logger = logger.WithVoice(log, provider, c.model)
	return c
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

// Transcribe sends the audio inline with a transcription instruction.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio must not be empty")
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcribePrompt),
			{InlineData: &genai.Blob{Data: audio, MIMEType: mimeType}},
		}, genai.RoleUser),
	}

	resp, err := c.generate(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return "", errors.New("gemini api returned an empty transcript")
	}
	c.logger.Debug("audio transcribed", zap.Int("audio_bytes", len(audio)), zap.String("text", utils.TruncateForLog(text, 80)))
	return text, nil
}

// Speak synthesizes text with the configured prebuilt voice.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
		},
	}

	resp, err := c.generate(ctx, c.ttsModel, genai.Text(text), config)
	if err != nil {
		return nil, fmt.Errorf("speak: %w", err)
	}

	pcm := responseAudio(resp)
	if len(pcm) == 0 {
		return nil, errors.New("gemini api returned no audio")
	}
	c.logger.Debug("reply synthesized", zap.String("tts_model", c.ttsModel), zap.Int("pcm_bytes", len(pcm)))
	return voice.WAV(pcm), nil
}

func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		resp, err := c.models.GenerateContent(ctx, model, contents, config)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == c.maxRetries-1 {
			break
		}
		c.logger.Warn("gemini request failed, retrying",
			zap.String("model", model),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

// retryDelay decides whether err is temporary and how long to back off.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return 0, false
	}

	delay := baseDelay * time.Duration(1<<attempt)
	switch apiErr.Code {
	case http.StatusTooManyRequests:
		if m := retryAfterPattern.FindStringSubmatch(apiErr.Message); m != nil {
			secs, perr := strconv.ParseFloat(m[1], 64)
			if perr == nil {
				delay = time.Duration(secs * float64(time.Second))
			}
		}
		return delay, delay <= maxRetryDelay
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return delay, true
	default:
		return 0, false
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || strings.TrimSpace(part.Text) == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString(" ")
			}
			builder.WriteString(strings.TrimSpace(part.Text))
		}
	}
	return builder.String()
}

func responseAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil {
		return nil
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data
			}
		}
	}
	return nil
}
