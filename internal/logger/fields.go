package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldApp       = "app"
	FieldSessionID = "session_id"
	FieldUserID    = "user_id"
	FieldProvider  = "voice_provider"
	FieldModel     = "voice_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// WithFields attaches fields to logger, falling back to a no-op logger on nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// SessionFields identifies a conversation. Anonymous sessions carry no user_id.
func SessionFields(sessionID, userID string) []zap.Field {
	return StringFields(
		StringField{Key: FieldSessionID, Value: sessionID},
		StringField{Key: FieldUserID, Value: userID},
	)
}

func WithSession(logger *zap.Logger, sessionID, userID string) *zap.Logger {
	return WithFields(logger, SessionFields(sessionID, userID)...)
}

// VoiceFields describes the speech backend in use.
func VoiceFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithVoice(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, VoiceFields(provider, model)...)
}
