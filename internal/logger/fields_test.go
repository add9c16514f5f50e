package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestStringFields(t *testing.T) {
	fields := StringFields(
		StringField{Key: "  session_id  ", Value: "  abc  "},
		StringField{Key: "ignored", Value: "   "},
		StringField{Key: "   ", Value: "empty key"},
	)

	if len(fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(fields))
	}
	if fields[0].Key != "session_id" || fields[0].String != "abc" {
		t.Fatalf("unexpected field: %+v", fields[0])
	}
}

func TestWithSession(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithSession(zap.New(core), "s-1", "u-1").Info("utterance handled")
	WithSession(zap.New(core), "s-2", "").Info("anonymous")

	entries := observed.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	first := entries[0].ContextMap()
	if first[FieldSessionID] != "s-1" || first[FieldUserID] != "u-1" {
		t.Fatalf("unexpected fields: %v", first)
	}

	second := entries[1].ContextMap()
	if _, ok := second[FieldUserID]; ok {
		t.Fatalf("anonymous session must not carry a user id: %v", second)
	}
}

func TestWithVoice(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	WithVoice(zap.New(core), "gemini", "tts-model").Info("speaking")

	ctx := observed.All()[0].ContextMap()
	if ctx[FieldProvider] != "gemini" || ctx[FieldModel] != "tts-model" {
		t.Fatalf("unexpected voice fields: %v", ctx)
	}

	if len(VoiceFields("", "")) != 0 {
		t.Fatalf("expected no fields for empty values")
	}
}

func TestWithFieldsNilLogger(t *testing.T) {
	enriched := WithFields(nil, zap.String("k", "v"))
	if enriched == nil {
		t.Fatalf("expected fallback logger when nil provided")
	}
	enriched.Info("does not panic")
}

func TestNew(t *testing.T) {
	for _, json := range []bool{false, true} {
		l, err := New(json, true)
		if err != nil {
			t.Fatalf("New(json=%v): %v", json, err)
		}
		if !l.Core().Enabled(zapcore.DebugLevel) {
			t.Fatalf("expected debug level to be enabled")
		}
	}
}
