package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/careerkitsune/careerkitsune-ai/internal/domain"
	"github.com/careerkitsune/careerkitsune-ai/internal/interview"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type noSkills struct{}

func (noSkills) UserSkills(context.Context, string) ([]domain.Skill, error) { return nil, nil }

func TestGetConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("CAREERKITSUNE_ASSISTANT_SEARCH_LIMIT", "7")
	t.Setenv("CAREERKITSUNE_POSTGRES_DSN", "postgres://localhost/careerkitsune")
	initConfig()

	config, err := getConfig()
	if err != nil {
		t.Fatalf("getConfig: %v", err)
	}
	if config.Backend != backendSQLite {
		t.Fatalf("expected sqlite backend by default, got %q", config.Backend)
	}
	if config.Assistant.SearchLimit != 7 {
		t.Fatalf("expected env override of search limit, got %d", config.Assistant.SearchLimit)
	}
	if config.Postgres.DSN != "postgres://localhost/careerkitsune" {
		t.Fatalf("expected dsn from env, got %q", config.Postgres.DSN)
	}
	if config.Assistant.CollaboratorTimeout != 10*time.Second || config.Server.SessionTTL != 30*time.Minute {
		t.Fatalf("unexpected durations: %+v %+v", config.Assistant, config.Server)
	}
	if config.Voice.Gemini == nil || config.Voice.Gemini.Voice != "Kore" {
		t.Fatalf("expected gemini defaults, got %+v", config.Voice.Gemini)
	}
}

func TestOpenRepositoryRejectsUnknownBackend(t *testing.T) {
	_, err := openRepository(context.Background(), &Config{Backend: "mongo"}, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestWritePlanFormats(t *testing.T) {
	plan, err := interview.NewGenerator(noSkills{}, nil).Generate(context.Background(), interview.Request{
		UserID:             "u1",
		CompanyName:        "Google",
		Role:               "Software Engineer",
		TimeUntilInterview: "in 5 days",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var text bytes.Buffer
	if err := writePlan(&text, plan, formatText); err != nil {
		t.Fatalf("text: %v", err)
	}
	if !strings.Contains(text.String(), "Readiness Level:") || !strings.Contains(text.String(), "preparation schedule") {
		t.Fatalf("unexpected text output:\n%s", text.String())
	}

	var asJSON bytes.Buffer
	if err := writePlan(&asJSON, plan, formatJSON); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded interview.Plan
	if err := json.Unmarshal(asJSON.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding json output: %v", err)
	}
	if decoded.CompanyName != "Google" || len(decoded.PreparationSchedule) != len(plan.PreparationSchedule) {
		t.Fatalf("unexpected json plan %+v", decoded)
	}

	var asYAML bytes.Buffer
	if err := writePlan(&asYAML, plan, formatYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML map[string]any
	if err := yaml.Unmarshal(asYAML.Bytes(), &fromYAML); err != nil {
		t.Fatalf("decoding yaml output: %v", err)
	}
	if fromYAML["time_until_interview"] != "in 5 days" {
		t.Fatalf("unexpected yaml plan %v", fromYAML["time_until_interview"])
	}
}
