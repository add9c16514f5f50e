package cmd

import (
	"context"
	"fmt"

	"github.com/careerkitsune/careerkitsune-ai/internal/dialogue"
	"github.com/careerkitsune/careerkitsune-ai/internal/filtering"
	"github.com/careerkitsune/careerkitsune-ai/internal/secrets"
	"github.com/careerkitsune/careerkitsune-ai/internal/store"
	"github.com/careerkitsune/careerkitsune-ai/internal/store/postgres"
	"github.com/careerkitsune/careerkitsune-ai/internal/store/sqlite"
	"github.com/careerkitsune/careerkitsune-ai/internal/supabase"
	"github.com/careerkitsune/careerkitsune-ai/internal/utils"
	"github.com/careerkitsune/careerkitsune-ai/internal/voice/gemini"

	"go.uber.org/zap"
)

const (
	backendSQLite   = "sqlite"
	backendPostgres = "postgres"
	backendSupabase = "supabase"
)

// openRepository connects the configured persistence backend.
func openRepository(ctx context.Context, config *Config, logger *zap.Logger) (store.Repository, error) {
	switch config.Backend {
	case backendSQLite, "":
		s, err := sqlite.Open(config.SQLite.Path)
		if err != nil {
			return nil, err
		}
		// The local database is created on first use.
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		logger.Info("using sqlite backend", zap.String("path", config.SQLite.Path))
		return s, nil

	case backendPostgres:
		dsn, err := secrets.Load(secrets.Source{
			Name:  "postgres dsn",
			Value: config.Postgres.DSN,
			File:  config.Postgres.DSNFile,
			Env:   "DATABASE_URL",
		})
		if err != nil {
			return nil, err
		}
		return postgres.Connect(ctx, dsn, config.Postgres.MaxConns, logger.Named("postgres"))

	case backendSupabase:
		if config.Supabase.URL == "" {
			return nil, fmt.Errorf("supabase.url is required for the %s backend", backendSupabase)
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "supabase api key",
			Value: config.Supabase.APIKey,
			File:  config.Supabase.APIKeyFile,
		})
		if err != nil {
			return nil, err
		}
		client := supabase.New(logger.Named("supabase"), config.Supabase.URL, apiKey)

		token, err := secrets.LoadOptional(secrets.Source{
			Name: "supabase access token",
			File: config.Supabase.AccessTokenFile,
		})
		if err != nil {
			return nil, err
		}
		if token != "" {
			client = client.WithAccessToken(token)
		}
		logger.Info("using supabase backend", zap.String("url", config.Supabase.URL), zap.Bool("user_token", token != ""))
		return client, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", config.Backend)
	}
}

func newAssistant(repo store.Repository, config *Config, logger *zap.Logger) *dialogue.Assistant {
	a := config.Assistant
	filters := filtering.Default(a.ExcludeApplied, a.ExcludeCompanies, a.HiddenJobsFile)
	for _, st := range filtering.Describe(filters) {
		logger.Debug("job filter", zap.String("name", st.Name), zap.Bool("enabled", st.Enabled), zap.String("reason", st.Reason))
	}

	return dialogue.NewAssistant(dialogue.Deps{
		Jobs:         repo,
		Skills:       repo,
		Applications: repo,
		Logger:       logger.Named("dialogue"),
	}, dialogue.Options{
		SearchLimit:         a.SearchLimit,
		CollaboratorTimeout: a.CollaboratorTimeout,
		Pacer:               utils.Pacer{Enabled: a.ThinkingDelay},
		Filters:             filters,
	})
}

// newVoice returns nil when voice is disabled.
func newVoice(ctx context.Context, config *Config, logger *zap.Logger) (*gemini.Client, error) {
	if !config.Voice.Enabled {
		return nil, nil
	}
	g := config.Voice.Gemini
	if g == nil {
		return nil, fmt.Errorf("voice.gemini configuration is required when voice is enabled")
	}
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: g.APIKey,
		File:  g.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}
	return gemini.New(ctx, gemini.Config{
		APIKey:     apiKey,
		Model:      g.Model,
		TTSModel:   g.TTSModel,
		Voice:      g.Voice,
		MaxRetries: g.MaxRetries,
	}, logger.Named("voice"))
}
