package cmd

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "careerkitsune"
	envPrefix = "CAREERKITSUNE"
)

type Config struct {
	Backend   string          `mapstructure:"backend"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Supabase  SupabaseConfig  `mapstructure:"supabase"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Voice     VoiceConfig     `mapstructure:"voice"`
	Server    ServerConfig    `mapstructure:"server"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	DSNFile  string `mapstructure:"dsn-file"`
	MaxConns int32  `mapstructure:"max-conns"`
}

type SupabaseConfig struct {
	URL             string `mapstructure:"url"`
	APIKey          string `mapstructure:"api-key"`
	APIKeyFile      string `mapstructure:"api-key-file"`
	AccessTokenFile string `mapstructure:"access-token-file"`
}

type AssistantConfig struct {
	UserID              string        `mapstructure:"user-id"`
	SearchLimit         int           `mapstructure:"search-limit"`
	CollaboratorTimeout time.Duration `mapstructure:"collaborator-timeout"`
	ThinkingDelay       bool          `mapstructure:"thinking-delay"`
	ExcludeApplied      bool          `mapstructure:"exclude-applied"`
	ExcludeCompanies    []string      `mapstructure:"exclude-companies"`
	HiddenJobsFile      string        `mapstructure:"hidden-jobs-file"`
}

type VoiceConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Gemini  *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	TTSModel   string `mapstructure:"tts-model"`
	Voice      string `mapstructure:"voice"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	SessionTTL    time.Duration `mapstructure:"session-ttl"`
	RedisURL      string        `mapstructure:"redis-url"`
	RatePerSecond float64       `mapstructure:"rate-per-second"`
	Burst         int           `mapstructure:"burst"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "careerkitsune is a conversational job search and interview preparation assistant",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is careerkitsune.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("backend", "", "persistence backend: sqlite, postgres or supabase")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("backend", "sqlite")
	viper.SetDefault("sqlite.path", app+".sqlite")
	viper.SetDefault("assistant.search-limit", 5)
	viper.SetDefault("assistant.collaborator-timeout", 10*time.Second)
	viper.SetDefault("assistant.thinking-delay", true)
	viper.SetDefault("assistant.exclude-applied", true)
	viper.SetDefault("voice.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("voice.gemini.tts-model", "gemini-2.5-flash-preview-tts")
	viper.SetDefault("voice.gemini.voice", "Kore")
	viper.SetDefault("voice.gemini.max-retries", 2)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.session-ttl", 30*time.Minute)
	viper.SetDefault("server.rate-per-second", 2)
	viper.SetDefault("server.burst", 5)

	// Unmarshal only sees environment overrides for keys viper already knows.
	for _, key := range []string{
		"postgres.dsn", "postgres.dsn-file",
		"supabase.url", "supabase.api-key", "supabase.api-key-file", "supabase.access-token-file",
		"assistant.user-id", "assistant.hidden-jobs-file",
		"voice.gemini.api-key", "voice.gemini.api-key-file",
		"server.redis-url",
	} {
		viper.SetDefault(key, "")
	}
	viper.SetDefault("voice.enabled", false)
	viper.SetDefault("postgres.max-conns", 10)
}

func initConfig() {
	// A missing .env is fine; it only seeds the environment for local runs.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Without an explicit --config the defaults and environment are enough.
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}
	return config, nil
}
