package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Media     MediaConfig     `yaml:"media" mapstructure:"media"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	ScoringModel   string `yaml:"scoring_model" mapstructure:"scoring_model"`
	VisionModel    string `yaml:"vision_model" mapstructure:"vision_model"`
	SynthesisModel string `yaml:"synthesis_model" mapstructure:"synthesis_model"`
}

// PipelineConfig configures scoring and orchestration behavior.
type PipelineConfig struct {
	Strategy             string `yaml:"strategy" mapstructure:"strategy"`
	Threshold            int    `yaml:"threshold" mapstructure:"threshold"`
	MaxConcurrentScores  int    `yaml:"max_concurrent_scores" mapstructure:"max_concurrent_scores"`
	MaxConcurrentQueries int    `yaml:"max_concurrent_queries" mapstructure:"max_concurrent_queries"`
	QueryTimeoutSecs     int    `yaml:"query_timeout_secs" mapstructure:"query_timeout_secs"`
}

// MediaConfig configures image evidence extraction.
type MediaConfig struct {
	Enabled           bool     `yaml:"enabled" mapstructure:"enabled"`
	AllowedHosts      []string `yaml:"allowed_hosts" mapstructure:"allowed_hosts"`
	AllowedExtensions []string `yaml:"allowed_extensions" mapstructure:"allowed_extensions"`
	MaxPerSegment     int      `yaml:"max_per_segment" mapstructure:"max_per_segment"`
}

// FetchConfig configures the HTTP fetcher used for corpora and media.
type FetchConfig struct {
	UserAgent    string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries   int    `yaml:"max_retries" mapstructure:"max_retries"`
	MaxBodyBytes int64  `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// ServerConfig configures the read-only HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EVIDENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "evidence.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.scoring_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.vision_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.synthesis_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("pipeline.strategy", "graded")
	v.SetDefault("pipeline.threshold", 0)
	v.SetDefault("pipeline.max_concurrent_scores", 4)
	v.SetDefault("pipeline.max_concurrent_queries", 2)
	v.SetDefault("pipeline.query_timeout_secs", 120)
	v.SetDefault("media.enabled", true)
	v.SetDefault("media.allowed_extensions", []string{"png", "jpg", "jpeg"})
	v.SetDefault("media.max_per_segment", 4)
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.max_body_bytes", 32<<20)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
