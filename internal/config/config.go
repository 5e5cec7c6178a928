// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig           `yaml:"store" mapstructure:"store"`
	Engine   EngineConfig          `yaml:"engine" mapstructure:"engine"`
	Template TemplateConfig        `yaml:"template" mapstructure:"template"`
	Quality  QualityConfig         `yaml:"quality" mapstructure:"quality"`
	Dedupe   DedupeConfig          `yaml:"dedupe" mapstructure:"dedupe"`
	AI       AIConfig              `yaml:"ai" mapstructure:"ai"`
	Business model.BusinessContext `yaml:"business" mapstructure:"business"`
	Log      LogConfig             `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// EngineConfig configures batch generation.
type EngineConfig struct {
	MaxCombinationSpace int64 `yaml:"max_combination_space" mapstructure:"max_combination_space"`
	Concurrency         int   `yaml:"concurrency" mapstructure:"concurrency"`
}

// TemplateConfig configures template parsing.
type TemplateConfig struct {
	MaxPatternLength int `yaml:"max_pattern_length" mapstructure:"max_pattern_length"`
	MaxSlugLength    int `yaml:"max_slug_length" mapstructure:"max_slug_length"`
}

// QualityConfig configures the quality gate.
type QualityConfig struct {
	MinQualityScore float64 `yaml:"min_quality_score" mapstructure:"min_quality_score"`
	WarnScore       float64 `yaml:"warn_score" mapstructure:"warn_score"`
	WordCountMin    int     `yaml:"word_count_min" mapstructure:"word_count_min"`
	WordCountMax    int     `yaml:"word_count_max" mapstructure:"word_count_max"`
	MinDataPoints   int     `yaml:"min_data_points" mapstructure:"min_data_points"`
}

// DedupeConfig configures the near-duplicate post-check.
type DedupeConfig struct {
	SimilarityThreshold float64 `yaml:"duplicate_similarity_threshold" mapstructure:"duplicate_similarity_threshold"`
	RecentWindow        int     `yaml:"recent_window" mapstructure:"recent_window"`
}

// AIConfig configures the optional text augmentation provider.
type AIConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	Model             string  `yaml:"model" mapstructure:"model"`
	TimeoutMs         int     `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	MaxTokens         int64   `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	AugmentMinQuality float64 `yaml:"augment_min_quality" mapstructure:"augment_min_quality"`
	NarrativeMaxWords int     `yaml:"narrative_max_words" mapstructure:"narrative_max_words"`
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
	v.SetEnvPrefix("PAGEGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "pagegen.db")
	v.SetDefault("engine.max_combination_space", 50000)
	v.SetDefault("engine.concurrency", 8)
	v.SetDefault("template.max_pattern_length", 500)
	v.SetDefault("template.max_slug_length", 80)
	v.SetDefault("quality.min_quality_score", 0.6)
	v.SetDefault("quality.warn_score", 0.4)
	v.SetDefault("quality.word_count_min", 120)
	v.SetDefault("quality.word_count_max", 2500)
	v.SetDefault("quality.min_data_points", 3)
	v.SetDefault("dedupe.duplicate_similarity_threshold", 0.9)
	v.SetDefault("dedupe.recent_window", 50)
	v.SetDefault("ai.model", "claude-haiku-4-5-20251001")
	v.SetDefault("ai.timeout_ms", 10000)
	v.SetDefault("ai.max_tokens", 1024)
	v.SetDefault("ai.requests_per_second", 4)
	v.SetDefault("ai.augment_min_quality", 0.7)
	v.SetDefault("ai.narrative_max_words", 120)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants that would otherwise surface as
// confusing failures mid-batch.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return eris.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required")
	}
	if c.Engine.MaxCombinationSpace <= 0 {
		return eris.New("config: engine.max_combination_space must be positive")
	}
	if c.Engine.Concurrency <= 0 {
		return eris.New("config: engine.concurrency must be positive")
	}
	if c.Quality.WordCountMin >= c.Quality.WordCountMax {
		return eris.New("config: quality.word_count_min must be below word_count_max")
	}
	if c.Quality.MinQualityScore < 0 || c.Quality.MinQualityScore > 1 {
		return eris.New("config: quality.min_quality_score must be in [0,1]")
	}
	if c.Dedupe.SimilarityThreshold < 0 || c.Dedupe.SimilarityThreshold > 1 {
		return eris.New("config: dedupe.duplicate_similarity_threshold must be in [0,1]")
	}
	return nil
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
