package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "pagegen.db", cfg.Store.DatabaseURL)
	assert.Equal(t, int64(50000), cfg.Engine.MaxCombinationSpace)
	assert.Equal(t, 8, cfg.Engine.Concurrency)
	assert.Equal(t, 500, cfg.Template.MaxPatternLength)
	assert.Equal(t, 0.6, cfg.Quality.MinQualityScore)
	assert.Equal(t, 0.9, cfg.Dedupe.SimilarityThreshold)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.AI.Model)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PAGEGEN_STORE_DRIVER", "postgres")
	t.Setenv("PAGEGEN_STORE_DATABASE_URL", "postgres://localhost/pagegen")
	t.Setenv("PAGEGEN_ENGINE_CONCURRENCY", "4")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/pagegen", cfg.Store.DatabaseURL)
	assert.Equal(t, 4, cfg.Engine.Concurrency)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "oracle" }, "store driver"},
		{"empty url", func(c *Config) { c.Store.DatabaseURL = "" }, "database_url"},
		{"zero space", func(c *Config) { c.Engine.MaxCombinationSpace = 0 }, "max_combination_space"},
		{"zero concurrency", func(c *Config) { c.Engine.Concurrency = 0 }, "concurrency"},
		{"inverted word bounds", func(c *Config) { c.Quality.WordCountMin = 3000 }, "word_count_min"},
		{"score out of range", func(c *Config) { c.Quality.MinQualityScore = 1.5 }, "min_quality_score"},
		{"similarity out of range", func(c *Config) { c.Dedupe.SimilarityThreshold = 2 }, "similarity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "nonsense", Format: "json"}))
}
