package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pagegen-cli/internal/assemble"
	"github.com/sells-group/pagegen-cli/internal/dedupe"
	"github.com/sells-group/pagegen-cli/internal/engine"
	"github.com/sells-group/pagegen-cli/internal/enrich"
	"github.com/sells-group/pagegen-cli/internal/model"
	"github.com/sells-group/pagegen-cli/internal/quality"
	"github.com/sells-group/pagegen-cli/internal/store"
	"github.com/sells-group/pagegen-cli/internal/template"
	"github.com/sells-group/pagegen-cli/internal/varimport"
	"github.com/sells-group/pagegen-cli/pkg/aitext"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initGenerator returns nil when no API key is configured; generation then
// uses the deterministic narrative fallback throughout.
func initGenerator() aitext.Generator {
	if cfg.AI.Key == "" {
		return nil
	}
	return aitext.NewAnthropic(aitext.AnthropicConfig{
		APIKey:            cfg.AI.Key,
		Model:             cfg.AI.Model,
		MaxTokens:         cfg.AI.MaxTokens,
		RequestsPerSecond: cfg.AI.RequestsPerSecond,
	})
}

func initEngine(st store.Store) *engine.Engine {
	stage := enrich.NewStage(enrich.Config{
		AITimeout:         time.Duration(cfg.AI.TimeoutMs) * time.Millisecond,
		AugmentMinQuality: cfg.AI.AugmentMinQuality,
		NarrativeMaxWords: cfg.AI.NarrativeMaxWords,
	}, initGenerator(), &cfg.Business, nil)

	gate := quality.New(quality.Config{
		WordCountMin:  cfg.Quality.WordCountMin,
		WordCountMax:  cfg.Quality.WordCountMax,
		MinDataPoints: cfg.Quality.MinDataPoints,
		MinScore:      cfg.Quality.MinQualityScore,
		WarnScore:     cfg.Quality.WarnScore,
	})

	asm := assemble.New(assemble.Config{
		MaxSlugLength: cfg.Template.MaxSlugLength,
	})

	dedup := dedupe.New(dedupe.Config{
		SimilarityThreshold: cfg.Dedupe.SimilarityThreshold,
		RecentWindow:        cfg.Dedupe.RecentWindow,
	}, st)

	return engine.New(engine.Config{
		MaxCombinationSpace: cfg.Engine.MaxCombinationSpace,
		Concurrency:         cfg.Engine.Concurrency,
		AIModel:             cfg.AI.Model,
	}, st, stage, gate, asm, dedup)
}

func loadInputs(templatePath, varsPath string) (*model.Template, *model.VariableSet, error) {
	tmpl, err := template.LoadFile(templatePath, cfg.Template.MaxPatternLength)
	if err != nil {
		return nil, nil, err
	}
	set, err := varimport.Load(varsPath)
	if err != nil {
		return nil, nil, err
	}
	return tmpl, set, nil
}
