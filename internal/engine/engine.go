// Package engine orchestrates batch page generation: expanding the
// requested slice of the combination space, running the per-combination
// pipeline under a bounded worker pool, and reassembling results in
// request order.
package engine

import (
	"time"

	"github.com/sells-group/pagegen-cli/internal/assemble"
	"github.com/sells-group/pagegen-cli/internal/dedupe"
	"github.com/sells-group/pagegen-cli/internal/enrich"
	"github.com/sells-group/pagegen-cli/internal/model"
	"github.com/sells-group/pagegen-cli/internal/quality"
	"github.com/sells-group/pagegen-cli/internal/store"
)

// Config tunes the orchestrator.
type Config struct {
	// MaxCombinationSpace is the fail-fast ceiling for unbounded runs.
	MaxCombinationSpace int64
	// Concurrency is the worker pool size.
	Concurrency int
	// AIModel prices token usage in the batch report.
	AIModel string
}

// DefaultConfig returns the orchestrator defaults.
func DefaultConfig() Config {
	return Config{
		MaxCombinationSpace: 50000,
		Concurrency:         8,
	}
}

// Request selects which combinations a batch covers. An explicit
// combination list takes precedence; otherwise Offset/Limit slice the
// template's combination space in its fixed iteration order. A zero Limit
// means the whole space from Offset, which is subject to the size guard.
type Request struct {
	Combinations []model.Combination
	Offset       int64
	Limit        int64
}

// subsetRequested reports whether the caller bounded the batch explicitly.
// Only unbounded generate-everything runs hit the space guard.
func (r Request) subsetRequested() bool {
	return len(r.Combinations) > 0 || r.Limit > 0
}

// Options are per-run flags.
type Options struct {
	// Force replaces already generated pages instead of skipping them.
	Force bool
	// Concurrency overrides the configured pool size when positive.
	Concurrency int
}

// Engine runs generation batches. Safe for concurrent use; per-batch state
// lives in Generate.
type Engine struct {
	cfg   Config
	st    store.Store
	stage *enrich.Stage
	gate  *quality.Gate
	asm   *assemble.Assembler
	dedup *dedupe.Gate

	nowFunc func() time.Time
}

// New creates an Engine from its pipeline stages.
func New(cfg Config, st store.Store, stage *enrich.Stage, gate *quality.Gate, asm *assemble.Assembler, dedup *dedupe.Gate) *Engine {
	def := DefaultConfig()
	if cfg.MaxCombinationSpace <= 0 {
		cfg.MaxCombinationSpace = def.MaxCombinationSpace
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	return &Engine{
		cfg:     cfg,
		st:      st,
		stage:   stage,
		gate:    gate,
		asm:     asm,
		dedup:   dedup,
		nowFunc: time.Now,
	}
}

// WithNow overrides the clock for tests.
func (e *Engine) WithNow(now func() time.Time) *Engine {
	e.nowFunc = now
	return e
}
