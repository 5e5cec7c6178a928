// Package cost aggregates AI usage per batch. Counters are owned by the
// batch that created them, never process-global; increments are atomic so
// concurrent workers can report without coordination.
package cost

import "sync/atomic"

// ModelRate holds per-model token pricing in USD per million tokens.
type ModelRate struct {
	Input  float64 `yaml:"input" mapstructure:"input"`
	Output float64 `yaml:"output" mapstructure:"output"`
}

// DefaultRates returns pricing for the models the generator defaults to.
func DefaultRates() map[string]ModelRate {
	return map[string]ModelRate{
		"claude-haiku-4-5-20251001":  {Input: 0.80, Output: 4.00},
		"claude-sonnet-4-5-20250929": {Input: 3.00, Output: 15.00},
	}
}

// Aggregator accumulates AI usage for a single batch.
type Aggregator struct {
	model string
	rates map[string]ModelRate

	calls        atomic.Int64
	fallbacks    atomic.Int64
	inputTokens  atomic.Int64
	outputTokens atomic.Int64
}

// NewAggregator creates an aggregator pricing usage against the given model.
func NewAggregator(model string, rates map[string]ModelRate) *Aggregator {
	if rates == nil {
		rates = DefaultRates()
	}
	return &Aggregator{model: model, rates: rates}
}

// AddCall records a successful AI call with its token usage.
func (a *Aggregator) AddCall(inputTokens, outputTokens int64) {
	a.calls.Add(1)
	a.inputTokens.Add(inputTokens)
	a.outputTokens.Add(outputTokens)
}

// AddFallback records a call that degraded to the deterministic fallback.
func (a *Aggregator) AddFallback() {
	a.fallbacks.Add(1)
}

// Snapshot is a point-in-time view of accumulated usage.
type Snapshot struct {
	Calls        int64
	Fallbacks    int64
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// Snapshot returns accumulated usage with the estimated cost. Unknown models
// price at zero.
func (a *Aggregator) Snapshot() Snapshot {
	s := Snapshot{
		Calls:        a.calls.Load(),
		Fallbacks:    a.fallbacks.Load(),
		InputTokens:  a.inputTokens.Load(),
		OutputTokens: a.outputTokens.Load(),
	}
	if rate, ok := a.rates[a.model]; ok {
		s.CostUSD = (float64(s.InputTokens)/1e6)*rate.Input + (float64(s.OutputTokens)/1e6)*rate.Output
	}
	return s
}
