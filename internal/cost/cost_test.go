package cost

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregator_Snapshot(t *testing.T) {
	a := NewAggregator("claude-haiku-4-5-20251001", nil)

	a.AddCall(1000, 500)
	a.AddCall(2000, 1000)
	a.AddFallback()

	s := a.Snapshot()
	assert.Equal(t, int64(2), s.Calls)
	assert.Equal(t, int64(1), s.Fallbacks)
	assert.Equal(t, int64(3000), s.InputTokens)
	assert.Equal(t, int64(1500), s.OutputTokens)
	// 3000 in at $0.80/M + 1500 out at $4.00/M.
	assert.InDelta(t, 0.0024+0.006, s.CostUSD, 1e-9)
}

func TestAggregator_UnknownModelPricesZero(t *testing.T) {
	a := NewAggregator("some-future-model", nil)
	a.AddCall(1_000_000, 1_000_000)

	assert.Equal(t, 0.0, a.Snapshot().CostUSD)
}

func TestAggregator_ConcurrentReporting(t *testing.T) {
	a := NewAggregator("claude-haiku-4-5-20251001", nil)

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.AddCall(10, 5)
			a.AddFallback()
		}()
	}
	wg.Wait()

	s := a.Snapshot()
	assert.Equal(t, int64(50), s.Calls)
	assert.Equal(t, int64(50), s.Fallbacks)
	assert.Equal(t, int64(500), s.InputTokens)
	assert.Equal(t, int64(250), s.OutputTokens)
}

func TestAggregator_CustomRates(t *testing.T) {
	a := NewAggregator("custom", map[string]ModelRate{"custom": {Input: 1, Output: 2}})
	a.AddCall(1_000_000, 1_000_000)

	assert.InDelta(t, 3.0, a.Snapshot().CostUSD, 1e-9)
}
