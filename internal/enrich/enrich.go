// Package enrich maps combinations to derived domain facts: reference
// baseline lookups, deterministic formula derivation and an optional AI
// narrative with a deterministic fallback.
package enrich

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/pagegen-cli/internal/cost"
	"github.com/sells-group/pagegen-cli/internal/model"
	"github.com/sells-group/pagegen-cli/pkg/aitext"
)

// Config tunes the enrichment stage.
type Config struct {
	// AITimeout bounds each augmentation call.
	AITimeout time.Duration
	// AugmentMinQuality is the data_quality floor below which augmentation
	// is skipped; thin data does not justify spending tokens.
	AugmentMinQuality float64
	// NarrativeMaxWords bounds AI narrative length.
	NarrativeMaxWords int
}

// DefaultConfig returns the stage defaults.
func DefaultConfig() Config {
	return Config{
		AITimeout:         10 * time.Second,
		AugmentMinQuality: 0.7,
		NarrativeMaxWords: 120,
	}
}

// qualityPenalty is subtracted from data_quality per baseline miss.
const qualityPenalty = 0.2

// qualityFloor is the minimum data_quality after penalties.
const qualityFloor = 0.2

// Stage enriches combinations. It performs no network I/O itself; the only
// external suspension is the injected generator, bounded by AITimeout.
type Stage struct {
	cfg      Config
	gen      aitext.Generator // nil disables augmentation entirely
	business *model.BusinessContext
	costs    *cost.Aggregator
}

// NewStage creates an enrichment stage. gen and business may be nil; costs
// may be nil when no usage reporting is wanted.
func NewStage(cfg Config, gen aitext.Generator, business *model.BusinessContext, costs *cost.Aggregator) *Stage {
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = DefaultConfig().AITimeout
	}
	if cfg.AugmentMinQuality <= 0 {
		cfg.AugmentMinQuality = DefaultConfig().AugmentMinQuality
	}
	if cfg.NarrativeMaxWords <= 0 {
		cfg.NarrativeMaxWords = DefaultConfig().NarrativeMaxWords
	}
	return &Stage{cfg: cfg, gen: gen, business: business, costs: costs}
}

// WithCosts returns a copy of the stage reporting usage to the given
// batch-scoped aggregator.
func (s *Stage) WithCosts(costs *cost.Aggregator) *Stage {
	clone := *s
	clone.costs = costs
	return &clone
}

// Enrich looks up reference baselines for every combination value, derives
// secondary fields and fills the narrative. A lookup miss is not an error:
// it falls back to the generic default profile and lowers data_quality.
func (s *Stage) Enrich(ctx context.Context, c model.Combination) *model.EnrichedContext {
	ec := &model.EnrichedContext{DataQuality: 1.0}

	category := defaultCategory
	location := defaultLocation
	categoryFound := false
	locationFound := false

	for _, p := range c.Pairs() {
		if cp, ok := lookupCategory(p.Value); ok && !categoryFound {
			category = cp
			categoryFound = true
			continue
		}
		if lp, ok := lookupLocation(p.Value); ok && !locationFound {
			location = lp
			locationFound = true
		}
	}

	if !categoryFound {
		ec.DataQuality -= qualityPenalty
		ec.Misses = append(ec.Misses, "category")
	}
	if !locationFound {
		ec.DataQuality -= qualityPenalty
		ec.Misses = append(ec.Misses, "location")
	}
	ec.DataQuality = math.Max(ec.DataQuality, qualityFloor)

	ec.Revenue = round2(category.Revenue * location.CostMultiplier)
	ec.Expenses = round2(category.Expenses * location.CostMultiplier)
	ec.Investment = category.Investment
	ec.Occupancy = category.Occupancy
	ec.Demand = clamp(category.Demand+location.DemandAdjustment, 0, 100)
	ec.Competition = category.Competition

	s.Derive(ec)
	s.augment(ctx, c, ec)
	return ec
}

// Derive computes secondary fields from the raw baselines using fixed
// formulas and threshold rules. Exported so recomputation after manual
// edits stays consistent with generation.
func (s *Stage) Derive(ec *model.EnrichedContext) {
	ec.Profit = round2(ec.Revenue - ec.Expenses)
	if ec.Investment > 0 {
		ec.ROI = round2(ec.Profit * 12 / ec.Investment * 100)
	}
	ec.Profitable = ec.ROI >= 15 && ec.Occupancy >= 60

	ec.DemandLabel = tierLabel(ec.Demand)
	ec.CompetitionLabel = tierLabel(ec.Competition)
}

func tierLabel(index float64) string {
	switch {
	case index >= 70:
		return "high"
	case index >= 40:
		return "moderate"
	default:
		return "low"
	}
}

// augment fills the narrative, via AI when data quality justifies it and
// the generator is available, otherwise deterministically. Provider failure
// or timeout degrades a single page's richness, never the batch.
func (s *Stage) augment(ctx context.Context, c model.Combination, ec *model.EnrichedContext) {
	if s.gen == nil || ec.DataQuality < s.cfg.AugmentMinQuality {
		ec.Narrative = s.FallbackNarrative(c, ec)
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.AITimeout)
	defer cancel()

	text, err := s.gen.GenerateText(callCtx, s.prompt(c, ec), aitext.Constraints{
		MaxWords: s.cfg.NarrativeMaxWords,
	})
	if err != nil || text == nil || text.Content == "" {
		zap.L().Warn("enrich: augmentation failed, using deterministic fallback",
			zap.String("combination", c.String()),
			zap.Error(err),
		)
		if s.costs != nil {
			s.costs.AddFallback()
		}
		ec.Narrative = s.FallbackNarrative(c, ec)
		return
	}

	if s.costs != nil {
		s.costs.AddCall(text.Usage.InputTokens, text.Usage.OutputTokens)
	}
	ec.Narrative = text.Content
	ec.Augmented = true
}

func (s *Stage) prompt(c model.Combination, ec *model.EnrichedContext) string {
	p := fmt.Sprintf(
		"Write one paragraph about the business opportunity for %s. "+
			"Facts to use: monthly revenue around $%.0f, monthly expenses around $%.0f, "+
			"annualized ROI %.1f%%, demand is %s, competition is %s.",
		c.String(), ec.Revenue, ec.Expenses, ec.ROI, ec.DemandLabel, ec.CompetitionLabel,
	)
	if s.business != nil && s.business.TargetAudience != "" {
		p += fmt.Sprintf(" The audience is %s.", s.business.TargetAudience)
	}
	return p
}

// FallbackNarrative renders the deterministic narrative used when AI
// augmentation is skipped or fails. Pure function of its inputs.
func (s *Stage) FallbackNarrative(c model.Combination, ec *model.EnrichedContext) string {
	verdict := "a stable"
	if ec.Profitable {
		verdict = "a profitable"
	} else if ec.Profit < 0 {
		verdict = "a challenging"
	}

	audience := "local operators"
	if s.business != nil && s.business.TargetAudience != "" {
		audience = s.business.TargetAudience
	}

	return fmt.Sprintf(
		"Market data points to %s opportunity here. Typical operations see monthly revenue near $%.0f against $%.0f in expenses, "+
			"an annualized return of %.1f%% on a $%.0f investment, and %.0f%% average utilization. "+
			"Demand in this segment is %s and competition is %s, which makes it a practical option for %s.",
		verdict, ec.Revenue, ec.Expenses, ec.ROI, ec.Investment, ec.Occupancy,
		ec.DemandLabel, ec.CompetitionLabel, audience,
	)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
