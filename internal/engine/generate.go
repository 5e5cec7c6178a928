package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/pagegen-cli/internal/cost"
	"github.com/sells-group/pagegen-cli/internal/enrich"
	"github.com/sells-group/pagegen-cli/internal/model"
	"github.com/sells-group/pagegen-cli/internal/store"
	"github.com/sells-group/pagegen-cli/internal/variant"
	"github.com/sells-group/pagegen-cli/internal/varspace"
)

// outcome is one combination's result. Exactly one field is set; the zero
// value marks an item never dispatched before cancellation.
type outcome struct {
	page    *model.GeneratedPage
	skipped *model.SkippedDuplicate
	failure *model.QualityFailure
	itemErr *model.ItemError
}

// Generate runs one batch. Per-item failures are isolated into the result;
// the returned error is reserved for batch-level refusals such as the
// combination space guard. Cancellation is cooperative: it is checked
// between dispatches, and items already in flight run to completion.
func (e *Engine) Generate(ctx context.Context, tmpl *model.Template, set *model.VariableSet, req Request, opts Options) (*model.BatchResult, error) {
	space, err := varspace.New(tmpl, set)
	if err != nil {
		return nil, err
	}

	var combos []model.Combination
	if len(req.Combinations) > 0 {
		combos = req.Combinations
	} else {
		if err := space.Guard(e.cfg.MaxCombinationSpace, req.subsetRequested()); err != nil {
			return nil, err
		}
		combos = space.Iterate(req.Offset, req.Limit)
	}

	result := &model.BatchResult{
		BatchID:    uuid.New().String(),
		TemplateID: tmpl.ID,
		Requested:  len(combos),
		StartedAt:  e.nowFunc().UTC(),
	}

	ct := variant.DetectContentType(tmpl)
	if vs := variant.VariantSpaceSize(ct); len(combos) > vs {
		zap.L().Warn("engine: batch larger than variant space, phrasing will repeat",
			zap.String("batch_id", result.BatchID),
			zap.Int("requested", len(combos)),
			zap.Int("variant_space", vs),
		)
	}

	costs := cost.NewAggregator(e.cfg.AIModel, nil)
	stage := e.stage.WithCosts(costs)

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = e.cfg.Concurrency
	}

	zap.L().Info("engine: batch started",
		zap.String("batch_id", result.BatchID),
		zap.String("template_id", tmpl.ID),
		zap.Int("requested", len(combos)),
		zap.Int("concurrency", concurrency),
		zap.Bool("force", opts.Force),
	)

	// Workers get a detached context so in-flight items finish cleanly;
	// only the dispatch loop observes cancellation.
	workCtx := context.WithoutCancel(ctx)

	outcomes := make([]outcome, len(combos))
	g := new(errgroup.Group)
	g.SetLimit(concurrency)

	for i, c := range combos {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}
		g.Go(func() error {
			outcomes[i] = e.processOne(workCtx, stage, space, tmpl, ct, i, c, opts.Force)
			return nil
		})
	}
	_ = g.Wait()

	// Workers wrote outcomes at their request index, so walking the slice
	// restores request order no matter how processing interleaved.
	for _, o := range outcomes {
		switch {
		case o.page != nil:
			result.Generated = append(result.Generated, *o.page)
		case o.skipped != nil:
			result.SkippedDuplicates = append(result.SkippedDuplicates, *o.skipped)
		case o.failure != nil:
			result.FailedQuality = append(result.FailedQuality, *o.failure)
		case o.itemErr != nil:
			result.Errors = append(result.Errors, *o.itemErr)
		}
	}

	snap := costs.Snapshot()
	result.Usage = model.AIUsage{
		Calls:        snap.Calls,
		Fallbacks:    snap.Fallbacks,
		InputTokens:  snap.InputTokens,
		OutputTokens: snap.OutputTokens,
		CostUSD:      snap.CostUSD,
	}
	result.FinishedAt = e.nowFunc().UTC()

	zap.L().Info("engine: batch finished",
		zap.String("batch_id", result.BatchID),
		zap.Int("generated", len(result.Generated)),
		zap.Int("skipped_duplicates", len(result.SkippedDuplicates)),
		zap.Int("failed_quality", len(result.FailedQuality)),
		zap.Int("errors", len(result.Errors)),
		zap.Bool("cancelled", result.Cancelled),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

// processOne runs the full per-combination pipeline: validate, dedup
// pre-check, enrich, variant selection, assembly, quality gate, persist.
func (e *Engine) processOne(ctx context.Context, stage *enrich.Stage, space *varspace.Space, tmpl *model.Template, ct model.ContentType, idx int, c model.Combination, force bool) outcome {
	if err := space.ValidateCombination(c); err != nil {
		return outcome{itemErr: &model.ItemError{Index: idx, Reason: err.Error()}}
	}
	key := c.Key()

	if !force {
		pageID, exists, err := e.dedup.PreCheck(ctx, tmpl.ID, key)
		if err != nil {
			return outcome{itemErr: &model.ItemError{Index: idx, CombinationKey: key, Reason: err.Error()}}
		}
		if exists {
			return outcome{skipped: &model.SkippedDuplicate{Index: idx, CombinationKey: key, ExistingPageID: pageID}}
		}
	}

	ec := stage.Enrich(ctx, c)
	v := variant.Select(tmpl.ID, c, ct)
	page := e.asm.Assemble(tmpl, c, ec, v)

	assessment := e.gate.Assess(page)
	page.QualityScore = assessment.Score
	page.Verdict = assessment.Verdict
	page.Warnings = append(page.Warnings, assessment.Warnings...)

	if assessment.Verdict == model.VerdictReject {
		zap.L().Warn("engine: page rejected by quality gate",
			zap.String("combination", c.String()),
			zap.String("failed_check", assessment.FailedCheck),
			zap.Float64("score", assessment.Score),
		)
		return outcome{failure: &model.QualityFailure{
			Index:          idx,
			CombinationKey: key,
			Score:          assessment.Score,
			FailedCheck:    assessment.FailedCheck,
		}}
	}

	if len(ec.Misses) > 0 {
		page.Warnings = append(page.Warnings, "baseline defaults used for: "+strings.Join(ec.Misses, ", "))
	}
	page.Warnings = append(page.Warnings, e.dedup.PostCheck(ctx, page)...)

	if err := e.dedup.Persist(ctx, page, force); err != nil {
		if errors.Is(err, store.ErrDuplicatePage) {
			// A concurrent run won the ledger race after our pre-check.
			pageID, _, _ := e.st.LookupFingerprint(ctx, tmpl.ID, key)
			return outcome{skipped: &model.SkippedDuplicate{Index: idx, CombinationKey: key, ExistingPageID: pageID}}
		}
		return outcome{itemErr: &model.ItemError{Index: idx, CombinationKey: key, Reason: err.Error()}}
	}
	return outcome{page: page}
}
