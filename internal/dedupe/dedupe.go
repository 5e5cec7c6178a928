// Package dedupe guarantees at-most-once page creation per
// (template, combination) via the fingerprint ledger, and flags
// near-duplicate rendered content across combinations.
package dedupe

import (
	"context"
	"fmt"
	"math/bits"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/pagegen-cli/internal/model"
	"github.com/sells-group/pagegen-cli/internal/store"
)

// Config tunes the gate.
type Config struct {
	// SimilarityThreshold in [0,1]; rendered content at least this similar
	// to a recent page is flagged. Advisory only, never a hard reject.
	SimilarityThreshold float64
	// RecentWindow is how many recent fingerprints to compare against.
	RecentWindow int
}

// DefaultConfig returns the gate defaults.
func DefaultConfig() Config {
	return Config{SimilarityThreshold: 0.9, RecentWindow: 50}
}

// Gate wraps the store's fingerprint ledger.
type Gate struct {
	cfg Config
	st  store.Store
}

// New creates a Gate.
func New(cfg Config, st store.Store) *Gate {
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = DefaultConfig().SimilarityThreshold
	}
	if cfg.RecentWindow <= 0 {
		cfg.RecentWindow = DefaultConfig().RecentWindow
	}
	return &Gate{cfg: cfg, st: st}
}

// PreCheck reports whether a page already exists for the combination. A hit
// short-circuits all generation work for the item; idempotent reruns never
// duplicate work or pages. This is advisory — the atomic ledger insert at
// persist time is what actually decides races.
func (g *Gate) PreCheck(ctx context.Context, templateID, combinationKey string) (existingPageID string, exists bool, err error) {
	pageID, ok, err := g.st.LookupFingerprint(ctx, templateID, combinationKey)
	if err != nil {
		return "", false, eris.Wrap(err, "dedupe: pre-check")
	}
	return pageID, ok, nil
}

// Persist stores the page behind the atomic check-and-insert. When force is
// set the existing page is replaced instead. Returns store.ErrDuplicatePage
// when a concurrent run won the race.
func (g *Gate) Persist(ctx context.Context, page *model.GeneratedPage, force bool) error {
	if force {
		return g.st.ReplacePage(ctx, page)
	}
	return g.st.CreatePage(ctx, page)
}

// PostCheck compares the page's content fingerprint against recently stored
// fingerprints for the same template. A collision above the threshold means
// two nominally distinct combinations rendered to near-identical text —
// sparse input data, surfaced as a WARN on the page, never a reject.
func (g *Gate) PostCheck(ctx context.Context, page *model.GeneratedPage) []string {
	recent, err := g.st.RecentFingerprints(ctx, page.TemplateID, g.cfg.RecentWindow)
	if err != nil {
		zap.L().Warn("dedupe: post-check skipped",
			zap.String("page_id", page.ID),
			zap.Error(err),
		)
		return nil
	}

	var warnings []string
	for _, fp := range recent {
		if fp.PageID == page.ID {
			continue
		}
		sim := Similarity(page.Fingerprint, fp.Fingerprint)
		if sim >= g.cfg.SimilarityThreshold {
			warnings = append(warnings,
				fmt.Sprintf("content %.0f%% similar to page %s", sim*100, fp.PageID))
			zap.L().Warn("dedupe: near-duplicate content",
				zap.String("page_id", page.ID),
				zap.String("similar_to", fp.PageID),
				zap.Float64("similarity", sim),
			)
		}
	}
	return warnings
}

// Similarity compares two 64-bit hex fingerprints by Hamming distance:
// 1.0 for identical, 0.0 when all bits differ. Malformed fingerprints
// compare as dissimilar.
func Similarity(a, b string) float64 {
	av, errA := strconv.ParseUint(a, 16, 64)
	bv, errB := strconv.ParseUint(b, 16, 64)
	if errA != nil || errB != nil {
		return 0
	}
	return 1 - float64(bits.OnesCount64(av^bv))/64
}
