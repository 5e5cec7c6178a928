// Package store persists generated pages and the generation fingerprint
// ledger that guarantees at-most-once page creation per
// (template, combination).
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// ErrDuplicatePage is returned by CreatePage when the fingerprint ledger
// already holds an entry for the page's (template_id, combination_key).
var ErrDuplicatePage = eris.New("store: page already generated for this combination")

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = eris.New("store: not found")

// PageFilter specifies criteria for listing pages.
type PageFilter struct {
	TemplateID string        `json:"template_id,omitempty"`
	Verdict    model.Verdict `json:"verdict,omitempty"`
	Limit      int           `json:"limit,omitempty"`
	Offset     int           `json:"offset,omitempty"`
}

// Store defines the persistence interface for the generation engine.
type Store interface {
	// CreatePage atomically inserts the ledger entry and the page in one
	// transaction. Returns ErrDuplicatePage if the combination has already
	// been generated for the template; concurrent batches cannot both win.
	CreatePage(ctx context.Context, page *model.GeneratedPage) error

	// ReplacePage deletes any existing page for the page's combination key
	// and inserts the new one, re-pointing the ledger in the same
	// transaction. Used only by explicit force-regenerate.
	ReplacePage(ctx context.Context, page *model.GeneratedPage) error

	GetPage(ctx context.Context, pageID string) (*model.GeneratedPage, error)
	ListPages(ctx context.Context, filter PageFilter) ([]model.GeneratedPage, error)
	DeletePage(ctx context.Context, pageID string) error

	// LookupFingerprint returns the page ID recorded for the combination,
	// or ok=false when the combination has never been generated.
	LookupFingerprint(ctx context.Context, templateID, combinationKey string) (pageID string, ok bool, err error)

	// RecentFingerprints returns the newest content fingerprints stored for
	// a template, for the near-duplicate post-check.
	RecentFingerprints(ctx context.Context, templateID string, limit int) ([]model.PageFingerprint, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
