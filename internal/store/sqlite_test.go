package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pagegen-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testPage(templateID, combinationKey string) *model.GeneratedPage {
	return &model.GeneratedPage{
		ID:              uuid.New().String(),
		TemplateID:      templateID,
		CombinationKey:  combinationKey,
		Combination:     model.Combination{"Category": "Yoga", "City": "Austin"},
		Slug:            "open-yoga-studio-austin",
		Title:           "Open a Yoga Studio in Austin",
		MetaDescription: "Costs and returns for a yoga studio in Austin.",
		H1:              "Yoga Studios in Austin",
		Sections: []model.RenderedSection{
			{Name: "intro", Body: "Demand is high."},
			{Name: "body", Body: "Revenue averages $16,520."},
		},
		QualityScore: 0.72,
		Verdict:      model.VerdictPass,
		DataQuality:  1.0,
		Fingerprint:  "00000000deadbeef",
		Warnings:     []string{"quality score below pass threshold"},
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestSQLite_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	page := testPage("tmpl-1", "key-1")

	require.NoError(t, s.CreatePage(ctx, page))

	got, err := s.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, page.Title, got.Title)
	assert.Equal(t, page.Combination, got.Combination)
	assert.Equal(t, page.Sections, got.Sections)
	assert.Equal(t, page.Verdict, got.Verdict)
	assert.Equal(t, page.Warnings, got.Warnings)
	assert.InDelta(t, page.QualityScore, got.QualityScore, 0.0001)
}

func TestSQLite_CreateDuplicateRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePage(ctx, testPage("tmpl-1", "key-1")))

	err := s.CreatePage(ctx, testPage("tmpl-1", "key-1"))
	assert.ErrorIs(t, err, ErrDuplicatePage)

	// The losing page row must not survive the rolled-back transaction.
	pages, err := s.ListPages(ctx, PageFilter{TemplateID: "tmpl-1"})
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestSQLite_SameKeyDifferentTemplateAllowed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePage(ctx, testPage("tmpl-1", "key-1")))
	require.NoError(t, s.CreatePage(ctx, testPage("tmpl-2", "key-1")))
}

func TestSQLite_ReplacePage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := testPage("tmpl-1", "key-1")
	require.NoError(t, s.CreatePage(ctx, old))

	replacement := testPage("tmpl-1", "key-1")
	replacement.Title = "Regenerated Title"
	require.NoError(t, s.ReplacePage(ctx, replacement))

	_, err := s.GetPage(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	pageID, ok, err := s.LookupFingerprint(ctx, "tmpl-1", "key-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, replacement.ID, pageID)
}

func TestSQLite_ReplaceWithoutExisting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page := testPage("tmpl-1", "key-1")
	require.NoError(t, s.ReplacePage(ctx, page))

	_, ok, err := s.LookupFingerprint(ctx, "tmpl-1", "key-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSQLite_LookupFingerprintMiss(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.LookupFingerprint(context.Background(), "tmpl-1", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLite_ListPagesFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	pass := testPage("tmpl-1", "key-1")
	warn := testPage("tmpl-1", "key-2")
	warn.Verdict = model.VerdictWarn
	other := testPage("tmpl-2", "key-3")
	require.NoError(t, s.CreatePage(ctx, pass))
	require.NoError(t, s.CreatePage(ctx, warn))
	require.NoError(t, s.CreatePage(ctx, other))

	pages, err := s.ListPages(ctx, PageFilter{TemplateID: "tmpl-1"})
	require.NoError(t, err)
	assert.Len(t, pages, 2)

	pages, err = s.ListPages(ctx, PageFilter{TemplateID: "tmpl-1", Verdict: model.VerdictWarn})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, warn.ID, pages[0].ID)

	pages, err = s.ListPages(ctx, PageFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestSQLite_DeletePage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	page := testPage("tmpl-1", "key-1")
	require.NoError(t, s.CreatePage(ctx, page))
	require.NoError(t, s.DeletePage(ctx, page.ID))

	_, err := s.GetPage(ctx, page.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// The ledger entry goes too, so the combination can be regenerated.
	_, ok, err := s.LookupFingerprint(ctx, "tmpl-1", "key-1")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, s.DeletePage(ctx, page.ID), ErrNotFound)
}

func TestSQLite_RecentFingerprints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, key := range []string{"key-1", "key-2", "key-3"} {
		p := testPage("tmpl-1", key)
		p.Fingerprint = key
		p.CreatedAt = time.Now().UTC().Add(time.Duration(i) * time.Second)
		require.NoError(t, s.CreatePage(ctx, p))
	}

	fps, err := s.RecentFingerprints(ctx, "tmpl-1", 2)
	require.NoError(t, err)
	require.Len(t, fps, 2)
	assert.Equal(t, "key-3", fps[0].Fingerprint)
	assert.Equal(t, "key-2", fps[1].Fingerprint)
}
