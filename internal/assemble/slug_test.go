package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/pagegen-cli/internal/model"
)

func TestSlug_Basic(t *testing.T) {
	assert.Equal(t, "open-yoga-studio-austin", Slug("Open a Yoga Studio in Austin", 80))
}

func TestSlug_StopWordsRemoved(t *testing.T) {
	assert.Equal(t, "best-plumbing-reno", Slug("The Best Plumbing in Reno", 80))
}

func TestSlug_Diacritics(t *testing.T) {
	assert.Equal(t, "cafe-san-jose", Slug("Café in San José", 80))
}

func TestSlug_Punctuation(t *testing.T) {
	assert.Equal(t, "yoga-vs-pilates-what-s-right-you", Slug("Yoga vs. Pilates: What's Right for You?", 80))
}

func TestSlug_TruncatesAtWordBoundary(t *testing.T) {
	slug := Slug("Incredibly Detailed Comparison Between Many Options", 20)

	assert.LessOrEqual(t, len(slug), 20)
	assert.NotEmpty(t, slug)
	// Never ends mid-word or with a dangling hyphen.
	assert.NotEqual(t, byte('-'), slug[len(slug)-1])
	assert.Equal(t, "incredibly-detailed", slug)
}

func TestSlug_Unbounded(t *testing.T) {
	assert.Equal(t, "one-two-three-four", Slug("One Two Three Four", 0))
}

func TestFingerprint_IgnoresFormatting(t *testing.T) {
	a := &model.GeneratedPage{Title: "Yoga in Austin", H1: "Yoga", Sections: []model.RenderedSection{{Body: "Great   market, strong demand."}}}
	b := &model.GeneratedPage{Title: "yoga IN austin", H1: "Yoga", Sections: []model.RenderedSection{{Body: "Great market strong demand"}}}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprint_DifferentContentDiffers(t *testing.T) {
	a := &model.GeneratedPage{Title: "Yoga in Austin", H1: "Yoga"}
	b := &model.GeneratedPage{Title: "Yoga in Reno", H1: "Yoga"}

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 16)
}
