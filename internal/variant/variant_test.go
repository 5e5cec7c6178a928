package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/pagegen-cli/internal/model"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		name string
		tmpl model.Template
		want model.ContentType
	}{
		{
			name: "location variable",
			tmpl: model.Template{Pattern: "{Category} Studio in {City}", Variables: []string{"Category", "City"}},
			want: model.ContentTypeServiceLocation,
		},
		{
			name: "vs keyword",
			tmpl: model.Template{Pattern: "{OptionA} vs {OptionB}", Variables: []string{"OptionA", "OptionB"}},
			want: model.ContentTypeComparison,
		},
		{
			name: "versus keyword",
			tmpl: model.Template{Pattern: "{OptionA} versus {OptionB}", Variables: []string{"OptionA", "OptionB"}},
			want: model.ContentTypeComparison,
		},
		{
			name: "comparison wins over location",
			tmpl: model.Template{Pattern: "{A} vs {B} in {City}", Variables: []string{"A", "B", "City"}},
			want: model.ContentTypeComparison,
		},
		{
			name: "neither",
			tmpl: model.Template{Pattern: "Guide to {Topic}", Variables: []string{"Topic"}},
			want: model.ContentTypeGeneric,
		},
		{
			name: "location variable case insensitive",
			tmpl: model.Template{Pattern: "{Service} near {LOCATION}", Variables: []string{"Service", "LOCATION"}},
			want: model.ContentTypeServiceLocation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(&tt.tmpl))
		})
	}
}

func TestSelect_Deterministic(t *testing.T) {
	c := model.Combination{"Category": "Yoga", "City": "Austin"}

	a := Select("tmpl-1", c, model.ContentTypeServiceLocation)
	b := Select("tmpl-1", c, model.ContentTypeServiceLocation)

	assert.Equal(t, a, b)
}

func TestSelect_MapOrderIndependent(t *testing.T) {
	a := Select("tmpl-1", model.Combination{"Category": "Yoga", "City": "Austin"}, model.ContentTypeGeneric)
	b := Select("tmpl-1", model.Combination{"City": "Austin", "Category": "Yoga"}, model.ContentTypeGeneric)

	assert.Equal(t, a, b)
}

func TestSelect_IndicesInBounds(t *testing.T) {
	combos := []model.Combination{
		{"Category": "Yoga", "City": "Austin"},
		{"Category": "Yoga", "City": "Reno"},
		{"Category": "Plumbing", "City": "Austin"},
		{"Category": "HVAC", "City": "Boise"},
	}
	for _, ct := range model.AllContentTypes() {
		cat := CatalogFor(ct)
		for _, c := range combos {
			v := Select("tmpl-1", c, ct)
			assert.Equal(t, ct, v.ContentType)
			assert.GreaterOrEqual(t, v.IntroIdx, 0)
			assert.Less(t, v.IntroIdx, len(cat.Intros))
			assert.GreaterOrEqual(t, v.BodyIdx, 0)
			assert.Less(t, v.BodyIdx, len(cat.Bodies))
			assert.GreaterOrEqual(t, v.ClosingIdx, 0)
			assert.Less(t, v.ClosingIdx, len(cat.Closings))
		}
	}
}

func TestSelect_VariesByTemplate(t *testing.T) {
	c := model.Combination{"Category": "Yoga", "City": "Austin"}

	variants := make(map[model.ContentVariant]bool)
	for _, id := range []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8"} {
		variants[Select(id, c, model.ContentTypeServiceLocation)] = true
	}

	// Different template IDs should not all collapse to one variant.
	assert.Greater(t, len(variants), 1)
}

func TestVariantSpaceSize(t *testing.T) {
	assert.Equal(t, 48, VariantSpaceSize(model.ContentTypeServiceLocation))
	assert.Equal(t, 18, VariantSpaceSize(model.ContentTypeComparison))
	assert.Equal(t, 18, VariantSpaceSize(model.ContentTypeGeneric))
	// Unknown types use the generic palette.
	assert.Equal(t, 18, VariantSpaceSize(model.ContentType("mystery")))
}
