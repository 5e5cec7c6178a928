package assemble

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pagegen-cli/internal/model"
	"github.com/sells-group/pagegen-cli/internal/variant"
)

func testTemplate() *model.Template {
	return &model.Template{
		ID:            "tmpl-1",
		Name:          "studios",
		Pattern:       "{Category} Studio in {City}",
		Variables:     []string{"Category", "City"},
		TitleTemplate: "Open a {Category} Studio in {City}",
		H1Template:    "{Category} Studios in {City}",
		Sections: []model.SectionDef{
			{Name: "market", Heading: "The {City} Market", Pattern: "Demand for {Category} in {City} is {demand_label}."},
		},
	}
}

func testContext() *model.EnrichedContext {
	return &model.EnrichedContext{
		Revenue: 16520, Expenses: 11210, Investment: 60000,
		Occupancy: 62, Demand: 76, Competition: 55,
		Profit: 5310, ROI: 106.2, Profitable: true,
		DemandLabel: "high", CompetitionLabel: "moderate",
		Narrative:   "The Austin yoga scene keeps growing.",
		DataQuality: 1.0,
	}
}

func TestAssemble_SubstitutesEverything(t *testing.T) {
	asm := New(Config{})
	c := model.Combination{"Category": "Yoga", "City": "Austin"}
	ec := testContext()
	v := variant.Select("tmpl-1", c, model.ContentTypeServiceLocation)

	page := asm.Assemble(testTemplate(), c, ec, v)

	assert.Equal(t, "Open a Yoga Studio in Austin", page.Title)
	assert.Equal(t, "Yoga Studios in Austin", page.H1)
	assert.Equal(t, c.Key(), page.CombinationKey)
	assert.Equal(t, "tmpl-1", page.TemplateID)
	assert.NotEmpty(t, page.ID)
	assert.NotEmpty(t, page.Slug)
	assert.Len(t, page.Fingerprint, 16)
	assert.Equal(t, 1.0, page.DataQuality)

	var all strings.Builder
	all.WriteString(page.Title + page.MetaDescription + page.H1)
	for _, s := range page.Sections {
		all.WriteString(s.Heading + s.Body)
	}
	assert.NotContains(t, all.String(), "{")
	assert.NotContains(t, all.String(), "}")
	assert.Contains(t, all.String(), "16,520")
	assert.Contains(t, all.String(), "The Austin yoga scene keeps growing.")
}

func TestAssemble_SectionOrder(t *testing.T) {
	asm := New(Config{})
	c := model.Combination{"Category": "Yoga", "City": "Austin"}
	v := variant.Select("tmpl-1", c, model.ContentTypeServiceLocation)

	page := asm.Assemble(testTemplate(), c, testContext(), v)

	require.Len(t, page.Sections, 4)
	assert.Equal(t, "intro", page.Sections[0].Name)
	assert.Equal(t, "market", page.Sections[1].Name)
	assert.Equal(t, "body", page.Sections[2].Name)
	assert.Equal(t, "closing", page.Sections[3].Name)
	assert.Equal(t, "The Austin Market", page.Sections[1].Heading)
}

func TestAssemble_MetaFallsBackToIntro(t *testing.T) {
	asm := New(Config{MetaMaxLength: 60})
	c := model.Combination{"Category": "Yoga", "City": "Austin"}
	v := variant.Select("tmpl-1", c, model.ContentTypeServiceLocation)

	page := asm.Assemble(testTemplate(), c, testContext(), v)

	assert.NotEmpty(t, page.MetaDescription)
	assert.LessOrEqual(t, len(page.MetaDescription), 64)
}

func TestAssemble_UnknownPlaceholderSurvives(t *testing.T) {
	tmpl := testTemplate()
	tmpl.Sections = append(tmpl.Sections, model.SectionDef{
		Name: "broken", Pattern: "This mentions {Nonexistent Token}.",
	})
	asm := New(Config{})
	c := model.Combination{"Category": "Yoga", "City": "Austin"}
	v := variant.Select("tmpl-1", c, model.ContentTypeServiceLocation)

	page := asm.Assemble(tmpl, c, testContext(), v)

	assert.Contains(t, page.Sections[2].Body, "{Nonexistent Token}")
}

func TestAssemble_DeterministicText(t *testing.T) {
	asm := New(Config{})
	c := model.Combination{"Category": "Yoga", "City": "Austin"}
	v := variant.Select("tmpl-1", c, model.ContentTypeServiceLocation)

	a := asm.Assemble(testTemplate(), c, testContext(), v)
	b := asm.Assemble(testTemplate(), c, testContext(), v)

	assert.Equal(t, a.Title, b.Title)
	assert.Equal(t, a.Sections, b.Sections)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", formatAmount(0))
	assert.Equal(t, "950", formatAmount(950))
	assert.Equal(t, "1,000", formatAmount(1000))
	assert.Equal(t, "16,520", formatAmount(16520))
	assert.Equal(t, "1,234,568", formatAmount(1234567.6))
	assert.Equal(t, "-5,000", formatAmount(-5000))
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "short", truncateWords("short", 60))
	out := truncateWords("one two three four five six", 13)
	assert.Equal(t, "one two…", out)
}
