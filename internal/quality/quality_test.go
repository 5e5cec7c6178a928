package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// goodPage builds a page that clears every hard check with room to spare.
func goodPage() *model.GeneratedPage {
	body := strings.Repeat("Monthly revenue averages $16,520 with $11,210 in expenses and 62% utilization. ", 20)
	return &model.GeneratedPage{
		Title:           "Open a Yoga Studio in Austin",
		MetaDescription: "What it costs and returns to open a yoga studio in Austin.",
		H1:              "Yoga Studios in Austin",
		Sections:        []model.RenderedSection{{Name: "body", Body: body}},
		DataQuality:     1.0,
	}
}

func TestAssess_Pass(t *testing.T) {
	a := New(Config{}).Assess(goodPage())

	assert.Equal(t, model.VerdictPass, a.Verdict)
	assert.Greater(t, a.Score, 0.6)
	assert.Empty(t, a.FailedCheck)
}

func TestAssess_UnresolvedPlaceholder(t *testing.T) {
	p := goodPage()
	p.Sections[0].Body += " still mentions {City} here"

	a := New(Config{}).Assess(p)

	assert.Equal(t, model.VerdictReject, a.Verdict)
	assert.Equal(t, CheckPlaceholders, a.FailedCheck)
	assert.Equal(t, 0.0, a.Score)
}

func TestAssess_BracketPlaceholder(t *testing.T) {
	p := goodPage()
	p.Title = "Open a [Category] Studio"

	a := New(Config{}).Assess(p)

	assert.Equal(t, model.VerdictReject, a.Verdict)
	assert.Equal(t, CheckPlaceholders, a.FailedCheck)
}

func TestAssess_EmptyStructuralField(t *testing.T) {
	p := goodPage()
	p.MetaDescription = "   "

	a := New(Config{}).Assess(p)

	assert.Equal(t, model.VerdictReject, a.Verdict)
	assert.Equal(t, CheckStructure, a.FailedCheck)
}

func TestAssess_TooShort(t *testing.T) {
	p := goodPage()
	p.Sections = []model.RenderedSection{{Body: "Revenue is $16,520 at 62% with $11,210 costs."}}

	a := New(Config{}).Assess(p)

	assert.Equal(t, model.VerdictReject, a.Verdict)
	assert.Equal(t, CheckWordCount, a.FailedCheck)
}

func TestAssess_TooLong(t *testing.T) {
	p := goodPage()
	p.Sections[0].Body = strings.Repeat("word $42 ", 3000)

	a := New(Config{}).Assess(p)

	assert.Equal(t, model.VerdictReject, a.Verdict)
	assert.Equal(t, CheckWordCount, a.FailedCheck)
}

func TestAssess_TooFewDataPoints(t *testing.T) {
	p := goodPage()
	p.Sections[0].Body = strings.Repeat("This copy talks at length about the market without citing one figure. ", 15)

	a := New(Config{}).Assess(p)

	assert.Equal(t, model.VerdictReject, a.Verdict)
	assert.Equal(t, CheckDataPoints, a.FailedCheck)
}

func TestAssess_WarnBand(t *testing.T) {
	p := goodPage()
	p.DataQuality = 0.4 // composite drops below pass but above warn floor

	a := New(Config{}).Assess(p)

	assert.Equal(t, model.VerdictWarn, a.Verdict)
	assert.NotEmpty(t, a.Warnings)
	assert.Less(t, a.Score, 0.6)
	assert.GreaterOrEqual(t, a.Score, 0.4)
}

func TestAssess_DataPointCounting(t *testing.T) {
	p := goodPage()
	p.Sections[0].Body = "Costs run $1,200 monthly, returns hit 15.5%, and about 320 operators compete. " +
		strings.Repeat("The market stays steady through seasonal cycles and local shifts in spending. ", 12)

	a := New(Config{}).Assess(p)

	assert.GreaterOrEqual(t, a.DataPoints, 3)
	assert.NotEqual(t, CheckDataPoints, a.FailedCheck)
}
