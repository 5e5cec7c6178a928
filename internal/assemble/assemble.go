// Package assemble substitutes combination values and enriched facts into
// template and variant text, and computes the slug and content fingerprint
// for each page.
package assemble

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sells-group/pagegen-cli/internal/model"
	"github.com/sells-group/pagegen-cli/internal/variant"
)

// Config tunes the assembler.
type Config struct {
	// MaxSlugLength bounds slug size; truncation never cuts mid-word.
	MaxSlugLength int
	// MetaMaxLength bounds the derived meta description.
	MetaMaxLength int
}

// DefaultConfig returns the assembler defaults.
func DefaultConfig() Config {
	return Config{MaxSlugLength: 80, MetaMaxLength: 160}
}

// Assembler renders pages.
type Assembler struct {
	cfg Config
}

// New creates an Assembler.
func New(cfg Config) *Assembler {
	if cfg.MaxSlugLength <= 0 {
		cfg.MaxSlugLength = DefaultConfig().MaxSlugLength
	}
	if cfg.MetaMaxLength <= 0 {
		cfg.MetaMaxLength = DefaultConfig().MetaMaxLength
	}
	return &Assembler{cfg: cfg}
}

// Assemble renders a page from a template, combination, enriched context
// and selected variant. Every placeholder the engine knows about is
// substituted here; anything left over is the quality gate's business.
func (a *Assembler) Assemble(tmpl *model.Template, c model.Combination, ec *model.EnrichedContext, v model.ContentVariant) *model.GeneratedPage {
	tokens := a.tokens(tmpl, c, ec)
	cat := variant.CatalogFor(v.ContentType)

	title := substitute(tmpl.TitleTemplate, tokens)
	h1 := substitute(tmpl.H1Template, tokens)

	sections := []model.RenderedSection{
		{Name: "intro", Body: substitute(cat.Intros[v.IntroIdx], tokens)},
	}
	for _, def := range tmpl.Sections {
		sections = append(sections, model.RenderedSection{
			Name:    def.Name,
			Heading: substitute(def.Heading, tokens),
			Body:    substitute(def.Pattern, tokens),
		})
	}
	sections = append(sections,
		model.RenderedSection{Name: "body", Body: substitute(cat.Bodies[v.BodyIdx], tokens)},
		model.RenderedSection{Name: "closing", Body: substitute(cat.Closings[v.ClosingIdx], tokens)},
	)

	meta := substitute(tmpl.MetaTemplate, tokens)
	if meta == "" {
		meta = truncateWords(sections[0].Body, a.cfg.MetaMaxLength)
	}

	page := &model.GeneratedPage{
		ID:              uuid.New().String(),
		TemplateID:      tmpl.ID,
		CombinationKey:  c.Key(),
		Combination:     c.Clone(),
		Slug:            Slug(title, a.cfg.MaxSlugLength),
		Title:           title,
		MetaDescription: meta,
		H1:              h1,
		Sections:        sections,
		DataQuality:     ec.DataQuality,
		CreatedAt:       time.Now().UTC(),
	}
	page.Fingerprint = Fingerprint(page)
	return page
}

// tokens builds the substitution table: one entry per template variable plus
// the enrichment tokens the pattern catalogs use.
func (a *Assembler) tokens(tmpl *model.Template, c model.Combination, ec *model.EnrichedContext) map[string]string {
	tokens := make(map[string]string, len(c)+16)
	for name, value := range c {
		tokens[name] = value
	}

	// {values}: combination values in variable declaration order.
	vals := make([]string, 0, len(tmpl.Variables))
	for _, v := range tmpl.Variables {
		if val, ok := c[v]; ok {
			vals = append(vals, val)
		}
	}
	tokens["values"] = strings.Join(vals, ", ")

	tokens["revenue"] = formatAmount(ec.Revenue)
	tokens["expenses"] = formatAmount(ec.Expenses)
	tokens["profit"] = formatAmount(ec.Profit)
	tokens["investment"] = formatAmount(ec.Investment)
	tokens["roi"] = strings.TrimSuffix(fmt.Sprintf("%.1f", ec.ROI), ".0")
	tokens["occupancy"] = fmt.Sprintf("%.0f", ec.Occupancy)
	tokens["demand"] = fmt.Sprintf("%.0f", ec.Demand)
	tokens["competition"] = fmt.Sprintf("%.0f", ec.Competition)
	tokens["demand_label"] = ec.DemandLabel
	tokens["competition_label"] = ec.CompetitionLabel
	tokens["narrative"] = ec.Narrative
	return tokens
}

// substitute replaces every {token} occurrence present in the table.
// Unknown placeholders are left untouched for the quality gate to catch.
func substitute(text string, tokens map[string]string) string {
	if text == "" {
		return ""
	}
	pairs := make([]string, 0, len(tokens)*2)
	for name, value := range tokens {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// truncateWords cuts s to at most max bytes without splitting a word.
func truncateWords(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := strings.LastIndex(s[:max], " ")
	if cut <= 0 {
		return s[:max]
	}
	return strings.TrimRight(s[:cut], ",;:") + "…"
}

func formatAmount(v float64) string {
	// Whole dollars, thousands-separated. Baselines are round figures so
	// cents never appear in page copy.
	n := int64(v + 0.5)
	if n < 0 {
		return "-" + formatAmount(-v)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
