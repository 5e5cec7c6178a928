package model

import "time"

// Verdict is the quality gate outcome for an assembled page.
type Verdict string

const (
	VerdictPass   Verdict = "pass"
	VerdictWarn   Verdict = "warn"
	VerdictReject Verdict = "reject"
)

// RenderedSection is one assembled content section of a page.
type RenderedSection struct {
	Name    string `json:"name"`
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// GeneratedPage is a fully assembled, quality-checked page. Created once per
// (template, combination); deleted only by explicit user action, never
// silently overwritten.
type GeneratedPage struct {
	ID              string            `json:"id"`
	TemplateID      string            `json:"template_id"`
	CombinationKey  string            `json:"combination_key"`
	Combination     Combination       `json:"combination"`
	Slug            string            `json:"slug"`
	Title           string            `json:"title"`
	MetaDescription string            `json:"meta_description"`
	H1              string            `json:"h1"`
	Sections        []RenderedSection `json:"sections"`
	QualityScore    float64           `json:"quality_score"`
	Verdict         Verdict           `json:"verdict"`
	DataQuality     float64           `json:"data_quality"`
	Fingerprint     string            `json:"fingerprint"`
	Warnings        []string          `json:"warnings,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// WordCount returns the total word count across title, H1 and all sections.
func (p *GeneratedPage) WordCount() int {
	n := countWords(p.Title) + countWords(p.H1)
	for _, s := range p.Sections {
		n += countWords(s.Heading) + countWords(s.Body)
	}
	return n
}

func countWords(s string) int {
	n := 0
	inWord := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			inWord = false
		case !inWord:
			inWord = true
			n++
		}
	}
	return n
}

// PageFingerprint pairs a stored page with its content fingerprint, used by
// the post-assembly near-duplicate check.
type PageFingerprint struct {
	PageID      string `json:"page_id"`
	Fingerprint string `json:"fingerprint"`
}
