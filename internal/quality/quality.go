// Package quality scores assembled pages and rejects substandard ones
// before they are persisted.
package quality

import (
	"regexp"
	"strings"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// Config tunes the gate.
type Config struct {
	WordCountMin  int
	WordCountMax  int
	MinDataPoints int
	// MinScore is the PASS threshold; scores between WarnScore and MinScore
	// persist with a warning, below WarnScore they are rejected outright.
	MinScore  float64
	WarnScore float64
}

// DefaultConfig returns the gate defaults.
func DefaultConfig() Config {
	return Config{
		WordCountMin:  120,
		WordCountMax:  2500,
		MinDataPoints: 3,
		MinScore:      0.6,
		WarnScore:     0.4,
	}
}

// Check names for assessment failures.
const (
	CheckPlaceholders = "unresolved_placeholders"
	CheckWordCount    = "word_count"
	CheckDataPoints   = "data_points"
	CheckStructure    = "structural_fields"
)

// Assessment is the gate's verdict for one page.
type Assessment struct {
	Score       float64       `json:"score"`
	Verdict     model.Verdict `json:"verdict"`
	FailedCheck string        `json:"failed_check,omitempty"`
	Warnings    []string      `json:"warnings,omitempty"`
	WordCount   int           `json:"word_count"`
	DataPoints  int           `json:"data_points"`
}

// unresolvedToken matches placeholder syntax that survived substitution.
var unresolvedToken = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_ ]*\}|\[[A-Za-z_][A-Za-z0-9_ ]*\]`)

// dataPoint matches concrete figures: dollar amounts, percentages, plain
// numbers of two or more digits.
var dataPoint = regexp.MustCompile(`\$[0-9][0-9,.]*|[0-9]+(\.[0-9]+)?%|\b[0-9]{2,}\b`)

// Gate assesses assembled pages.
type Gate struct {
	cfg Config
}

// New creates a Gate.
func New(cfg Config) *Gate {
	def := DefaultConfig()
	if cfg.WordCountMin <= 0 {
		cfg.WordCountMin = def.WordCountMin
	}
	if cfg.WordCountMax <= 0 {
		cfg.WordCountMax = def.WordCountMax
	}
	if cfg.MinDataPoints <= 0 {
		cfg.MinDataPoints = def.MinDataPoints
	}
	if cfg.MinScore <= 0 {
		cfg.MinScore = def.MinScore
	}
	if cfg.WarnScore <= 0 {
		cfg.WarnScore = def.WarnScore
	}
	return &Gate{cfg: cfg}
}

// Assess scores a page. Hard failures (unresolved placeholders, empty
// structural fields, word count outside bounds, too few data points) reject
// regardless of the composite score.
func (g *Gate) Assess(p *model.GeneratedPage) Assessment {
	a := Assessment{WordCount: p.WordCount()}

	body := g.fullText(p)
	a.DataPoints = len(dataPoint.FindAllString(body, -1))

	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.MetaDescription) == "" || strings.TrimSpace(p.H1) == "" {
		return reject(a, CheckStructure)
	}
	if unresolvedToken.MatchString(body) {
		return reject(a, CheckPlaceholders)
	}
	if a.WordCount < g.cfg.WordCountMin || a.WordCount > g.cfg.WordCountMax {
		return reject(a, CheckWordCount)
	}
	if a.DataPoints < g.cfg.MinDataPoints {
		return reject(a, CheckDataPoints)
	}

	a.Score = g.score(p, a)
	switch {
	case a.Score >= g.cfg.MinScore:
		a.Verdict = model.VerdictPass
	case a.Score >= g.cfg.WarnScore:
		a.Verdict = model.VerdictWarn
		a.Warnings = append(a.Warnings, "quality score below pass threshold")
	default:
		return reject(a, "composite_score")
	}
	return a
}

func reject(a Assessment, check string) Assessment {
	a.Score = 0
	a.Verdict = model.VerdictReject
	a.FailedCheck = check
	return a
}

// score combines substance, data density and source data quality. Weights
// mirror how the checks rank in practice: thin data hurts more than short
// copy.
func (g *Gate) score(p *model.GeneratedPage, a Assessment) float64 {
	length := float64(a.WordCount-g.cfg.WordCountMin) / float64(g.cfg.WordCountMax-g.cfg.WordCountMin)
	if length > 1 {
		length = 1
	}
	// Anything past ~3x the minimum data points is not more substantive.
	density := float64(a.DataPoints) / float64(g.cfg.MinDataPoints*3)
	if density > 1 {
		density = 1
	}

	return 0.3*length + 0.3*density + 0.4*p.DataQuality
}

func (g *Gate) fullText(p *model.GeneratedPage) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteByte('\n')
	b.WriteString(p.MetaDescription)
	b.WriteByte('\n')
	b.WriteString(p.H1)
	for _, s := range p.Sections {
		b.WriteByte('\n')
		b.WriteString(s.Heading)
		b.WriteByte('\n')
		b.WriteString(s.Body)
	}
	return b.String()
}
