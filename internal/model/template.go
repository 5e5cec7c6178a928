package model

import "time"

// ContentType classifies a template into one of the bounded pattern palettes.
type ContentType string

const (
	ContentTypeServiceLocation ContentType = "service_location"
	ContentTypeComparison      ContentType = "comparison"
	ContentTypeGeneric         ContentType = "generic"
)

// AllContentTypes returns all defined content types.
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypeServiceLocation,
		ContentTypeComparison,
		ContentTypeGeneric,
	}
}

// SectionDef defines one content section of a template.
type SectionDef struct {
	Name    string `json:"name" yaml:"name"`
	Heading string `json:"heading" yaml:"heading"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// Template is a reusable page pattern with named variable placeholders and
// SEO field templates. Immutable once pages reference it except for additive
// edits; edits never retroactively alter existing pages.
type Template struct {
	ID            string       `json:"id" yaml:"id"`
	Name          string       `json:"name" yaml:"name"`
	Pattern       string       `json:"pattern" yaml:"pattern"`
	Variables     []string     `json:"variables" yaml:"variables"`
	TitleTemplate string       `json:"title_template" yaml:"title_template"`
	MetaTemplate  string       `json:"meta_template" yaml:"meta_template"`
	H1Template    string       `json:"h1_template" yaml:"h1_template"`
	Sections      []SectionDef `json:"sections,omitempty" yaml:"sections,omitempty"`
	CreatedAt     time.Time    `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt     time.Time    `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// VariableSet maps each variable name to its ordered list of candidate
// values. Supplied by import or an external suggestion step; the engine
// never invents values.
type VariableSet struct {
	Values map[string][]string `json:"values" yaml:"values"`
}

// BusinessContext is read-only business metadata used as a fallback source
// when reference-data lookups miss.
type BusinessContext struct {
	Name           string `json:"name" yaml:"name" mapstructure:"name"`
	Description    string `json:"description" yaml:"description" mapstructure:"description"`
	Industry       string `json:"industry" yaml:"industry" mapstructure:"industry"`
	TargetAudience string `json:"target_audience" yaml:"target_audience" mapstructure:"target_audience"`
}
