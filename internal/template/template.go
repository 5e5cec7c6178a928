// Package template parses page patterns into named variable slots and
// validates SEO field templates against the declared variables.
package template

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// Reason identifies why a template failed validation.
type Reason string

const (
	ReasonEmptyPattern       Reason = "empty_pattern"
	ReasonPatternTooLong     Reason = "pattern_too_long"
	ReasonUndeclaredVariable Reason = "undeclared_variable"
)

// Error is a fatal template validation error, raised at save/validate time.
type Error struct {
	Reason Reason
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("template: %s: %s", e.Reason, e.Detail)
}

// Placeholder syntaxes: {Variable} and [Variable]. Both normalize to the
// brace form internally.
var (
	bracePlaceholder   = regexp.MustCompile(`\{([A-Za-z][A-Za-z0-9_ ]*)\}`)
	bracketPlaceholder = regexp.MustCompile(`\[([A-Za-z][A-Za-z0-9_ ]*)\]`)
)

// DefaultMaxPatternLength bounds the pattern size accepted by Parse.
const DefaultMaxPatternLength = 500

// Parse extracts declared variables from a pattern, in order of first
// appearance, normalizing both placeholder syntaxes to {Variable}.
func Parse(pattern string, maxLen int) (normalized string, variables []string, err error) {
	if maxLen <= 0 {
		maxLen = DefaultMaxPatternLength
	}
	if len(pattern) > maxLen {
		return "", nil, &Error{
			Reason: ReasonPatternTooLong,
			Detail: fmt.Sprintf("pattern is %d chars, max %d", len(pattern), maxLen),
		}
	}

	normalized = Normalize(pattern)

	seen := make(map[string]bool)
	for _, m := range bracePlaceholder.FindAllStringSubmatch(normalized, -1) {
		name := strings.TrimSpace(m[1])
		if !seen[name] {
			seen[name] = true
			variables = append(variables, name)
		}
	}

	if len(variables) == 0 {
		return "", nil, &Error{
			Reason: ReasonEmptyPattern,
			Detail: "pattern declares no variables",
		}
	}
	return normalized, variables, nil
}

// Normalize rewrites [Variable] placeholders to the canonical {Variable}
// form. Text outside placeholders is untouched.
func Normalize(pattern string) string {
	return bracketPlaceholder.ReplaceAllString(pattern, "{$1}")
}

// Variables returns the variable names referenced by a single field
// template, without deduplication against any declaration.
func Variables(field string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range bracePlaceholder.FindAllStringSubmatch(Normalize(field), -1) {
		name := strings.TrimSpace(m[1])
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

// Validate checks that every SEO field template and section pattern only
// references variables declared in the template's pattern.
func Validate(tmpl *model.Template) error {
	declared := make(map[string]bool, len(tmpl.Variables))
	for _, v := range tmpl.Variables {
		declared[v] = true
	}

	fields := map[string]string{
		"title": tmpl.TitleTemplate,
		"meta":  tmpl.MetaTemplate,
		"h1":    tmpl.H1Template,
	}
	for _, s := range tmpl.Sections {
		fields["section:"+s.Name] = s.Heading + " " + s.Pattern
	}

	for name, field := range fields {
		for _, v := range Variables(field) {
			if !declared[v] {
				return &Error{
					Reason: ReasonUndeclaredVariable,
					Detail: fmt.Sprintf("field %q references undeclared variable {%s}", name, v),
				}
			}
		}
	}
	return nil
}

// New builds a validated Template from a pattern and SEO field templates.
func New(name, pattern, title, meta, h1 string, sections []model.SectionDef, maxLen int) (*model.Template, error) {
	normalized, vars, err := Parse(pattern, maxLen)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	tmpl := &model.Template{
		ID:            uuid.New().String(),
		Name:          name,
		Pattern:       normalized,
		Variables:     vars,
		TitleTemplate: Normalize(title),
		MetaTemplate:  Normalize(meta),
		H1Template:    Normalize(h1),
		Sections:      sections,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for i := range tmpl.Sections {
		tmpl.Sections[i].Heading = Normalize(tmpl.Sections[i].Heading)
		tmpl.Sections[i].Pattern = Normalize(tmpl.Sections[i].Pattern)
	}
	if tmpl.TitleTemplate == "" {
		tmpl.TitleTemplate = normalized
	}
	if tmpl.H1Template == "" {
		tmpl.H1Template = tmpl.TitleTemplate
	}

	if err := Validate(tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// templateFile is the on-disk YAML shape for a template definition.
type templateFile struct {
	Name     string             `yaml:"name"`
	Pattern  string             `yaml:"pattern"`
	Title    string             `yaml:"title"`
	Meta     string             `yaml:"meta"`
	H1       string             `yaml:"h1"`
	Sections []model.SectionDef `yaml:"sections"`
}

// LoadFile reads a template definition from a YAML file and validates it.
func LoadFile(path string, maxLen int) (*model.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "template: read %s", path)
	}

	var tf templateFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, eris.Wrapf(err, "template: parse %s", path)
	}
	if tf.Name == "" {
		tf.Name = strings.TrimSuffix(path, ".yaml")
	}
	return New(tf.Name, tf.Pattern, tf.Title, tf.Meta, tf.H1, tf.Sections, maxLen)
}
